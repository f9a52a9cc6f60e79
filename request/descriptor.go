// Copyright 2021 The urlload Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	urlpkg "net/url"
	"strings"
)

var (
	template, _ = http.NewRequest("GET", "", nil)
)

// A Descriptor describes the outgoing request for a single resource
// load.
//
// Construct a Descriptor with NewDescriptor, set any optional fields,
// and hand it to a controller. From that point on the descriptor must
// be treated as immutable; the controller is its only reader and
// assumes the fields never change.
type Descriptor struct {
	// Method specifies the HTTP method (GET, POST, PUT, etc.). It is
	// never empty; NewDescriptor substitutes GET for an empty method.
	Method string

	// URL specifies the resource to load. The scheme selects the
	// content path: "data" and "browser" URLs are synthesized locally,
	// everything else goes to the network transport.
	URL *urlpkg.URL

	// Header contains the request header fields to be sent with a
	// network load. Non-network loads ignore it.
	Header http.Header

	// UserAgent optionally sets the User-Agent header on network
	// loads. An empty string leaves the transport default in place.
	UserAgent string

	// Referrer optionally sets the Referer header on network loads.
	Referrer string
}

// NewDescriptor returns a new Descriptor given a method and URL.
//
// An empty method means GET. The method must satisfy the RFC 7230
// token grammar; the URL must parse.
func NewDescriptor(method, url string) (*Descriptor, error) {
	if method == "" {
		method = "GET"
	}
	if !validMethod(method) {
		return nil, fmt.Errorf("urlload/request: invalid method %q", method)
	}
	u, err := urlpkg.Parse(url)
	if err != nil {
		return nil, err
	}
	u.Host = removeEmptyPort(u.Host)
	return &Descriptor{
		Method: method,
		URL:    u,
		Header: make(http.Header),
	}, nil
}

// ToRequest creates the lower-level HTTP request corresponding to the
// descriptor, carrying body as the request body if non-empty. The
// request's context is set to ctx, which may not be nil.
//
// The descriptor's header is cloned, so the returned request may be
// modified without affecting the descriptor.
func (d *Descriptor) ToRequest(ctx context.Context, body []byte) *http.Request {
	r := template.WithContext(ctx)
	r.Method = d.Method
	r.URL = d.URL
	r.Host = d.URL.Host
	h := make(http.Header, len(d.Header)+2)
	for k, v := range d.Header {
		h[k] = v
	}
	if d.UserAgent != "" {
		h.Set("User-Agent", d.UserAgent)
	}
	if d.Referrer != "" {
		h.Set("Referer", d.Referrer)
	}
	r.Header = h
	if len(body) > 0 {
		r.Body = io.NopCloser(bytes.NewReader(body))
		r.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
		r.ContentLength = int64(len(body))
	}
	return r
}

func validMethod(method string) bool {
	/*
	     Method         = "OPTIONS"                ; Section 9.2
	                    | "GET"                    ; Section 9.3
	                    | "HEAD"                   ; Section 9.4
	                    | "POST"                   ; Section 9.5
	                    | "PUT"                    ; Section 9.6
	                    | "DELETE"                 ; Section 9.7
	                    | "TRACE"                  ; Section 9.8
	                    | "CONNECT"                ; Section 9.9
	                    | extension-method
	   extension-method = token
	     token          = 1*<any CHAR except CTLs or separators>

	   We don't need to check for length more than 1 because we always
	   interpret the empty string as "GET".
	*/
	return strings.IndexFunc(method, isNotToken) == -1
}

func isNotToken(r rune) bool {
	return !isTokenRune(r)
}

// isTokenRune is lifted verbatim from x/net/http/httpguts/httplex.go
// (but converted to non-exported). It classifies a rune as being valid
// for a token as defined in https://tools.ietf.org/html/rfc7230#section-3.2.6
func isTokenRune(r rune) bool {
	i := int(r)
	return i < len(isTokenTable) && isTokenTable[i]
}

var isTokenTable = [127]bool{
	'!':  true,
	'#':  true,
	'$':  true,
	'%':  true,
	'&':  true,
	'\'': true,
	'*':  true,
	'+':  true,
	'-':  true,
	'.':  true,
	'0':  true,
	'1':  true,
	'2':  true,
	'3':  true,
	'4':  true,
	'5':  true,
	'6':  true,
	'7':  true,
	'8':  true,
	'9':  true,
	'A':  true,
	'B':  true,
	'C':  true,
	'D':  true,
	'E':  true,
	'F':  true,
	'G':  true,
	'H':  true,
	'I':  true,
	'J':  true,
	'K':  true,
	'L':  true,
	'M':  true,
	'N':  true,
	'O':  true,
	'P':  true,
	'Q':  true,
	'R':  true,
	'S':  true,
	'T':  true,
	'U':  true,
	'W':  true,
	'V':  true,
	'X':  true,
	'Y':  true,
	'Z':  true,
	'^':  true,
	'_':  true,
	'`':  true,
	'a':  true,
	'b':  true,
	'c':  true,
	'd':  true,
	'e':  true,
	'f':  true,
	'g':  true,
	'h':  true,
	'i':  true,
	'j':  true,
	'k':  true,
	'l':  true,
	'm':  true,
	'n':  true,
	'o':  true,
	'p':  true,
	'q':  true,
	'r':  true,
	's':  true,
	't':  true,
	'u':  true,
	'v':  true,
	'w':  true,
	'x':  true,
	'y':  true,
	'z':  true,
	'|':  true,
	'~':  true,
}

// hasPort is lifted verbatim from net/http/http.go
//
// Given a string of the form "host", "host:port", or "[ipv6::address]:port",
// return true if the string includes a port.
func hasPort(s string) bool { return strings.LastIndex(s, ":") > strings.LastIndex(s, "]") }

// removeEmptyPort is lifted verbatim from net/http/http.go
//
// removeEmptyPort strips the empty port in ":port" to ""
// as mandated by RFC 3986 Section 6.2.3.
func removeEmptyPort(host string) string {
	if hasPort(host) {
		return strings.TrimSuffix(host, ":")
	}
	return host
}
