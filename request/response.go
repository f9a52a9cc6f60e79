// Copyright 2021 The urlload Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"mime"
	"net/http"
)

// UnknownLength is the ContentLength sentinel indicating the length of
// the response content is not known in advance.
const UnknownLength int64 = -1

// A Response describes an incoming response: the final URL, the
// content metadata, and the HTTP status. A load produces exactly one
// terminal Response (carried by DidReceiveResponse or DidFail);
// redirects additionally produce lightweight will-send views carrying
// the redirect target URL.
//
// A Response is constructed once and then handed to the dispatcher by
// ownership transfer. It must not be modified after construction.
type Response struct {
	// URL is the URL the response was ultimately served from. It may
	// differ from the request URL after redirects; on a will-send view
	// it is the redirect target.
	URL string

	// MIMEType is the media type of the content, without parameters,
	// for example "text/html". Empty if unknown.
	MIMEType string

	// Charset is the character set parameter of the content type, for
	// example "utf-8". Empty if unknown.
	Charset string

	// ContentLength is the length of the content in bytes, or
	// UnknownLength if the length is not known in advance.
	ContentLength int64

	// StatusCode is the HTTP status code, or zero if no status was
	// ever produced (for example a connection failure).
	StatusCode int

	// Header optionally carries the response header fields. Nil for
	// synthesized responses.
	Header http.Header

	// Err carries the transport error on a failure Response delivered
	// via DidFail. Nil on successful responses.
	Err error
}

// NewResponse returns a Response with the given fields and no header.
func NewResponse(url, mimeType string, length int64, charset string, status int) *Response {
	return &Response{
		URL:           url,
		MIMEType:      mimeType,
		Charset:       charset,
		ContentLength: length,
		StatusCode:    status,
	}
}

// ResponseFromHTTP builds a Response from a lower-level HTTP response.
// The URL is taken from the response's request (the final URL after
// any redirects the transport followed), and the MIME type and charset
// are split out of the Content-Type header.
func ResponseFromHTTP(hr *http.Response) *Response {
	r := &Response{
		StatusCode:    hr.StatusCode,
		ContentLength: hr.ContentLength,
		Header:        hr.Header,
	}
	if r.ContentLength < 0 {
		r.ContentLength = UnknownLength
	}
	if hr.Request != nil && hr.Request.URL != nil {
		r.URL = hr.Request.URL.String()
	}
	if ct := hr.Header.Get("Content-Type"); ct != "" {
		if mt, params, err := mime.ParseMediaType(ct); err == nil {
			r.MIMEType = mt
			r.Charset = params["charset"]
		}
	}
	return r
}

// WithURL returns a shallow copy of the response with its URL replaced.
// Redirect handling uses it to build will-send views without touching
// the original.
func (r *Response) WithURL(url string) *Response {
	r2 := new(Response)
	*r2 = *r
	r2.URL = url
	return r2
}

// An AuthChallenge describes a server's demand for credentials on a
// network load. The consumer answers it by calling SetAuth or
// CancelAuth on the controller.
type AuthChallenge struct {
	// Scheme is the authentication scheme, for example "Basic".
	Scheme string

	// Realm is the protection space named by the server, if any.
	Realm string

	// Host is the host that issued the challenge.
	Host string

	// IsProxy indicates the challenge came from a proxy rather than
	// the origin server.
	IsProxy bool
}
