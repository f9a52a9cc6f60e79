// Copyright 2021 The urlload Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package urlload

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	urlpkg "net/url"
	"strings"

	"github.com/gogama/urlload/request"
)

// netBackend adapts an HTTPDoer transport to the Backend interface.
// It holds no state-machine logic: every transport event (redirect,
// auth challenge, response, read completion) is funneled onto the
// controller's loop as a Delegate callback, and the controller decides
// what happens next.
//
// The transport call and body reads run on their own goroutines; all
// netBackend fields are only touched on the loop, either by Backend
// method calls or by completion tasks the goroutines post.
type netBackend struct {
	desc     *request.Descriptor
	doer     HTTPDoer
	delegate Delegate
	loop     *Loop

	upload    []byte
	status    Status
	resp      *request.Response
	body      io.ReadCloser
	held      *http.Response
	eof       bool
	cancelled bool
	cancelCtx context.CancelFunc
}

func newNetBackend(desc *request.Descriptor, doer HTTPDoer, delegate Delegate, loop *Loop) *netBackend {
	return &netBackend{
		desc:     desc,
		doer:     doer,
		delegate: delegate,
		loop:     loop,
		status:   successStatus,
	}
}

func (b *netBackend) Start() {
	b.send("")
}

// send issues the request on its own goroutine. authorization, when
// non-empty, is an Authorization header value from a SetAuth re-issue.
func (b *netBackend) send(authorization string) {
	ctx, cancel := context.WithCancel(context.Background())
	b.cancelCtx = cancel
	req := b.desc.ToRequest(ctx, b.upload)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	client := b.redirectClient()
	go func() {
		resp, err := client.Do(req)
		// A transport that ignores or is slow to observe context
		// cancellation can return after the consumer has closed the
		// loop. Such a completion is dropped, not posted.
		if !b.loop.TryPost(func() { b.onSendComplete(resp, err) }) && resp != nil {
			resp.Body.Close()
		}
	}()
}

// redirectClient returns the transport to use for one send. When the
// configured HTTPDoer is an *http.Client, a shallow copy is taken and
// its redirect hook replaced so each redirect is reported to the
// delegate before being followed; the original client's redirect
// policy still decides whether to follow. Any other HTTPDoer is used
// as is, and its redirects are invisible to the delegate.
func (b *netBackend) redirectClient() HTTPDoer {
	hc, ok := b.doer.(*http.Client)
	if !ok {
		return b.doer
	}
	prev := hc.CheckRedirect
	c2 := *hc
	c2.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		var view *request.Response
		if req.Response != nil {
			view = request.ResponseFromHTTP(req.Response)
		}
		newURL := req.URL.String()
		b.loop.TryPost(func() { b.onRedirect(view, newURL) })
		if prev != nil {
			return prev(req, via)
		}
		return nil
	}
	return &c2
}

func (b *netBackend) onRedirect(view *request.Response, newURL string) {
	if b.cancelled {
		return
	}
	if view != nil {
		b.resp = view
	}
	b.status = successStatus
	deferRedirect := true
	b.delegate.OnReceivedRedirect(newURL, &deferRedirect)
}

func (b *netBackend) onSendComplete(resp *http.Response, err error) {
	if b.cancelled {
		if resp != nil {
			resp.Body.Close()
		}
		return
	}
	if err != nil {
		b.status = ErrorStatus(urlErrorWrap(b.desc, err))
		b.delegate.OnResponseStarted()
		return
	}
	if ch := authChallengeFrom(resp); ch != nil {
		b.held = resp
		b.status = successStatus
		b.delegate.OnAuthRequired(ch)
		return
	}
	b.adopt(resp)
}

// adopt installs resp as the load's terminal response and announces it
// to the delegate.
func (b *netBackend) adopt(resp *http.Response) {
	b.resp = request.ResponseFromHTTP(resp)
	b.body = resp.Body
	b.status = successStatus
	b.delegate.OnResponseStarted()
}

func (b *netBackend) Cancel() {
	b.cancelled = true
	if b.cancelCtx != nil {
		b.cancelCtx()
	}
	b.closeBody()
	if b.held != nil {
		b.held.Body.Close()
		b.held = nil
	}
}

func (b *netBackend) Read(p []byte) (bool, int) {
	if b.eof {
		b.status = successStatus
		return true, 0
	}
	if b.status.Failed() {
		return false, 0
	}
	if b.body == nil {
		b.status = ErrorStatus(errors.New("urlload: read with no response body"))
		return false, 0
	}

	b.status = pendingStatus
	body := b.body
	go func() {
		var n int
		var err error
		for {
			n, err = body.Read(p)
			if n > 0 || err != nil {
				break
			}
		}
		b.loop.TryPost(func() { b.onReadDone(n, err) })
	}()
	return false, 0
}

func (b *netBackend) onReadDone(n int, err error) {
	if b.cancelled {
		return
	}
	if err != nil && err != io.EOF {
		b.status = ErrorStatus(err)
		b.closeBody()
		b.delegate.OnReadCompleted(0)
		return
	}
	if err == io.EOF {
		b.eof = true
		b.closeBody()
	}
	b.status = successStatus
	b.delegate.OnReadCompleted(n)
}

// SetAuth answers a held auth challenge by re-issuing the request with
// Basic credentials, restarting the callback sequence. With no held
// challenge it does nothing.
func (b *netBackend) SetAuth(username, password string) {
	if b.held == nil {
		return
	}
	held := b.held
	b.held = nil
	held.Body.Close()
	b.send("Basic " + basicAuth(username, password))
}

// CancelAuth declines a held auth challenge; the challenge response
// becomes the terminal response, so the consumer can render the error
// page the server sent.
func (b *netBackend) CancelAuth() {
	if b.held == nil {
		return
	}
	held := b.held
	b.held = nil
	b.adopt(held)
}

func (b *netBackend) AppendUploadBytes(chunk []byte) {
	b.upload = append(b.upload, chunk...)
}

func (b *netBackend) Status() Status {
	return b.status
}

func (b *netBackend) Response() *request.Response {
	return b.resp
}

func (b *netBackend) closeBody() {
	if b.body != nil {
		b.body.Close()
		b.body = nil
	}
}

// authChallengeFrom extracts an auth challenge from a 401 or 407
// response carrying the corresponding authenticate header. Any other
// response yields nil.
func authChallengeFrom(resp *http.Response) *request.AuthChallenge {
	var value string
	proxy := false
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		value = resp.Header.Get("WWW-Authenticate")
	case http.StatusProxyAuthRequired:
		value = resp.Header.Get("Proxy-Authenticate")
		proxy = true
	default:
		return nil
	}
	if value == "" {
		return nil
	}

	scheme, params := value, ""
	if i := strings.IndexByte(value, ' '); i >= 0 {
		scheme, params = value[:i], value[i+1:]
	}
	ch := &request.AuthChallenge{
		Scheme:  scheme,
		Realm:   authRealm(params),
		IsProxy: proxy,
	}
	if resp.Request != nil && resp.Request.URL != nil {
		ch.Host = resp.Request.URL.Host
	}
	return ch
}

func authRealm(params string) string {
	const key = `realm="`
	i := strings.Index(strings.ToLower(params), key)
	if i < 0 {
		return ""
	}
	rest := params[i+len(key):]
	j := strings.IndexByte(rest, '"')
	if j < 0 {
		return ""
	}
	return rest[:j]
}

func urlErrorWrap(d *request.Descriptor, err error) error {
	if _, ok := err.(*urlpkg.Error); ok {
		return err
	}

	return &urlpkg.Error{
		Op:  urlErrorOp(d.Method),
		URL: d.URL.String(),
		Err: err,
	}
}

// urlErrorOp is lifted verbatim from net/http/client.go
func urlErrorOp(method string) string {
	if method == "" {
		return "Get"
	}
	return method[:1] + strings.ToLower(method[1:])
}

// basicAuth is lifted verbatim from net/http/client.go.
//
// See 2 (end of page 4) https://www.ietf.org/rfc/rfc2617.txt
// "To receive authorization, the client sends the userid and password,
// separated by a single colon (":") character, within a base64
// encoded string in the credentials."
// It is not meant to be urlencoded.
func basicAuth(username, password string) string {
	auth := username + ":" + password
	return base64.StdEncoding.EncodeToString([]byte(auth))
}
