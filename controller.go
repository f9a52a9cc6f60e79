// Copyright 2021 The urlload Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package urlload

import (
	"log/slog"
	"net/http"

	"github.com/gogama/urlload/request"
)

// initialReadSize is the default size of the read buffer issued to the
// backend, and of the pull buffer used for embedded streams.
const initialReadSize = 32768

// A source is the content-acquisition path of a load. It is resolved
// exactly once, when Start is called.
type source int

const (
	sourceNetwork source = iota
	sourceStream
	sourceData
	sourceInternal
)

// An HTTPDoer implements a Do method in the same manner as the GoLang
// standard library http.Client from the net/http package.
//
// Redirect reporting requires the HTTPDoer to be an *http.Client; any
// other implementation still works, but its redirects (if it follows
// any) are invisible to the controller, so the consumer sees no
// WillSendRequest messages.
type HTTPDoer interface {
	// Do sends an HTTP request and returns an HTTP response following
	// policy (such as redirects, cookies, auth) configured on the
	// HTTPDoer.
	//
	// The Do method must follow the contract documented on the GoLang
	// standard library http.Client from the net/http package.
	Do(r *http.Request) (*http.Response, error)
}

// A Controller owns a single resource load: its state machine, its one
// outstanding read buffer, and its terminal finish protocol. It is
// created in the Created state, driven to Finished exactly once (by
// natural completion, failure, or cancellation), and then released.
//
// The optional exported fields may be set after construction but
// before Start; they must not be touched afterward. All methods,
// including the Delegate callbacks, must be invoked on the
// controller's loop. In particular a consumer wanting to cancel must
// post the Cancel call onto the loop rather than calling it directly.
type Controller struct {
	// Doer specifies the network transport. If nil, http.DefaultClient
	// is used.
	Doer HTTPDoer

	// PrivateDoer specifies the network transport for private loads
	// (Start called with private == true), keeping their connection
	// and cookie state apart from regular loads. If nil, private loads
	// fall back to Doer.
	PrivateDoer HTTPDoer

	// Assets resolves content for internal synthetic pages. If nil,
	// internal pages render empty.
	Assets AssetBridge

	// ParseDataURL overrides the literal-data decoder. If nil, the
	// default decoder is used.
	ParseDataURL DataURLParser

	// Backend overrides the network backend. It is mainly useful for
	// testing the state machine without a live transport.
	Backend Backend

	// Logger, if non-nil, receives debug-level records for the benign
	// oddities a load can hit: callbacks arriving after cancellation,
	// redirects with no usable backend state. A nil Logger means
	// silence.
	Logger *slog.Logger

	// ReadSize is the size of each read buffer. Zero means the default
	// of 32768 bytes.
	ReadSize int

	loop         *Loop
	dispatcher   Dispatcher
	desc         *request.Descriptor
	url          string
	state        LoadState
	backend      Backend
	buf          []byte
	upload       [][]byte
	streamPath   bool
	streamHandle StreamHandle
	streamBridge StreamBridge
}

// New returns a controller for desc, reporting to d on loop. The
// controller is in the Created state; nothing happens until Start is
// posted onto the loop.
func New(desc *request.Descriptor, d Dispatcher, loop *Loop) *Controller {
	if desc == nil || desc.URL == nil {
		faultf("nil descriptor")
	}
	if d == nil {
		faultf("nil dispatcher")
	}
	if loop == nil {
		faultf("nil loop")
	}
	return &Controller{
		loop:       loop,
		dispatcher: d,
		desc:       desc,
		url:        desc.URL.String(),
		state:      Created,
	}
}

// NewStream returns a controller that loads desc from an embedded byte
// stream instead of any network or literal source. The handle is an
// opaque capability understood by bridge; a nil handle makes the load
// fail immediately when started. The handle is released through the
// bridge when the controller is released.
func NewStream(desc *request.Descriptor, d Dispatcher, loop *Loop, handle StreamHandle, bridge StreamBridge) *Controller {
	c := New(desc, d, loop)
	c.streamPath = true
	c.streamHandle = handle
	c.streamBridge = bridge
	return c
}

// State returns the controller's current load state.
func (c *Controller) State() LoadState {
	return c.state
}

// URL returns the request URL the controller was created with.
func (c *Controller) URL() string {
	return c.url
}

// Start begins the load on one of four paths chosen by the
// descriptor: the embedded stream (for controllers built with
// NewStream), the literal-data decoder ("data" scheme), the internal
// synthetic page ("browser" scheme), or the network transport
// (everything else). The private flag selects PrivateDoer over Doer
// for network loads.
//
// Start requires the Created state and panics otherwise; no path is
// idempotent, so a second Start is never safe.
func (c *Controller) Start(private bool) {
	if c.state != Created {
		faultf("Start on a controller not in Created state (%v): %s", c.state, c.url)
	}

	c.state = Started

	switch c.resolveSource() {
	case sourceStream:
		c.handleStream()
	case sourceData:
		c.handleDataURL(c.url)
	case sourceInternal:
		c.handleInternalURL()
	default:
		c.startNetwork(private)
	}
}

func (c *Controller) resolveSource() source {
	if c.streamPath {
		return sourceStream
	}
	switch c.desc.URL.Scheme {
	case "data":
		return sourceData
	case "browser":
		return sourceInternal
	}
	return sourceNetwork
}

func (c *Controller) startNetwork(private bool) {
	b := c.Backend
	if b == nil {
		b = newNetBackend(c.desc, c.transport(private), c, c.loop)
	}
	c.backend = b
	for _, chunk := range c.upload {
		b.AppendUploadBytes(chunk)
	}
	c.upload = nil
	b.Start()
}

func (c *Controller) transport(private bool) HTTPDoer {
	if private && c.PrivateDoer != nil {
		return c.PrivateDoer
	}
	if c.Doer != nil {
		return c.Doer
	}
	return http.DefaultClient
}

// AppendUploadBytes appends a chunk to the request body of a network
// load. It is only legal before Start; calling it afterward is a
// contract violation and panics.
func (c *Controller) AppendUploadBytes(chunk []byte) {
	if c.state != Created {
		faultf("AppendUploadBytes on a controller not in Created state (%v): %s", c.state, c.url)
	}
	if len(chunk) == 0 {
		return
	}
	c.upload = append(c.upload, chunk)
}

// AppendUploadBody converts body with request.UploadBytes and appends
// the result to the request body of a network load. body may be nil, a
// string, a []byte, an io.Reader, or an io.ReadCloser; any other type
// is an error and appends nothing. Like AppendUploadBytes it is only
// legal before Start.
func (c *Controller) AppendUploadBody(body interface{}) error {
	b, err := request.UploadBytes(body)
	if err != nil {
		return err
	}
	c.AppendUploadBytes(b)
	return nil
}

// Cancel aborts an in-flight load. The load finishes immediately and
// is reported to the consumer as a successful, truncated completion,
// not a failure.
//
// Cancelling a load that has already finished is a no-op: the race
// between the backend finishing a load and the consumer cancelling it
// is expected and benign. Cancelling a load that was never started
// panics.
func (c *Controller) Cancel() {
	if c.state < Started {
		faultf("Cancel on an unstarted controller: %s", c.url)
	}
	if c.state == Cancelled {
		faultf("Cancel on an already cancelled controller: %s", c.url)
	}
	if c.state > Cancelled {
		return
	}

	c.state = Cancelled

	if c.backend != nil {
		c.backend.Cancel()
	}
	c.finish(true)
}

// SetAuth forwards credentials for a pending auth challenge to the
// backend. Requires the Started state.
func (c *Controller) SetAuth(username, password string) {
	if c.state != Started {
		faultf("SetAuth on a controller not in Started state (%v): %s", c.state, c.url)
	}

	c.backend.SetAuth(username, password)
}

// CancelAuth declines a pending auth challenge. Requires the Started
// state.
func (c *Controller) CancelAuth() {
	if c.state != Started {
		faultf("CancelAuth on a controller not in Started state (%v): %s", c.state, c.url)
	}

	c.backend.CancelAuth()
}

// Release retires a finished controller, moving it to Deleted and
// releasing the embedded-stream handle if one was attached. Releasing
// a controller in any state other than Finished is a contract
// violation and panics.
func (c *Controller) Release() {
	if c.state != Finished {
		faultf("Release on a controller not in Finished state (%v): %s", c.state, c.url)
	}

	c.state = Deleted
	if c.streamBridge != nil && c.streamHandle != nil {
		c.streamBridge.Release(c.streamHandle)
		c.streamHandle = nil
	}
}

// finish moves the controller to Finished and sends the single
// terminal message: DidFinishLoading on success, DidFail (with a
// failure response built from current backend state) otherwise. It
// then releases the backend, buffer, and dispatcher references,
// breaking any cycle between controller and backend. finish runs
// exactly once per controller lifetime; a second call panics.
func (c *Controller) finish(success bool) {
	if c.state >= Finished {
		faultf("finish on an already finished controller (%v): %s", c.state, c.url)
	}

	c.state = Finished
	if success {
		c.dispatcher.DidFinishLoading()
	} else {
		c.dispatcher.DidFail(c.failureResponse())
	}
	c.buf = nil
	c.backend = nil
	c.dispatcher = nil
}

// failureResponse builds the DidFail payload from whatever state
// exists: the backend's response metadata and error if a response was
// seen, otherwise an empty descriptor for the request URL.
func (c *Controller) failureResponse() *request.Response {
	// Length zero, not UnknownLength: no content was ever received.
	if c.backend == nil {
		return request.NewResponse(c.url, "", 0, "", 0)
	}
	st := c.backend.Status()
	if r := c.backend.Response(); r != nil {
		r2 := *r
		r2.Err = st.Err()
		return &r2
	}
	r := request.NewResponse(c.url, "", 0, "", 0)
	r.Err = st.Err()
	return r
}

// OnReceivedRedirect implements Delegate. It is called by the backend
// upon a server-initiated redirect, before the terminal response; the
// backend's current response metadata describes the redirect response
// and newURL is the redirect target. A will-send view carrying newURL
// is dispatched, and the defer flag is always cleared: the controller
// never defers a redirect. No state transition occurs, so multiple
// chained redirects each arrive here in turn.
func (c *Controller) OnReceivedRedirect(newURL string, deferRedirect *bool) {
	if deferRedirect != nil {
		*deferRedirect = false
	}
	if c.state >= Cancelled {
		c.logIgnored("redirect")
		return
	}
	if c.state >= Response {
		faultf("redirect after receiving response: %s", c.url)
	}

	if c.backend != nil && c.backend.Status().Success() {
		var view *request.Response
		if r := c.backend.Response(); r != nil {
			view = r.WithURL(newURL)
		} else {
			view = request.NewResponse(newURL, "", request.UnknownLength, "", 0)
		}
		c.dispatcher.WillSendRequest(view)
	} else if c.Logger != nil {
		// No usable backend state to describe the redirect with.
		c.Logger.Debug("urlload: redirect with failed backend ignored",
			"url", c.url, "target", newURL)
	}
}

// OnAuthRequired implements Delegate. The challenge is forwarded to
// the dispatcher with no state transition; the backend re-drives the
// callback sequence once the consumer supplies or cancels credentials.
func (c *Controller) OnAuthRequired(challenge *request.AuthChallenge) {
	if c.state >= Cancelled {
		c.logIgnored("auth challenge")
		return
	}
	if c.state != Started {
		faultf("auth challenge on a controller not in Started state (%v): %s", c.state, c.url)
	}

	c.dispatcher.AuthRequired(challenge)
}

// OnResponseStarted implements Delegate. On backend success the
// terminal response is dispatched and the read loop begins; on backend
// failure the load finishes through the failure path with no read
// loop.
func (c *Controller) OnResponseStarted() {
	if c.state >= Cancelled {
		c.logIgnored("response")
		return
	}
	if c.state != Started {
		faultf("response on a controller not in Started state (%v): %s", c.state, c.url)
	}

	c.state = Response
	if c.backend != nil && c.backend.Status().Success() {
		c.dispatcher.DidReceiveResponse(c.backend.Response())
		c.startReading()
	} else {
		c.finish(false)
	}
}

// startReading drives the read loop. Synchronous reads are consumed
// in-line until the backend either reports end of content (finish,
// success), goes pending (the loop stops and resumes in
// OnReadCompleted), or fails (finish, failure).
func (c *Controller) startReading() {
	if c.state != Response && c.state != GotData {
		faultf("read loop in state other than Response and GotData (%v): %s", c.state, c.url)
	}

	for {
		ok, n := c.read()
		if ok {
			// n == 0 indicates end of content.
			if n == 0 {
				c.finish(true)
				return
			}
			c.deliverChunk(n)
			continue
		}
		if c.backend.Status().Pending() {
			// The read continues asynchronously; OnReadCompleted
			// resumes the loop.
			return
		}
		c.finish(false)
		return
	}
}

// read issues a single bounded read into a fresh buffer. At most one
// buffer is outstanding per controller at any time; issuing a read
// while one is still held is a contract violation and panics.
func (c *Controller) read() (bool, int) {
	if c.state != Response && c.state != GotData {
		faultf("read in state other than Response and GotData (%v): %s", c.state, c.url)
	}
	if c.buf != nil {
		faultf("read issued while a buffer is outstanding: %s", c.url)
	}

	c.buf = make([]byte, c.readSize())
	return c.backend.Read(c.buf)
}

// deliverChunk transfers ownership of the first n bytes of the
// outstanding buffer to the dispatcher and clears the controller's
// reference.
func (c *Controller) deliverChunk(n int) {
	c.state = GotData
	buf := c.buf[:n]
	c.buf = nil
	c.dispatcher.DidReceiveData(buf)
}

// OnReadCompleted implements Delegate. It resumes the read loop after
// a pending read: backend success re-enters the same transition logic
// as the synchronous loop (zero bytes meaning end of content), and
// backend failure finishes the load through the failure path.
func (c *Controller) OnReadCompleted(n int) {
	if c.state >= Cancelled {
		c.logIgnored("read completion")
		return
	}
	if c.state != Response && c.state != GotData {
		faultf("read completion in state other than Response and GotData (%v): %s", c.state, c.url)
	}

	if c.backend.Status().Success() {
		if n == 0 {
			c.buf = nil
			c.finish(true)
			return
		}
		c.deliverChunk(n)
		c.startReading()
	} else {
		c.finish(false)
	}
}

func (c *Controller) readSize() int {
	if c.ReadSize > 0 {
		return c.ReadSize
	}
	return initialReadSize
}

// logIgnored records a backend callback that arrived after the load
// was cancelled or finished. Such callbacks update nothing and send
// nothing further.
func (c *Controller) logIgnored(what string) {
	if c.Logger != nil {
		c.Logger.Debug("urlload: late backend callback ignored",
			"event", what, "state", c.state.String(), "url", c.url)
	}
}
