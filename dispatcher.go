// Copyright 2021 The urlload Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package urlload

import (
	"github.com/gogama/urlload/request"
)

// A Dispatcher is the one-way message sink through which a controller
// reports load progress to its consumer.
//
// Messages for a single controller are delivered in the exact order
// they were produced: zero or more WillSendRequest, at most one
// DidReceiveResponse, zero or more data messages, and exactly one of
// DidFinishLoading or DidFail. Argument ownership transfers to the
// dispatcher with each call; the controller never touches a response
// or buffer again after handing it off.
//
// Implementations must not block the caller. A dispatcher that needs
// to deliver on a consumer goroutine should be wrapped with
// PostDispatcher, which forwards every message as a task on a
// consumer-owned Loop.
type Dispatcher interface {
	// WillSendRequest reports a server-initiated redirect. The
	// response view carries the redirect target as its URL.
	WillSendRequest(resp *request.Response)
	// DidReceiveResponse reports the terminal response descriptor for
	// the load. It is sent at most once.
	DidReceiveResponse(resp *request.Response)
	// DidReceiveData delivers a chunk of content from a network load.
	// The buffer belongs to the receiver from this point on.
	DidReceiveData(p []byte)
	// DidReceiveDataURL delivers the full decoded payload of a data
	// URL load.
	DidReceiveDataURL(p []byte)
	// DidReceiveStreamData delivers a chunk of content from an
	// embedded-stream load.
	DidReceiveStreamData(p []byte)
	// AuthRequired reports that the server demanded credentials. The
	// consumer answers by posting SetAuth or CancelAuth onto the
	// controller's loop.
	AuthRequired(challenge *request.AuthChallenge)
	// DidFail reports load failure. The response is built from
	// whatever backend state exists and carries the transport error,
	// if any, in its Err field. No message follows it.
	DidFail(resp *request.Response)
	// DidFinishLoading reports successful completion, including the
	// truncated completion of a cancelled load. No message follows it.
	DidFinishLoading()
}

// PostDispatcher wraps inner so that every message is forwarded as a
// task posted onto loop, preserving message order. It is the standard
// way to move delivery from the controller's I/O loop onto a consumer
// goroutine without ever blocking the I/O side.
func PostDispatcher(inner Dispatcher, loop *Loop) Dispatcher {
	if inner == nil {
		faultf("nil dispatcher")
	}
	if loop == nil {
		faultf("nil loop")
	}
	return &postDispatcher{inner: inner, loop: loop}
}

type postDispatcher struct {
	inner Dispatcher
	loop  *Loop
}

func (d *postDispatcher) WillSendRequest(resp *request.Response) {
	d.loop.Post(func() { d.inner.WillSendRequest(resp) })
}

func (d *postDispatcher) DidReceiveResponse(resp *request.Response) {
	d.loop.Post(func() { d.inner.DidReceiveResponse(resp) })
}

func (d *postDispatcher) DidReceiveData(p []byte) {
	d.loop.Post(func() { d.inner.DidReceiveData(p) })
}

func (d *postDispatcher) DidReceiveDataURL(p []byte) {
	d.loop.Post(func() { d.inner.DidReceiveDataURL(p) })
}

func (d *postDispatcher) DidReceiveStreamData(p []byte) {
	d.loop.Post(func() { d.inner.DidReceiveStreamData(p) })
}

func (d *postDispatcher) AuthRequired(challenge *request.AuthChallenge) {
	d.loop.Post(func() { d.inner.AuthRequired(challenge) })
}

func (d *postDispatcher) DidFail(resp *request.Response) {
	d.loop.Post(func() { d.inner.DidFail(resp) })
}

func (d *postDispatcher) DidFinishLoading() {
	d.loop.Post(func() { d.inner.DidFinishLoading() })
}
