// Copyright 2021 The urlload Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package urlload

import (
	"github.com/gogama/urlload/request"

	"github.com/gogama/urlload/neterror"
)

// A Backend performs the actual byte acquisition for a network load.
// It holds no state-machine logic of its own; it reports everything
// that happens through Delegate callbacks and lets the controller
// decide what to do.
//
// All Backend methods are invoked on the controller's loop, and all
// Delegate callbacks must likewise be delivered on that loop.
type Backend interface {
	// Start begins the load. Completion is reported via
	// Delegate.OnResponseStarted.
	Start()
	// Cancel aborts the load. Callbacks already in flight may still
	// arrive after Cancel returns; the controller tolerates them.
	Cancel()
	// Read reads up to len(p) bytes of response content into p. If the
	// read completes synchronously, Read returns (true, n), with n == 0
	// meaning end of content. If it returns (false, 0), consult
	// Status: a pending status means the read continues asynchronously
	// and will complete via Delegate.OnReadCompleted, while an error
	// status means the read failed. The caller must keep p alive and
	// untouched until a pending read completes.
	Read(p []byte) (ok bool, n int)
	// SetAuth answers a pending auth challenge with credentials,
	// re-issuing the request and restarting the callback sequence.
	SetAuth(username, password string)
	// CancelAuth declines a pending auth challenge. The challenge
	// response becomes the terminal response of the load.
	CancelAuth()
	// AppendUploadBytes appends a chunk to the request body. Only
	// legal before Start; the controller enforces this.
	AppendUploadBytes(chunk []byte)
	// Status reports the current backend status: success, pending, or
	// error.
	Status() Status
	// Response returns the current response metadata, or nil if no
	// response headers have been seen yet. During a redirect callback
	// it describes the redirect response.
	Response() *request.Response
}

// A Delegate receives backend callbacks. Controller implements
// Delegate; backends must invoke these methods on the controller's
// loop.
type Delegate interface {
	OnReceivedRedirect(newURL string, deferRedirect *bool)
	OnAuthRequired(challenge *request.AuthChallenge)
	OnResponseStarted()
	OnReadCompleted(n int)
}

type statusKind int

const (
	statusSuccess statusKind = iota
	statusPending
	statusError
)

// A Status is a backend's report of where its last operation stands:
// completed successfully, still pending, or failed.
type Status struct {
	kind statusKind
	err  error
}

var (
	successStatus = Status{kind: statusSuccess}
	pendingStatus = Status{kind: statusPending}
)

// ErrorStatus returns a failed status carrying err.
func ErrorStatus(err error) Status {
	return Status{kind: statusError, err: err}
}

// Success reports whether the last operation completed without error.
func (s Status) Success() bool {
	return s.kind == statusSuccess
}

// Pending reports whether an asynchronous operation is still in
// flight.
func (s Status) Pending() bool {
	return s.kind == statusPending
}

// Failed reports whether the last operation ended in error.
func (s Status) Failed() bool {
	return s.kind == statusError
}

// Err returns the error of a failed status, or nil.
func (s Status) Err() error {
	return s.err
}

// Category classifies the error of a failed status, allowing the
// consumer of a failed load to distinguish conditions worth loading
// again (timeouts, refused or reset connections) from the rest.
func (s Status) Category() neterror.Category {
	return neterror.Categorize(s.err)
}
