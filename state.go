// Copyright 2021 The urlload Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package urlload

// A LoadState identifies the lifecycle phase of a Controller.
//
// State only ever moves forward: a controller progresses from Created
// through Started, Response, and GotData toward Finished, with
// Cancelled as the one side branch (itself leading directly to
// Finished). Exactly one transition into Finished occurs per
// controller; attempting a second is a contract violation and panics.
type LoadState int

const (
	// Created is the state of a freshly constructed controller on
	// which Start has not yet been called.
	Created LoadState = iota
	// Started indicates Start has been called and a content path has
	// been entered, but no response metadata has been produced yet.
	Started
	// Response indicates the response descriptor has been built and
	// dispatched, but no content bytes have been delivered.
	Response
	// GotData indicates at least one data message has been dispatched.
	GotData
	// Cancelled indicates the consumer cancelled the load before it
	// finished naturally. It is transient: cancellation finishes the
	// load immediately, reporting it as a successful, truncated
	// completion.
	Cancelled
	// Finished is the terminal state. Exactly one of DidFinishLoading
	// or DidFail has been dispatched, and the controller has released
	// its backend, buffer, and dispatcher references.
	Finished
	// Deleted indicates Release has been called on a finished
	// controller. The controller may not be used at all afterward.
	Deleted
	// stateSentinel provides the total number of states typed as a
	// LoadState.
	stateSentinel

	// numStates provides the total number of states as an int.
	numStates = int(stateSentinel)
)

var stateNames = []string{
	"Created",
	"Started",
	"Response",
	"GotData",
	"Cancelled",
	"Finished",
	"Deleted",
}

// Name returns the name of the load state.
func (s LoadState) Name() string {
	return stateNames[int(s)]
}

// String returns the name of the load state.
func (s LoadState) String() string {
	return s.Name()
}
