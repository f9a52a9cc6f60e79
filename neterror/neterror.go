// Copyright 2021 The urlload Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package neterror categorizes the transport errors a failed load can
// carry, so consumers of a failure Response can tell a dead host from
// a host that is merely slow or restarting.
package neterror

import (
	"errors"
	"syscall"
)

// A Category is the classification of a load failure, as reported by
// Categorize.
//
// None means there is no error, or the error gives no reason to think
// a later load of the same resource would fare differently. The other
// categories all describe conditions that tend to clear on their own,
// so a consumer may reasonably offer or schedule another load.
type Category int

const (
	// None indicates no error, or an error with no recognized
	// transient cause.
	None Category = iota
	// Timeout indicates a client-side timeout. Categorize returns
	// Timeout if the error or any of its wrapped causes has a
	// Timeout() method that reports true.
	Timeout
	// ConnRefused indicates the remote host refused the connection
	// (POSIX ECONNREFUSED). This commonly happens while the remote
	// service is starting or restarting and is not yet listening.
	ConnRefused
	// ConnReset indicates the remote host reset an established
	// connection (POSIX ECONNRESET), which typically means the remote
	// service went down mid-response or a load balancer dropped the
	// connection.
	ConnReset
)

var categoryNames = []string{
	"None",
	"Timeout",
	"ConnRefused",
	"ConnReset",
}

// Name returns the name of the category.
func (c Category) Name() string {
	return categoryNames[int(c)]
}

// String returns the name of the category.
func (c Category) String() string {
	return c.Name()
}

// Categorize returns the failure category of the given error, looking
// at wrapped cause errors contained within err, not just err itself.
// A nil error, and an error with no recognized transient cause, both
// produce None.
//
// Categorize never consults a Temporary() method, as the semantics of
// Temporary() aren't entirely clear.
func Categorize(err error) Category {
	if err == nil {
		return None
	}

	var ht hasTimeout
	if errors.As(err, &ht) && ht.Timeout() {
		return Timeout
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		if errno == syscall.ECONNRESET {
			return ConnReset
		} else if errno == syscall.ECONNREFUSED {
			return ConnRefused
		}
	}

	return None
}

type hasTimeout interface {
	Timeout() bool
}
