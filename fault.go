// Copyright 2021 The urlload Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package urlload

import "fmt"

// faultf reports a violation of the controller's usage contract, for
// example finishing a controller twice or issuing a read while a
// buffer is still outstanding. These are bugs in the caller or in this
// package, never runtime conditions, so they panic instead of
// returning an error.
func faultf(format string, args ...interface{}) {
	panic("urlload: " + fmt.Sprintf(format, args...))
}
