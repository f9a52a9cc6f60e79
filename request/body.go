// Copyright 2021 The urlload Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"errors"
	"io"
)

const badBodyTypeMsg = "urlload/request: invalid type (for body use nil, " +
	"string, []byte, io.Reader or io.ReadCloser)"

// UploadBytes converts a flexible body value into the byte slice a
// controller appends to the request body of a network load.
//
// A nil body converts to a nil slice. A string or []byte converts
// directly, with a []byte passed through unchanged. An io.Reader is
// drained to its end; if it is also an io.Closer it is closed
// afterward, and a close error fails the conversion even when the
// drain succeeded. Any other type is an error.
func UploadBytes(body interface{}) ([]byte, error) {
	switch x := body.(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(x), nil
	case []byte:
		return x, nil
	case io.Reader:
		b, err := io.ReadAll(x)
		if err != nil {
			return nil, err
		}
		if cl, ok := x.(io.Closer); ok {
			if err := cl.Close(); err != nil {
				return nil, err
			}
		}
		return b, nil
	default:
		return nil, errors.New(badBodyTypeMsg)
	}
}
