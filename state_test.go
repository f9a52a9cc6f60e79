// Copyright 2021 The urlload Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package urlload

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadStates(t *testing.T) {
	assert.Len(t, stateNames, numStates)
	assert.Less(t, Created, Started)
	assert.Less(t, Started, Response)
	assert.Less(t, Response, GotData)
	assert.Less(t, GotData, Cancelled)
	assert.Less(t, Cancelled, Finished)
	assert.Less(t, Finished, Deleted)
}

func TestLoadState_Name(t *testing.T) {
	assert.Equal(t, "Created", Created.Name())
	assert.Equal(t, "Started", Started.Name())
	assert.Equal(t, "Response", Response.Name())
	assert.Equal(t, "GotData", GotData.Name())
	assert.Equal(t, "Cancelled", Cancelled.Name())
	assert.Equal(t, "Finished", Finished.Name())
	assert.Equal(t, "Deleted", Deleted.Name())
}

func TestLoadState_String(t *testing.T) {
	for i := 0; i < numStates; i++ {
		s := LoadState(i)
		assert.Equal(t, s.Name(), s.String())
	}
}
