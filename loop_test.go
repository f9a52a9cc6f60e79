// Copyright 2021 The urlload Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package urlload

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoop_Order(t *testing.T) {
	l := NewLoop()
	var got []int
	for i := 0; i < 100; i++ {
		i := i
		l.Post(func() { got = append(got, i) })
	}
	l.Close()

	assert.Len(t, got, 100)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestLoop_Serialized(t *testing.T) {
	l := NewLoop()
	var inTask bool
	var overlapped bool
	var n int
	var wg sync.WaitGroup
	wg.Add(10)
	for g := 0; g < 10; g++ {
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				l.Post(func() {
					if inTask {
						overlapped = true
					}
					inTask = true
					n++
					inTask = false
				})
			}
		}()
	}
	wg.Wait()
	l.Close()

	assert.Equal(t, 1000, n)
	assert.False(t, overlapped)
}

func TestLoop_CloseDrains(t *testing.T) {
	l := NewLoop()
	var ran bool
	l.Post(func() { ran = true })
	l.Close()
	assert.True(t, ran)
}

func TestLoop_PostAfterClose(t *testing.T) {
	l := NewLoop()
	l.Close()
	assert.Panics(t, func() { l.Post(func() {}) })
}

func TestLoop_CloseTwice(t *testing.T) {
	l := NewLoop()
	l.Close()
	assert.Panics(t, func() { l.Close() })
}

func TestLoop_TryPost(t *testing.T) {
	t.Run("open loop", func(t *testing.T) {
		l := NewLoop()
		var ran bool
		assert.True(t, l.TryPost(func() { ran = true }))
		l.Close()
		assert.True(t, ran)
	})
	t.Run("closed loop", func(t *testing.T) {
		l := NewLoop()
		l.Close()
		assert.False(t, l.TryPost(func() {}))
	})
	t.Run("nil task", func(t *testing.T) {
		l := NewLoop()
		defer l.Close()
		assert.Panics(t, func() { l.TryPost(nil) })
	})
}

func TestLoop_NilTask(t *testing.T) {
	l := NewLoop()
	defer l.Close()
	assert.Panics(t, func() { l.Post(nil) })
}
