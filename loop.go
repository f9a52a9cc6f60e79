// Copyright 2021 The urlload Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package urlload

import "sync"

// A Loop is a serialized executor: a single goroutine draining an
// unbounded FIFO task queue. Tasks posted from any goroutine run one
// at a time, in posting order, on the loop goroutine.
//
// A Loop serves two roles in this package. Each controller runs its
// state machine and receives its backend callbacks on an I/O loop, so
// that controller state never needs locking. A consumer may own a
// second loop and wrap its dispatcher with PostDispatcher to receive
// load messages on its own goroutine, in order, without ever blocking
// the I/O side.
type Loop struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []func()
	closed bool
	done   chan struct{}
}

// NewLoop creates a loop and starts its goroutine.
func NewLoop() *Loop {
	l := &Loop{done: make(chan struct{})}
	l.cond = sync.NewCond(&l.mu)
	go l.drain()
	return l
}

// Post appends task to the loop's queue and returns without waiting
// for it to run. Post never blocks: the queue is unbounded. Posting a
// nil task, or posting onto a closed loop, is a contract violation and
// panics.
func (l *Loop) Post(task func()) {
	if !l.TryPost(task) {
		faultf("task posted to a closed loop")
	}
}

// TryPost appends task to the loop's queue like Post, but reports
// failure instead of panicking when the loop has been closed. It
// exists for completion tasks posted by background goroutines that may
// outlive the load, such as a transport call returning only after the
// load was cancelled and the consumer tore the loop down; such
// stragglers are dropped. Posting a nil task still panics.
func (l *Loop) TryPost(task func()) bool {
	if task == nil {
		faultf("nil task posted to loop")
	}
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, task)
	l.mu.Unlock()
	l.cond.Signal()
	return true
}

// Close stops the loop after all previously posted tasks have run, and
// waits for the loop goroutine to exit. Close may be called at most
// once.
func (l *Loop) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		faultf("loop closed twice")
	}
	l.closed = true
	l.mu.Unlock()
	l.cond.Signal()
	<-l.done
}

func (l *Loop) drain() {
	for {
		l.mu.Lock()
		for len(l.queue) == 0 && !l.closed {
			l.cond.Wait()
		}
		if len(l.queue) == 0 {
			l.mu.Unlock()
			close(l.done)
			return
		}
		task := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		if len(l.queue) == 0 {
			l.queue = nil
		}
		l.mu.Unlock()
		task()
	}
}
