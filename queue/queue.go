// Package queue provides the bounded byte FIFO that sits between an
// interrupt handler and application goroutines.
//
// A Queue has two access levels. TryPush and TryPop never block and are the
// only operations an interrupt handler may use. Push and Pop block according
// to a Wait policy and are meant for goroutines that are allowed to sleep.
// Both levels may be mixed freely on the same queue; occupancy always stays
// within [0, Cap()].
package queue

import (
	"errors"
	"time"
)

// ErrInvalidCapacity is returned by New for a capacity below one.
var ErrInvalidCapacity = errors.New("queue: capacity must be at least 1")

// Queue is a fixed-capacity FIFO of bytes. The buffered channel is both the
// ring and the counting signal: its length is the number of stored bytes and
// a send or receive wakes exactly one waiter on the other side.
type Queue struct {
	ch chan byte
}

// New creates a queue that holds at most capacity bytes.
func New(capacity int) (*Queue, error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	return &Queue{ch: make(chan byte, capacity)}, nil
}

// TryPush stores b if there is room and reports whether it did.
func (q *Queue) TryPush(b byte) bool {
	select {
	case q.ch <- b:
		return true
	default:
		return false
	}
}

// TryPop removes the oldest byte if there is one.
func (q *Queue) TryPop() (byte, bool) {
	select {
	case b := <-q.ch:
		return b, true
	default:
		return 0, false
	}
}

// Push stores b, waiting for room as allowed by w. It returns false only
// when the wait expired.
func (q *Queue) Push(b byte, w Wait) bool {
	if q.TryPush(b) {
		return true
	}
	switch w.kind {
	case waitNone:
		return false
	case waitForever:
		q.ch <- b
		return true
	}

	t := time.NewTimer(w.d)
	defer t.Stop()
	select {
	case q.ch <- b:
		return true
	case <-t.C:
		return false
	}
}

// Pop removes the oldest byte, waiting for one as allowed by w. It returns
// false only when the wait expired.
func (q *Queue) Pop(w Wait) (byte, bool) {
	if b, ok := q.TryPop(); ok {
		return b, true
	}
	switch w.kind {
	case waitNone:
		return 0, false
	case waitForever:
		return <-q.ch, true
	}

	t := time.NewTimer(w.d)
	defer t.Stop()
	select {
	case b := <-q.ch:
		return b, true
	case <-t.C:
		return 0, false
	}
}

// Len returns the number of bytes currently stored.
func (q *Queue) Len() int { return len(q.ch) }

// Cap returns the capacity the queue was created with.
func (q *Queue) Cap() int { return cap(q.ch) }
