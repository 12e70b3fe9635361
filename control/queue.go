// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package control

import (
	"sync/atomic"
)

// DefaultQueueSize is the capacity used by NewQueue when
// given a non-positive size.
const DefaultQueueSize = 64

// Queue passes events from any goroutine to the frame
// loop.
type Queue struct {
	c       chan Event
	dropped atomic.Int64
}

// NewQueue creates a queue that holds up to n events.
func NewQueue(n int) *Queue {
	if n <= 0 {
		n = DefaultQueueSize
	}
	return &Queue{c: make(chan Event, n)}
}

// Post enqueues ev. It never blocks: when the queue is
// full, ev is dropped and Post returns false.
func (q *Queue) Post(ev Event) bool {
	select {
	case q.c <- ev:
		return true
	default:
		q.dropped.Add(1)
		return false
	}
}

// Drain calls f for every event queued at the time of
// the call, in posting order, and returns the number of
// events drained. Events posted by f are left for the
// next call.
func (q *Queue) Drain(f func(Event)) int {
	n := len(q.c)
	for i := 0; i < n; i++ {
		f(<-q.c)
	}
	return n
}

// Len returns the number of queued events.
func (q *Queue) Len() int { return len(q.c) }

// Dropped returns the number of events that Post
// dropped.
func (q *Queue) Dropped() int64 { return q.dropped.Load() }
