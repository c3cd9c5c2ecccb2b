// Package timer runs delayed callbacks on the game loop's own thread. Time
// only moves when the loop calls Advance, so callbacks never race a tick.
package timer

import (
	"sort"
	"time"

	"github.com/vovakirdan/shapedash/internal/engine"
)

// Queue is a tick-driven set of pending callbacks. It is not safe for
// concurrent use; it belongs to the goroutine that runs the game loop.
type Queue struct {
	now     time.Duration
	seq     uint64
	pending []*Timer
}

// Timer is one scheduled callback.
type Timer struct {
	q    *Queue
	due  time.Duration
	seq  uint64
	fn   func()
	done bool
}

// NewQueue creates an empty queue at time zero.
func NewQueue() *Queue {
	return &Queue{}
}

// Now returns the accumulated loop time.
func (q *Queue) Now() time.Duration {
	return q.now
}

// Pending returns the number of callbacks that have neither fired nor been stopped.
func (q *Queue) Pending() int {
	return len(q.pending)
}

// Schedule registers fn to run once delay has elapsed. A non-positive delay
// fires on the next Advance.
func (q *Queue) Schedule(delay time.Duration, fn func()) engine.Timer {
	if delay < 0 {
		delay = 0
	}
	q.seq++
	t := &Timer{q: q, due: q.now + delay, seq: q.seq, fn: fn}
	i := sort.Search(len(q.pending), func(i int) bool {
		p := q.pending[i]
		return p.due > t.due || (p.due == t.due && p.seq > t.seq)
	})
	q.pending = append(q.pending, nil)
	copy(q.pending[i+1:], q.pending[i:])
	q.pending[i] = t
	return t
}

// Advance moves time forward by dt and runs every callback that became due,
// in due order. Callbacks scheduled from inside a callback run in the same
// call only if they are already due. It returns the number of callbacks run.
func (q *Queue) Advance(dt time.Duration) int {
	if dt > 0 {
		q.now += dt
	}
	fired := 0
	for len(q.pending) > 0 && q.pending[0].due <= q.now {
		t := q.pending[0]
		q.pending = q.pending[1:]
		t.done = true
		t.fn()
		fired++
	}
	return fired
}

// Reset drops every pending callback without running it.
func (q *Queue) Reset() {
	for _, t := range q.pending {
		t.done = true
	}
	q.pending = nil
}

// Stop cancels the callback. It reports whether the call prevented it from running.
func (t *Timer) Stop() bool {
	if t.done {
		return false
	}
	t.done = true
	for i, p := range t.q.pending {
		if p == t {
			t.q.pending = append(t.q.pending[:i], t.q.pending[i+1:]...)
			break
		}
	}
	return true
}
