package loop

import "sync"

// Queue collects callbacks for the host's next frame. Hosts drain it once per
// frame on their loop goroutine; any goroutine may enqueue.
type Queue struct {
	mu      sync.Mutex
	pending []func()
}

// RequestFrame schedules fn for the next Drain.
func (q *Queue) RequestFrame(fn func()) {
	q.Post(fn)
}

// Post schedules fn for the next Drain.
func (q *Queue) Post(fn func()) {
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()
}

// Drain runs the callbacks queued so far in order and returns how many ran.
// Callbacks queued while draining wait for the next call.
func (q *Queue) Drain() int {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// Len returns the number of queued callbacks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
