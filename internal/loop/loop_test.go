package loop

import (
	"errors"
	"testing"
)

func TestLoopRunsUntilPaused(t *testing.T) {
	var q Queue
	paused := false
	steps := 0
	l := New(&q, func() bool { return paused }, func() error {
		steps++
		return nil
	}, nil)

	if l.State() != Stopped {
		t.Fatalf("new loop state = %s", l.State())
	}
	l.Start()
	if l.State() != Running || q.Len() != 1 {
		t.Fatalf("after Start: state %s, queued %d", l.State(), q.Len())
	}

	for i := 0; i < 3; i++ {
		q.Drain()
	}
	if steps != 3 || l.FramesDrawn() != 3 {
		t.Fatalf("steps = %d, frames = %d, want 3", steps, l.FramesDrawn())
	}

	paused = true
	q.Drain()
	if l.State() != Stopped {
		t.Errorf("state after pause = %s, want stopped", l.State())
	}
	if steps != 3 {
		t.Errorf("paused tick drew a frame")
	}
	if q.Len() != 0 {
		t.Errorf("stopped loop left %d callbacks queued", q.Len())
	}
}

func TestLoopStartIsIdempotent(t *testing.T) {
	var q Queue
	l := New(&q, func() bool { return false }, func() error { return nil }, nil)
	l.Start()
	l.Start()
	if q.Len() != 1 {
		t.Fatalf("double Start queued %d frames, want 1", q.Len())
	}
	q.Drain()
	l.Start()
	if q.Len() != 1 {
		t.Errorf("Start while running queued %d frames, want 1", q.Len())
	}
}

func TestLoopRestartAfterStop(t *testing.T) {
	var q Queue
	paused := true
	l := New(&q, func() bool { return paused }, func() error { return nil }, nil)
	l.Start()
	q.Drain()
	if l.State() != Stopped {
		t.Fatalf("state = %s, want stopped", l.State())
	}

	paused = false
	l.Start()
	q.Drain()
	if l.State() != Running || l.FramesDrawn() != 1 {
		t.Errorf("restart: state %s, frames %d", l.State(), l.FramesDrawn())
	}
}

func TestLoopKeepsRunningOnStepError(t *testing.T) {
	var q Queue
	l := New(&q, func() bool { return false }, func() error { return errors.New("boom") }, nil)
	l.Start()
	q.Drain()
	if l.State() != Running || q.Len() != 1 {
		t.Errorf("failed step stopped the loop: state %s, queued %d", l.State(), q.Len())
	}
	if l.FramesDrawn() != 0 {
		t.Errorf("frames = %d, want 0", l.FramesDrawn())
	}
}

func TestQueueDrainDefersNewWork(t *testing.T) {
	var q Queue
	var order []int
	q.Post(func() {
		order = append(order, 1)
		q.Post(func() { order = append(order, 3) })
	})
	q.Post(func() { order = append(order, 2) })

	if n := q.Drain(); n != 2 {
		t.Fatalf("first drain ran %d", n)
	}
	if n := q.Drain(); n != 1 {
		t.Fatalf("second drain ran %d", n)
	}
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("order = %v", order)
	}
}
