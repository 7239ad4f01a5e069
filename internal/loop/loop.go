// Package loop runs the per-frame draw task. The loop reschedules itself
// through the host scheduler for as long as capture plays.
package loop

import (
	"log/slog"
	"sync/atomic"
)

// State of a draw loop.
type State int32

const (
	Stopped State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

// Scheduler runs a callback on the host's next frame.
type Scheduler interface {
	RequestFrame(fn func())
}

// Loop is a self-rescheduling draw task.
type Loop struct {
	sched  Scheduler
	paused func() bool
	step   func() error
	logger *slog.Logger

	state  atomic.Int32
	frames atomic.Uint64
}

// New creates a stopped loop. paused is checked before every iteration;
// step draws one frame.
func New(sched Scheduler, paused func() bool, step func() error, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		sched:  sched,
		paused: paused,
		step:   step,
		logger: logger.With("component", "loop"),
	}
}

// Start requests the first frame. It does nothing while already running.
func (l *Loop) Start() {
	if !l.state.CompareAndSwap(int32(Stopped), int32(Running)) {
		return
	}
	l.logger.Debug("draw loop started")
	l.sched.RequestFrame(l.tick)
}

func (l *Loop) tick() {
	if l.paused() {
		l.state.Store(int32(Stopped))
		l.logger.Debug("draw loop stopped", "frames", l.frames.Load())
		return
	}
	if err := l.step(); err != nil {
		l.logger.Warn("draw frame failed", "error", err)
	} else {
		l.frames.Add(1)
	}
	l.sched.RequestFrame(l.tick)
}

// State returns the current state.
func (l *Loop) State() State {
	return State(l.state.Load())
}

// FramesDrawn counts successful iterations since creation.
func (l *Loop) FramesDrawn() uint64 {
	return l.frames.Load()
}
