// Package capture owns the camera stream binding: which physical camera is
// facing the user, whether playback runs, and the latest decoded frame.
package capture

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"
)

// Frame represents a decoded camera frame.
type Frame struct {
	Image     *image.RGBA
	Seq       uint64
	Timestamp time.Time
}

// FacingMode selects the physical camera.
type FacingMode string

const (
	FacingUser        FacingMode = "user"
	FacingEnvironment FacingMode = "environment"
)

// Flip returns the other facing mode.
func (f FacingMode) Flip() FacingMode {
	if f == FacingUser {
		return FacingEnvironment
	}
	return FacingUser
}

// ParseFacingMode accepts "user"/"front" and "environment"/"back".
func ParseFacingMode(s string) (FacingMode, error) {
	switch s {
	case "user", "front":
		return FacingUser, nil
	case "environment", "back":
		return FacingEnvironment, nil
	default:
		return "", fmt.Errorf("unknown facing mode %q", s)
	}
}

// Constraints describe the stream a caller asks for.
type Constraints struct {
	Width  int
	Height int
	Facing FacingMode
}

// Stream is an open camera stream. Backends decode on their own goroutines
// and publish into a Slot; Latest only reads.
type Stream interface {
	// Latest returns the most recent frame, or nil before the first one.
	Latest() *Frame
	Close() error
}

// Opener acquires camera streams. Open blocks until the device is granted
// or refused.
type Opener interface {
	Open(ctx context.Context, c Constraints) (Stream, error)
	Name() string
}

// Slot holds the latest frame published by a backend goroutine.
type Slot struct {
	mu    sync.RWMutex
	frame *Frame
	seq   uint64
}

// Store publishes img as the latest frame.
func (s *Slot) Store(img *image.RGBA) {
	s.mu.Lock()
	s.seq++
	s.frame = &Frame{Image: img, Seq: s.seq, Timestamp: time.Now()}
	s.mu.Unlock()
}

// Latest returns the most recent frame or nil.
func (s *Slot) Latest() *Frame {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frame
}
