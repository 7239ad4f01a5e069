package capture

import (
	"context"
	"image"
	"log/slog"

	"github.com/google/uuid"
)

// Source is the single active capture session. It is not safe for
// concurrent use; the session drives it from the host loop goroutine.
type Source struct {
	opener Opener
	width  int
	height int
	facing FacingMode
	logger *slog.Logger

	stream    Stream
	sessionID string
	paused    bool
}

// NewSource creates a source with no stream yet.
func NewSource(opener Opener, width, height int, facing FacingMode, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	if facing == "" {
		facing = FacingUser
	}
	return &Source{
		opener: opener,
		width:  width,
		height: height,
		facing: facing,
		logger: logger.With("component", "capture", "backend", opener.Name()),
		paused: true,
	}
}

// CaptureStream opens a stream for facing at the configured size and starts
// playback. Any existing stream is replaced. On failure the previous stream,
// facing mode and play state are left exactly as they were.
func (s *Source) CaptureStream(ctx context.Context, facing FacingMode) error {
	stream, err := s.opener.Open(ctx, Constraints{Width: s.width, Height: s.height, Facing: facing})
	if err != nil {
		s.logger.Warn("capture failed", "facing", facing, "error", err)
		return &CaptureError{Facing: facing, Backend: s.opener.Name(), Err: err}
	}

	if s.stream != nil {
		if err := s.stream.Close(); err != nil {
			s.logger.Warn("close previous stream", "session", s.sessionID, "error", err)
		}
	}
	s.stream = stream
	s.facing = facing
	s.sessionID = uuid.NewString()
	s.paused = false

	s.logger.Info("stream captured",
		"session", s.sessionID,
		"facing", facing,
		"width", s.width,
		"height", s.height,
	)
	return nil
}

// ToggleFacingMode flips the facing mode and re-captures. If the capture
// fails the facing mode rolls back to its previous value.
func (s *Source) ToggleFacingMode(ctx context.Context) error {
	prev := s.facing
	s.facing = prev.Flip()
	if err := s.CaptureStream(ctx, s.facing); err != nil {
		s.facing = prev
		return err
	}
	return nil
}

// Pause halts playback but keeps the stream open.
func (s *Source) Pause() {
	if !s.paused {
		s.logger.Debug("playback paused", "session", s.sessionID)
	}
	s.paused = true
}

// Play resumes playback of the existing stream.
func (s *Source) Play() error {
	if s.stream == nil {
		return ErrNoStream
	}
	s.paused = false
	return nil
}

// Paused reports whether no frames should be drawn. A source without a
// stream is always paused.
func (s *Source) Paused() bool {
	return s.stream == nil || s.paused
}

// HasStream reports whether a stream has been captured.
func (s *Source) HasStream() bool {
	return s.stream != nil
}

// Facing returns the current facing mode.
func (s *Source) Facing() FacingMode {
	return s.facing
}

// SessionID identifies the current stream binding, empty before the first
// successful capture.
func (s *Source) SessionID() string {
	return s.sessionID
}

// CurrentFrame returns the latest decoded frame, or nil when none is
// available yet.
func (s *Source) CurrentFrame() image.Image {
	if s.stream == nil {
		return nil
	}
	f := s.stream.Latest()
	if f == nil || f.Image == nil {
		return nil
	}
	return f.Image
}

// Close releases the stream.
func (s *Source) Close() error {
	if s.stream == nil {
		return nil
	}
	err := s.stream.Close()
	s.stream = nil
	s.paused = true
	return err
}
