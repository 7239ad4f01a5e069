// Package session owns the capture-to-renderer pipeline and is the control
// surface every host and adapter calls. All methods must run on the host
// loop goroutine; other goroutines go through the host's Post.
package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/junsooki/asciicam/internal/capture"
	"github.com/junsooki/asciicam/internal/glyph"
	"github.com/junsooki/asciicam/internal/loop"
	"github.com/junsooki/asciicam/internal/render"
	"github.com/junsooki/asciicam/internal/surface"
)

// Options configures a session.
type Options struct {
	// Renderer is the variant active at startup.
	Renderer render.Type
	// Render is handed to the renderer factory on every selection.
	Render render.Options
	// Ramp is shared with every renderer; nil means the default ramp.
	Ramp *glyph.Ramp
	// Sensitivity, when non-zero, is applied to the ramp once at startup.
	Sensitivity int
}

// Status is a point-in-time view of the session.
type Status struct {
	Renderer    render.Type `json:"renderer"`
	Facing      string      `json:"facing"`
	Playing     bool        `json:"playing"`
	Looping     bool        `json:"looping"`
	RampLength  int         `json:"rampLength"`
	SessionID   string      `json:"sessionId,omitempty"`
	FramesDrawn uint64      `json:"framesDrawn"`
	Width       int         `json:"width"`
	Height      int         `json:"height"`
}

// Session wires a frame source, a sampling surface, a ramp and the active
// renderer together with a draw loop.
type Session struct {
	source     *capture.Source
	surface    *surface.Surface
	ramp       *glyph.Ramp
	renderer   render.Renderer
	renderOpts render.Options
	loop       *loop.Loop
	logger     *slog.Logger
}

// New creates a session with its initial renderer. Capture does not start
// until Start.
func New(src *capture.Source, surf *surface.Surface, sched loop.Scheduler, opts Options, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Ramp == nil {
		opts.Ramp = glyph.Default()
	}
	if opts.Sensitivity != 0 {
		opts.Ramp.AdjustSensitivity(opts.Sensitivity)
	}
	if opts.Renderer == "" {
		opts.Renderer = render.TypeCanvas
	}

	s := &Session{
		source:     src,
		surface:    surf,
		ramp:       opts.Ramp,
		renderOpts: opts.Render,
		logger:     logger.With("component", "session"),
	}
	s.loop = loop.New(sched, src.Paused, s.DrawFrame, logger)
	if err := s.SelectRenderer(string(opts.Renderer)); err != nil {
		return nil, err
	}
	return s, nil
}

// DrawFrame runs one pipeline iteration: rasterize the current frame, read
// the grid back and render it.
func (s *Session) DrawFrame() error {
	s.surface.Render(s.source.CurrentFrame())
	return s.renderer.Render(s.surface.PixelGrid(), s.ramp)
}

// SelectRenderer makes the named variant active. Selecting the active
// variant does nothing. The outgoing renderer is cleaned before the new one
// draws anything; if the new one cannot be built the old one stays.
func (s *Session) SelectRenderer(name string) error {
	t, err := render.ParseType(name)
	if err != nil {
		return err
	}
	if s.renderer != nil && s.renderer.Type() == t {
		return nil
	}

	next, err := render.New(t, s.renderOpts)
	if err != nil {
		return fmt.Errorf("select %s renderer: %w", t, err)
	}
	if prev := s.renderer; prev != nil {
		if err := prev.Clean(); err != nil {
			s.logger.Warn("clean renderer failed", "renderer", prev.Type(), "error", err)
		}
		s.closeRenderer(prev)
	}
	s.renderer = next
	s.logger.Info("renderer selected", "renderer", t)
	return nil
}

// Renderer returns the active renderer.
func (s *Session) Renderer() render.Renderer {
	return s.renderer
}

// AdjustSensitivity resets the blank tail of the ramp to delta+1 spaces and
// returns the new ramp length.
func (s *Session) AdjustSensitivity(delta int) int {
	s.ramp.AdjustSensitivity(delta)
	s.logger.Debug("sensitivity adjusted", "delta", delta, "ramp_len", s.ramp.Len())
	return s.ramp.Len()
}

// ToggleCamera switches between the user and environment cameras. On
// failure the previous facing mode is kept and the error returned.
func (s *Session) ToggleCamera(ctx context.Context) error {
	if err := s.source.ToggleFacingMode(ctx); err != nil {
		s.logger.Warn("camera toggle failed", "facing", s.source.Facing(), "error", err)
		return err
	}
	s.logger.Info("camera toggled", "facing", s.source.Facing())
	s.loop.Start()
	return nil
}

// Start resumes the existing stream, or captures one, and starts drawing.
func (s *Session) Start(ctx context.Context) error {
	if s.source.HasStream() {
		if err := s.source.Play(); err != nil {
			return err
		}
	} else if err := s.source.CaptureStream(ctx, s.source.Facing()); err != nil {
		s.logger.Error("capture failed", "facing", s.source.Facing(), "error", err)
		return err
	}
	s.loop.Start()
	return nil
}

// Stop pauses capture. The draw loop notices on its next frame and stops.
func (s *Session) Stop() {
	s.source.Pause()
}

// Snapshot serializes the active renderer's output.
func (s *Session) Snapshot() (render.Snapshot, error) {
	return s.renderer.Snapshot()
}

// ClearOutput blanks the active renderer's target.
func (s *Session) ClearOutput() error {
	return s.renderer.Clean()
}

// Resize changes the sampling surface dimensions.
func (s *Session) Resize(width, height int) error {
	return s.surface.Configure(width, height)
}

// Status reports the current session state.
func (s *Session) Status() Status {
	w, h := s.surface.Size()
	return Status{
		Renderer:    s.renderer.Type(),
		Facing:      string(s.source.Facing()),
		Playing:     !s.source.Paused(),
		Looping:     s.loop.State() == loop.Running,
		RampLength:  s.ramp.Len(),
		SessionID:   s.source.SessionID(),
		FramesDrawn: s.loop.FramesDrawn(),
		Width:       w,
		Height:      h,
	}
}

// Close stops capture and releases the stream and renderer.
func (s *Session) Close() error {
	s.source.Pause()
	if s.renderer != nil {
		s.closeRenderer(s.renderer)
	}
	return s.source.Close()
}

// closeRenderer releases renderers that hold a raster.
func (s *Session) closeRenderer(r render.Renderer) {
	c, ok := r.(io.Closer)
	if !ok {
		return
	}
	if err := c.Close(); err != nil {
		s.logger.Warn("close renderer failed", "renderer", r.Type(), "error", err)
	}
}
