// Package gstcam captures V4L2 cameras through a GStreamer pipeline:
//
//	v4l2src → videoconvert → videoscale → videorate → capsfilter(RGBA) → appsink
//
// Frames are copied out of the appsink callback into a capture.Slot.
package gstcam

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/junsooki/asciicam/internal/capture"
)

// Config selects the device for each facing mode.
type Config struct {
	Devices map[capture.FacingMode]string
	FPS     int
}

// Opener opens GStreamer camera streams.
type Opener struct {
	cfg    Config
	logger *slog.Logger
}

// NewOpener creates an opener.
func NewOpener(cfg Config, logger *slog.Logger) *Opener {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.FPS <= 0 {
		cfg.FPS = 30
	}
	return &Opener{cfg: cfg, logger: logger.With("component", "gstcam")}
}

func (o *Opener) Name() string {
	return "gst"
}

func (o *Opener) Open(ctx context.Context, c capture.Constraints) (capture.Stream, error) {
	device, ok := o.cfg.Devices[c.Facing]
	if !ok || device == "" {
		return nil, fmt.Errorf("no device for %s camera: %w", c.Facing, capture.ErrNoDevice)
	}
	return openPipeline(ctx, device, c, o.cfg.FPS, o.logger)
}
