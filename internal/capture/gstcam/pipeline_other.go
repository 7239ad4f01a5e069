//go:build !linux

package gstcam

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/junsooki/asciicam/internal/capture"
)

// openPipeline returns an error on non-Linux platforms.
func openPipeline(ctx context.Context, device string, c capture.Constraints, fps int, logger *slog.Logger) (capture.Stream, error) {
	return nil, fmt.Errorf("v4l2 capture is only available on Linux: %w", capture.ErrNoDevice)
}
