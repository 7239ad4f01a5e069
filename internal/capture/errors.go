package capture

import (
	"errors"
	"fmt"
)

var (
	// ErrPermissionDenied means the user or the OS refused camera access.
	ErrPermissionDenied = errors.New("camera permission denied")
	// ErrNoDevice means no camera exists for the requested facing mode.
	ErrNoDevice = errors.New("no camera device")
	// ErrNoStream is returned by Play before any stream was captured.
	ErrNoStream = errors.New("no active stream")
)

// CaptureError reports a failed stream acquisition. Capture stays stopped
// and nothing is retried automatically.
type CaptureError struct {
	Facing  FacingMode
	Backend string
	Err     error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("capture %s camera via %s: %v", e.Facing, e.Backend, e.Err)
}

func (e *CaptureError) Unwrap() error {
	return e.Err
}
