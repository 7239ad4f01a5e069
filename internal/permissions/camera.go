//go:build linux

package permissions

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/junsooki/asciicam/internal/capture"
)

// CheckCamera checks that the process may open the camera device for
// reading and writing, which V4L2 capture needs.
func CheckCamera(device string) error {
	err := unix.Access(device, unix.R_OK|unix.W_OK)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, unix.ENOENT), errors.Is(err, unix.ENODEV):
		return fmt.Errorf("%s: %w", device, capture.ErrNoDevice)
	case errors.Is(err, unix.EACCES), errors.Is(err, unix.EPERM):
		return fmt.Errorf("%s: %w", device, capture.ErrPermissionDenied)
	default:
		return fmt.Errorf("%s: %w", device, err)
	}
}

// HasCamera returns true if the camera device is accessible.
func HasCamera(device string) bool {
	return CheckCamera(device) == nil
}
