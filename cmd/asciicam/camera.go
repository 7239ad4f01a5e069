package main

import (
	"fmt"
	"log/slog"

	"github.com/junsooki/asciicam/internal/capture"
	"github.com/junsooki/asciicam/internal/capture/cvcam"
	"github.com/junsooki/asciicam/internal/capture/gstcam"
	"github.com/junsooki/asciicam/internal/config"
	"github.com/junsooki/asciicam/internal/decoder"
	"github.com/junsooki/asciicam/internal/log"
	"github.com/junsooki/asciicam/internal/permissions"
)

// newOpener creates the camera backend named by the config.
func newOpener(cfg *config.Config, logger *slog.Logger) (capture.Opener, error) {
	devices := map[capture.FacingMode]string{
		capture.FacingUser:        cfg.Camera.UserDevice,
		capture.FacingEnvironment: cfg.Camera.EnvironmentDevice,
	}

	switch cfg.Camera.Backend {
	case "pattern":
		return capture.NewPatternOpener(), nil
	case "file":
		return capture.NewStillOpener(cfg.Camera.File, decoder.NewImageDecoder()), nil
	case "gst":
		warnMissingDevices(devices)
		return gstcam.NewOpener(gstcam.Config{Devices: devices, FPS: cfg.Camera.FPS}, logger), nil
	case "gocv":
		return cvcam.NewOpener(cvcam.Config{Devices: devices, FPS: cfg.Camera.FPS}, logger), nil
	default:
		return nil, fmt.Errorf("unsupported camera backend: %s", cfg.Camera.Backend)
	}
}

// warnMissingDevices reports configured cameras that cannot be opened now.
// Capture still runs; the device may appear later.
func warnMissingDevices(devices map[capture.FacingMode]string) {
	for facing, dev := range devices {
		if dev == "" {
			continue
		}
		if !permissions.HasCamera(dev) {
			log.Warn("camera device not accessible", "facing", facing, "device", dev)
			continue
		}
		log.Debug("camera device ok", "facing", facing, "device", dev)
	}
}
