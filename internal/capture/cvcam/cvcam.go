// Package cvcam captures cameras through OpenCV's VideoCapture.
package cvcam

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"log/slog"
	"strconv"
	"sync"

	"gocv.io/x/gocv"

	"github.com/junsooki/asciicam/internal/capture"
)

// Config selects the device for each facing mode. A device is an index
// such as "0" or a path or URL OpenCV understands.
type Config struct {
	Devices map[capture.FacingMode]string
	FPS     int
}

// Opener opens OpenCV camera streams.
type Opener struct {
	cfg    Config
	logger *slog.Logger
}

// NewOpener creates an opener.
func NewOpener(cfg Config, logger *slog.Logger) *Opener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Opener{cfg: cfg, logger: logger.With("component", "cvcam")}
}

func (o *Opener) Name() string {
	return "gocv"
}

func (o *Opener) Open(ctx context.Context, c capture.Constraints) (capture.Stream, error) {
	device, ok := o.cfg.Devices[c.Facing]
	if !ok || device == "" {
		return nil, fmt.Errorf("no device for %s camera: %w", c.Facing, capture.ErrNoDevice)
	}

	var id interface{} = device
	if n, err := strconv.Atoi(device); err == nil {
		id = n
	}
	vc, err := gocv.OpenVideoCapture(id)
	if err != nil {
		return nil, fmt.Errorf("open %s: %v: %w", device, err, capture.ErrNoDevice)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("open %s: %w", device, capture.ErrNoDevice)
	}
	vc.Set(gocv.VideoCaptureFrameWidth, float64(c.Width))
	vc.Set(gocv.VideoCaptureFrameHeight, float64(c.Height))
	if o.cfg.FPS > 0 {
		vc.Set(gocv.VideoCaptureFPS, float64(o.cfg.FPS))
	}

	s := &stream{
		vc:     vc,
		done:   make(chan struct{}),
		logger: o.logger.With("device", device, "facing", c.Facing),
	}
	s.wg.Add(1)
	go s.readLoop()
	s.logger.Info("camera opened")
	return s, nil
}

type stream struct {
	vc     *gocv.VideoCapture
	slot   capture.Slot
	done   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
	logger *slog.Logger

	warnOnce sync.Once
}

func (s *stream) readLoop() {
	defer s.wg.Done()
	frame := gocv.NewMat()
	defer frame.Close()

	for {
		select {
		case <-s.done:
			return
		default:
		}
		if ok := s.vc.Read(&frame); !ok {
			s.logger.Warn("camera read failed, stopping")
			return
		}
		if frame.Empty() {
			continue
		}
		// ToImage reorders BGR into RGBA for 3-channel mats.
		img, err := frame.ToImage()
		if err != nil {
			s.logger.Debug("convert frame failed", "error", err, "type", frame.Type())
			continue
		}
		s.slot.Store(s.toRGBA(img))
	}
}

// toRGBA returns img as *image.RGBA, copying when OpenCV produced another
// image type.
func (s *stream) toRGBA(img image.Image) *image.RGBA {
	if out, ok := img.(*image.RGBA); ok {
		return out
	}
	s.warnOnce.Do(func() {
		s.logger.Warn("camera frames need conversion", "type", fmt.Sprintf("%T", img))
	})
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

func (s *stream) Latest() *capture.Frame {
	return s.slot.Latest()
}

func (s *stream) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		s.wg.Wait()
		err = s.vc.Close()
		s.logger.Info("camera closed")
	})
	return err
}
