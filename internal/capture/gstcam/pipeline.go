//go:build linux

package gstcam

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/tinyzimmer/go-gst/gst"
	"github.com/tinyzimmer/go-gst/gst/app"

	"github.com/junsooki/asciicam/internal/capture"
	"github.com/junsooki/asciicam/internal/permissions"
)

// startTimeout bounds the wait for the pipeline to reach PLAYING.
const startTimeout = 3 * time.Second

type stream struct {
	pipeline *gst.Pipeline
	slot     capture.Slot
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	logger   *slog.Logger
	once     sync.Once
}

func openPipeline(ctx context.Context, device string, c capture.Constraints, fps int, logger *slog.Logger) (capture.Stream, error) {
	if err := permissions.CheckCamera(device); err != nil {
		return nil, err
	}

	// Initialize GStreamer (safe to call multiple times)
	gst.Init(nil)

	pipeline, err := gst.NewPipeline("")
	if err != nil {
		return nil, fmt.Errorf("create pipeline: %w", err)
	}

	src, err := gst.NewElement("v4l2src")
	if err != nil {
		return nil, fmt.Errorf("create v4l2src: %w", err)
	}
	src.SetProperty("device", device)

	var elems []*gst.Element
	for _, name := range []string{"videoconvert", "videoscale", "videorate"} {
		e, err := gst.NewElement(name)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", name, err)
		}
		elems = append(elems, e)
	}
	// videorate: only drop, never duplicate
	elems[2].SetProperty("drop-only", true)

	capsfilter, err := gst.NewElement("capsfilter")
	if err != nil {
		return nil, fmt.Errorf("create capsfilter: %w", err)
	}
	caps := fmt.Sprintf("video/x-raw,format=RGBA,width=%d,height=%d,framerate=%d/1", c.Width, c.Height, fps)
	capsfilter.SetProperty("caps", gst.NewCapsFromString(caps))

	appsink, err := app.NewAppSink()
	if err != nil {
		return nil, fmt.Errorf("create appsink: %w", err)
	}
	appsink.SetProperty("sync", false)
	appsink.SetProperty("max-buffers", 1)
	appsink.SetProperty("drop", true)

	s := &stream{
		pipeline: pipeline,
		logger:   logger.With("device", device, "facing", c.Facing),
	}
	width, height := c.Width, c.Height
	appsink.SetCallbacks(&app.SinkCallbacks{
		NewSampleFunc: func(sink *app.Sink) gst.FlowReturn {
			return s.onSample(sink, width, height)
		},
	})

	all := append([]*gst.Element{src}, elems...)
	all = append(all, capsfilter, appsink.Element)
	if err := pipeline.AddMany(all...); err != nil {
		return nil, fmt.Errorf("add elements: %w", err)
	}
	if err := gst.ElementLinkMany(all...); err != nil {
		return nil, fmt.Errorf("link elements: %w", err)
	}

	if err := pipeline.SetState(gst.StatePlaying); err != nil {
		return nil, fmt.Errorf("start pipeline: %w", err)
	}
	if err := s.waitPlaying(ctx); err != nil {
		pipeline.SetState(gst.StateNull)
		return nil, err
	}

	monitorCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.wg.Add(1)
	go s.monitor(monitorCtx)

	s.logger.Info("camera pipeline playing", "caps", caps)
	return s, nil
}

// waitPlaying polls the bus until the pipeline plays or reports an error.
// A device that fails to open reports the error here.
func (s *stream) waitPlaying(ctx context.Context) error {
	bus := s.pipeline.GetPipelineBus()
	deadline := time.Now().Add(startTimeout)
	for time.Now().Before(deadline) {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg := bus.TimedPop(50 * time.Millisecond)
		if msg == nil {
			continue
		}
		switch msg.Type() {
		case gst.MessageError:
			gerr := msg.ParseError()
			s.logger.Error("camera pipeline failed", "error", gerr.Error(), "debug", gerr.DebugString())
			return fmt.Errorf("%s: %w", gerr.Error(), capture.ErrNoDevice)
		case gst.MessageStateChanged:
			if _, state := msg.ParseStateChanged(); state == gst.StatePlaying && msg.Source() == s.pipeline.GetName() {
				return nil
			}
		}
	}
	// Some sources only report PLAYING once the first buffer flows; treat a
	// quiet bus as success and let the monitor surface later errors.
	return nil
}

func (s *stream) monitor(ctx context.Context) {
	defer s.wg.Done()
	bus := s.pipeline.GetPipelineBus()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		msg := bus.TimedPop(50 * time.Millisecond)
		if msg == nil {
			continue
		}
		switch msg.Type() {
		case gst.MessageEOS:
			s.logger.Warn("camera stream ended")
			return
		case gst.MessageError:
			gerr := msg.ParseError()
			s.logger.Error("camera pipeline error", "error", gerr.Error(), "debug", gerr.DebugString())
			return
		}
	}
}

func (s *stream) onSample(sink *app.Sink, width, height int) gst.FlowReturn {
	sample := sink.PullSample()
	if sample == nil {
		return gst.FlowOK
	}
	buffer := sample.GetBuffer()
	if buffer == nil {
		return gst.FlowOK
	}

	mapInfo := buffer.Map(gst.MapRead)
	data := mapInfo.Bytes()
	if len(data) < width*height*4 {
		buffer.Unmap()
		s.logger.Debug("short camera buffer", "bytes", len(data))
		return gst.FlowOK
	}

	// GStreamer reuses the buffer; copy before unmapping.
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	copy(img.Pix, data)
	buffer.Unmap()

	s.slot.Store(img)
	return gst.FlowOK
}

func (s *stream) Latest() *capture.Frame {
	return s.slot.Latest()
}

func (s *stream) Close() error {
	var err error
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
		s.wg.Wait()
		err = s.pipeline.SetState(gst.StateNull)
		s.logger.Info("camera pipeline stopped")
	})
	return err
}
