package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gogpu/gg"

	"github.com/junsooki/asciicam/internal/capture"
	"github.com/junsooki/asciicam/internal/config"
	"github.com/junsooki/asciicam/internal/control"
	"github.com/junsooki/asciicam/internal/display"
	"github.com/junsooki/asciicam/internal/encoder"
	"github.com/junsooki/asciicam/internal/glyph"
	"github.com/junsooki/asciicam/internal/input"
	"github.com/junsooki/asciicam/internal/log"
	"github.com/junsooki/asciicam/internal/loop"
	"github.com/junsooki/asciicam/internal/render"
	"github.com/junsooki/asciicam/internal/session"
	"github.com/junsooki/asciicam/internal/snapshot"
	"github.com/junsooki/asciicam/internal/surface"
	"github.com/junsooki/asciicam/internal/terminal"
)

// host is a window or terminal that owns the loop goroutine.
type host interface {
	display.Display
	loop.Scheduler
	Post(fn func())
	Target() render.TextTarget
	Attach(view display.View, onKey display.KeyCallback)
	Quit()
}

func main() {
	cfg, ok := loadConfig(config.ParseFlags, os.Stderr)
	if !ok {
		os.Exit(2)
	}

	if err := run(cfg); err != nil {
		log.Error("asciicam failed", "error", err)
		os.Exit(1)
	}
}

// loadConfig parses and validates the configuration, reporting problems on
// stderr. The flag package already printed usage for -h.
func loadConfig(parse func() (*config.Config, error), stderr io.Writer) (*config.Config, bool) {
	cfg, err := parse()
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(stderr, "asciicam:", err)
		}
		return nil, false
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(stderr, "asciicam:", e)
		}
		return nil, false
	}
	return cfg, true
}

func run(cfg *config.Config) error {
	if cfg.Host == "terminal" {
		// The terminal shows the output; keep logs off the screen.
		f, err := os.Create(filepath.Join(os.TempDir(), "asciicam.log"))
		if err != nil {
			return err
		}
		defer f.Close()
		log.InitTo(f, cfg.LogLevel)
	} else {
		log.Init(cfg.LogLevel)
	}
	logger := log.L()
	gg.SetLogger(log.With("component", "gg"))

	log.Info("asciicam starting",
		"host", cfg.Host,
		"camera", cfg.Camera.Backend,
		"facing", cfg.Camera.Facing,
		"grid", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"renderer", cfg.Renderer,
	)

	ramp, err := newRamp(cfg)
	if err != nil {
		return err
	}
	facing, err := capture.ParseFacingMode(cfg.Camera.Facing)
	if err != nil {
		return err
	}
	opener, err := newOpener(cfg, logger)
	if err != nil {
		return err
	}
	surf, err := surface.New(cfg.Width, cfg.Height, surface.Options{Fit: surface.Fit(cfg.Fit), Scaler: cfg.Scaler})
	if err != nil {
		return err
	}
	enc, err := encoder.New(cfg.Snapshot.Format, cfg.Snapshot.Quality)
	if err != nil {
		return err
	}

	var h host
	switch cfg.Host {
	case "terminal":
		h, err = terminal.New(nil, 0, logger)
	default:
		h, err = display.NewEbitenDisplay("asciicam", logger)
	}
	if err != nil {
		return fmt.Errorf("create %s host: %w", cfg.Host, err)
	}

	src := capture.NewSource(opener, cfg.Width, cfg.Height, facing, logger)
	sess, err := session.New(src, surf, h, session.Options{
		Renderer: render.Type(cfg.Renderer),
		Render: render.Options{
			Target: h.Target(),
			Canvas: render.CanvasOptions{
				CellSize: cfg.CellSize,
				Mode:     render.CanvasMode(cfg.CanvasMode),
				FontPath: cfg.FontPath,
				FontSize: cfg.FontSize,
				Encoder:  enc,
				Columns:  cfg.Width,
				Rows:     cfg.Height,
				Logger:   logger,
			},
		},
		Ramp:        ramp,
		Sensitivity: cfg.Sensitivity,
	}, logger)
	if err != nil {
		return err
	}
	defer sess.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	saver := snapshot.NewSaver(cfg.Snapshot.Dir, logger)
	dispatcher := input.NewDispatcher(sess, saver, h.Quit, cfg.Sensitivity, logger)
	h.Attach(sess, func(key string) {
		cmd, ok := input.KeyCommand(key)
		if !ok {
			return
		}
		// Failures are logged by the dispatcher.
		_, _ = dispatcher.Dispatch(ctx, cmd)
		updateStatus(h, sess)
	})

	if cfg.Control.Listen != "" {
		srv := control.NewServer(control.OnLoop(h.Post, dispatcher.Dispatch), 10*time.Second, logger)
		if _, err := srv.ListenAndServe(cfg.Control.Listen); err != nil {
			return fmt.Errorf("control surface: %w", err)
		}
		defer srv.Close()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("shutting down")
		h.Quit()
	}()

	h.Post(func() {
		if err := sess.Start(ctx); err != nil {
			logger.Error("camera unavailable, press space to retry", "error", err)
		}
		updateStatus(h, sess)
	})

	log.Info("asciicam ready", "keys", input.KeyHelp)
	return h.Run()
}

func newRamp(cfg *config.Config) (*glyph.Ramp, error) {
	if cfg.Charset != "" {
		return glyph.NewRamp(cfg.Charset)
	}
	return glyph.Preset(cfg.Ramp)
}

// updateStatus refreshes the terminal status line; windows have none.
func updateStatus(h host, sess *session.Session) {
	t, ok := h.(*terminal.Terminal)
	if !ok {
		return
	}
	st := sess.Status()
	state := "paused"
	if st.Playing {
		state = "playing"
	}
	t.SetStatus(fmt.Sprintf(" %s | %s camera | %s | ramp %d | %s ", st.Renderer, st.Facing, state, st.RampLength, input.KeyHelp))
}
