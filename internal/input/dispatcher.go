package input

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/junsooki/asciicam/internal/render"
	"github.com/junsooki/asciicam/internal/session"
)

// Controller is the session surface commands act on.
type Controller interface {
	Start(ctx context.Context) error
	Stop()
	ToggleCamera(ctx context.Context) error
	SelectRenderer(name string) error
	AdjustSensitivity(delta int) int
	Snapshot() (render.Snapshot, error)
	ClearOutput() error
	Resize(width, height int) error
	Status() session.Status
}

// Deliverer hands a snapshot to the user and reports where it went.
type Deliverer interface {
	Deliver(snap render.Snapshot) (string, error)
}

// Result is the reply to a command.
type Result struct {
	Status   session.Status `json:"status"`
	Snapshot string         `json:"snapshot,omitempty"`
}

// Dispatcher applies commands to a session. Like the session itself it must
// only be used from the host loop goroutine.
type Dispatcher struct {
	ctrl    Controller
	deliver Deliverer
	quit    func()
	level   int
	logger  *slog.Logger
}

// NewDispatcher creates a dispatcher. level is the sensitivity the session
// started with; quit may be nil.
func NewDispatcher(ctrl Controller, deliver Deliverer, quit func(), level int, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		ctrl:    ctrl,
		deliver: deliver,
		quit:    quit,
		level:   level,
		logger:  logger.With("component", "input"),
	}
}

// Dispatch runs one command and returns the session status afterwards.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd Command) (Result, error) {
	var res Result
	var err error

	switch cmd.Type {
	case CmdStart:
		err = d.ctrl.Start(ctx)
	case CmdStop:
		d.ctrl.Stop()
	case CmdTogglePlay:
		if d.ctrl.Status().Playing {
			d.ctrl.Stop()
		} else {
			err = d.ctrl.Start(ctx)
		}
	case CmdToggleCamera:
		err = d.ctrl.ToggleCamera(ctx)
	case CmdSelectRenderer:
		err = d.ctrl.SelectRenderer(cmd.Renderer)
	case CmdSensitivity:
		if cmd.Relative {
			d.level += cmd.Delta
		} else {
			d.level = cmd.Delta
		}
		// The ramp keeps at least one glyph; levels below -1 add nothing.
		if d.level < -1 {
			d.level = -1
		}
		d.ctrl.AdjustSensitivity(d.level)
	case CmdSnapshot:
		res.Snapshot, err = d.snapshot()
	case CmdClear:
		err = d.ctrl.ClearOutput()
	case CmdResize:
		err = d.ctrl.Resize(cmd.Width, cmd.Height)
	case CmdStatus:
	case CmdQuit:
		if d.quit != nil {
			d.quit()
		}
	default:
		err = fmt.Errorf("unknown command type %q", cmd.Type)
	}

	if err != nil {
		d.logger.Warn("command failed", "command", cmd.Type, "error", err)
	}
	res.Status = d.ctrl.Status()
	return res, err
}

// Sensitivity returns the current sensitivity level.
func (d *Dispatcher) Sensitivity() int {
	return d.level
}

func (d *Dispatcher) snapshot() (string, error) {
	snap, err := d.ctrl.Snapshot()
	if err != nil {
		return "", err
	}
	if d.deliver == nil {
		return snap.Data, nil
	}
	where, err := d.deliver.Deliver(snap)
	if err != nil {
		return "", fmt.Errorf("deliver %s snapshot: %w", snap.Kind, err)
	}
	d.logger.Info("snapshot saved", "renderer", snap.Type, "to", where)
	return where, nil
}
