package input

import (
	"fmt"
	"strconv"
	"strings"
)

// CommandType identifies a session command.
type CommandType string

const (
	CmdStart          CommandType = "start"
	CmdStop           CommandType = "stop"
	CmdTogglePlay     CommandType = "toggle_play"
	CmdToggleCamera   CommandType = "toggle_camera"
	CmdSelectRenderer CommandType = "select_renderer"
	CmdSensitivity    CommandType = "sensitivity"
	CmdSnapshot       CommandType = "snapshot"
	CmdClear          CommandType = "clear"
	CmdResize         CommandType = "resize"
	CmdStatus         CommandType = "status"
	CmdQuit           CommandType = "quit"
)

// Command is the wire format for session commands, shared by key bindings
// and the control surface.
type Command struct {
	Type     CommandType `json:"type"`
	Renderer string      `json:"renderer,omitempty"`
	Delta    int         `json:"delta,omitempty"`
	// Relative steps the current sensitivity by Delta instead of setting it.
	Relative bool `json:"relative,omitempty"`
	Width    int  `json:"width,omitempty"`
	Height   int  `json:"height,omitempty"`
}

// ParseCommand builds a command from words, as typed on a command line:
//
//	start | stop | toggle | camera | renderer <type> | sensitivity <n|+n|-n>
//	snapshot | clear | resize <w> <h> | status | quit
func ParseCommand(args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, fmt.Errorf("missing command")
	}
	name, rest := args[0], args[1:]
	need := func(n int) error {
		if len(rest) != n {
			return fmt.Errorf("%s takes %d argument(s), got %d", name, n, len(rest))
		}
		return nil
	}

	switch name {
	case "start":
		return Command{Type: CmdStart}, need(0)
	case "stop":
		return Command{Type: CmdStop}, need(0)
	case "toggle":
		return Command{Type: CmdTogglePlay}, need(0)
	case "camera":
		return Command{Type: CmdToggleCamera}, need(0)
	case "snapshot":
		return Command{Type: CmdSnapshot}, need(0)
	case "clear":
		return Command{Type: CmdClear}, need(0)
	case "status":
		return Command{Type: CmdStatus}, need(0)
	case "quit":
		return Command{Type: CmdQuit}, need(0)
	case "renderer":
		if err := need(1); err != nil {
			return Command{}, err
		}
		return Command{Type: CmdSelectRenderer, Renderer: rest[0]}, nil
	case "sensitivity":
		if err := need(1); err != nil {
			return Command{}, err
		}
		n, err := strconv.Atoi(rest[0])
		if err != nil {
			return Command{}, fmt.Errorf("sensitivity: %w", err)
		}
		relative := strings.HasPrefix(rest[0], "+") || strings.HasPrefix(rest[0], "-")
		return Command{Type: CmdSensitivity, Delta: n, Relative: relative}, nil
	case "resize":
		if err := need(2); err != nil {
			return Command{}, err
		}
		w, err := strconv.Atoi(rest[0])
		if err != nil {
			return Command{}, fmt.Errorf("resize width: %w", err)
		}
		h, err := strconv.Atoi(rest[1])
		if err != nil {
			return Command{}, fmt.Errorf("resize height: %w", err)
		}
		return Command{Type: CmdResize, Width: w, Height: h}, nil
	default:
		return Command{}, fmt.Errorf("unknown command %q", name)
	}
}
