// Package display hosts a session in a desktop window. The window's game
// loop is the session's loop goroutine and its frame callback is the draw
// loop scheduler.
package display

import "github.com/junsooki/asciicam/internal/render"

// Display runs a host loop until the user quits.
type Display interface {
	Run() error
}

// View supplies the renderer whose output is shown each frame.
type View interface {
	Renderer() render.Renderer
}

// KeyCallback receives host-neutral key names (see input.KeyCommand).
type KeyCallback func(key string)
