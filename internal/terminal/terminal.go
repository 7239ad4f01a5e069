// Package terminal hosts a session in a terminal through tcell. Text output
// is drawn cell for cell; canvas output is drawn with half-block characters,
// two image rows per terminal row.
package terminal

import (
	"image"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/junsooki/asciicam/internal/display"
	"github.com/junsooki/asciicam/internal/loop"
	"github.com/junsooki/asciicam/internal/render"
)

// DefaultFrameInterval paces the terminal loop.
const DefaultFrameInterval = time.Second / 30

// Terminal is a tcell host and the session's scheduler: callbacks queued with
// RequestFrame or Post run on every tick of Run.
type Terminal struct {
	loop.Queue

	screen   tcell.Screen
	target   render.Buffer
	view     display.View
	onKey    display.KeyCallback
	interval time.Duration
	status   string
	logger   *slog.Logger

	quit     chan struct{}
	quitOnce sync.Once
}

// New creates a terminal host on screen. A nil screen means the real
// terminal.
func New(screen tcell.Screen, interval time.Duration, logger *slog.Logger) (*Terminal, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if screen == nil {
		var err error
		if screen, err = tcell.NewScreen(); err != nil {
			return nil, err
		}
	}
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &Terminal{
		screen:   screen,
		interval: interval,
		logger:   logger.With("component", "terminal"),
		quit:     make(chan struct{}),
	}, nil
}

// Target is the container text and html renderers write into.
func (t *Terminal) Target() render.TextTarget {
	return &t.target
}

// Attach sets what the terminal shows and where key presses go. Call
// before Run.
func (t *Terminal) Attach(view display.View, onKey display.KeyCallback) {
	t.view = view
	t.onKey = onKey
}

// SetStatus sets the bottom status line. Call from the loop goroutine.
func (t *Terminal) SetStatus(s string) {
	t.status = s
}

// Quit ends Run. Safe from any goroutine.
func (t *Terminal) Quit() {
	t.quitOnce.Do(func() { close(t.quit) })
}

// Run takes over the terminal until Quit.
func (t *Terminal) Run() error {
	if err := t.screen.Init(); err != nil {
		return err
	}
	defer t.screen.Fini()
	t.screen.HideCursor()

	events := make(chan tcell.Event, 16)
	go t.screen.ChannelEvents(events, t.quit)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-t.quit:
			return nil
		case ev := <-events:
			t.handleEvent(ev)
		case <-ticker.C:
			t.Drain()
			t.draw()
			t.screen.Show()
		}
	}
}

func (t *Terminal) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		t.screen.Sync()
	case *tcell.EventKey:
		if t.onKey == nil {
			return
		}
		if name, ok := keyName(ev); ok {
			t.onKey(name)
		}
	}
}

func keyName(ev *tcell.EventKey) (string, bool) {
	switch ev.Key() {
	case tcell.KeyRune:
		if ev.Rune() == ' ' {
			return "space", true
		}
		return strings.ToLower(string(ev.Rune())), true
	case tcell.KeyEscape:
		return "escape", true
	case tcell.KeyCtrlC:
		return "q", true
	default:
		return "", false
	}
}

func (t *Terminal) draw() {
	t.screen.Clear()
	if t.view != nil && t.view.Renderer() != nil {
		switch r := t.view.Renderer().(type) {
		case *render.Canvas:
			t.drawImage(r.Image())
		case *render.HTML:
			t.drawText(render.VisibleText(t.target.Content()))
		default:
			t.drawText(t.target.Content())
		}
	}
	if t.status != "" {
		_, h := t.screen.Size()
		t.drawLine(0, h-1, t.status, tcell.StyleDefault.Reverse(true))
	}
}

func (t *Terminal) drawText(content string) {
	style := tcell.StyleDefault
	for y, line := range strings.Split(strings.TrimSuffix(content, "\n"), "\n") {
		t.drawLine(0, y, line, style)
	}
}

func (t *Terminal) drawLine(x, y int, line string, style tcell.Style) {
	w, h := t.screen.Size()
	if y >= h {
		return
	}
	for _, r := range line {
		if x >= w {
			return
		}
		t.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// drawImage scales img to the screen with nearest sampling. Each cell shows
// two pixels: the upper as foreground of '▀', the lower as background.
func (t *Terminal) drawImage(img *image.RGBA) {
	w, h := t.screen.Size()
	b := img.Bounds()
	if w == 0 || h == 0 || b.Empty() {
		return
	}
	rows := h * 2
	for y := 0; y < h; y++ {
		sy0 := b.Min.Y + (2*y)*b.Dy()/rows
		sy1 := b.Min.Y + (2*y+1)*b.Dy()/rows
		for x := 0; x < w; x++ {
			sx := b.Min.X + x*b.Dx()/w
			top := img.RGBAAt(sx, sy0)
			bottom := img.RGBAAt(sx, sy1)
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
			t.screen.SetContent(x, y, '▀', nil, style)
		}
	}
}
