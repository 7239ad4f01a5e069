package terminal

import (
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/junsooki/asciicam/internal/render"
)

type fixedView struct{ r render.Renderer }

func (v fixedView) Renderer() render.Renderer { return v.r }

func newSimTerminal(t *testing.T, w, h int) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	term, err := New(sim, time.Millisecond, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := sim.Init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(sim.Fini)
	sim.SetSize(w, h)
	return term, sim
}

func cellRune(t *testing.T, sim tcell.SimulationScreen, x, y int) rune {
	t.Helper()
	cells, w, _ := sim.GetContents()
	c := cells[y*w+x]
	if len(c.Runes) == 0 {
		return ' '
	}
	return c.Runes[0]
}

func TestDrawText(t *testing.T) {
	term, sim := newSimTerminal(t, 4, 3)
	term.Attach(fixedView{render.NewText(term.Target())}, nil)
	term.Target().Replace("ab\ncdefg\n")

	term.draw()
	sim.Show()

	checks := []struct {
		x, y int
		want rune
	}{
		{0, 0, 'a'}, {1, 0, 'b'}, {0, 1, 'c'}, {3, 1, 'f'},
	}
	for _, c := range checks {
		if got := cellRune(t, sim, c.x, c.y); got != c.want {
			t.Errorf("cell (%d,%d) = %q, want %q", c.x, c.y, got, c.want)
		}
	}
}

func TestDrawHTMLShowsText(t *testing.T) {
	term, sim := newSimTerminal(t, 4, 2)
	term.Attach(fixedView{render.NewHTML(term.Target())}, nil)
	term.Target().Replace(`<div class="ascii-frame">x&lt;<br/>yz<br/></div>`)

	term.draw()
	sim.Show()

	if got := cellRune(t, sim, 1, 0); got != '<' {
		t.Errorf("cell (1,0) = %q, want '<'", got)
	}
	if got := cellRune(t, sim, 1, 1); got != 'z' {
		t.Errorf("cell (1,1) = %q, want 'z'", got)
	}
}

func TestDrawImageHalfBlocks(t *testing.T) {
	term, sim := newSimTerminal(t, 1, 1)
	img := image.NewRGBA(image.Rect(0, 0, 1, 2))
	img.SetRGBA(0, 0, color.RGBA{255, 0, 0, 255})
	img.SetRGBA(0, 1, color.RGBA{0, 0, 255, 255})

	term.drawImage(img)
	sim.Show()

	cells, _, _ := sim.GetContents()
	if len(cells[0].Runes) == 0 || cells[0].Runes[0] != '▀' {
		t.Fatalf("cell = %+v, want half block", cells[0])
	}
	fg, bg, _ := cells[0].Style.Decompose()
	if fg != tcell.NewRGBColor(255, 0, 0) || bg != tcell.NewRGBColor(0, 0, 255) {
		t.Errorf("colours fg %v bg %v", fg, bg)
	}
}

func TestKeyName(t *testing.T) {
	tests := []struct {
		ev   *tcell.EventKey
		want string
		ok   bool
	}{
		{tcell.NewEventKey(tcell.KeyRune, 'C', tcell.ModNone), "c", true},
		{tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), "space", true},
		{tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), "escape", true},
		{tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), "q", true},
		{tcell.NewEventKey(tcell.KeyF1, 0, tcell.ModNone), "", false},
	}
	for _, tt := range tests {
		got, ok := keyName(tt.ev)
		if got != tt.want || ok != tt.ok {
			t.Errorf("keyName(%v) = %q, %v", tt.ev.Name(), got, ok)
		}
	}
}

func TestRunDrainsAndQuits(t *testing.T) {
	sim := tcell.NewSimulationScreen("UTF-8")
	term, err := New(sim, time.Millisecond, nil)
	if err != nil {
		t.Fatal(err)
	}
	var keys []string
	term.Attach(fixedView{render.NewText(term.Target())}, func(k string) { keys = append(keys, k) })

	ran := make(chan struct{})
	term.Post(func() { close(ran) })

	done := make(chan error, 1)
	go func() { done <- term.Run() }()

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("queued callback never ran")
	}
	term.Post(term.Quit)

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Quit")
	}
}
