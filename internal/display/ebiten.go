package display

import (
	"bytes"
	"errors"
	"image/color"
	"log/slog"
	"strings"
	"sync/atomic"
	"unicode"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/junsooki/asciicam/internal/loop"
	"github.com/junsooki/asciicam/internal/render"
	"github.com/junsooki/asciicam/internal/surface"
)

// monoAdvance is the advance width of Go Mono glyphs in ems.
const monoAdvance = 0.6

// EbitenDisplay shows canvas output as an image and text or html output as
// monospaced text. It is also the session's scheduler: callbacks queued with
// RequestFrame or Post run at the start of the next Update.
type EbitenDisplay struct {
	loop.Queue

	target  render.Buffer
	view    View
	onKey   KeyCallback
	font    *text.GoTextFaceSource
	canvas  *ebiten.Image
	title   string
	quitReq atomic.Bool
	logger  *slog.Logger

	screenW int
	screenH int
}

// NewEbitenDisplay creates an Ebitengine-based display.
func NewEbitenDisplay(title string, logger *slog.Logger) (*EbitenDisplay, error) {
	if logger == nil {
		logger = slog.Default()
	}
	src, err := text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF))
	if err != nil {
		return nil, err
	}
	return &EbitenDisplay{
		font:    src,
		title:   title,
		logger:  logger.With("component", "display"),
		screenW: 960,
		screenH: 720,
	}, nil
}

// Target is the container text and html renderers write into.
func (d *EbitenDisplay) Target() render.TextTarget {
	return &d.target
}

// Attach sets what the window shows and where key presses go. Call before Run.
func (d *EbitenDisplay) Attach(view View, onKey KeyCallback) {
	d.view = view
	d.onKey = onKey
}

// Quit ends Run after the current frame. Safe from any goroutine.
func (d *EbitenDisplay) Quit() {
	d.quitReq.Store(true)
}

// Run starts the Ebitengine game loop. Must be called from the main goroutine.
func (d *EbitenDisplay) Run() error {
	ebiten.SetWindowSize(d.screenW, d.screenH)
	ebiten.SetWindowTitle(d.title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	err := ebiten.RunGame(d)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// --- ebiten.Game interface ---

func (d *EbitenDisplay) Update() error {
	if d.quitReq.Load() {
		return ebiten.Termination
	}
	d.captureKeys()
	d.Drain()
	return nil
}

func (d *EbitenDisplay) Draw(screen *ebiten.Image) {
	if d.view == nil || d.view.Renderer() == nil {
		return
	}
	switch r := d.view.Renderer().(type) {
	case *render.Canvas:
		d.drawCanvas(screen, r)
	case *render.HTML:
		d.drawText(screen, render.VisibleText(d.target.Content()))
	default:
		d.drawText(screen, d.target.Content())
	}
}

func (d *EbitenDisplay) Layout(outsideWidth, outsideHeight int) (int, int) {
	d.screenW, d.screenH = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

func (d *EbitenDisplay) drawCanvas(screen *ebiten.Image, c *render.Canvas) {
	frame := c.Image()
	fw, fh := frame.Bounds().Dx(), frame.Bounds().Dy()
	if d.canvas == nil || d.canvas.Bounds().Dx() != fw || d.canvas.Bounds().Dy() != fh {
		d.canvas = ebiten.NewImage(fw, fh)
	}
	d.canvas.WritePixels(frame.Pix)

	screen.Fill(color.White)
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	scale, offsetX, offsetY := surface.AspectFit(float64(sw), float64(sh), float64(fw), float64(fh))

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(offsetX, offsetY)
	screen.DrawImage(d.canvas, op)
}

func (d *EbitenDisplay) drawText(screen *ebiten.Image, content string) {
	screen.Fill(color.White)
	if content == "" {
		return
	}
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	cols := 0
	for _, l := range lines {
		if n := len([]rune(l)); n > cols {
			cols = n
		}
	}
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	size := textSize(sw, sh, cols, len(lines))

	op := &text.DrawOptions{}
	op.LineSpacing = size
	op.ColorScale.ScaleWithColor(color.Black)
	text.Draw(screen, strings.Join(lines, "\n"), &text.GoTextFace{Source: d.font, Size: size}, op)
}

// textSize picks the largest font size that fits cols x rows of monospaced
// text into the screen.
func textSize(screenW, screenH, cols, rows int) float64 {
	if cols == 0 || rows == 0 {
		return 12
	}
	size := float64(screenH) / float64(rows)
	if byWidth := float64(screenW) / (float64(cols) * monoAdvance); byWidth < size {
		size = byWidth
	}
	if size < 1 {
		size = 1
	}
	return size
}

// --- Input capture ---

func (d *EbitenDisplay) captureKeys() {
	if d.onKey == nil {
		return
	}
	for _, r := range ebiten.AppendInputChars(nil) {
		d.onKey(keyName(r))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		d.onKey("escape")
	}
}

func keyName(r rune) string {
	if r == ' ' {
		return "space"
	}
	return string(unicode.ToLower(r))
}
