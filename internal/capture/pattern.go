package capture

import (
	"context"
	"image"
	"image/color"
	"sync"
)

// PatternOpener produces a synthetic moving gradient, so the pipeline runs
// without camera hardware. The user camera sweeps horizontally and the
// environment camera vertically.
type PatternOpener struct{}

func NewPatternOpener() *PatternOpener {
	return &PatternOpener{}
}

func (o *PatternOpener) Name() string {
	return "pattern"
}

func (o *PatternOpener) Open(ctx context.Context, c Constraints) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w, h := c.Width, c.Height
	if w <= 0 || h <= 0 {
		w, h = 320, 240
	}
	return &patternStream{width: w, height: h, vertical: c.Facing == FacingEnvironment}, nil
}

type patternStream struct {
	width    int
	height   int
	vertical bool

	mu     sync.Mutex
	slot   Slot
	phase  int
	closed bool
}

// Latest renders the next phase of the pattern.
func (p *patternStream) Latest() *Frame {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	img := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	span := p.width
	if p.vertical {
		span = p.height
	}
	for y := 0; y < p.height; y++ {
		for x := 0; x < p.width; x++ {
			pos := x
			if p.vertical {
				pos = y
			}
			v := uint8(((pos + p.phase) % span) * 255 / max(span-1, 1))
			img.SetRGBA(x, y, color.RGBA{R: v, G: v / 2, B: 255 - v, A: 255})
		}
	}
	p.phase++
	p.slot.Store(img)
	return p.slot.Latest()
}

func (p *patternStream) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	return nil
}
