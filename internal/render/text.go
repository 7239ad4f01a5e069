package render

import (
	"strings"

	"github.com/junsooki/asciicam/internal/glyph"
	"github.com/junsooki/asciicam/internal/surface"
)

// Text renders one glyph per cell, one line per row, into a TextTarget.
type Text struct {
	target TextTarget
	last   string
}

// NewText creates a text renderer writing into target.
func NewText(target TextTarget) *Text {
	return &Text{target: target}
}

func (r *Text) Type() Type {
	return TypeText
}

func (r *Text) Render(grid surface.PixelGrid, ramp *glyph.Ramp) error {
	var b strings.Builder
	// Ramp glyphs are at most 3 bytes in UTF-8.
	b.Grow(grid.Height * (grid.Width*3 + 1))
	for _, row := range grid.Rows {
		for _, s := range row {
			b.WriteRune(ramp.CharFor(s.Luminance()))
		}
		b.WriteByte('\n')
	}
	r.last = b.String()
	r.target.Replace(r.last)
	return nil
}

func (r *Text) Clean() error {
	r.last = ""
	r.target.Replace("")
	return nil
}

func (r *Text) Snapshot() (Snapshot, error) {
	return Snapshot{Type: TypeText, Kind: SnapshotText, Data: plainText(r.last)}, nil
}
