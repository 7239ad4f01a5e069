// Package glyph maps pixel luminance to characters through an ordered ramp.
package glyph

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"unicode"
)

// DefaultCharset runs from the densest glyph to a single trailing blank.
const DefaultCharset = "█▓▒Ñ@#W$9876543210?!abc;:+=-,._ "

// NoBreakSpace replaces literal spaces in CharFor so markup renderers keep
// runs of blank cells.
const NoBreakSpace = '\u00a0'

// ErrEmptyRamp is returned when a ramp would be built with no glyphs.
var ErrEmptyRamp = errors.New("glyph: ramp must contain at least one glyph")

// Presets are written the way they read best; sparse-first presets are
// reversed by Preset so every ramp starts with its densest glyph.
var presets = map[string]struct {
	chars       string
	sparseFirst bool
}{
	"default": {chars: DefaultCharset},
	"simple":  {chars: "       .:-i|=+%O#@", sparseFirst: true},
	"blocks":  {chars: "        .:░▒▓█", sparseFirst: true},
}

// Ramp is an ordered glyph sequence, densest first and blank last.
// It is mutated in place by AdjustSensitivity and shared by pointer between
// the session controls and the active renderer.
type Ramp struct {
	glyphs []rune
}

// NewRamp builds a ramp from chars, densest glyph first.
func NewRamp(chars string) (*Ramp, error) {
	glyphs := []rune(chars)
	if len(glyphs) == 0 {
		return nil, ErrEmptyRamp
	}
	return &Ramp{glyphs: glyphs}, nil
}

// Default returns a ramp over DefaultCharset.
func Default() *Ramp {
	return &Ramp{glyphs: []rune(DefaultCharset)}
}

// Preset returns a fresh ramp for a named preset.
func Preset(name string) (*Ramp, error) {
	p, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("glyph: unknown ramp preset %q", name)
	}
	glyphs := []rune(p.chars)
	if p.sparseFirst {
		for i, j := 0, len(glyphs)-1; i < j; i, j = i+1, j-1 {
			glyphs[i], glyphs[j] = glyphs[j], glyphs[i]
		}
	}
	return &Ramp{glyphs: glyphs}, nil
}

// PresetNames lists the available presets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of glyphs in the ramp.
func (r *Ramp) Len() int {
	return len(r.glyphs)
}

// String returns the ramp glyphs in order.
func (r *Ramp) String() string {
	return string(r.glyphs)
}

// Index maps a luminance in [0,255] to a ramp index using
// floor((lum/255)*(len-1)). Out of range input is clamped.
func (r *Ramp) Index(lum float64) int {
	last := len(r.glyphs) - 1
	if last <= 0 || math.IsNaN(lum) {
		return 0
	}
	i := int(math.Floor((lum / 255) * float64(last)))
	if i < 0 {
		return 0
	}
	if i > last {
		return last
	}
	return i
}

// Glyph returns the raw glyph at Index(lum).
func (r *Ramp) Glyph(lum float64) rune {
	return r.glyphs[r.Index(lum)]
}

// CharFor returns the glyph for lum, with a literal space replaced by a
// no-break space.
func (r *Ramp) CharFor(lum float64) rune {
	g := r.Glyph(lum)
	if g == ' ' {
		return NoBreakSpace
	}
	return g
}

// IsBlank reports whether the glyph for lum is whitespace.
func (r *Ramp) IsBlank(lum float64) bool {
	return unicode.IsSpace(r.Glyph(lum))
}

// AdjustSensitivity trims every trailing blank and then appends delta+1
// spaces, so replaying the same delta always yields the same ramp. A larger
// delta widens the blank region and hides more of the bright range.
// The ramp never shrinks below one glyph.
func (r *Ramp) AdjustSensitivity(delta int) {
	end := len(r.glyphs)
	for end > 0 && unicode.IsSpace(r.glyphs[end-1]) {
		end--
	}
	glyphs := r.glyphs[:end:end]

	pad := delta + 1
	if pad < 0 {
		pad = 0
	}
	for i := 0; i < pad; i++ {
		glyphs = append(glyphs, ' ')
	}
	if len(glyphs) == 0 {
		glyphs = append(glyphs, ' ')
	}
	r.glyphs = glyphs
}
