package glyph

import (
	"errors"
	"testing"
)

func TestNewRamp_Empty(t *testing.T) {
	if _, err := NewRamp(""); !errors.Is(err, ErrEmptyRamp) {
		t.Fatalf("expected ErrEmptyRamp, got %v", err)
	}
}

func TestDefaultRampLength(t *testing.T) {
	r := Default()
	if r.Len() != 32 {
		t.Errorf("Expected 32 glyphs, got %d", r.Len())
	}
}

func TestCharFor_Endpoints(t *testing.T) {
	r, err := NewRamp("#*+-")
	if err != nil {
		t.Fatalf("NewRamp failed: %v", err)
	}
	if got := r.CharFor(0); got != '#' {
		t.Errorf("CharFor(0) = %q, want '#'", got)
	}
	if got := r.CharFor(255); got != '-' {
		t.Errorf("CharFor(255) = %q, want '-'", got)
	}
}

func TestCharFor_SpaceBecomesNoBreak(t *testing.T) {
	r := Default()
	if got := r.CharFor(255); got != NoBreakSpace {
		t.Errorf("CharFor(255) = %q, want no-break space", got)
	}
	if got := r.Glyph(255); got != ' ' {
		t.Errorf("Glyph(255) = %q, want literal space", got)
	}
	if !r.IsBlank(255) {
		t.Error("Expected luminance 255 to be blank")
	}
	if r.IsBlank(0) {
		t.Error("Expected luminance 0 to be visible")
	}
}

func TestIndex_InRange(t *testing.T) {
	for _, chars := range []string{"x", "#.", DefaultCharset, "0123456789"} {
		r, _ := NewRamp(chars)
		for lum := -10.0; lum <= 270; lum += 0.5 {
			i := r.Index(lum)
			if i < 0 || i > r.Len()-1 {
				t.Fatalf("ramp %q: Index(%v) = %d out of [0,%d]", chars, lum, i, r.Len()-1)
			}
		}
	}
}

func TestIndex_Formula(t *testing.T) {
	r, _ := NewRamp("#*+-")
	tests := []struct {
		lum  float64
		want int
	}{
		{0, 0},
		{84, 0},
		{86, 1},
		{171, 2},
		{254, 2},
		{255, 3},
	}
	for _, tt := range tests {
		if got := r.Index(tt.lum); got != tt.want {
			t.Errorf("Index(%v) = %d, want %d", tt.lum, got, tt.want)
		}
	}
}

func TestMidGrayTwoGlyphRamp(t *testing.T) {
	r, _ := NewRamp("# ")
	if got := r.CharFor(128); got != '#' {
		t.Errorf("CharFor(128) = %q, want '#'", got)
	}
}

func TestSingleGlyphRamp(t *testing.T) {
	r, _ := NewRamp("@")
	for _, lum := range []float64{0, 100, 255} {
		if got := r.CharFor(lum); got != '@' {
			t.Errorf("CharFor(%v) = %q, want '@'", lum, got)
		}
	}
}

func TestAdjustSensitivity_ReplayIsStable(t *testing.T) {
	r := Default()
	r.AdjustSensitivity(0)
	first := r.Len()
	r.AdjustSensitivity(0)
	if r.Len() != first {
		t.Errorf("Expected length %d after replay, got %d", first, r.Len())
	}

	r.AdjustSensitivity(5)
	five := r.String()
	r.AdjustSensitivity(5)
	if r.String() != five {
		t.Errorf("Expected %q after replay, got %q", five, r.String())
	}
	if r.Len() != 31+6 {
		t.Errorf("Expected 37 glyphs, got %d", r.Len())
	}
}

func TestAdjustSensitivity_Shrink(t *testing.T) {
	r := Default()
	r.AdjustSensitivity(10)
	r.AdjustSensitivity(0)
	if r.Len() != 32 {
		t.Errorf("Expected ramp back to 32 glyphs, got %d", r.Len())
	}
}

func TestAdjustSensitivity_Underflow(t *testing.T) {
	r, _ := NewRamp("   ")
	r.AdjustSensitivity(-5)
	if r.Len() != 1 {
		t.Fatalf("Expected clamp to length 1, got %d", r.Len())
	}
	if got := r.CharFor(0); got != NoBreakSpace {
		t.Errorf("CharFor(0) = %q, want no-break space", got)
	}
}

func TestAdjustSensitivity_NegativeKeepsGlyphs(t *testing.T) {
	r := Default()
	r.AdjustSensitivity(-1)
	if r.Len() != 31 {
		t.Errorf("Expected 31 glyphs, got %d", r.Len())
	}
	if r.IsBlank(255) {
		t.Error("Expected no blank glyph after -1 adjustment")
	}
}

func TestPresets(t *testing.T) {
	for _, name := range PresetNames() {
		r, err := Preset(name)
		if err != nil {
			t.Fatalf("Preset(%q) failed: %v", name, err)
		}
		if r.IsBlank(0) {
			t.Errorf("preset %q: darkest glyph is blank", name)
		}
		if !r.IsBlank(255) {
			t.Errorf("preset %q: brightest glyph is not blank", name)
		}
	}
	if _, err := Preset("nope"); err == nil {
		t.Error("Expected error for unknown preset")
	}
}

func TestPresetsAreIndependent(t *testing.T) {
	a, _ := Preset("blocks")
	a.AdjustSensitivity(20)
	b, _ := Preset("blocks")
	if a.Len() == b.Len() {
		t.Error("Expected preset ramps not to share storage")
	}
}
