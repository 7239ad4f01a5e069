// Package render turns pixel grids into visible output. Every renderer owns
// one output target, can wipe it, and can serialize what it last drew.
package render

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/junsooki/asciicam/internal/glyph"
	"github.com/junsooki/asciicam/internal/surface"
)

// Type tags a renderer variant.
type Type string

const (
	TypeCanvas Type = "canvas"
	TypeHTML   Type = "html"
	TypeText   Type = "text"
)

// ErrUnknownType is returned for renderer names outside canvas/html/text.
var ErrUnknownType = errors.New("unknown renderer type")

// ParseType validates a renderer name.
func ParseType(s string) (Type, error) {
	switch t := Type(s); t {
	case TypeCanvas, TypeHTML, TypeText:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
}

// SnapshotKind says how a snapshot should be delivered.
type SnapshotKind int

const (
	// SnapshotImage holds an image data URI, meant for download.
	SnapshotImage SnapshotKind = iota
	// SnapshotText holds plain text rows, meant for the clipboard.
	SnapshotText
)

func (k SnapshotKind) String() string {
	if k == SnapshotImage {
		return "image"
	}
	return "text"
}

// Snapshot is a serialized copy of a renderer's current output.
type Snapshot struct {
	Type Type
	Kind SnapshotKind
	Data string
}

// Renderer consumes pixel grids and draws them into its output target.
type Renderer interface {
	Type() Type
	// Render replaces all previous output with grid mapped through ramp.
	Render(grid surface.PixelGrid, ramp *glyph.Ramp) error
	// Clean resets the output target to blank. Call it before dropping a
	// renderer so the next one starts from a clean target.
	Clean() error
	Snapshot() (Snapshot, error)
}

// TextTarget is a container whose whole content is replaced at once, the
// counterpart of setting innerHTML on a DOM node.
type TextTarget interface {
	Replace(content string)
}

// Buffer is an in-memory TextTarget.
type Buffer struct {
	mu       sync.Mutex
	content  string
	replaces int
}

func (b *Buffer) Replace(content string) {
	b.mu.Lock()
	b.content = content
	b.replaces++
	b.mu.Unlock()
}

// Content returns the current content.
func (b *Buffer) Content() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.content
}

// Replaces counts Replace calls.
func (b *Buffer) Replaces() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.replaces
}

// plainText turns renderer glyphs back into clipboard-friendly text.
func plainText(s string) string {
	return strings.ReplaceAll(s, string(glyph.NoBreakSpace), " ")
}
