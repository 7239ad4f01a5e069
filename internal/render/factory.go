package render

import "fmt"

// Options carries what each renderer variant needs at construction.
type Options struct {
	Canvas CanvasOptions
	// Target receives text and html output.
	Target TextTarget
}

// New constructs the renderer tagged by t.
func New(t Type, opts Options) (Renderer, error) {
	switch t {
	case TypeCanvas:
		return NewCanvas(opts.Canvas)
	case TypeHTML, TypeText:
		if opts.Target == nil {
			return nil, fmt.Errorf("%s renderer needs an output target", t)
		}
		if t == TypeHTML {
			return NewHTML(opts.Target), nil
		}
		return NewText(opts.Target), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
	}
}
