package render

import (
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/gogpu/gg"

	"github.com/junsooki/asciicam/internal/encoder"
	"github.com/junsooki/asciicam/internal/glyph"
	"github.com/junsooki/asciicam/internal/surface"
)

// CanvasMode selects how a canvas cell is painted.
type CanvasMode string

const (
	// ModeBlocks fills every visible cell with its pixel colour.
	ModeBlocks CanvasMode = "blocks"
	// ModeGlyphs draws the ramp glyph of every visible cell in its pixel colour.
	ModeGlyphs CanvasMode = "glyphs"
)

// DefaultCellSize is the side of one canvas cell in pixels.
const DefaultCellSize = 6

// CanvasOptions configures a canvas renderer.
type CanvasOptions struct {
	CellSize int
	Mode     CanvasMode
	// FontPath and FontSize are required in glyphs mode.
	FontPath string
	FontSize float64
	// Encoder serializes snapshots; nil means PNG.
	Encoder encoder.Encoder
	// Columns and Rows size the initial blank canvas.
	Columns, Rows int
	Logger        *slog.Logger
}

// Canvas paints grids onto a gg raster, one cell per grid sample.
type Canvas struct {
	ctx    *gg.Context
	cell   int
	mode   CanvasMode
	enc    encoder.Encoder
	cols   int
	rows   int
	logger *slog.Logger
}

// NewCanvas creates a canvas renderer with a blank raster.
func NewCanvas(opts CanvasOptions) (*Canvas, error) {
	if opts.CellSize <= 0 {
		opts.CellSize = DefaultCellSize
	}
	if opts.Mode == "" {
		opts.Mode = ModeBlocks
	}
	if opts.Columns <= 0 || opts.Rows <= 0 {
		opts.Columns, opts.Rows = surface.DefaultWidth, surface.DefaultHeight
	}
	if opts.Encoder == nil {
		opts.Encoder = encoder.NewPNGEncoder()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	c := &Canvas{
		ctx:    gg.NewContext(opts.Columns*opts.CellSize, opts.Rows*opts.CellSize),
		cell:   opts.CellSize,
		mode:   opts.Mode,
		enc:    opts.Encoder,
		cols:   opts.Columns,
		rows:   opts.Rows,
		logger: opts.Logger.With("component", "render", "renderer", string(TypeCanvas)),
	}

	switch opts.Mode {
	case ModeBlocks:
	case ModeGlyphs:
		if opts.FontPath == "" {
			return nil, errors.New("canvas glyphs mode needs a font path")
		}
		size := opts.FontSize
		if size <= 0 {
			size = float64(opts.CellSize)
		}
		if err := c.ctx.LoadFontFace(opts.FontPath, size); err != nil {
			return nil, fmt.Errorf("load font %s: %w", opts.FontPath, err)
		}
	default:
		return nil, fmt.Errorf("unknown canvas mode %q", opts.Mode)
	}

	c.ctx.ClearWithColor(gg.White)
	return c, nil
}

func (c *Canvas) Type() Type {
	return TypeCanvas
}

func (c *Canvas) Render(grid surface.PixelGrid, ramp *glyph.Ramp) error {
	if grid.Width == 0 || grid.Height == 0 {
		return c.Clean()
	}
	if grid.Width != c.cols || grid.Height != c.rows {
		if err := c.ctx.Resize(grid.Width*c.cell, grid.Height*c.cell); err != nil {
			return fmt.Errorf("resize canvas: %w", err)
		}
		c.cols, c.rows = grid.Width, grid.Height
		c.logger.Debug("canvas resized", "cols", c.cols, "rows", c.rows)
	}

	c.ctx.ClearWithColor(gg.White)
	cell := float64(c.cell)
	for y, row := range grid.Rows {
		for x, s := range row {
			lum := s.Luminance()
			if ramp.IsBlank(lum) {
				continue
			}
			c.ctx.SetRGB(float64(s[0])/255, float64(s[1])/255, float64(s[2])/255)
			px, py := float64(x)*cell, float64(y)*cell
			if c.mode == ModeGlyphs {
				c.ctx.DrawStringAnchored(string(ramp.Glyph(lum)), px+cell/2, py+cell/2, 0.5, 0.5)
				continue
			}
			c.ctx.DrawRectangle(px, py, cell, cell)
			if err := c.ctx.Fill(); err != nil {
				return fmt.Errorf("fill cell %d,%d: %w", x, y, err)
			}
		}
	}
	return nil
}

func (c *Canvas) Clean() error {
	c.ctx.ClearWithColor(gg.White)
	return nil
}

// Snapshot encodes the raster as a data URI.
func (c *Canvas) Snapshot() (Snapshot, error) {
	uri, err := encoder.DataURI(c.enc, c.ctx.Image())
	if err != nil {
		return Snapshot{}, fmt.Errorf("encode canvas: %w", err)
	}
	return Snapshot{Type: TypeCanvas, Kind: SnapshotImage, Data: uri}, nil
}

// Image returns a copy of the raster for hosts to present.
func (c *Canvas) Image() *image.RGBA {
	return c.ctx.Image().(*image.RGBA)
}

// Size returns the raster size in pixels.
func (c *Canvas) Size() (width, height int) {
	return c.ctx.Width(), c.ctx.Height()
}

// Close releases the raster.
func (c *Canvas) Close() error {
	return c.ctx.Close()
}
