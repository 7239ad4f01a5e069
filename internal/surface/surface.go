// Package surface rasterizes source frames onto a small off-screen buffer
// and reads the result back as a pixel grid.
package surface

import (
	"fmt"
	"image"
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"
)

// Default logical output size.
const (
	DefaultWidth  = 120
	DefaultHeight = 90
)

// Fit controls how a source image is placed on the surface.
type Fit string

const (
	// FitStretch scales the source to cover the whole surface, ignoring
	// its aspect ratio.
	FitStretch Fit = "stretch"
	// FitContain keeps the aspect ratio and letterboxes with the
	// background colour.
	FitContain Fit = "contain"
)

// Background is the colour a cleared surface holds.
var Background = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

var scalers = map[string]xdraw.Interpolator{
	"nearest":         xdraw.NearestNeighbor,
	"approx-bilinear": xdraw.ApproxBiLinear,
	"bilinear":        xdraw.BiLinear,
	"catmull-rom":     xdraw.CatmullRom,
}

// Options configures a Surface.
type Options struct {
	Fit    Fit
	Scaler string
}

// Surface is an off-screen RGBA raster with a configured logical size.
type Surface struct {
	width  int
	height int
	fit    Fit
	scaler xdraw.Interpolator
	raster *image.RGBA
}

// New creates a surface of the given size, filled with the background.
func New(width, height int, opts Options) (*Surface, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("surface: invalid size %dx%d", width, height)
	}
	fit := opts.Fit
	switch fit {
	case "":
		fit = FitStretch
	case FitStretch, FitContain:
	default:
		return nil, fmt.Errorf("surface: unknown fit %q", fit)
	}
	name := opts.Scaler
	if name == "" {
		name = "approx-bilinear"
	}
	scaler, ok := scalers[name]
	if !ok {
		return nil, fmt.Errorf("surface: unknown scaler %q", name)
	}

	s := &Surface{fit: fit, scaler: scaler}
	s.raster = blank(DefaultWidth, DefaultHeight)
	if err := s.Configure(width, height); err != nil {
		return nil, err
	}
	return s, nil
}

// Configure sets the logical output size. A non-zero size resets the
// raster to a blank buffer of that size; zero is kept as the logical size
// so later renders clear instead of drawing.
func (s *Surface) Configure(width, height int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("surface: invalid size %dx%d", width, height)
	}
	s.width = width
	s.height = height
	if width > 0 && height > 0 {
		s.raster = blank(width, height)
	}
	return nil
}

// Size returns the configured logical size.
func (s *Surface) Size() (width, height int) {
	return s.width, s.height
}

// Render draws img at the configured size.
func (s *Surface) Render(img image.Image) {
	s.RenderSize(img, s.width, s.height)
}

// RenderSize draws img scaled into a width x height raster, replacing all
// previous content. A zero size, a nil image, or an image with no pixels
// clears the raster at its current size instead.
func (s *Surface) RenderSize(img image.Image, width, height int) {
	if width <= 0 || height <= 0 || img == nil || img.Bounds().Empty() {
		s.Clear()
		return
	}
	if b := s.raster.Bounds(); b.Dx() != width || b.Dy() != height {
		s.raster = image.NewRGBA(image.Rect(0, 0, width, height))
	}

	xdraw.Draw(s.raster, s.raster.Bounds(), image.NewUniform(Background), image.Point{}, xdraw.Src)

	src := img.Bounds()
	dst := s.raster.Bounds()
	if s.fit == FitContain {
		dst = containRect(width, height, src.Dx(), src.Dy())
	}
	s.scaler.Scale(s.raster, dst, img, src, xdraw.Src, nil)
}

// Clear fills the raster with the background colour without resizing it.
func (s *Surface) Clear() {
	xdraw.Draw(s.raster, s.raster.Bounds(), image.NewUniform(Background), image.Point{}, xdraw.Src)
}

// PixelGrid reads back every pixel of the raster.
func (s *Surface) PixelGrid() PixelGrid {
	return gridFromRGBA(s.raster)
}

// Image exposes the raster for preview. It is overwritten by the next render.
func (s *Surface) Image() *image.RGBA {
	return s.raster
}

func blank(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.Draw(img, img.Bounds(), image.NewUniform(Background), image.Point{}, xdraw.Src)
	return img
}

// containRect fits a frameW x frameH frame into the view with letterboxing.
func containRect(viewW, viewH, frameW, frameH int) image.Rectangle {
	scale, offsetX, offsetY := AspectFit(float64(viewW), float64(viewH), float64(frameW), float64(frameH))
	w := int(math.Round(float64(frameW) * scale))
	h := int(math.Round(float64(frameH) * scale))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	x0 := int(math.Round(offsetX))
	y0 := int(math.Round(offsetY))
	return image.Rect(x0, y0, x0+w, y0+h).Intersect(image.Rect(0, 0, viewW, viewH))
}

// AspectFit returns scale and offsets to fit frame into view with letterboxing.
func AspectFit(viewW, viewH, frameW, frameH float64) (scale, offsetX, offsetY float64) {
	scale = math.Min(viewW/frameW, viewH/frameH)
	offsetX = (viewW - frameW*scale) / 2
	offsetY = (viewH - frameH*scale) / 2
	return
}
