package surface

import "image"

// Sample is one pixel as r, g, b, a in [0,255].
type Sample [4]uint8

// Luminance returns the plain average of the colour channels. Alpha is
// ignored and no gamma or perceptual weighting is applied.
func (s Sample) Luminance() float64 {
	return (float64(s[0]) + float64(s[1]) + float64(s[2])) / 3
}

// PixelGrid is a row-major grid of samples. Every row has Width samples and
// there are Height rows.
type PixelGrid struct {
	Width  int
	Height int
	Rows   [][]Sample
}

// At returns the sample at column x, row y.
func (g PixelGrid) At(x, y int) Sample {
	return g.Rows[y][x]
}

// gridFromRGBA copies every pixel of img into a new grid.
func gridFromRGBA(img *image.RGBA) PixelGrid {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	rows := make([][]Sample, h)
	for y := 0; y < h; y++ {
		row := make([]Sample, w)
		off := y * img.Stride
		for x := 0; x < w; x++ {
			i := off + x*4
			row[x] = Sample{img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3]}
		}
		rows[y] = row
	}
	return PixelGrid{Width: w, Height: h, Rows: rows}
}
