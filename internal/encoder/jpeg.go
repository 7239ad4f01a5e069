package encoder

import (
	"bytes"
	"image"
	"image/draw"
	"image/jpeg"
)

// JPEGEncoder encodes snapshots as JPEG. JPEG has no alpha channel, so
// translucent images are flattened onto white first.
type JPEGEncoder struct {
	opts jpeg.Options
}

// NewJPEGEncoder clamps quality into 1-100.
func NewJPEGEncoder(quality int) *JPEGEncoder {
	quality = min(max(quality, 1), 100)
	return &JPEGEncoder{opts: jpeg.Options{Quality: quality}}
}

func (e *JPEGEncoder) Encode(img image.Image) ([]byte, error) {
	if o, ok := img.(interface{ Opaque() bool }); !ok || !o.Opaque() {
		img = flatten(img)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &e.opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *JPEGEncoder) MIMEType() string {
	return "image/jpeg"
}

func flatten(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, image.White, image.Point{}, draw.Src)
	draw.Draw(out, b, img, b.Min, draw.Over)
	return out
}
