package encoder

import (
	"encoding/base64"
	"fmt"
	"image"
	"strings"
)

// Encoder encodes an image into bytes.
type Encoder interface {
	Encode(img image.Image) ([]byte, error)
	MIMEType() string
}

// New returns the encoder for format ("png" or "jpeg").
func New(format string, quality int) (Encoder, error) {
	switch format {
	case "", "png":
		return NewPNGEncoder(), nil
	case "jpeg", "jpg":
		return NewJPEGEncoder(quality), nil
	default:
		return nil, fmt.Errorf("unknown image format %q", format)
	}
}

// DataURI encodes img and wraps it as a base64 data URI.
func DataURI(enc Encoder, img image.Image) (string, error) {
	data, err := enc.Encode(img)
	if err != nil {
		return "", err
	}
	return "data:" + enc.MIMEType() + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// ParseDataURI splits a base64 data URI into its MIME type and payload.
func ParseDataURI(uri string) (mime string, data []byte, err error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data URI")
	}
	mime, payload, ok := strings.Cut(rest, ";base64,")
	if !ok {
		return "", nil, fmt.Errorf("data URI is not base64")
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode data URI: %w", err)
	}
	return mime, data, nil
}

// Extension returns the file extension for an image MIME type.
func Extension(mime string) string {
	switch mime {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	default:
		return ".bin"
	}
}
