package capture

import (
	"context"
	"fmt"
	"os"

	"github.com/junsooki/asciicam/internal/decoder"
)

// StillOpener serves a decoded image file as a camera that never changes.
// Both facing modes show the same picture.
type StillOpener struct {
	path string
	dec  decoder.Decoder
}

// NewStillOpener creates an opener for the image at path.
func NewStillOpener(path string, dec decoder.Decoder) *StillOpener {
	if dec == nil {
		dec = decoder.NewImageDecoder()
	}
	return &StillOpener{path: path, dec: dec}
}

func (o *StillOpener) Name() string {
	return "file"
}

func (o *StillOpener) Open(ctx context.Context, c Constraints) (Stream, error) {
	data, err := os.ReadFile(o.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoDevice, o.path)
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, o.path)
		}
		return nil, err
	}
	img, err := o.dec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", o.path, err)
	}
	s := &stillStream{}
	s.slot.Store(img)
	return s, nil
}

type stillStream struct {
	slot Slot
}

func (s *stillStream) Latest() *Frame {
	return s.slot.Latest()
}

func (s *stillStream) Close() error {
	return nil
}
