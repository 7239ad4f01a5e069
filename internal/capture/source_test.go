package capture

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"
)

type fakeStream struct {
	facing FacingMode
	frame  *Frame
	closed bool
}

func (s *fakeStream) Latest() *Frame { return s.frame }
func (s *fakeStream) Close() error   { s.closed = true; return nil }

type fakeOpener struct {
	fail    map[FacingMode]error
	opened  []Constraints
	streams []*fakeStream
}

func (o *fakeOpener) Name() string { return "fake" }

func (o *fakeOpener) Open(ctx context.Context, c Constraints) (Stream, error) {
	o.opened = append(o.opened, c)
	if err := o.fail[c.Facing]; err != nil {
		return nil, err
	}
	s := &fakeStream{
		facing: c.Facing,
		frame:  &Frame{Image: image.NewRGBA(image.Rect(0, 0, c.Width, c.Height))},
	}
	o.streams = append(o.streams, s)
	return s, nil
}

func TestSource_CaptureStream(t *testing.T) {
	o := &fakeOpener{}
	src := NewSource(o, 120, 90, FacingUser, nil)

	if !src.Paused() {
		t.Fatal("Expected new source to be paused")
	}
	if src.CurrentFrame() != nil {
		t.Fatal("Expected no frame before capture")
	}

	if err := src.CaptureStream(context.Background(), FacingUser); err != nil {
		t.Fatalf("CaptureStream failed: %v", err)
	}
	if src.Paused() {
		t.Error("Expected playback after capture")
	}
	if src.SessionID() == "" {
		t.Error("Expected a session ID")
	}
	if got := o.opened[0]; got != (Constraints{Width: 120, Height: 90, Facing: FacingUser}) {
		t.Errorf("constraints = %+v", got)
	}
	if src.CurrentFrame() == nil {
		t.Error("Expected a current frame")
	}
}

func TestSource_CaptureReplacesStream(t *testing.T) {
	o := &fakeOpener{}
	src := NewSource(o, 4, 3, FacingUser, nil)
	ctx := context.Background()

	if err := src.CaptureStream(ctx, FacingUser); err != nil {
		t.Fatalf("first capture: %v", err)
	}
	first := src.SessionID()
	if err := src.CaptureStream(ctx, FacingEnvironment); err != nil {
		t.Fatalf("second capture: %v", err)
	}
	if !o.streams[0].closed {
		t.Error("Expected previous stream to be closed")
	}
	if src.SessionID() == first {
		t.Error("Expected a new session ID")
	}
	if src.Facing() != FacingEnvironment {
		t.Errorf("facing = %s", src.Facing())
	}
}

func TestSource_FailedCaptureLeavesStateUntouched(t *testing.T) {
	o := &fakeOpener{fail: map[FacingMode]error{FacingEnvironment: ErrPermissionDenied}}
	src := NewSource(o, 4, 3, FacingUser, nil)
	ctx := context.Background()

	if err := src.CaptureStream(ctx, FacingUser); err != nil {
		t.Fatalf("capture: %v", err)
	}
	src.Pause()
	session := src.SessionID()

	err := src.CaptureStream(ctx, FacingEnvironment)
	var ce *CaptureError
	if !errors.As(err, &ce) {
		t.Fatalf("Expected *CaptureError, got %v", err)
	}
	if !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("Expected ErrPermissionDenied, got %v", err)
	}
	if ce.Facing != FacingEnvironment || ce.Backend != "fake" {
		t.Errorf("error fields = %+v", ce)
	}

	if src.SessionID() != session {
		t.Error("session ID changed after failed capture")
	}
	if src.Facing() != FacingUser {
		t.Errorf("facing = %s, want user", src.Facing())
	}
	if !src.Paused() {
		t.Error("play state changed after failed capture")
	}
	if o.streams[0].closed {
		t.Error("previous stream closed after failed capture")
	}
}

func TestSource_ToggleWithoutStream(t *testing.T) {
	o := &fakeOpener{}
	src := NewSource(o, 4, 3, FacingUser, nil)

	if err := src.ToggleFacingMode(context.Background()); err != nil {
		t.Fatalf("ToggleFacingMode failed: %v", err)
	}
	if src.Facing() != FacingEnvironment {
		t.Errorf("facing = %s, want environment", src.Facing())
	}
	if len(o.opened) != 1 || o.opened[0].Facing != FacingEnvironment {
		t.Errorf("opened = %+v", o.opened)
	}
}

func TestSource_ToggleRollsBack(t *testing.T) {
	o := &fakeOpener{fail: map[FacingMode]error{FacingEnvironment: ErrNoDevice}}
	src := NewSource(o, 4, 3, FacingUser, nil)

	err := src.ToggleFacingMode(context.Background())
	if !errors.Is(err, ErrNoDevice) {
		t.Fatalf("Expected ErrNoDevice, got %v", err)
	}
	if src.Facing() != FacingUser {
		t.Errorf("facing = %s, want rollback to user", src.Facing())
	}
	if len(o.opened) != 1 || o.opened[0].Facing != FacingEnvironment {
		t.Errorf("Expected one attempt with the flipped mode, got %+v", o.opened)
	}
}

func TestSource_PauseKeepsStream(t *testing.T) {
	o := &fakeOpener{}
	src := NewSource(o, 4, 3, FacingUser, nil)

	if err := src.Play(); !errors.Is(err, ErrNoStream) {
		t.Fatalf("Expected ErrNoStream, got %v", err)
	}
	if err := src.CaptureStream(context.Background(), FacingUser); err != nil {
		t.Fatalf("capture: %v", err)
	}
	src.Pause()
	if !src.Paused() || !src.HasStream() {
		t.Fatal("Expected paused source with stream")
	}
	if o.streams[0].closed {
		t.Error("Pause closed the stream")
	}
	if err := src.Play(); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	if src.Paused() {
		t.Error("Expected playback after Play")
	}
	if len(o.opened) != 1 {
		t.Errorf("Expected no re-open on resume, got %d opens", len(o.opened))
	}
}

func TestSource_Close(t *testing.T) {
	o := &fakeOpener{}
	src := NewSource(o, 4, 3, FacingUser, nil)
	_ = src.CaptureStream(context.Background(), FacingUser)
	if err := src.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !o.streams[0].closed || src.HasStream() || !src.Paused() {
		t.Error("Expected closed, stream-less, paused source")
	}
}

func TestParseFacingMode(t *testing.T) {
	tests := map[string]FacingMode{
		"user":        FacingUser,
		"front":       FacingUser,
		"environment": FacingEnvironment,
		"back":        FacingEnvironment,
	}
	for in, want := range tests {
		got, err := ParseFacingMode(in)
		if err != nil || got != want {
			t.Errorf("ParseFacingMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseFacingMode("side"); err == nil {
		t.Error("Expected error for unknown mode")
	}
}

func TestPatternOpener(t *testing.T) {
	s, err := NewPatternOpener().Open(context.Background(), Constraints{Width: 8, Height: 4, Facing: FacingUser})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	a := s.Latest()
	b := s.Latest()
	if a == nil || b == nil {
		t.Fatal("Expected frames")
	}
	if a.Image.Bounds() != image.Rect(0, 0, 8, 4) {
		t.Errorf("bounds = %v", a.Image.Bounds())
	}
	if b.Seq <= a.Seq {
		t.Error("Expected increasing sequence numbers")
	}
	_ = s.Close()
	if s.Latest() != nil {
		t.Error("Expected no frame after Close")
	}
}

func TestStillOpener_Missing(t *testing.T) {
	o := NewStillOpener(filepath.Join(t.TempDir(), "missing.png"), nil)
	_, err := o.Open(context.Background(), Constraints{})
	if !errors.Is(err, ErrNoDevice) {
		t.Fatalf("Expected ErrNoDevice, got %v", err)
	}
}

func TestStillOpener_Garbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")
	if err := os.WriteFile(path, []byte("nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewStillOpener(path, nil).Open(context.Background(), Constraints{}); err == nil {
		t.Error("Expected decode error")
	}
}
