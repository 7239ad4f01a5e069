// Package snapshot delivers renderer snapshots to the user: canvas images
// are written as files, text goes to the clipboard or, failing that, a
// .txt file.
package snapshot

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"

	"github.com/junsooki/asciicam/internal/encoder"
	"github.com/junsooki/asciicam/internal/render"
)

// ClipboardTarget is what Deliver reports for text copied to the clipboard.
const ClipboardTarget = "clipboard"

// Saver writes snapshots into a directory.
type Saver struct {
	dir    string
	now    func() time.Time
	copy   func(string) error
	logger *slog.Logger
}

// NewSaver creates a saver writing into dir.
func NewSaver(dir string, logger *slog.Logger) *Saver {
	if logger == nil {
		logger = slog.Default()
	}
	copyText := clipboard.WriteAll
	if clipboard.Unsupported {
		copyText = func(string) error { return fmt.Errorf("no clipboard utility available") }
	}
	return &Saver{
		dir:    dir,
		now:    time.Now,
		copy:   copyText,
		logger: logger.With("component", "snapshot"),
	}
}

// Deliver stores snap and returns the file path or ClipboardTarget.
func (s *Saver) Deliver(snap render.Snapshot) (string, error) {
	if snap.Kind == render.SnapshotImage {
		return s.saveImage(snap.Data)
	}
	err := s.copy(snap.Data)
	if err == nil {
		return ClipboardTarget, nil
	}
	s.logger.Debug("clipboard unavailable, writing file", "error", err)
	return s.write(".txt", []byte(snap.Data))
}

func (s *Saver) saveImage(uri string) (string, error) {
	mime, data, err := encoder.ParseDataURI(uri)
	if err != nil {
		return "", err
	}
	return s.write(encoder.Extension(mime), data)
}

func (s *Saver) write(ext string, data []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}
	name := "asciicam-" + s.now().Format("20060102-150405.000") + ext
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
