package transcode

import (
	"fmt"
	"os"
	"path/filepath"
)

const tempWAVName = "decoded.wav"

// TempWAV reserves a path for an intermediate WAV file inside a private
// directory. The file itself does not exist until a decoder writes it, so
// decoders that refuse to overwrite can target it. Release removes the
// directory and everything in it.
type TempWAV struct {
	dir  string
	path string
}

// NewTempWAV creates the private directory under parent, or under the system
// temp directory when parent is empty.
func NewTempWAV(parent string) (*TempWAV, error) {
	if parent != "" {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return nil, fmt.Errorf("create temp parent %s: %w", parent, err)
		}
	}
	dir, err := os.MkdirTemp(parent, "albumconv-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	return &TempWAV{dir: dir, path: filepath.Join(dir, tempWAVName)}, nil
}

// Path returns the WAV file location.
func (w *TempWAV) Path() string {
	if w == nil {
		return ""
	}
	return w.path
}

// Release deletes the intermediate file. It is safe to call more than once.
func (w *TempWAV) Release() error {
	if w == nil || w.dir == "" {
		return nil
	}
	err := os.RemoveAll(w.dir)
	w.dir = ""
	return err
}
