package cart

import (
	"context"
	"os"
	"path/filepath"

	"github.com/go-faster/errors"
)

// FileStorage persists the cart snapshot as a single JSON file, the desktop
// equivalent of the browser's localStorage "cart" key.
type FileStorage struct {
	path string
}

// NewFileStorage creates a FileStorage writing to path. The parent directory
// is created on first save.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Load reads and decodes the snapshot file. A missing file maps to
// ErrNoSnapshot.
func (f *FileStorage) Load(_ context.Context) (Snapshot, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Snapshot{}, ErrNoSnapshot
		}
		return Snapshot{}, errors.Wrap(err, "read cart file")
	}
	return DecodeSnapshot(data)
}

// Save encodes and writes the snapshot, replacing the previous file.
func (f *FileStorage) Save(_ context.Context, snap Snapshot) error {
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "create cart dir")
		}
	}
	if err := os.WriteFile(f.path, EncodeSnapshot(snap), 0o600); err != nil {
		return errors.Wrap(err, "write cart file")
	}
	return nil
}
