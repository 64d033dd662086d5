// Package store persists rendered cards.
package store

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/youruser/profilecard/internal/util"
)

// ErrEmptyPath is returned when no destination is given.
var ErrEmptyPath = errors.New("empty output path")

// FileWriter writes to the local file system. Relative paths are resolved
// against Root when it is set.
type FileWriter struct {
	Root string
}

// NewFileWriter returns a writer rooted at root.
func NewFileWriter(root string) *FileWriter {
	return &FileWriter{Root: root}
}

// Resolve returns the on-disk location for path.
func (w *FileWriter) Resolve(path string) string {
	if w.Root == "" || filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(w.Root, path)
}

// WriteBytes atomically replaces the file at path with data.
func (w *FileWriter) WriteBytes(ctx context.Context, path string, data []byte) error {
	if path == "" {
		return ErrEmptyPath
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return util.WriteFile(w.Resolve(path), data)
}
