package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// Local stores receipt files on the local filesystem.
type Local struct {
	basePath string
}

// NewLocal creates the directory if needed and returns a Local store.
func NewLocal(basePath string) (*Local, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}
	return &Local{basePath: basePath}, nil
}

// Save writes the file and returns its name as the retrieval path. Names may
// carry a directory prefix (receipts are grouped per user). Content type is
// not recorded locally.
func (l *Local) Save(name string, data []byte, contentType string) (string, error) {
	full := filepath.Join(l.basePath, name)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return "", fmt.Errorf("creating storage directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0644); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}
	return name, nil
}

// Get reads a saved file.
func (l *Local) Get(path string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(l.basePath, path))
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return data, nil
}

// Delete removes a saved file.
func (l *Local) Delete(path string) error {
	if err := os.Remove(filepath.Join(l.basePath, path)); err != nil {
		return fmt.Errorf("deleting file: %w", err)
	}
	return nil
}
