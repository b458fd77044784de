package learning

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ianmackinnon/isostate/internal/reference"
	"github.com/ianmackinnon/isostate/pkg/config"
)

// FileStore appends rows to a local text file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Append(_ context.Context, row reference.Row) error {
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return unavailable(config.BackendFile, err)
	}
	if _, err := f.WriteString(row.Format()); err != nil {
		f.Close()
		return unavailable(config.BackendFile, fmt.Errorf("writing %s: %w", s.path, err))
	}
	if err := f.Close(); err != nil {
		return unavailable(config.BackendFile, err)
	}
	return nil
}

func (s *FileStore) Rows(_ context.Context) ([]reference.Row, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable(config.BackendFile, err)
	}
	defer f.Close()
	return reference.ParseRows(f, filepath.Base(s.path))
}

// Ping checks that the cache file, or the directory it would be created in,
// is reachable.
func (s *FileStore) Ping(_ context.Context) error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	}
	dir := filepath.Dir(s.path)
	info, err := os.Stat(dir)
	if err != nil {
		return unavailable(config.BackendFile, err)
	}
	if !info.IsDir() {
		return unavailable(config.BackendFile, fmt.Errorf("%s is not a directory", dir))
	}
	return nil
}

func (s *FileStore) Backend() string {
	return config.BackendFile
}

func (s *FileStore) Close() error {
	return nil
}
