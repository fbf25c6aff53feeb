package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/podcast-tools/spotify-mcp/pkg/core"
)

// DefaultTokenFileName is the well-known file name collaborating processes
// read from the user's home directory.
const DefaultTokenFileName = ".spotify-mcp-tokens.json"

// FileStore persists the token record as a JSON document on disk. It is the
// default backend: the location and document shape are a compatibility
// contract with other tooling that reads the same file.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore at the given path.
// An empty path selects DefaultTokenPath.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		var err error
		path, err = DefaultTokenPath()
		if err != nil {
			return nil, err
		}
	}
	return &FileStore{path: path}, nil
}

// DefaultTokenPath returns the token file location in the user's home
// directory.
func DefaultTokenPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, DefaultTokenFileName), nil
}

// Path returns the resolved file location.
func (f *FileStore) Path() string {
	return f.path
}

// Load reads the record from disk. A missing, unreadable, or malformed file
// is reported as absent rather than as an error, so a damaged file degrades
// to the unauthenticated state instead of wedging every caller.
func (f *FileStore) Load(ctx context.Context) (*core.TokenRecord, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		core.LoggerFromCtx(ctx).Warn("unreadable token file, treating as absent",
			"path", f.path, "error", err)
		return nil, nil
	}

	var record core.TokenRecord
	if err := json.Unmarshal(data, &record); err != nil {
		core.LoggerFromCtx(ctx).Warn("malformed token file, treating as absent",
			"path", f.path, "error", err)
		return nil, nil
	}

	return &record, nil
}

// Save atomically replaces the token file: the record is written to a temp
// file in the destination directory and renamed into place, so a concurrent
// reader never observes a partial document.
func (f *FileStore) Save(ctx context.Context, record *core.TokenRecord) error {
	if record == nil {
		return ErrNilRecord
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token record: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".tmp-")
	if err != nil {
		return fmt.Errorf("failed to create temp token file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp token file: %w", err)
	}
	// Token material stays owner-readable only.
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to restrict token file permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp token file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace token file: %w", err)
	}

	return nil
}

// Clear removes the token file. Clearing a file that does not exist is not
// an error.
func (f *FileStore) Clear(ctx context.Context) error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}
