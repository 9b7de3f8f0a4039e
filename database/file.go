package database

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/ortelius/orgmap-backend/model"
)

// FileStore keeps the overlay document in a local JSON file
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a store writing to path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the overlay document; a missing file is an empty overlay
func (s *FileStore) Load(_ context.Context) (model.OverlayState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.NewOverlayState(), nil
	}
	if err != nil {
		return model.NewOverlayState(), fmt.Errorf("failed to read state file: %w", err)
	}
	return DecodeState(data)
}

// Save writes the overlay document through a temp file and rename.
// A stored document of an incompatible schema version is never replaced.
func (s *FileStore) Save(_ context.Context, state model.OverlayState) error {
	data, err := EncodeState(state)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, err := os.ReadFile(s.path); err == nil {
		if err := guardOverwrite(existing); err != nil {
			return err
		}
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create state directory: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}

// Close is a no-op for file storage
func (s *FileStore) Close() error { return nil }
