package state

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore keeps each key as a file inside Dir. Writes go to a sibling
// temp file that is renamed over the target, so readers observe either the
// previous blob or the new one.
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

// Path returns the file that backs key.
func (s *FileStore) Path(key string) string {
	return filepath.Join(s.Dir, key)
}

func (s *FileStore) Read(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrKeyRequired
	}
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("state: read %s: %w", s.Path(key), err)
	}
	return string(data), true, nil
}

func (s *FileStore) Write(ctx context.Context, key string, blob string) error {
	if key == "" {
		return ErrKeyRequired
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.Dir != "" {
		if err := os.MkdirAll(s.Dir, 0o755); err != nil {
			return fmt.Errorf("state: create save dir %s: %w", s.Dir, err)
		}
	}

	target := s.Path(key)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, []byte(blob), 0o644); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("state: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("state: replace %s: %w", target, err)
	}
	return nil
}
