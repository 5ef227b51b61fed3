package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sho0303/monster-game-sub001/internal/hero"
)

// FileStore keeps one indented JSON file per hero under dir.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, SanitizeName(name)+".json")
}

func (s *FileStore) Load(_ context.Context, name string) (*hero.State, bool, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read hero file: %w", err)
	}
	h, err := decode(data, name)
	if err != nil {
		return nil, false, err
	}
	return h, true, nil
}

func (s *FileStore) Save(_ context.Context, h *hero.State) error {
	if h == nil {
		return nil
	}
	data, err := encodeIndent(h)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create save dir: %w", err)
	}
	tmp := s.path(h.Name) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write hero file: %w", err)
	}
	if err := os.Rename(tmp, s.path(h.Name)); err != nil {
		return fmt.Errorf("replace hero file: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// modTime reports when the save for name was last written.
func (s *FileStore) modTime(name string) (time.Time, bool) {
	info, err := os.Stat(s.path(name))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

type legacySave struct {
	data    []byte
	modTime time.Time
}

// legacyFiles lists the JSON saves in dir keyed by file name without extension.
func legacyFiles(dir string) (map[string]legacySave, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	out := map[string]legacySave{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".json") {
			continue
		}
		raw := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		info, err := entry.Info()
		if err != nil {
			return nil, err
		}
		out[raw] = legacySave{data: data, modTime: info.ModTime()}
	}
	return out, nil
}
