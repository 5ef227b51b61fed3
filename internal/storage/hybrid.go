package storage

import (
	"context"

	"go.uber.org/zap"

	"github.com/sho0303/monster-game-sub001/internal/hero"
)

// HybridStore prefers SQLite and falls back to JSON files whenever the
// database is unavailable or a query fails.
type HybridStore struct {
	db     *SQLiteStore // nil when the database could not be opened
	files  *FileStore
	logger *zap.Logger
}

// OpenHybrid never fails: a database that cannot be opened leaves the store
// running on JSON files alone.
func OpenHybrid(ctx context.Context, path, dir string, logger *zap.Logger) *HybridStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &HybridStore{files: NewFileStore(dir), logger: logger}
	db, err := OpenSQLite(ctx, path, dir, logger)
	if err != nil {
		logger.Warn("hero db unavailable, falling back to json", zap.Error(err))
		return s
	}
	s.db = db
	return s
}

func (s *HybridStore) Load(ctx context.Context, name string) (*hero.State, bool, error) {
	if s.db == nil {
		return s.files.Load(ctx, name)
	}
	h, found, err := s.db.Load(ctx, name)
	if err != nil {
		s.logger.Warn("hero db read failed, trying json", zap.String("hero", name), zap.Error(err))
		h, found = nil, false
	}
	if found && !s.fileIsNewer(ctx, name) {
		return h, true, nil
	}

	legacy, ok, ferr := s.files.Load(ctx, name)
	if ferr != nil || !ok {
		if found {
			return h, true, nil
		}
		return nil, false, ferr
	}
	if perr := s.db.Save(ctx, legacy); perr != nil {
		s.logger.Warn("hero migration to db failed", zap.String("hero", name), zap.Error(perr))
	}
	return legacy, true, nil
}

func (s *HybridStore) Save(ctx context.Context, h *hero.State) error {
	if h == nil {
		return nil
	}
	if s.db != nil {
		err := s.db.Save(ctx, h)
		if err == nil {
			return nil
		}
		s.logger.Warn("hero db write failed, falling back to json", zap.String("hero", h.Name), zap.Error(err))
	}
	return s.files.Save(ctx, h)
}

// fileIsNewer reports whether the JSON save was written after the database
// row, which happens when a database write failed and fell back to files.
func (s *HybridStore) fileIsNewer(ctx context.Context, name string) bool {
	fileTime, ok := s.files.modTime(name)
	if !ok {
		return false
	}
	rowTime, found, err := s.db.updatedAt(ctx, name)
	if err != nil || !found {
		return false
	}
	return fileTime.After(rowTime)
}

// Degraded reports whether the store is running without its database.
func (s *HybridStore) Degraded() bool {
	return s.db == nil
}

func (s *HybridStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
