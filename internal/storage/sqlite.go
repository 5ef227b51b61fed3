package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/sho0303/monster-game-sub001/internal/hero"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS heroes (
  name TEXT PRIMARY KEY,
  payload TEXT NOT NULL,
  updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

// sqliteTimeLayout is the format of CURRENT_TIMESTAMP.
const sqliteTimeLayout = "2006-01-02 15:04:05"

// SQLiteStore keeps heroes in a single-file SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// OpenSQLite opens (or creates) the database at path and imports any JSON
// saves found in legacyDir that are not already in it.
func OpenSQLite(ctx context.Context, path, legacyDir string, logger *zap.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	s := &SQLiteStore{db: db, logger: logger}
	if err := s.migrateLegacy(ctx, legacyDir); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate json saves: %w", err)
	}
	return s, nil
}

// migrateLegacy imports JSON saves that have no row yet or were written
// after the row, e.g. by a hybrid store whose database write failed.
func (s *SQLiteStore) migrateLegacy(ctx context.Context, dir string) error {
	if dir == "" {
		return nil
	}
	files, err := legacyFiles(dir)
	if err != nil {
		return err
	}
	for raw, save := range files {
		h, err := decode(save.data, raw)
		if err != nil {
			return err
		}
		updated, found, err := s.updatedAt(ctx, h.Name)
		if err != nil {
			return err
		}
		if found && !save.modTime.After(updated) {
			continue
		}
		if err := s.Save(ctx, h); err != nil {
			return err
		}
		s.logger.Info("migrated json save", zap.String("hero", h.Name), zap.Bool("replaced_row", found))
	}
	return nil
}

// updatedAt returns when the row for name was last written.
func (s *SQLiteStore) updatedAt(ctx context.Context, name string) (time.Time, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT updated_at FROM heroes WHERE name = ?`, SanitizeName(name)).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("query hero timestamp: %w", err)
	}
	for _, layout := range []string{time.RFC3339Nano, sqliteTimeLayout} {
		if t, perr := time.ParseInLocation(layout, raw, time.UTC); perr == nil {
			return t, true, nil
		}
	}
	return time.Time{}, true, nil
}

func (s *SQLiteStore) Load(ctx context.Context, name string) (*hero.State, bool, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM heroes WHERE name = ?`, SanitizeName(name)).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("query hero: %w", err)
	}
	h, err := decode([]byte(payload), name)
	if err != nil {
		return nil, false, err
	}
	return h, true, nil
}

func (s *SQLiteStore) Save(ctx context.Context, h *hero.State) error {
	if h == nil {
		return nil
	}
	payload, err := encode(h)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO heroes(name, payload, updated_at)
		 VALUES(?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
		   payload=excluded.payload,
		   updated_at=excluded.updated_at`,
		SanitizeName(h.Name),
		string(payload),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert hero: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
