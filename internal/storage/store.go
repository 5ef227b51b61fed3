// Package storage persists hero records. Every backend stores the same JSON
// payload keyed by a sanitized hero name.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sho0303/monster-game-sub001/internal/config"
	"github.com/sho0303/monster-game-sub001/internal/hero"
)

const fallbackName = "hero"

// Store loads and saves heroes.
type Store interface {
	// Load returns found=false with a nil error when no save exists.
	Load(ctx context.Context, name string) (*hero.State, bool, error)
	Save(ctx context.Context, h *hero.State) error
	Close() error
}

// Open builds the store selected by cfg.SaveMode.
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("opening hero store", zap.String("mode", cfg.SaveMode))

	switch cfg.SaveMode {
	case config.SaveModeJSON:
		return NewFileStore(cfg.SaveDir), nil
	case config.SaveModeSQLite:
		s, err := OpenSQLite(ctx, cfg.SQLitePath, cfg.SaveDir, logger)
		if err != nil {
			return nil, fmt.Errorf("hero db unavailable in sqlite mode: %w", err)
		}
		return s, nil
	case config.SaveModeHybrid:
		return OpenHybrid(ctx, cfg.SQLitePath, cfg.SaveDir, logger), nil
	case config.SaveModePostgres:
		return OpenPostgres(ctx, cfg.PostgresDSN, logger)
	case config.SaveModeRedis:
		return OpenRedis(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, logger)
	}
	return nil, fmt.Errorf("unknown save mode %q", cfg.SaveMode)
}

func encode(h *hero.State) ([]byte, error) {
	hero.EnsureDefaults(h)
	data, err := json.Marshal(h)
	if err != nil {
		return nil, fmt.Errorf("encode hero %q: %w", h.Name, err)
	}
	return data, nil
}

func encodeIndent(h *hero.State) ([]byte, error) {
	hero.EnsureDefaults(h)
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode hero %q: %w", h.Name, err)
	}
	return data, nil
}

func decode(data []byte, name string) (*hero.State, error) {
	var h hero.State
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("decode hero %q: %w", name, err)
	}
	if strings.TrimSpace(h.Name) == "" {
		h.Name = strings.TrimSpace(name)
	}
	hero.EnsureDefaults(&h)
	return &h, nil
}

// SanitizeName turns a display name into a storage key: lower case letters,
// digits, '_' and '-', with spaces as '_'.
func SanitizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	for _, ch := range name {
		switch {
		case ch >= 'a' && ch <= 'z':
			b.WriteRune(ch)
		case ch >= '0' && ch <= '9':
			b.WriteRune(ch)
		case ch == '_' || ch == '-':
			b.WriteRune(ch)
		case ch == ' ':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return fallbackName
	}
	return b.String()
}
