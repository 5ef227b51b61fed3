package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/sho0303/monster-game-sub001/internal/hero"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS heroes (
  name TEXT PRIMARY KEY,
  payload JSONB NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStore keeps heroes in a shared Postgres database.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func OpenPostgres(ctx context.Context, dsn string, logger *zap.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &PostgresStore{pool: pool, logger: logger}, nil
}

func (s *PostgresStore) Load(ctx context.Context, name string) (*hero.State, bool, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx, `SELECT payload FROM heroes WHERE name = $1`, SanitizeName(name)).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("query hero: %w", err)
	}
	h, err := decode(payload, name)
	if err != nil {
		return nil, false, err
	}
	return h, true, nil
}

func (s *PostgresStore) Save(ctx context.Context, h *hero.State) error {
	if h == nil {
		return nil
	}
	payload, err := encode(h)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO heroes(name, payload, updated_at)
		 VALUES($1, $2, now())
		 ON CONFLICT(name) DO UPDATE SET
		   payload=excluded.payload,
		   updated_at=now()`,
		SanitizeName(h.Name),
		payload,
	)
	if err != nil {
		return fmt.Errorf("upsert hero: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
