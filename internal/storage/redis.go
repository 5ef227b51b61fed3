package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/sho0303/monster-game-sub001/internal/hero"
)

const redisKeyPrefix = "monstergame:hero:"

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// RedisStore keeps each hero payload under its own key.
type RedisStore struct {
	client *redis.Client
	logger *zap.Logger
}

func OpenRedis(ctx context.Context, opts RedisOptions, logger *zap.Logger) (*RedisStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", opts.Addr, err)
	}
	return &RedisStore{client: client, logger: logger}, nil
}

func redisKey(name string) string {
	return redisKeyPrefix + SanitizeName(name)
}

func (s *RedisStore) Load(ctx context.Context, name string) (*hero.State, bool, error) {
	payload, err := s.client.Get(ctx, redisKey(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get hero: %w", err)
	}
	h, err := decode(payload, name)
	if err != nil {
		return nil, false, err
	}
	return h, true, nil
}

func (s *RedisStore) Save(ctx context.Context, h *hero.State) error {
	if h == nil {
		return nil
	}
	payload, err := encode(h)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, redisKey(h.Name), payload, 0).Err(); err != nil {
		return fmt.Errorf("set hero: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
