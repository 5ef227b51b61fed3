// Package config reads game settings from the environment and an optional
// .env file, clamping invalid values back to their defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	SaveModeJSON     = "json"
	SaveModeSQLite   = "sqlite"
	SaveModeHybrid   = "hybrid"
	SaveModePostgres = "postgres"
	SaveModeRedis    = "redis"
)

const (
	defaultSaveDir         = "data/heroes"
	defaultSQLitePath      = "data/heroes.db"
	defaultRedisAddr       = "localhost:6379"
	defaultHeroName        = "Hero"
	defaultHeroClass       = "warrior"
	defaultMaxActiveQuests = 5
	defaultMessageSeconds  = 3
	defaultLogLevel        = "info"
	defaultLogFile         = "monstergame.log"
)

// Config holds the runtime settings of the game.
type Config struct {
	DataDir string `env:"MONSTER_DATA_DIR"`

	SaveMode      string `env:"MONSTER_SAVE_MODE" envDefault:"sqlite"`
	SaveDir       string `env:"MONSTER_SAVE_DIR" envDefault:"data/heroes"`
	SQLitePath    string `env:"MONSTER_SQLITE_PATH" envDefault:"data/heroes.db"`
	PostgresDSN   string `env:"MONSTER_POSTGRES_DSN"`
	RedisAddr     string `env:"MONSTER_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"MONSTER_REDIS_PASSWORD"`
	RedisDB       int    `env:"MONSTER_REDIS_DB" envDefault:"0"`

	HeroName  string `env:"MONSTER_HERO_NAME" envDefault:"Hero"`
	HeroClass string `env:"MONSTER_HERO_CLASS" envDefault:"warrior"`

	MaxActiveQuests int `env:"MONSTER_MAX_ACTIVE_QUESTS" envDefault:"5"`
	MessageSeconds  int `env:"MONSTER_MESSAGE_SECONDS" envDefault:"3"`

	LogLevel string `env:"MONSTER_LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"MONSTER_LOG_FILE" envDefault:"monstergame.log"`
}

// Load reads an optional .env file and then the process environment.
// Warnings lists values that were replaced by defaults.
func Load(envFiles ...string) (Config, []string, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, nil, fmt.Errorf("parse env: %w", err)
	}
	warnings := cfg.normalize()
	return cfg, warnings, nil
}

// MessageDuration is how long a notice stays on screen.
func (c Config) MessageDuration() time.Duration {
	return time.Duration(c.MessageSeconds) * time.Second
}

func (c *Config) normalize() []string {
	var warnings []string

	mode, ok := parseSaveMode(c.SaveMode)
	if !ok {
		warnings = append(warnings, fmt.Sprintf("unknown MONSTER_SAVE_MODE=%q, defaulting to %s", c.SaveMode, SaveModeSQLite))
	}
	c.SaveMode = mode

	if strings.TrimSpace(c.SaveDir) == "" {
		c.SaveDir = defaultSaveDir
	}
	if strings.TrimSpace(c.SQLitePath) == "" {
		c.SQLitePath = defaultSQLitePath
	}
	if strings.TrimSpace(c.RedisAddr) == "" {
		c.RedisAddr = defaultRedisAddr
	}
	if c.RedisDB < 0 {
		c.RedisDB = 0
	}
	if strings.TrimSpace(c.HeroName) == "" {
		c.HeroName = defaultHeroName
	}
	if strings.TrimSpace(c.HeroClass) == "" {
		c.HeroClass = defaultHeroClass
	}
	if c.MaxActiveQuests <= 0 {
		warnings = append(warnings, fmt.Sprintf("MONSTER_MAX_ACTIVE_QUESTS=%d is not positive, using %d", c.MaxActiveQuests, defaultMaxActiveQuests))
		c.MaxActiveQuests = defaultMaxActiveQuests
	}
	if c.MessageSeconds <= 0 {
		c.MessageSeconds = defaultMessageSeconds
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = defaultLogLevel
	}
	if strings.TrimSpace(c.LogFile) == "" {
		c.LogFile = defaultLogFile
	}
	if c.SaveMode == SaveModePostgres && strings.TrimSpace(c.PostgresDSN) == "" {
		warnings = append(warnings, "MONSTER_SAVE_MODE=postgres without MONSTER_POSTGRES_DSN, using sqlite")
		c.SaveMode = SaveModeSQLite
	}
	return warnings
}

func parseSaveMode(raw string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "db", "sqlite":
		return SaveModeSQLite, true
	case "hybrid":
		return SaveModeHybrid, true
	case "json", "legacy":
		return SaveModeJSON, true
	case "postgres", "pg":
		return SaveModePostgres, true
	case "redis":
		return SaveModeRedis, true
	default:
		return SaveModeSQLite, false
	}
}
