package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/sho0303/monster-game-sub001/internal/catalog"
	"github.com/sho0303/monster-game-sub001/internal/config"
	"github.com/sho0303/monster-game-sub001/internal/game"
	"github.com/sho0303/monster-game-sub001/internal/logging"
	"github.com/sho0303/monster-game-sub001/internal/storage"
	"github.com/sho0303/monster-game-sub001/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "monstergame: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, warnings, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	for _, w := range warnings {
		logger.Warn("config", zap.String("warning", w))
	}

	cat, err := catalog.Load(cfg.DataDir, logger)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	ctx := context.Background()
	store, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("close hero store", zap.Error(err))
		}
	}()

	h, _, err := game.LoadHero(ctx, store, cfg, logger)
	if err != nil {
		return err
	}
	session := game.New(cat, store, h, logger, game.WithMaxActiveQuests(cfg.MaxActiveQuests))
	if err := session.Save(ctx); err != nil {
		logger.Warn("initial save failed", zap.Error(err))
	}

	p := tea.NewProgram(tui.NewModel(ctx, session, cfg.MessageDuration()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	if err := session.Save(ctx); err != nil {
		return err
	}
	logger.Info("session ended", zap.String("hero", h.Name), zap.Int("level", h.Level))
	return nil
}
