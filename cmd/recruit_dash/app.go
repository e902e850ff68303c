package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jonathan/recruit-tracker/internal/config"
	"github.com/jonathan/recruit-tracker/internal/store"
)

// newLogger writes structured logs to stderr so command output stays clean.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadConfig reads the config file and environment, then applies the
// command-line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if dataFormat != "" {
		f, err := store.ParseFormat(dataFormat)
		if err != nil {
			return nil, err
		}
		cfg.Format = f
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openStore loads the configuration and opens the record store it names.
func openStore(ctx context.Context, logger *slog.Logger) (*config.Config, *store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	st, err := store.Open(ctx, cfg.DataDir, store.WithFormat(cfg.Format), store.WithLogger(logger))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open data directory %s: %w", cfg.DataDir, err)
	}
	return cfg, st, nil
}
