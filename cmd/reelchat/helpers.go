package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"reelchat/internal/config"
	"reelchat/internal/logging"
)

// loadConfig loads .env secrets, resolves the configuration file, and
// constructs the root logger.
func loadConfig(configFlag *string) (*config.Config, *slog.Logger, error) {
	// Missing .env is the common case; only a malformed file is an error.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("load .env: %w", err)
	}

	path := ""
	if configFlag != nil {
		path = *configFlag
	}
	cfg, _, _, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: os.Stderr,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("configure logging: %w", err)
	}
	return cfg, logger, nil
}
