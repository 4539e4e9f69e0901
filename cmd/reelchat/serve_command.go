package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"reelchat/internal/catalog"
	"reelchat/internal/genres"
	"reelchat/internal/logging"
	"reelchat/internal/namecache"
	"reelchat/internal/recommend"
	"reelchat/internal/server"
	"reelchat/internal/services/llm"
	"reelchat/internal/turnlog"
)

func newServeCommand(configFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the recommendation HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configFlag)
		},
	}
}

func runServe(cmd *cobra.Command, configFlag *string) error {
	cfg, logger, err := loadConfig(configFlag)
	if err != nil {
		return err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}

	lock := flock.New(cfg.Server.LockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock %s: %w", cfg.Server.LockPath, err)
	}
	if !locked {
		return errors.New("another reelchat instance is already running")
	}
	defer func() {
		_ = lock.Unlock()
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalogClient, err := catalog.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language)
	if err != nil {
		return fmt.Errorf("build catalog client: %w", err)
	}
	chatClient := llm.NewClient(llm.Config{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		Model:          cfg.LLM.Model,
		Referer:        cfg.LLM.Referer,
		Title:          cfg.LLM.Title,
		TimeoutSeconds: cfg.LLM.TimeoutSeconds,
	})

	directory := genres.NewDirectory()
	refresher := genres.NewRefresher(
		directory,
		catalogClient,
		time.Duration(cfg.Genres.RefreshIntervalHours)*time.Hour,
		logger,
		genres.WithStatePath(cfg.Genres.StatePath),
	)
	go refresher.Run(ctx)

	engineOpts := []recommend.EngineOption{recommend.WithLogger(logger)}
	if cfg.NameCache.Enabled {
		engineOpts = append(engineOpts, recommend.WithNameCache(namecache.New(cfg.NameCache.Path, logger)))
	}
	if cfg.TurnLog.Enabled {
		store, openErr := turnlog.Open(cfg.TurnLog.Path)
		if openErr != nil {
			return fmt.Errorf("open turn log: %w", openErr)
		}
		defer func() {
			_ = store.Close()
		}()
		engineOpts = append(engineOpts, recommend.WithTurnRecorder(store))
	}

	engine := recommend.NewEngine(chatClient, catalogClient, directory, engineOpts...)
	srv := server.New(cfg.Server.Bind, cfg.Server.CORSAllowedOrigins, engine, catalogClient, directory, logger)
	if err := srv.Start(ctx); err != nil {
		return err
	}

	logger.Info("reelchat serving",
		logging.String("bind", cfg.Server.Bind),
		logging.String("model", cfg.LLM.Model))

	<-ctx.Done()
	srv.Stop()
	logger.Info("reelchat stopped")
	return nil
}
