// Package main is the entry point for the logo-generator HTTP server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/fleveque/logo-generator/internal/config"
	"github.com/fleveque/logo-generator/internal/metrics"
	"github.com/fleveque/logo-generator/internal/server"
	"github.com/fleveque/logo-generator/internal/service"
	"github.com/fleveque/logo-generator/internal/storage"
)

func main() {
	// run() returns instead of exiting so deferred cleanup executes
	// (deferred functions don't run when os.Exit is called directly).
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("LOGO_CONFIG_PATH"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := newLogger(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	// Sync commonly fails on stdout/stderr; nothing useful to do about it.
	defer func() { _ = logger.Sync() }()

	var deps server.Deps
	var outcomes service.Outcomes

	if cfg.Metrics.Enabled {
		deps.Metrics = metrics.NewManager(metrics.WithHistogramBuckets(cfg.Metrics.Buckets))
		outcomes = deps.Metrics
	}

	var history storage.GenerationRepository
	if cfg.History.Enabled {
		db, err := storage.NewDatabase(cfg.History.DatabasePath)
		if err != nil {
			return fmt.Errorf("opening history database: %w", err)
		}
		defer db.Close()
		history = storage.NewGenerationRepository(db)
		logger.Info("generation history enabled", zap.String("path", cfg.History.DatabasePath))
	}

	deps.Generator = service.NewGenerator(history, outcomes, logger)
	srv := server.New(cfg, deps, logger)

	// Graceful shutdown: listen for SIGINT (Ctrl+C) or SIGTERM (docker stop).
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errChan:
		if err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(ctx)
}

// newLogger returns a human-readable development logger for "debug" and a
// JSON production logger otherwise.
func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}

	zcfg := zap.NewProductionConfig()
	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, fmt.Errorf("parsing log level %q: %w", level, err)
		}
		zcfg.Level = lvl
	}
	return zcfg.Build()
}
