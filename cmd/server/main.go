package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jthom21/moviola/internal/config"
	"github.com/jthom21/moviola/internal/db"
	"github.com/jthom21/moviola/internal/logger"
	"github.com/jthom21/moviola/internal/server"
	_ "github.com/mattn/go-sqlite3" // database/sql driver for migrations
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger isn't configured yet; stderr is all we have.
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Pretty)

	if err := runMigrations(cfg); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	database, err := db.New(cfg.Database.Path)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to open database")
	}

	srv := server.New(cfg, database)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Log.Fatal().Err(err).Msg("HTTP server failed")
	case sig := <-quit:
		logger.Log.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error().Err(err).Msg("Graceful shutdown failed")
		os.Exit(1)
	}

	logger.Log.Info().Msg("Server stopped")
}

// runMigrations opens a plain database/sql connection for golang-migrate;
// GORM gets its own connection afterwards.
func runMigrations(cfg *config.Config) error {
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return err
	}

	sqlDB, err := sql.Open("sqlite3", cfg.Database.Path)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	return db.RunMigrations(sqlDB, cfg.Database.MigrationsPath)
}
