// Package cli provides common initialization for the moneta commands.
package cli

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"moneta/internal/api"
	"moneta/internal/api/memory"
	"moneta/internal/api/rest"
	"moneta/internal/config"
	"moneta/internal/events"
	"moneta/internal/storage"
)

// SetupLogger initializes structured logging and sets it as the default.
func SetupLogger() *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development. Errors are ignored
// silently as the file is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it, exiting the
// process on validation failure.
func LoadAndValidateConfig(logger *slog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// InitStore builds the record store for the configured backend.
func InitStore(logger *slog.Logger, cfg *config.Config) api.Store {
	switch cfg.Backend {
	case "rest":
		client, err := rest.NewWithSession(cfg.APIBaseURL, cfg.SessionFile)
		if err != nil {
			logger.Error("Failed to initialize API client", "error", err, "url", cfg.APIBaseURL)
			os.Exit(1)
		}
		logger.Info("Using remote API backend", "url", cfg.APIBaseURL)
		return client
	default:
		store := memory.NewFromFile(cfg.MemorySeedFile)
		logger.Info("Using memory backend", "seed", cfg.MemorySeedFile)
		return store
	}
}

// InitArchive opens the local run archive, or returns nil when disabled.
func InitArchive(logger *slog.Logger, cfg *config.Config) *storage.Archive {
	if cfg.ArchiveDBPath == "" {
		return nil
	}
	archive, err := storage.NewArchive(cfg.ArchiveDBPath)
	if err != nil {
		logger.Error("Failed to open run archive", "error", err, "path", cfg.ArchiveDBPath)
		os.Exit(1)
	}
	return archive
}

// InitPublisher connects the AMQP publisher, or returns nil when AMQP is
// not configured. A connection failure is not fatal: runs proceed without
// lifecycle messages.
func InitPublisher(logger *slog.Logger, cfg *config.Config) *events.Publisher {
	if cfg.AMQPURL == "" {
		return nil
	}
	pub, err := events.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Warn("Failed to connect AMQP publisher, continuing without events", "error", err)
		return nil
	}
	return pub
}
