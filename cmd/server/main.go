// Package main is the entry point for the chronicle HTTP server.
//
// main stays minimal: read configuration, create dependencies (logger,
// gateway client), start the server. All actual logic lives in the internal
// packages.
package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/chronicle/internal/config"
	"github.com/sakif/chronicle/internal/gateway/gemini"
	"github.com/sakif/chronicle/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// Ensure the data directory exists before sqlite tries to create the file.
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", filepath.Dir(cfg.DBPath)),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	if cfg.APIKey == "" {
		logger.Error("GEMINI_API_KEY not set — the server cannot generate entries without it")
		os.Exit(1)
	}

	completer, err := gemini.New(context.Background(), cfg.APIKey, logger)
	if err != nil {
		logger.Error("failed to create gateway client", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv, err := server.New(server.Config{
		Port:    cfg.Port,
		DBPath:  cfg.DBPath,
		Gateway: cfg.Gateway,
	}, logger, completer)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (Ctrl+C or SIGTERM).
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
