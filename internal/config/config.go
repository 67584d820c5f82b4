// Package config reads process configuration from the environment.
//
// A .env file in the working directory is loaded first (ignored if absent),
// so local development needs nothing more than GEMINI_API_KEY=... in .env.
// Real deployments set the variables directly.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/sakif/chronicle/internal/gateway"
)

// App is everything the entry points need.
type App struct {
	Port     int
	DBPath   string
	APIKey   string
	LogLevel slog.Level
	Gateway  gateway.Config
}

// Load reads the .env file (if any) and the environment.
//
// GEMINI_API_KEY is deliberately not validated here — the CLI and server
// decide how loudly to fail without it.
func Load() (App, error) {
	// Missing .env is fine; a malformed one is not.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return App{}, fmt.Errorf("config: loading .env: %w", err)
	}

	app := App{
		Port:     8080,
		DBPath:   "data/chronicle.db",
		APIKey:   os.Getenv("GEMINI_API_KEY"),
		LogLevel: slog.LevelInfo,
		Gateway:  gateway.DefaultConfig(),
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return App{}, fmt.Errorf("config: invalid PORT %q: %w", portStr, err)
		}
		app.Port = port
	}

	if dbPath := os.Getenv("DB_PATH"); dbPath != "" {
		app.DBPath = dbPath
	}

	if model := os.Getenv("CHRONICLE_MODEL"); model != "" {
		app.Gateway.Model = model
	}

	if tempStr := os.Getenv("CHRONICLE_TEMPERATURE"); tempStr != "" {
		temp, err := strconv.ParseFloat(tempStr, 32)
		if err != nil || temp < 0 || temp > 1 {
			return App{}, fmt.Errorf("config: CHRONICLE_TEMPERATURE must be a number in [0,1], got %q", tempStr)
		}
		app.Gateway.Temperature = float32(temp)
	}

	if maxStr := os.Getenv("CHRONICLE_MAX_TOKENS"); maxStr != "" {
		max, err := strconv.Atoi(maxStr)
		if err != nil || max <= 0 {
			return App{}, fmt.Errorf("config: CHRONICLE_MAX_TOKENS must be a positive integer, got %q", maxStr)
		}
		app.Gateway.MaxOutputTokens = int32(max)
	}

	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		app.LogLevel = slog.LevelDebug
	case "warn":
		app.LogLevel = slog.LevelWarn
	case "error":
		app.LogLevel = slog.LevelError
	}

	return app, nil
}
