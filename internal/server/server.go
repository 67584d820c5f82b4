// Package server sets up the HTTP server, router, and all route definitions.
//
// This is the composition root: main.go hands in config plus the gateway
// client, and New wires the whole dependency chain in one place:
//
//	sqlite.DB → diary.Engine → DiaryService → DiaryHandler → routes
//
// The handler never touches the database; the service never touches HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/chronicle/internal/diary"
	"github.com/sakif/chronicle/internal/gateway"
	"github.com/sakif/chronicle/internal/handler"
	"github.com/sakif/chronicle/internal/middleware"
	sqliteRepo "github.com/sakif/chronicle/internal/repository/sqlite"
	"github.com/sakif/chronicle/internal/service"
)

// Config holds server configuration.
type Config struct {
	Port    int
	DBPath  string
	Gateway gateway.Config // model parameters, process-wide
}

// Server owns the router, the database connection and the HTTP lifecycle.
// The DB is closed during graceful shutdown so the WAL is flushed and the
// file lock released.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server wired against the given completer.
//
// The completer comes from main (a Gemini client in production, a fake in
// tests) — the server doesn't care which, it only needs something that can
// turn a prompt pair into text.
func New(cfg Config, logger *slog.Logger, completer gateway.Completer) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	s.setupRoutes(completer)

	return s, nil
}

// setupRoutes configures middleware and the API routes.
//
// ROUTE STRUCTURE:
// POST   /api/diary          → generate + persist a diary entry
// GET    /api/entries        → list a user's entries (newest first)
// GET    /api/entries/{id}   → fetch one entry
// DELETE /api/entries/{id}   → delete an entry
// POST   /api/entities       → stateless entity extraction
func (s *Server) setupRoutes(completer gateway.Completer) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	engine := diary.NewEngine(completer, s.config.Gateway, s.logger)
	diaryService := service.NewDiaryService(s.db, s.db, engine, s.logger)
	diaryHandler := handler.NewDiaryHandler(diaryService, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/diary", diaryHandler.HandleGenerate)
		r.Get("/entries", diaryHandler.HandleList)
		r.Get("/entries/{id}", diaryHandler.HandleGetByID)
		r.Delete("/entries/{id}", diaryHandler.HandleDelete)
		r.Post("/entities", diaryHandler.HandleExtract)
	})
}

// Start starts the HTTP server and blocks until shutdown.
//
// Graceful shutdown order: stop accepting connections, give in-flight
// requests (which may be mid-generation) 30 seconds to finish, then close
// the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.config.Port),
		Handler: s.router,
		// No WriteTimeout: a generation request legitimately blocks for the
		// model round trip, and the core imposes no timeout of its own.
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
			slog.String("model", s.config.Gateway.Model),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
