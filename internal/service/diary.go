// Package service contains the business logic layer of the application.
//
// DiaryService is the entry store: it ties the generation pipeline to the
// persistence layer and owns the user/entry lifecycle. Handlers and the CLI
// talk to it with plain Go values — it knows nothing about HTTP.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/chronicle/internal/apperror"
	"github.com/sakif/chronicle/internal/diary"
	"github.com/sakif/chronicle/internal/model"
	"github.com/sakif/chronicle/internal/repository"
)

const (
	// DefaultContextWindow is how many recent entries feed continuity when
	// the caller doesn't say otherwise.
	DefaultContextWindow = 3
	// MaxInputLength bounds the raw notes a single entry may carry.
	MaxInputLength = 50000
	// MaxListLimit caps an explicitly requested list size.
	MaxListLimit = 100
)

// DiaryService handles generation, persistence and the refinement lifecycle
// of diary entries.
type DiaryService struct {
	users   repository.UserRepository
	entries repository.EntryRepository
	engine  *diary.Engine
	logger  *slog.Logger
}

// NewDiaryService creates a DiaryService. Repositories and engine are
// injected so tests can pass in-memory stores and a fake gateway.
func NewDiaryService(
	users repository.UserRepository,
	entries repository.EntryRepository,
	engine *diary.Engine,
	logger *slog.Logger,
) *DiaryService {
	return &DiaryService{
		users:   users,
		entries: entries,
		engine:  engine,
		logger:  logger,
	}
}

// Generate runs the full pipeline: resolve the user, fetch the continuity
// window, generate the diary text, persist a new entry.
//
// The call is idempotent in intent but not in effect — the model is
// non-deterministic, so calling twice with identical arguments produces two
// distinct entries. Nothing is persisted unless the gateway call succeeds:
// either a completed generation commits as a row, or the store is untouched.
func (s *DiaryService) Generate(ctx context.Context, input, username string, feedback *string, contextWindow int) (*model.Entry, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, apperror.ValidationFailed("input", "input is required")
	}
	if len(input) > MaxInputLength {
		return nil, apperror.ValidationFailed("input",
			fmt.Sprintf("input must be %d characters or less", MaxInputLength))
	}

	if username = strings.TrimSpace(username); username == "" {
		username = model.DefaultUsername
	}
	if contextWindow <= 0 {
		contextWindow = DefaultContextWindow
	}

	user, err := s.users.GetOrCreate(ctx, username)
	if err != nil {
		s.logger.Error("failed to resolve user",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("resolving user: %w", err)
	}

	// Newest-first window of prior entries, adapted to the narrow
	// PriorEntry capability the engine consumes.
	recent, err := s.entries.ListByUser(ctx, user.ID, contextWindow)
	if err != nil {
		return nil, fmt.Errorf("fetching recent entries: %w", err)
	}
	previous := make([]diary.PriorEntry, len(recent))
	for i := range recent {
		previous[i] = &recent[i]
	}

	text, err := s.engine.Generate(ctx, diary.GenerateRequest{
		Input:         input,
		Previous:      previous,
		Feedback:      feedback,
		ContextWindow: contextWindow,
	})
	if err != nil {
		s.logger.Error("generation failed",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	entry := &model.Entry{
		UserID:         user.ID,
		RawInput:       input,
		GeneratedDiary: text,
		Metadata:       map[string]string{},
	}
	if err := s.entries.Create(ctx, entry); err != nil {
		s.logger.Error("failed to persist entry",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("saving entry: %w", err)
	}

	s.logger.Info("entry created",
		slog.String("id", entry.ID),
		slog.String("username", username),
		slog.Int("context_entries", len(recent)),
		slog.Bool("feedback", feedback != nil),
	)

	return entry, nil
}

// ExtractEntities runs the stateless extraction prompt over free text.
// Nothing is persisted — the raw JSON text from the model goes straight back
// to the caller.
func (s *DiaryService) ExtractEntities(ctx context.Context, text string) (string, error) {
	return s.engine.ExtractEntities(ctx, text)
}

// GetEntry retrieves a single entry by ID.
// Returns apperror.ErrNotFound if it doesn't exist.
func (s *DiaryService) GetEntry(ctx context.Context, id string) (*model.Entry, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "entry ID is required")
	}
	return s.entries.GetByID(ctx, id)
}

// ListEntries returns a user's entries, newest first. A limit <= 0 means no
// limit: the whole history comes back. Explicit limits are capped at
// MaxListLimit. An unknown username resolves to an empty list via
// get-or-create (listing creates the user, matching generation's lazy-user
// semantics).
func (s *DiaryService) ListEntries(ctx context.Context, username string, limit int) ([]model.Entry, error) {
	if username = strings.TrimSpace(username); username == "" {
		username = model.DefaultUsername
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	user, err := s.users.GetOrCreate(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("resolving user: %w", err)
	}

	entries, err := s.entries.ListByUser(ctx, user.ID, limit)
	if err != nil {
		s.logger.Error("failed to list entries",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing entries: %w", err)
	}

	return entries, nil
}

// DeleteEntry removes an entry. Deleting an unknown ID returns
// apperror.ErrNotFound rather than aborting the caller — the refinement loop
// and the HTTP layer both treat that as a normal "already gone" outcome.
//
// REFINEMENT PROTOCOL: on user dissatisfaction the caller deletes the old
// entry and calls Generate again with the same input plus feedback. This is
// destructive on purpose — superseded drafts are not retained, there is no
// version history. Only the latest accepted generation survives.
func (s *DiaryService) DeleteEntry(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "entry ID is required")
	}

	if err := s.entries.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("entry deleted", slog.String("id", id))
	return nil
}
