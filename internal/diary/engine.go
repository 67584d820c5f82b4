package diary

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/chronicle/internal/apperror"
	"github.com/sakif/chronicle/internal/gateway"
)

// dateMarkerWindow is how far into the output we look for the bolded date
// marker before deciding the model omitted it.
const dateMarkerWindow = 20

// Engine orchestrates one generation: build continuity context, compose the
// prompt, call the gateway, stamp the date. It holds no per-call state, so a
// single Engine serves all requests.
//
// The model parameters live in cfg — process-wide configuration injected at
// construction time, never varied per call.
type Engine struct {
	completer gateway.Completer
	cfg       gateway.Config
	logger    *slog.Logger
	now       func() time.Time // swapped in tests for deterministic dates
}

// NewEngine creates a generation engine backed by the given completer.
func NewEngine(completer gateway.Completer, cfg gateway.Config, logger *slog.Logger) *Engine {
	return &Engine{
		completer: completer,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// GenerateRequest carries the inputs for one diary generation.
type GenerateRequest struct {
	// Input is the user's casual notes. Required.
	Input string
	// Previous holds prior entry texts, newest-first as fetched from
	// storage. May be empty.
	Previous []PriorEntry
	// Feedback, when non-nil, triggers the regeneration template. A non-nil
	// empty string still counts as supplied feedback.
	Feedback *string
	// SystemPrompt overrides the default ghostwriter instructions when
	// non-empty.
	SystemPrompt string
	// ContextWindow caps how many prior entries enter the continuity block.
	ContextWindow int
}

// Generate transforms casual notes into a finished diary entry.
//
// Empty input is a caller contract violation, rejected before any gateway
// call. Gateway failures propagate untouched — no retry, no suppression;
// retry/backoff policy belongs to the caller.
func (e *Engine) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	if strings.TrimSpace(req.Input) == "" {
		return "", apperror.ValidationFailed("input", "user input is required")
	}

	continuity := BuildContext(req.Previous, req.ContextWindow)
	system, user := composePrompt(req.SystemPrompt, continuity, req.Input, req.Feedback)

	e.logger.Debug("generating diary entry",
		slog.Int("context_entries", len(req.Previous)),
		slog.Bool("feedback", req.Feedback != nil),
	)

	text, err := e.completer.Complete(ctx, gateway.Request{
		System:          system,
		UserMessage:     user,
		Model:           e.cfg.Model,
		MaxOutputTokens: e.cfg.MaxOutputTokens,
		Temperature:     e.cfg.Temperature,
	})
	if err != nil {
		return "", apperror.Upstream("generating diary entry", err)
	}

	return e.stampDate(text), nil
}

// stampDate enforces the invariant that every entry begins with a bolded
// date marker. If the model omitted the **...** pattern near the start, we
// prepend today's date ourselves — deterministically, without re-invoking
// the model. This is the one self-healing behaviour in the pipeline; it is
// not an error.
func (e *Engine) stampDate(text string) string {
	head := text
	if len(head) > dateMarkerWindow {
		head = head[:dateMarkerWindow]
	}
	if strings.Contains(head, "**") {
		return text
	}
	return "**" + e.formattedDate() + "**\n\n" + text
}

// formattedDate returns today in "Month Day, Year" form, e.g. "August 31, 2026".
func (e *Engine) formattedDate() string {
	return e.now().Format("January 2, 2006")
}
