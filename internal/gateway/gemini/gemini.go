// Package gemini implements the text-completion gateway against Google's
// Gemini API via the official google.golang.org/genai SDK.
package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"

	"github.com/sakif/chronicle/internal/gateway"
)

// compile-time check that *Client implements gateway.Completer
var _ gateway.Completer = (*Client)(nil)

// Client wraps a genai.Client. It is stateless between calls — every
// Complete is an independent request/response exchange.
type Client struct {
	client *genai.Client
	logger *slog.Logger
}

// New creates a Gemini-backed completer. The API key is required; model
// selection happens per request, not here.
func New(ctx context.Context, apiKey string, logger *slog.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: creating client: %w", err)
	}

	return &Client{client: client, logger: logger}, nil
}

// Complete sends one system-instructions + user-message pair and returns the
// first text segment of the response.
//
// Failures are surfaced, never retried and never suppressed — the caller
// owns retry/backoff policy. A response with no candidates or no text part
// counts as a failure too.
func (c *Client) Complete(ctx context.Context, req gateway.Request) (string, error) {
	start := time.Now()

	contents := []*genai.Content{
		genai.NewContentFromText(req.UserMessage, genai.RoleUser),
	}

	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(req.Temperature),
		MaxOutputTokens: req.MaxOutputTokens,
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	result, err := c.client.Models.GenerateContent(ctx, req.Model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}

	if len(result.Candidates) == 0 ||
		result.Candidates[0].Content == nil ||
		len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: no completion returned")
	}

	// First text segment only — the diary pipeline never consumes more.
	text := result.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", fmt.Errorf("gemini: empty completion returned")
	}

	c.logger.Debug("completion received",
		slog.String("model", req.Model),
		slog.Int("chars", len(text)),
		slog.Duration("duration", time.Since(start)),
	)

	return text, nil
}
