// Package gateway defines the contract for the external text-completion
// service. The rest of the application treats it as an opaque
// request/response dependency: one system prompt, one user message, one
// completion back. No conversation state lives on either side of this
// boundary — narrative continuity is re-injected as system context on every
// call.
package gateway

import "context"

// Request is the exact payload for one completion call. Model, token limit
// and temperature are process-wide configuration threaded through by the
// engine, never chosen per request by end users.
type Request struct {
	System          string
	UserMessage     string
	Model           string
	MaxOutputTokens int32
	Temperature     float32
}

// Completer executes a single completion round trip.
//
// The call blocks for a network round trip and honours ctx cancellation, but
// imposes no timeout of its own — that policy belongs to the caller. Any
// failure (auth, rate limit, malformed or empty response) is returned as-is;
// implementations must not retry.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Config holds the process-wide model parameters for diary generation.
// Constructed once in main and injected into the engine, so tests can swap
// in whatever they need.
type Config struct {
	Model           string
	Temperature     float32
	MaxOutputTokens int32
}

// DefaultConfig provides sensible defaults for diary generation: a fast
// general-purpose model, warm temperature for literary prose, and enough
// output room for a full entry.
func DefaultConfig() Config {
	return Config{
		Model:           "gemini-2.5-flash",
		Temperature:     0.7,
		MaxOutputTokens: 2048,
	}
}
