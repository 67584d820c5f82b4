package diary

import (
	"context"
	"fmt"
	"strings"

	"github.com/sakif/chronicle/internal/apperror"
	"github.com/sakif/chronicle/internal/gateway"
)

// extractionTemperature is fixed and lower than the diary temperature —
// structured output wants less creativity.
const extractionTemperature = 0.3

const extractionSystemPrompt = `You are an expert at extracting key information from conversations.
Extract and return a JSON object with the following structure:
{
  "entities": [{"name": "...", "type": "person|place|thing", "role": "..."}],
  "events": [{"action": "...", "time": "...", "significance": "high|medium|low"}],
  "emotions": [{"feeling": "...", "intensity": "1-10", "trigger": "..."}]
}`

// ExtractEntities pulls who/what/how out of free text: entities, events and
// emotions as a JSON document. The model's text is returned verbatim — the
// caller decides whether to parse or just display it. Results are not
// persisted anywhere.
func (e *Engine) ExtractEntities(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", apperror.ValidationFailed("input", "text is required")
	}

	result, err := e.completer.Complete(ctx, gateway.Request{
		System:          extractionSystemPrompt,
		UserMessage:     fmt.Sprintf("Extract information from this text:\n\n%s", text),
		Model:           e.cfg.Model,
		MaxOutputTokens: e.cfg.MaxOutputTokens,
		Temperature:     extractionTemperature,
	})
	if err != nil {
		return "", apperror.Upstream("extracting entities", err)
	}

	return result, nil
}
