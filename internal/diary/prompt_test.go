package diary

import (
	"strings"
	"testing"
)

func TestComposePrompt_Defaults(t *testing.T) {
	system, user := composePrompt("", "", "Had coffee with Sam.", nil)

	if system != defaultSystemPrompt {
		t.Errorf("system = %q, want default ghostwriter prompt", system)
	}
	// No feedback: the user message is the raw input, unmodified.
	if user != "Had coffee with Sam." {
		t.Errorf("user = %q, want raw input", user)
	}
}

func TestComposePrompt_SystemOverride(t *testing.T) {
	system, _ := composePrompt("Write like Hemingway.", "", "notes", nil)

	if system != "Write like Hemingway." {
		t.Errorf("system = %q, want the override verbatim", system)
	}
}

func TestComposePrompt_ContinuityAppendedToSystem(t *testing.T) {
	continuity := "PREVIOUS ENTRIES (for narrative continuity):\n---\nEntry A\n---"
	system, user := composePrompt("", continuity, "notes", nil)

	// Continuity rides in the system instructions, after the base prompt —
	// never as extra conversation turns.
	if !strings.HasPrefix(system, defaultSystemPrompt) {
		t.Error("system should begin with the default prompt")
	}
	if !strings.HasSuffix(system, continuity) {
		t.Errorf("system should end with the continuity block:\n%s", system)
	}
	if strings.Contains(user, "Entry A") {
		t.Error("continuity leaked into the user message")
	}
}

func TestComposePrompt_ContinuityWithOverride(t *testing.T) {
	system, _ := composePrompt("Custom.", "CONTEXT BLOCK", "notes", nil)

	if system != "Custom.\n\nCONTEXT BLOCK" {
		t.Errorf("system = %q, want override followed by continuity", system)
	}
}

func TestComposePrompt_FeedbackTemplate(t *testing.T) {
	feedback := "Make it more melancholic."
	_, user := composePrompt("", "", "Had coffee with Sam.", &feedback)

	// Three-part template: original input, the feedback, regenerate instruction.
	for _, part := range []string{
		"Original input: Had coffee with Sam.",
		"User feedback on previous version: Make it more melancholic.",
		"Please regenerate the diary entry addressing this feedback.",
	} {
		if !strings.Contains(user, part) {
			t.Errorf("user message missing %q:\n%s", part, user)
		}
	}
}

func TestComposePrompt_EmptyFeedbackStillCountsAsSupplied(t *testing.T) {
	// nil means "no feedback"; a pointer to "" means feedback was supplied.
	empty := ""
	_, user := composePrompt("", "", "notes", &empty)

	if !strings.Contains(user, "Please regenerate the diary entry") {
		t.Errorf("empty-but-supplied feedback should trigger the template:\n%s", user)
	}
}
