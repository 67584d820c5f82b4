package diary

import "fmt"

// defaultSystemPrompt instructs the model to act as a literary ghostwriter.
// The trailing date-format instruction matters: the engine's post-processing
// checks for the **...** marker it asks for.
const defaultSystemPrompt = `You are a talented ghostwriter that transforms casual conversations and notes
into beautiful, literary diary entries. Transform the user's input into a diary-style narrative
that is emotionally resonant, well-written, and captures the essence of what they're describing.
Write in first person as if it's a diary entry. Start with the date in this format: **[Date]**`

// composePrompt produces the exact (system, user) pair for one gateway call.
//
//   - systemPrompt overrides the default ghostwriter instructions when
//     non-empty.
//   - A non-empty continuity block is appended verbatim to the system
//     instructions. Continuity is modelled as additional system context, not
//     additional conversation turns — the gateway carries no state between
//     calls.
//   - feedback distinguishes nil (no feedback) from a supplied string, even
//     an empty one. When supplied, the user message becomes a three-part
//     template: original input, the feedback, and an explicit instruction to
//     regenerate addressing it. Otherwise the user message is the raw input
//     unmodified.
func composePrompt(systemPrompt, continuity, input string, feedback *string) (system, user string) {
	system = systemPrompt
	if system == "" {
		system = defaultSystemPrompt
	}

	if continuity != "" {
		system = system + "\n\n" + continuity
	}

	if feedback != nil {
		user = fmt.Sprintf(`Original input: %s

User feedback on previous version: %s

Please regenerate the diary entry addressing this feedback.`, input, *feedback)
	} else {
		user = input
	}

	return system, user
}
