// Package diary is the generation core: it assembles continuity context
// from prior entries, composes the exact prompt pair sent to the
// text-completion gateway, and post-processes the result into a finished
// diary entry.
package diary

import "strings"

const contextHeader = "PREVIOUS ENTRIES (for narrative continuity):"

// PriorEntry is the one capability context building needs from a previous
// entry: a retrievable diary text. Stored entries, test fixtures and plain
// strings all adapt to it — no runtime type switching.
type PriorEntry interface {
	DiaryText() string
}

// Text adapts a bare string to PriorEntry.
type Text string

// DiaryText returns the string itself.
func (t Text) DiaryText() string { return string(t) }

// BuildContext renders at most window prior entries into a single
// continuity block for the model.
//
// The input is newest-first, as fetched from storage. The block is rendered
// oldest-first, because narrative continuity must read forward in time: the
// model should see yesterday before today. Entries are separated by "---"
// delimiters under a fixed header explaining the block's purpose.
//
// No entries, or window <= 0, yields an empty string — not an error.
func BuildContext(entries []PriorEntry, window int) string {
	if len(entries) == 0 || window <= 0 {
		return ""
	}

	if len(entries) > window {
		entries = entries[:window]
	}

	parts := make([]string, 0, 2*len(entries)+2)
	parts = append(parts, contextHeader)

	// Walk backwards: newest-first input, oldest-first output.
	for i := len(entries) - 1; i >= 0; i-- {
		parts = append(parts, "---", entries[i].DiaryText())
	}
	parts = append(parts, "---")

	return strings.Join(parts, "\n")
}
