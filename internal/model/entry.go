package model

import "time"

// Entry is one generation result: the user's raw notes and the diary text
// the model produced from them.
//
// Both RawInput and GeneratedDiary are immutable once stored — refinement
// never mutates an entry, it deletes the old row and inserts a new one.
// Metadata is reserved for future tagging and is currently always empty.
type Entry struct {
	ID             string            `json:"id"             db:"id"`
	UserID         string            `json:"userId"         db:"user_id"`
	RawInput       string            `json:"rawInput"       db:"raw_input"`
	GeneratedDiary string            `json:"generatedDiary" db:"generated_diary"`
	CreatedAt      time.Time         `json:"createdAt"      db:"created_at"`
	Metadata       map[string]string `json:"metadata"       db:"metadata"`
}

// DiaryText returns the generated diary text. This satisfies
// diary.PriorEntry, so stored entries feed straight into context building.
func (e *Entry) DiaryText() string {
	return e.GeneratedDiary
}
