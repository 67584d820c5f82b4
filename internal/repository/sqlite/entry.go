package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/chronicle/internal/apperror"
	"github.com/sakif/chronicle/internal/model"
	"github.com/sakif/chronicle/internal/repository"
)

// compile-time check that *DB implements repository.EntryRepository
var _ repository.EntryRepository = (*DB)(nil)

// Create inserts a new entry. The ID and CreatedAt are generated here and
// written back to the caller's struct (pointer receiver pattern — the caller
// gets the persisted identity without a second query).
//
// Metadata is stored as a JSON text column. It is reserved for future
// tagging; nil marshals to '{}'.
func (db *DB) Create(ctx context.Context, entry *model.Entry) error {
	entry.ID = xid.New().String()
	entry.CreatedAt = time.Now()

	meta := entry.Metadata
	if meta == nil {
		meta = map[string]string{}
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("sqlite: encoding entry metadata: %w", err)
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO entries (id, user_id, raw_input, generated_diary, created_at, metadata)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.UserID,
		entry.RawInput,
		entry.GeneratedDiary,
		entry.CreatedAt,
		string(metaJSON),
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating entry: %w", err)
	}

	return nil
}

// GetByID retrieves a single entry by its ID.
// Returns apperror.ErrNotFound if no entry exists with that ID.
func (db *DB) GetByID(ctx context.Context, id string) (*model.Entry, error) {
	var (
		e        model.Entry
		metaJSON string
	)

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, raw_input, generated_diary, created_at, metadata
		 FROM entries WHERE id = ?`,
		id,
	).Scan(
		&e.ID,
		&e.UserID,
		&e.RawInput,
		&e.GeneratedDiary,
		&e.CreatedAt,
		&metaJSON,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("entry", id)
		}
		return nil, fmt.Errorf("sqlite: getting entry %s: %w", id, err)
	}

	if err := json.Unmarshal([]byte(metaJSON), &e.Metadata); err != nil {
		return nil, fmt.Errorf("sqlite: decoding metadata for entry %s: %w", id, err)
	}

	return &e, nil
}

// ListByUser retrieves a user's entries, newest first. A limit <= 0 returns
// all of them.
//
// xid values are time-ordered, so "id DESC" breaks ties between rows created
// within the same timestamp granularity.
func (db *DB) ListByUser(ctx context.Context, userID string, limit int) ([]model.Entry, error) {
	query := `SELECT id, user_id, raw_input, generated_diary, created_at, metadata
		 FROM entries
		 WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing entries for user %s: %w", userID, err)
	}
	defer rows.Close()

	entries := []model.Entry{}
	for rows.Next() {
		var (
			e        model.Entry
			metaJSON string
		)
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.RawInput, &e.GeneratedDiary,
			&e.CreatedAt, &metaJSON,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning entry row: %w", err)
		}
		if err := json.Unmarshal([]byte(metaJSON), &e.Metadata); err != nil {
			return nil, fmt.Errorf("sqlite: decoding metadata for entry %s: %w", e.ID, err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating entries: %w", err)
	}

	return entries, nil
}

// Delete removes an entry by its ID. RowsAffected distinguishes "deleted"
// from "was never there" — the refinement loop and the HTTP layer both need
// that distinction.
func (db *DB) Delete(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting entry %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("entry", id)
	}

	return nil
}
