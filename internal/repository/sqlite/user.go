package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/chronicle/internal/apperror"
	"github.com/sakif/chronicle/internal/model"
	"github.com/sakif/chronicle/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// GetOrCreate looks a user up by exact username and creates one if absent.
// Safe to call repeatedly with the same username.
//
// Lookup-then-insert is racy: two concurrent requests for an unseen username
// can both miss the SELECT and both INSERT. The UNIQUE constraint on
// username is the source of truth — the losing INSERT fails, and we retry it
// as a lookup of the row the winner committed.
func (db *DB) GetOrCreate(ctx context.Context, username string) (*model.User, error) {
	user, err := db.GetByUsername(ctx, username)
	if err == nil {
		return user, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	user = &model.User{
		ID:        xid.New().String(),
		Username:  username,
		CreatedAt: time.Now(),
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, created_at) VALUES (?, ?, ?)`,
		user.ID,
		user.Username,
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			// Lost the race — another request created this username first.
			return db.GetByUsername(ctx, username)
		}
		return nil, fmt.Errorf("sqlite: inserting user %q: %w", username, err)
	}

	return user, nil
}

// GetByUsername retrieves a user by exact username match.
// Returns apperror.ErrNotFound if no such user exists.
func (db *DB) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, created_at FROM users WHERE username = ?`,
		username,
	).Scan(&u.ID, &u.Username, &u.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", username)
		}
		return nil, fmt.Errorf("sqlite: getting user %q: %w", username, err)
	}

	return &u, nil
}

// DeleteUser removes a user. The foreign-key cascade removes every entry
// that user owns in the same statement.
func (db *DB) DeleteUser(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting user %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("user", id)
	}

	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, apperror.ErrNotFound)
}

// isUniqueViolation reports whether err is SQLite's UNIQUE constraint
// failure. The modernc driver exposes it only through the message text.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
