package repository

import (
	"context"

	"github.com/sakif/chronicle/internal/model"
)

// UserRepository is the user registry: lookup and lazy creation keyed by
// username. Delete cascades to all entries the user owns.
type UserRepository interface {
	GetOrCreate(ctx context.Context, username string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// EntryRepository persists generation results. ListByUser returns entries
// newest-first; a limit <= 0 means no limit.
type EntryRepository interface {
	Create(ctx context.Context, entry *model.Entry) error
	GetByID(ctx context.Context, id string) (*model.Entry, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]model.Entry, error)
	Delete(ctx context.Context, id string) error
}
