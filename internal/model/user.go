// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// DefaultUsername is the sentinel account used when a request carries no
// username. It behaves like any other user: created lazily on first use,
// owns its entries exclusively.
const DefaultUsername = "default"

// User is the identity anchor that owns diary entries.
//
// There is no password or OAuth identity here — a user is nothing more than
// a unique username created lazily on the first generation request. The
// UNIQUE constraint on username in the DB is the source of truth for
// uniqueness; GetOrCreate relies on it rather than on application locks.
type User struct {
	ID        string    `json:"id"        db:"id"`
	Username  string    `json:"username"  db:"username"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
