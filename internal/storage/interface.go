package storage

import (
	"context"
	"time"

	"github.com/mcoot/playmaster/internal/model"
)

// CredentialStore maps usernames to passwords
type CredentialStore interface {
	// Lookup returns the stored password, or model.ErrUserNotFound
	Lookup(ctx context.Context, username string) (string, error)

	// Register appends the user if the username is free and persists the
	// full credential set before returning. Returns model.ErrUsernameTaken
	// if the username already exists.
	Register(ctx context.Context, user model.User) error

	// CountUsers returns the number of registered users
	CountUsers(ctx context.Context) (int, error)
}

// HistoryStore maps usernames to their ordered game records
type HistoryStore interface {
	// AppendRecord assigns the next per-user game ID, appends the record and
	// persists the history before returning
	AppendRecord(ctx context.Context, username string, outcome model.Outcome, playedAt time.Time) (model.GameRecord, error)

	// RecordsForUser returns one user's records in insertion order
	RecordsForUser(ctx context.Context, username string) ([]model.GameRecord, error)

	// AllRecords returns every user's records
	AllRecords(ctx context.Context) (model.History, error)
}

// Storage defines the interface for data persistence
type Storage interface {
	CredentialStore
	HistoryStore

	// Close releases any resources held by the backend
	Close() error
}
