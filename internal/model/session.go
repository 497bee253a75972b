package model

import (
	"time"

	"github.com/google/uuid"
)

// SessionState represents the state of the session controller
type SessionState string

const (
	SessionStateLoggedOut SessionState = "logged_out"
	SessionStateLoggedIn  SessionState = "logged_in"
	SessionStateExited    SessionState = "exited"
)

// Session is the transient link between the process and a logged-in user.
// It is never persisted.
type Session struct {
	ID        uuid.UUID
	Username  string
	StartedAt time.Time
}
