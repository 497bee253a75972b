// Package session gates gameplay behind login and routes game outcomes into
// the history store.
package session

import (
	"context"
	"iter"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mcoot/playmaster/internal/console"
	"github.com/mcoot/playmaster/internal/dependencies/clock"
	"github.com/mcoot/playmaster/internal/model"
	"github.com/mcoot/playmaster/internal/services/auth"
	"github.com/mcoot/playmaster/internal/services/game"
	"github.com/mcoot/playmaster/internal/services/history"
)

// Controller is the session state machine:
// logged_out -> logged_in on Login, back on Logout, exited on Exit.
type Controller struct {
	auth    *auth.Service
	history *history.Service
	catalog *game.Catalog
	clock   clock.Clock
	logger  *slog.Logger

	state   model.SessionState
	current *model.Session
}

// NewController creates a logged-out Controller
func NewController(
	auth *auth.Service,
	history *history.Service,
	catalog *game.Catalog,
	clock clock.Clock,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		auth:    auth,
		history: history,
		catalog: catalog,
		clock:   clock,
		logger:  logger,
		state:   model.SessionStateLoggedOut,
	}
}

// State returns the current state
func (c *Controller) State() model.SessionState {
	return c.state
}

// Session returns the active session, if logged in
func (c *Controller) Session() (model.Session, bool) {
	if c.current == nil {
		return model.Session{}, false
	}
	return *c.current, true
}

// Done reports whether Exit has been called
func (c *Controller) Done() bool {
	return c.state == model.SessionStateExited
}

// Games returns the playable games in menu order
func (c *Controller) Games() []game.Entry {
	return c.catalog.Entries()
}

// Login starts a session if password matches the stored one.
// On failure the controller stays logged out.
func (c *Controller) Login(ctx context.Context, username, password string) (model.Session, error) {
	switch c.state {
	case model.SessionStateExited:
		return model.Session{}, model.ErrSessionClosed
	case model.SessionStateLoggedIn:
		return model.Session{}, model.ErrAlreadyLoggedIn
	}

	if err := c.auth.Authenticate(ctx, username, password); err != nil {
		return model.Session{}, err
	}

	c.current = &model.Session{
		ID:        uuid.New(),
		Username:  username,
		StartedAt: c.clock.Now(),
	}
	c.state = model.SessionStateLoggedIn

	c.logger.Info("user logged in",
		slog.String("username", username),
		slog.String("session_id", c.current.ID.String()),
	)
	return *c.current, nil
}

// CheckUsername reports whether username can be registered, so the shell can
// reject a taken name before asking for a password
func (c *Controller) CheckUsername(ctx context.Context, username string) error {
	if err := c.requireState(model.SessionStateLoggedOut); err != nil {
		return err
	}
	return c.auth.CheckAvailable(ctx, username)
}

// Register creates an account. It never logs the new user in.
func (c *Controller) Register(ctx context.Context, username, password, confirm string) error {
	if err := c.requireState(model.SessionStateLoggedOut); err != nil {
		return err
	}
	return c.auth.Register(ctx, username, password, confirm)
}

// Play runs the game with the given menu ID to completion and records its
// outcome. Nothing is recorded if the game does not complete.
func (c *Controller) Play(ctx context.Context, gameID string, con console.Console) (game.Result, model.GameRecord, error) {
	if err := c.requireState(model.SessionStateLoggedIn); err != nil {
		return game.Result{}, model.GameRecord{}, err
	}

	g, err := c.catalog.Get(gameID)
	if err != nil {
		return game.Result{}, model.GameRecord{}, err
	}

	result, err := g.Play(ctx, con)
	if err != nil {
		c.logger.Warn("game ended without an outcome",
			slog.String("session_id", c.current.ID.String()),
			slog.String("game", g.Name()),
			slog.String("error", err.Error()),
		)
		return game.Result{}, model.GameRecord{}, err
	}

	record, err := c.history.Record(ctx, c.current.Username, result.Outcome)
	if err != nil {
		return result, model.GameRecord{}, err
	}
	return result, record, nil
}

// History returns the current user's records in insertion order.
// The store is read each time the sequence is ranged over.
func (c *Controller) History(ctx context.Context) (iter.Seq2[model.GameRecord, error], error) {
	if err := c.requireState(model.SessionStateLoggedIn); err != nil {
		return nil, err
	}
	return c.history.View(ctx, c.current.Username), nil
}

// Logout ends the session
func (c *Controller) Logout() error {
	if err := c.requireState(model.SessionStateLoggedIn); err != nil {
		return err
	}
	c.endSession("user logged out")
	c.state = model.SessionStateLoggedOut
	return nil
}

// Exit ends any session and finishes the controller. It is allowed from both
// the logged-in and logged-out states and is idempotent.
func (c *Controller) Exit() {
	if c.current != nil {
		c.endSession("session ended by exit")
	}
	c.state = model.SessionStateExited
}

func (c *Controller) endSession(msg string) {
	c.logger.Info(msg,
		slog.String("username", c.current.Username),
		slog.String("session_id", c.current.ID.String()),
		slog.Duration("duration", c.clock.Now().Sub(c.current.StartedAt)),
	)
	c.current = nil
}

func (c *Controller) requireState(want model.SessionState) error {
	if c.state == want {
		return nil
	}
	switch c.state {
	case model.SessionStateExited:
		return model.ErrSessionClosed
	case model.SessionStateLoggedIn:
		return model.ErrAlreadyLoggedIn
	default:
		return model.ErrNotLoggedIn
	}
}
