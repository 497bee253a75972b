package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/mcoot/playmaster/internal/model"
	"github.com/mcoot/playmaster/internal/storage"
)

// Service handles registration and credential checks
type Service struct {
	store  storage.CredentialStore
	logger *slog.Logger
}

// New creates a new auth Service
func New(store storage.CredentialStore, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

// CheckAvailable validates a username for registration. It returns
// model.ErrInvalidInput for a blank name and model.ErrUsernameTaken if the
// name is registered.
func (s *Service) CheckAvailable(ctx context.Context, username string) error {
	if strings.TrimSpace(username) == "" {
		return model.ErrInvalidInput
	}
	_, err := s.store.Lookup(ctx, username)
	if err == nil {
		return model.ErrUsernameTaken
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return err
	}
	return nil
}

// Register creates an account. The username is checked before the password
// confirmation, so a taken name is reported first.
func (s *Service) Register(ctx context.Context, username, password, confirm string) error {
	if err := s.CheckAvailable(ctx, username); err != nil {
		return err
	}
	if password != confirm {
		return model.ErrPasswordMismatch
	}

	if err := s.store.Register(ctx, model.User{Username: username, Password: password}); err != nil {
		if !errors.Is(err, model.ErrUsernameTaken) {
			s.logger.Error("failed to register user",
				slog.String("username", username),
				slog.String("error", err.Error()),
			)
		}
		return err
	}

	s.logger.Info("user registered", slog.String("username", username))
	return nil
}

// Authenticate checks password against the stored one
func (s *Service) Authenticate(ctx context.Context, username, password string) error {
	stored, err := s.store.Lookup(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			s.logger.Info("login for unknown user", slog.String("username", username))
		}
		return err
	}
	if stored != password {
		s.logger.Info("login with wrong password", slog.String("username", username))
		return model.ErrWrongPassword
	}
	return nil
}

// CountUsers returns the number of registered users
func (s *Service) CountUsers(ctx context.Context) (int, error) {
	return s.store.CountUsers(ctx)
}
