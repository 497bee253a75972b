package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/playmaster/internal/model"
	"github.com/mcoot/playmaster/internal/storage/memory"
	"github.com/mcoot/playmaster/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.service = New(s.storage, testutil.NopLogger())
	s.ctx = context.Background()
}

// Register tests

func (s *ServiceSuite) TestRegisterSucceeds() {
	err := s.service.Register(s.ctx, "alice", "password123", "password123")
	s.Require().NoError(err)

	stored, err := s.storage.Lookup(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("password123", stored)
}

func (s *ServiceSuite) TestRegisterDuplicateUsername() {
	_ = s.service.Register(s.ctx, "alice", "password123", "password123")

	err := s.service.Register(s.ctx, "alice", "other", "other")
	s.ErrorIs(err, model.ErrUsernameTaken)

	stored, _ := s.storage.Lookup(s.ctx, "alice")
	s.Equal("password123", stored)
}

func (s *ServiceSuite) TestRegisterTakenCheckedBeforeConfirmation() {
	_ = s.service.Register(s.ctx, "alice", "password123", "password123")

	err := s.service.Register(s.ctx, "alice", "a", "b")
	s.ErrorIs(err, model.ErrUsernameTaken)
}

func (s *ServiceSuite) TestRegisterPasswordMismatch() {
	err := s.service.Register(s.ctx, "alice", "password123", "password124")
	s.ErrorIs(err, model.ErrPasswordMismatch)

	_, err = s.storage.Lookup(s.ctx, "alice")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *ServiceSuite) TestRegisterBlankUsername() {
	err := s.service.Register(s.ctx, "   ", "pw", "pw")
	s.ErrorIs(err, model.ErrInvalidInput)
}

func (s *ServiceSuite) TestRegisterIncrementsCount() {
	_ = s.service.Register(s.ctx, "alice", "pw", "pw")
	_ = s.service.Register(s.ctx, "bob", "pw", "pw")
	_ = s.service.Register(s.ctx, "alice", "pw", "pw")

	count, err := s.service.CountUsers(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, count)
}

func (s *ServiceSuite) TestRegisterAllowsDelimiterCharacters() {
	err := s.service.Register(s.ctx, "o, brien", "pa,ss", "pa,ss")
	s.Require().NoError(err)

	s.NoError(s.service.Authenticate(s.ctx, "o, brien", "pa,ss"))
}

// CheckAvailable tests

func (s *ServiceSuite) TestCheckAvailable() {
	s.NoError(s.service.CheckAvailable(s.ctx, "alice"))

	_ = s.service.Register(s.ctx, "alice", "pw", "pw")
	s.ErrorIs(s.service.CheckAvailable(s.ctx, "alice"), model.ErrUsernameTaken)
	s.ErrorIs(s.service.CheckAvailable(s.ctx, ""), model.ErrInvalidInput)
}

// Authenticate tests

func (s *ServiceSuite) TestAuthenticateSucceeds() {
	_ = s.service.Register(s.ctx, "alice", "password123", "password123")

	s.NoError(s.service.Authenticate(s.ctx, "alice", "password123"))
}

func (s *ServiceSuite) TestAuthenticateWrongPassword() {
	_ = s.service.Register(s.ctx, "alice", "password123", "password123")

	err := s.service.Authenticate(s.ctx, "alice", "wrongpassword")
	s.ErrorIs(err, model.ErrWrongPassword)
}

func (s *ServiceSuite) TestAuthenticateUnknownUser() {
	err := s.service.Authenticate(s.ctx, "nobody", "password123")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *ServiceSuite) TestAuthenticateIsCaseSensitive() {
	_ = s.service.Register(s.ctx, "alice", "Secret", "Secret")

	s.ErrorIs(s.service.Authenticate(s.ctx, "alice", "secret"), model.ErrWrongPassword)
	s.ErrorIs(s.service.Authenticate(s.ctx, "Alice", "Secret"), model.ErrUserNotFound)
}
