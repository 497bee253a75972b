// Package storagetest holds the behaviour every storage backend must share.
// Backend test suites embed Suite and provide Open.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/playmaster/internal/model"
	"github.com/mcoot/playmaster/internal/storage"
)

// Suite runs the storage contract against the backend returned by Open
type Suite struct {
	suite.Suite

	// Open returns a fresh, empty store for the current test
	Open func(t *testing.T) storage.Storage

	Store storage.Storage
	Ctx   context.Context
}

var playedAt = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func (s *Suite) SetupTest() {
	s.Ctx = context.Background()
	s.Store = s.Open(s.T())
}

func (s *Suite) TearDownTest() {
	if s.Store != nil {
		_ = s.Store.Close()
	}
}

// Credential tests

func (s *Suite) TestLookupUnknownUser() {
	_, err := s.Store.Lookup(s.Ctx, "nobody")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *Suite) TestRegisterThenLookup() {
	err := s.Store.Register(s.Ctx, model.User{Username: "alice", Password: "secret"})
	s.Require().NoError(err)

	password, err := s.Store.Lookup(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal("secret", password)
}

func (s *Suite) TestRegisterDuplicateFails() {
	s.Require().NoError(s.Store.Register(s.Ctx, model.User{Username: "alice", Password: "one"}))

	err := s.Store.Register(s.Ctx, model.User{Username: "alice", Password: "two"})
	s.ErrorIs(err, model.ErrUsernameTaken)

	// First registration wins
	password, err := s.Store.Lookup(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal("one", password)
}

func (s *Suite) TestCountIncrementsPerUniqueRegistration() {
	count, err := s.Store.CountUsers(s.Ctx)
	s.Require().NoError(err)
	s.Equal(0, count)

	for _, name := range []string{"alice", "bob", "alice", "carol", "bob"} {
		_ = s.Store.Register(s.Ctx, model.User{Username: name, Password: "pw"})
	}

	count, err = s.Store.CountUsers(s.Ctx)
	s.Require().NoError(err)
	s.Equal(3, count)
}

func (s *Suite) TestCredentialsWithDelimiters() {
	user := model.User{Username: "o'neil, jr", Password: "p,a\"ss, word "}
	s.Require().NoError(s.Store.Register(s.Ctx, user))

	password, err := s.Store.Lookup(s.Ctx, user.Username)
	s.Require().NoError(err)
	s.Equal(user.Password, password)
}

// History tests

func (s *Suite) TestAppendAssignsSequentialIDs() {
	for i := 1; i <= 5; i++ {
		record, err := s.Store.AppendRecord(s.Ctx, "alice", model.Outcome{GameName: model.GameNameHangman, Score: model.ScoreWin}, playedAt)
		s.Require().NoError(err)
		s.Equal(i, record.GameID)
	}

	records, err := s.Store.RecordsForUser(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Require().Len(records, 5)
	for i, record := range records {
		s.Equal(i+1, record.GameID)
	}
}

func (s *Suite) TestGameIDsScopedPerUser() {
	outcome := model.Outcome{GameName: model.GameNameGuessTheNumber, Score: model.ScoreWin}

	a1, err := s.Store.AppendRecord(s.Ctx, "alice", outcome, playedAt)
	s.Require().NoError(err)
	b1, err := s.Store.AppendRecord(s.Ctx, "bob", outcome, playedAt)
	s.Require().NoError(err)
	a2, err := s.Store.AppendRecord(s.Ctx, "alice", outcome, playedAt)
	s.Require().NoError(err)

	s.Equal(1, a1.GameID)
	s.Equal(1, b1.GameID)
	s.Equal(2, a2.GameID)
}

func (s *Suite) TestAppendPreservesOutcome() {
	record, err := s.Store.AppendRecord(s.Ctx, "alice", model.Outcome{GameName: model.GameNameHangman, Score: model.ScoreLoss}, playedAt)
	s.Require().NoError(err)

	records, err := s.Store.RecordsForUser(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal(record.GameID, records[0].GameID)
	s.Equal(model.GameNameHangman, records[0].GameName)
	s.Equal(model.ScoreLoss, records[0].Score)
	s.True(playedAt.Equal(records[0].PlayedAt))
}

func (s *Suite) TestRecordsForUnknownUserIsEmpty() {
	records, err := s.Store.RecordsForUser(s.Ctx, "nobody")
	s.Require().NoError(err)
	s.Empty(records)
}

func (s *Suite) TestAllRecords() {
	outcome := model.Outcome{GameName: model.GameNameHangman, Score: model.ScoreWin}
	_, _ = s.Store.AppendRecord(s.Ctx, "alice", outcome, playedAt)
	_, _ = s.Store.AppendRecord(s.Ctx, "alice", outcome, playedAt)
	_, _ = s.Store.AppendRecord(s.Ctx, "bob", outcome, playedAt)

	all, err := s.Store.AllRecords(s.Ctx)
	s.Require().NoError(err)
	s.Len(all, 2)
	s.Len(all["alice"], 2)
	s.Len(all["bob"], 1)
}

func (s *Suite) TestAllRecordsIsACopy() {
	outcome := model.Outcome{GameName: model.GameNameHangman, Score: model.ScoreWin}
	_, _ = s.Store.AppendRecord(s.Ctx, "alice", outcome, playedAt)

	all, err := s.Store.AllRecords(s.Ctx)
	s.Require().NoError(err)
	all["alice"][0].Score = 42
	delete(all, "alice")

	records, err := s.Store.RecordsForUser(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal(model.ScoreWin, records[0].Score)
}
