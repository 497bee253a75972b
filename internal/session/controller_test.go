package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/playmaster/internal/dependencies/mocks"
	"github.com/mcoot/playmaster/internal/model"
	"github.com/mcoot/playmaster/internal/services/auth"
	"github.com/mcoot/playmaster/internal/services/game"
	"github.com/mcoot/playmaster/internal/services/history"
	"github.com/mcoot/playmaster/internal/services/wordlist"
	"github.com/mcoot/playmaster/internal/storage"
	"github.com/mcoot/playmaster/internal/storage/memory"
	"github.com/mcoot/playmaster/internal/testutil"
)

// failingHistory wraps a store and fails every append
type failingHistory struct {
	storage.HistoryStore
}

func (f failingHistory) AppendRecord(ctx context.Context, username string, outcome model.Outcome, playedAt time.Time) (model.GameRecord, error) {
	return model.GameRecord{}, errors.Join(model.ErrStorageFailure, errors.New("disk full"))
}

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	words      wordlist.Static
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.words = wordlist.Static{"cat"}
	s.controller = s.newController(s.storage)
	s.ctx = context.Background()

	s.Require().NoError(s.storage.Register(s.ctx, model.User{Username: "alice", Password: "secret"}))
}

func (s *ControllerSuite) newController(hs storage.HistoryStore) *Controller {
	logger := testutil.NopLogger()
	catalog := game.NewCatalog(
		game.NewGuessTheNumber(s.random, 0, logger),
		game.NewHangman(&s.words, s.random, logger),
	)
	return NewController(
		auth.New(s.storage, logger),
		history.New(hs, s.clock, logger),
		catalog,
		s.clock,
		logger,
	)
}

func (s *ControllerSuite) login() {
	_, err := s.controller.Login(s.ctx, "alice", "secret")
	s.Require().NoError(err)
}

func (s *ControllerSuite) collectHistory() []model.GameRecord {
	seq, err := s.controller.History(s.ctx)
	s.Require().NoError(err)
	var out []model.GameRecord
	for r, err := range seq {
		s.Require().NoError(err)
		out = append(out, r)
	}
	return out
}

// Login tests

func (s *ControllerSuite) TestStartsLoggedOut() {
	s.Equal(model.SessionStateLoggedOut, s.controller.State())
	_, ok := s.controller.Session()
	s.False(ok)
}

func (s *ControllerSuite) TestLoginSucceeds() {
	sess, err := s.controller.Login(s.ctx, "alice", "secret")
	s.Require().NoError(err)

	s.Equal("alice", sess.Username)
	s.NotEmpty(sess.ID.String())
	s.Equal(s.clock.CurrentTime, sess.StartedAt)
	s.Equal(model.SessionStateLoggedIn, s.controller.State())

	current, ok := s.controller.Session()
	s.True(ok)
	s.Equal(sess, current)
}

func (s *ControllerSuite) TestLoginWrongPasswordStaysLoggedOut() {
	_, err := s.controller.Login(s.ctx, "alice", "nope")
	s.ErrorIs(err, model.ErrWrongPassword)
	s.Equal(model.SessionStateLoggedOut, s.controller.State())
}

func (s *ControllerSuite) TestLoginUnknownUserStaysLoggedOut() {
	_, err := s.controller.Login(s.ctx, "bob", "secret")
	s.ErrorIs(err, model.ErrUserNotFound)
	s.Equal(model.SessionStateLoggedOut, s.controller.State())
}

func (s *ControllerSuite) TestLoginWhileLoggedIn() {
	s.login()

	_, err := s.controller.Login(s.ctx, "alice", "secret")
	s.ErrorIs(err, model.ErrAlreadyLoggedIn)
}

func (s *ControllerSuite) TestEachLoginGetsNewSessionID() {
	first, _ := s.controller.Login(s.ctx, "alice", "secret")
	s.Require().NoError(s.controller.Logout())
	second, _ := s.controller.Login(s.ctx, "alice", "secret")

	s.NotEqual(first.ID, second.ID)
}

// Register tests

func (s *ControllerSuite) TestRegisterDoesNotLogIn() {
	s.Require().NoError(s.controller.Register(s.ctx, "bob", "pw", "pw"))

	s.Equal(model.SessionStateLoggedOut, s.controller.State())

	_, err := s.controller.Login(s.ctx, "bob", "pw")
	s.NoError(err)
}

func (s *ControllerSuite) TestRegisterErrors() {
	s.ErrorIs(s.controller.Register(s.ctx, "alice", "pw", "pw"), model.ErrUsernameTaken)
	s.ErrorIs(s.controller.Register(s.ctx, "bob", "pw", "px"), model.ErrPasswordMismatch)
	s.ErrorIs(s.controller.CheckUsername(s.ctx, "alice"), model.ErrUsernameTaken)
	s.NoError(s.controller.CheckUsername(s.ctx, "bob"))
}

func (s *ControllerSuite) TestRegisterWhileLoggedIn() {
	s.login()

	s.ErrorIs(s.controller.Register(s.ctx, "bob", "pw", "pw"), model.ErrAlreadyLoggedIn)
}

// Play tests

func (s *ControllerSuite) TestPlayRequiresLogin() {
	con, _ := testutil.ScriptConsole("50")

	_, _, err := s.controller.Play(s.ctx, "1", con)
	s.ErrorIs(err, model.ErrNotLoggedIn)
}

func (s *ControllerSuite) TestPlayGuessTheNumberRecordsOutcome() {
	s.login()
	s.random.QueueSecret(50)
	con, _ := testutil.ScriptConsole("25", "50")

	result, record, err := s.controller.Play(s.ctx, "1", con)
	s.Require().NoError(err)

	s.Equal(2, result.Attempts)
	s.Equal(1, record.GameID)
	s.Equal(model.GameNameGuessTheNumber, record.GameName)
	s.Equal(model.ScoreWin, record.Score)
}

func (s *ControllerSuite) TestPlayHangmanRecordsOutcome() {
	s.login()
	con, _ := testutil.ScriptConsole("c", "a", "t")

	_, record, err := s.controller.Play(s.ctx, "2", con)
	s.Require().NoError(err)

	s.Equal(model.GameNameHangman, record.GameName)
	s.Equal(model.ScoreWin, record.Score)
}

func (s *ControllerSuite) TestPlayAssignsSequentialIDs() {
	s.login()
	for i := 1; i <= 3; i++ {
		con, _ := testutil.ScriptConsole("c", "a", "t")
		_, record, err := s.controller.Play(s.ctx, "2", con)
		s.Require().NoError(err)
		s.Equal(i, record.GameID)
	}
}

func (s *ControllerSuite) TestPlayUnknownGame() {
	s.login()
	con, _ := testutil.ScriptConsole()

	_, _, err := s.controller.Play(s.ctx, "9", con)
	s.ErrorIs(err, model.ErrUnknownGame)
}

func (s *ControllerSuite) TestAbortedGameRecordsNothing() {
	s.login()
	s.random.QueueSecret(50)
	con, _ := testutil.ScriptConsole("1", "2")

	_, _, err := s.controller.Play(s.ctx, "1", con)
	s.ErrorIs(err, model.ErrInputClosed)
	s.Empty(s.collectHistory())
	s.Equal(model.SessionStateLoggedIn, s.controller.State())
}

func (s *ControllerSuite) TestEmptyWordListRecordsNothing() {
	s.words = nil
	s.login()
	con, _ := testutil.ScriptConsole("a")

	_, _, err := s.controller.Play(s.ctx, "2", con)
	s.ErrorIs(err, model.ErrWordListEmpty)
	s.Empty(s.collectHistory())
}

func (s *ControllerSuite) TestStorageFailureSurfaces() {
	s.controller = s.newController(failingHistory{s.storage})
	s.login()
	con, _ := testutil.ScriptConsole("c", "a", "t")

	result, _, err := s.controller.Play(s.ctx, "2", con)
	s.ErrorIs(err, model.ErrStorageFailure)
	s.True(result.Won())
	s.Equal(model.SessionStateLoggedIn, s.controller.State())
}

// History tests

func (s *ControllerSuite) TestHistoryRequiresLogin() {
	_, err := s.controller.History(s.ctx)
	s.ErrorIs(err, model.ErrNotLoggedIn)
}

func (s *ControllerSuite) TestHistoryTwiceIsIdentical() {
	s.login()
	con, _ := testutil.ScriptConsole("c", "a", "t")
	_, _, _ = s.controller.Play(s.ctx, "2", con)

	first := s.collectHistory()
	second := s.collectHistory()
	s.Len(first, 1)
	s.Equal(first, second)
}

func (s *ControllerSuite) TestHistoryIsPerUser() {
	_, _ = s.storage.AppendRecord(s.ctx, "bob", model.Outcome{GameName: model.GameNameHangman}, s.clock.Now())
	s.login()

	s.Empty(s.collectHistory())
}

// Logout and exit tests

func (s *ControllerSuite) TestLogout() {
	s.login()

	s.Require().NoError(s.controller.Logout())
	s.Equal(model.SessionStateLoggedOut, s.controller.State())
	_, ok := s.controller.Session()
	s.False(ok)

	_, err := s.controller.History(s.ctx)
	s.ErrorIs(err, model.ErrNotLoggedIn)
}

func (s *ControllerSuite) TestLogoutWhenLoggedOut() {
	s.ErrorIs(s.controller.Logout(), model.ErrNotLoggedIn)
}

func (s *ControllerSuite) TestExitFromLoggedOut() {
	s.controller.Exit()

	s.True(s.controller.Done())
	_, err := s.controller.Login(s.ctx, "alice", "secret")
	s.ErrorIs(err, model.ErrSessionClosed)
}

func (s *ControllerSuite) TestExitFromLoggedIn() {
	s.login()

	s.controller.Exit()

	s.True(s.controller.Done())
	_, ok := s.controller.Session()
	s.False(ok)
	s.ErrorIs(s.controller.Logout(), model.ErrSessionClosed)

	con, _ := testutil.ScriptConsole()
	_, _, err := s.controller.Play(s.ctx, "1", con)
	s.ErrorIs(err, model.ErrSessionClosed)
}

func (s *ControllerSuite) TestGames() {
	games := s.controller.Games()
	s.Require().Len(games, 2)
	s.Equal(model.GameNameGuessTheNumber, games[0].Game.Name())
	s.Equal(model.GameNameHangman, games[1].Game.Name())
}
