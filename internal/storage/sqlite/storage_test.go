package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/playmaster/internal/model"
	"github.com/mcoot/playmaster/internal/storage"
	"github.com/mcoot/playmaster/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
	path string
}

func TestStorageSuite(t *testing.T) {
	s := &StorageSuite{}
	s.Open = func(t *testing.T) storage.Storage {
		s.path = filepath.Join(t.TempDir(), "playmaster.db")
		store, err := Open(s.path)
		require.NoError(t, err)
		return store
	}
	suite.Run(t, s)
}

func (s *StorageSuite) TestOpenRequiresPath() {
	_, err := Open(" ")
	s.ErrorIs(err, model.ErrStorageFailure)
}

func (s *StorageSuite) TestCloseNilSafe() {
	var store *Storage
	s.NoError(store.Close())
}

func (s *StorageSuite) TestRoundTripAcrossReopen() {
	played := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	s.Require().NoError(s.Store.Register(s.Ctx, model.User{Username: "alice", Password: "a, b"}))
	_, err := s.Store.AppendRecord(s.Ctx, "alice", model.Outcome{GameName: model.GameNameGuessTheNumber, Score: model.ScoreWin}, played)
	s.Require().NoError(err)
	_, err = s.Store.AppendRecord(s.Ctx, "alice", model.Outcome{GameName: model.GameNameHangman, Score: model.ScoreLoss}, played)
	s.Require().NoError(err)

	before, err := s.Store.AllRecords(s.Ctx)
	s.Require().NoError(err)
	s.Require().NoError(s.Store.Close())

	store, err := Open(s.path)
	s.Require().NoError(err)
	s.Store = store

	password, err := store.Lookup(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal("a, b", password)

	after, err := store.AllRecords(s.Ctx)
	s.Require().NoError(err)
	s.Equal(before, after)
}

func (s *StorageSuite) TestPlayedAtTruncatedToMillis() {
	played := time.Date(2024, 6, 1, 9, 30, 0, 123456789, time.UTC)
	record, err := s.Store.AppendRecord(s.Ctx, "alice", model.Outcome{GameName: model.GameNameHangman, Score: model.ScoreWin}, played)
	s.Require().NoError(err)

	records, err := s.Store.RecordsForUser(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal(record, records[0])
	s.Equal(123000000, records[0].PlayedAt.Nanosecond())
}
