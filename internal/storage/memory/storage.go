package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mcoot/playmaster/internal/model"
	"github.com/mcoot/playmaster/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Nothing survives the process; used by tests and --storage memory.
type Storage struct {
	mu sync.RWMutex

	passwords map[string]string
	history   model.History
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		passwords: make(map[string]string),
		history:   make(model.History),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Credential operations

func (s *Storage) Lookup(ctx context.Context, username string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	password, ok := s.passwords[username]
	if !ok {
		return "", model.ErrUserNotFound
	}
	return password, nil
}

func (s *Storage) Register(ctx context.Context, user model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.passwords[user.Username]; ok {
		return model.ErrUsernameTaken
	}
	s.passwords[user.Username] = user.Password
	return nil
}

func (s *Storage) CountUsers(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.passwords), nil
}

// History operations

func (s *Storage) AppendRecord(ctx context.Context, username string, outcome model.Outcome, playedAt time.Time) (model.GameRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record := model.NewGameRecord(len(s.history[username]), outcome, playedAt)
	s.history[username] = append(s.history[username], record)
	return record, nil
}

func (s *Storage) RecordsForUser(ctx context.Context, username string) ([]model.GameRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := s.history[username]
	result := make([]model.GameRecord, len(records))
	copy(result, records)
	return result, nil
}

func (s *Storage) AllRecords(ctx context.Context) (model.History, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history.Clone(), nil
}

func (s *Storage) Close() error {
	return nil
}
