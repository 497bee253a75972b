package file

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/gofrs/flock"
	"github.com/natefinch/atomic"

	"github.com/mcoot/playmaster/internal/model"
	"github.com/mcoot/playmaster/internal/storage"
)

// Layout under the data directory
const (
	userDataDir     = "user_data"
	credentialsFile = "user_details.txt"
	historyFile     = "game_history.cbor"
	lockFile        = ".playmaster.lock"
)

// Storage keeps credentials and history in files under a data directory.
// Every write replaces the whole file atomically, so a crash leaves either
// the previous or the new content on disk.
type Storage struct {
	mu sync.Mutex

	dir  string
	lock *flock.Flock
	enc  cbor.EncMode

	users   []model.User
	index   map[string]int
	history model.History
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Open loads the stores from dir, creating it if needed, and takes an
// exclusive lock on it. A second Open of a locked dir returns
// model.ErrStoreLocked.
func Open(dir string) (*Storage, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("%w: data directory is required", model.ErrStorageFailure)
	}

	cleanDir := filepath.Clean(dir)
	if err := os.MkdirAll(filepath.Join(cleanDir, userDataDir), 0o700); err != nil {
		return nil, fmt.Errorf("%w: create data directory: %w", model.ErrStorageFailure, err)
	}

	lock := flock.New(filepath.Join(cleanDir, lockFile))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("%w: lock data directory: %w", model.ErrStorageFailure, err)
	}
	if !locked {
		return nil, model.ErrStoreLocked
	}

	enc, err := cbor.EncOptions{
		Sort: cbor.SortCanonical,
		Time: cbor.TimeRFC3339Nano,
	}.EncMode()
	if err != nil {
		_ = lock.Unlock()
		return nil, err
	}

	s := &Storage{
		dir:   cleanDir,
		lock:  lock,
		enc:   enc,
		index: make(map[string]int),
	}

	if err := s.loadCredentials(); err != nil {
		_ = lock.Unlock()
		return nil, err
	}
	if err := s.loadHistory(); err != nil {
		_ = lock.Unlock()
		return nil, err
	}

	return s, nil
}

// Close releases the data directory lock
func (s *Storage) Close() error {
	return s.lock.Unlock()
}

func (s *Storage) credentialsPath() string {
	return filepath.Join(s.dir, userDataDir, credentialsFile)
}

func (s *Storage) historyPath() string {
	return filepath.Join(s.dir, historyFile)
}

// Credential operations

func (s *Storage) Lookup(ctx context.Context, username string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.index[username]
	if !ok {
		return "", model.ErrUserNotFound
	}
	return s.users[idx].Password, nil
}

func (s *Storage) Register(ctx context.Context, user model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.index[user.Username]; ok {
		return model.ErrUsernameTaken
	}

	s.users = append(s.users, user)
	if err := s.saveCredentials(); err != nil {
		s.users = s.users[:len(s.users)-1]
		return err
	}
	s.index[user.Username] = len(s.users) - 1
	return nil
}

func (s *Storage) CountUsers(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users), nil
}

// loadCredentials reads one "username, password" record per line.
// Fields are CSV quoted when they contain the delimiter, so the legacy
// unquoted format still parses.
func (s *Storage) loadCredentials() error {
	f, err := os.Open(s.credentialsPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: open credentials: %w", model.ErrStorageFailure, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := parseCredentialLine(scanner.Text())
		if len(fields) < 2 || fields[0] == "" {
			continue
		}
		if _, dup := s.index[fields[0]]; dup {
			continue
		}
		s.index[fields[0]] = len(s.users)
		s.users = append(s.users, model.User{Username: fields[0], Password: fields[1]})
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: read credentials: %w", model.ErrStorageFailure, err)
	}
	return nil
}

// parseCredentialLine reads one line written either by saveCredentials or
// in the legacy "username, password" form. Fields past the second are
// ignored, as the legacy reader did.
func parseCredentialLine(line string) []string {
	if strings.TrimSpace(line) == "" {
		return nil
	}
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	fields, err := r.Read()
	if err != nil {
		return strings.Split(strings.TrimSpace(line), ", ")
	}
	return fields
}

func (s *Storage) saveCredentials() error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, u := range s.users {
		if err := w.Write([]string{u.Username, u.Password}); err != nil {
			return fmt.Errorf("%w: encode credentials: %w", model.ErrStorageFailure, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: encode credentials: %w", model.ErrStorageFailure, err)
	}

	if err := atomic.WriteFile(s.credentialsPath(), &buf); err != nil {
		return fmt.Errorf("%w: write credentials: %w", model.ErrStorageFailure, err)
	}
	return nil
}

// History operations

func (s *Storage) AppendRecord(ctx context.Context, username string, outcome model.Outcome, playedAt time.Time) (model.GameRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.history[username]
	record := model.NewGameRecord(len(existing), outcome, playedAt)
	s.history[username] = append(existing, record)

	if err := s.saveHistory(); err != nil {
		if len(existing) == 0 {
			delete(s.history, username)
		} else {
			s.history[username] = existing
		}
		return model.GameRecord{}, err
	}
	return record, nil
}

func (s *Storage) RecordsForUser(ctx context.Context, username string) ([]model.GameRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := s.history[username]
	result := make([]model.GameRecord, len(records))
	copy(result, records)
	return result, nil
}

func (s *Storage) AllRecords(ctx context.Context) (model.History, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Clone(), nil
}

func (s *Storage) loadHistory() error {
	s.history = make(model.History)

	data, err := os.ReadFile(s.historyPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: read history: %w", model.ErrStorageFailure, err)
	}
	if len(data) == 0 {
		return nil
	}

	if err := cbor.Unmarshal(data, &s.history); err != nil {
		return fmt.Errorf("%w: decode history: %w", model.ErrStorageFailure, err)
	}
	if s.history == nil {
		s.history = make(model.History)
	}
	return nil
}

func (s *Storage) saveHistory() error {
	data, err := s.enc.Marshal(s.history)
	if err != nil {
		return fmt.Errorf("%w: encode history: %w", model.ErrStorageFailure, err)
	}
	if err := atomic.WriteFile(s.historyPath(), bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%w: write history: %w", model.ErrStorageFailure, err)
	}
	return nil
}
