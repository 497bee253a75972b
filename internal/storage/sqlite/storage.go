package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mcoot/playmaster/internal/model"
	"github.com/mcoot/playmaster/internal/storage"
)

//go:embed schema.sql
var schema string

// toMillis normalizes timestamps into millisecond precision for storage.
func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// fromMillis restores millisecond precision and keeps UTC normalization.
func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Storage implements credential and history persistence over SQLite
type Storage struct {
	db *sql.DB
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Open opens the SQLite file at path and applies the schema
func Open(path string) (*Storage, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: storage path is required", model.ErrStorageFailure)
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(FULL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite db: %w", model.ErrStorageFailure, err)
	}
	// One writer keeps per-user game IDs gap free
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping sqlite db: %w", model.ErrStorageFailure, err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: apply schema: %w", model.ErrStorageFailure, err)
	}

	return &Storage{db: db}, nil
}

// Close releases the underlying SQLite database
func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Credential operations

func (s *Storage) Lookup(ctx context.Context, username string) (string, error) {
	var password string
	err := s.db.QueryRowContext(ctx, "SELECT password FROM users WHERE username = ?", username).Scan(&password)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", model.ErrUserNotFound
		}
		return "", fmt.Errorf("%w: lookup user: %w", model.ErrStorageFailure, err)
	}
	return password, nil
}

func (s *Storage) Register(ctx context.Context, user model.User) error {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO users (username, password) VALUES (?, ?) ON CONFLICT(username) DO NOTHING",
		user.Username, user.Password)
	if err != nil {
		return fmt.Errorf("%w: register user: %w", model.ErrStorageFailure, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: register user: %w", model.ErrStorageFailure, err)
	}
	if n == 0 {
		return model.ErrUsernameTaken
	}
	return nil
}

func (s *Storage) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: count users: %w", model.ErrStorageFailure, err)
	}
	return count, nil
}

// History operations

func (s *Storage) AppendRecord(ctx context.Context, username string, outcome model.Outcome, playedAt time.Time) (model.GameRecord, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.GameRecord{}, fmt.Errorf("%w: begin transaction: %w", model.ErrStorageFailure, err)
	}
	defer tx.Rollback()

	var existing int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM game_records WHERE username = ?", username).Scan(&existing); err != nil {
		return model.GameRecord{}, fmt.Errorf("%w: count records: %w", model.ErrStorageFailure, err)
	}

	record := model.NewGameRecord(existing, outcome, fromMillis(toMillis(playedAt)))
	_, err = tx.ExecContext(ctx,
		"INSERT INTO game_records (username, game_id, game_name, score, played_at) VALUES (?, ?, ?, ?, ?)",
		username, record.GameID, record.GameName, record.Score, toMillis(record.PlayedAt))
	if err != nil {
		return model.GameRecord{}, fmt.Errorf("%w: insert record: %w", model.ErrStorageFailure, err)
	}

	if err := tx.Commit(); err != nil {
		return model.GameRecord{}, fmt.Errorf("%w: commit record: %w", model.ErrStorageFailure, err)
	}
	return record, nil
}

func (s *Storage) RecordsForUser(ctx context.Context, username string) ([]model.GameRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT game_id, game_name, score, played_at FROM game_records WHERE username = ? ORDER BY game_id",
		username)
	if err != nil {
		return nil, fmt.Errorf("%w: read history: %w", model.ErrStorageFailure, err)
	}
	defer rows.Close()

	records := []model.GameRecord{}
	for rows.Next() {
		var record model.GameRecord
		var played int64
		if err := rows.Scan(&record.GameID, &record.GameName, &record.Score, &played); err != nil {
			return nil, fmt.Errorf("%w: scan record: %w", model.ErrStorageFailure, err)
		}
		record.PlayedAt = fromMillis(played)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read history: %w", model.ErrStorageFailure, err)
	}
	return records, nil
}

func (s *Storage) AllRecords(ctx context.Context) (model.History, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT username, game_id, game_name, score, played_at FROM game_records ORDER BY username, game_id")
	if err != nil {
		return nil, fmt.Errorf("%w: read history: %w", model.ErrStorageFailure, err)
	}
	defer rows.Close()

	history := make(model.History)
	for rows.Next() {
		var username string
		var record model.GameRecord
		var played int64
		if err := rows.Scan(&username, &record.GameID, &record.GameName, &record.Score, &played); err != nil {
			return nil, fmt.Errorf("%w: scan record: %w", model.ErrStorageFailure, err)
		}
		record.PlayedAt = fromMillis(played)
		history[username] = append(history[username], record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read history: %w", model.ErrStorageFailure, err)
	}
	return history, nil
}
