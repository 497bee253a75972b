package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/playmaster/internal/model"
	"github.com/mcoot/playmaster/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = DefaultConfig().ConnectTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: ping redis: %w", model.ErrStorageFailure, err)
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	if cfg.MaxTxRetries <= 0 {
		cfg.MaxTxRetries = DefaultConfig().MaxTxRetries
	}
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Credential operations

func (s *Storage) Lookup(ctx context.Context, username string) (string, error) {
	password, err := s.client.HGet(ctx, credentialsKey(), username).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", model.ErrUserNotFound
		}
		return "", fmt.Errorf("%w: lookup user: %w", model.ErrStorageFailure, err)
	}
	return password, nil
}

func (s *Storage) Register(ctx context.Context, user model.User) error {
	// HSETNX makes the existence check and the insert one atomic step
	added, err := s.client.HSetNX(ctx, credentialsKey(), user.Username, user.Password).Result()
	if err != nil {
		return fmt.Errorf("%w: register user: %w", model.ErrStorageFailure, err)
	}
	if !added {
		return model.ErrUsernameTaken
	}
	return nil
}

func (s *Storage) CountUsers(ctx context.Context) (int, error) {
	n, err := s.client.HLen(ctx, credentialsKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: count users: %w", model.ErrStorageFailure, err)
	}
	return int(n), nil
}

// History operations

func (s *Storage) AppendRecord(ctx context.Context, username string, outcome model.Outcome, playedAt time.Time) (model.GameRecord, error) {
	key := historyKey(username)

	var record model.GameRecord
	txf := func(tx *redis.Tx) error {
		n, err := tx.LLen(ctx, key).Result()
		if err != nil {
			return err
		}

		record = model.NewGameRecord(int(n), outcome, playedAt)
		data, err := json.Marshal(record)
		if err != nil {
			return err
		}

		// Queued commands only run if the list was untouched since WATCH
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.RPush(ctx, key, data)
			pipe.SAdd(ctx, historyUsersIndexKey(), username)
			return nil
		})
		return err
	}

	for i := 0; i < s.cfg.MaxTxRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return record, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return model.GameRecord{}, fmt.Errorf("%w: append record: %w", model.ErrStorageFailure, err)
	}

	return model.GameRecord{}, fmt.Errorf("%w: append record: too many concurrent writers", model.ErrStorageFailure)
}

func (s *Storage) RecordsForUser(ctx context.Context, username string) ([]model.GameRecord, error) {
	values, err := s.client.LRange(ctx, historyKey(username), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: read history: %w", model.ErrStorageFailure, err)
	}
	return decodeRecords(values)
}

func (s *Storage) AllRecords(ctx context.Context) (model.History, error) {
	users, err := s.client.SMembers(ctx, historyUsersIndexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: read history index: %w", model.ErrStorageFailure, err)
	}

	history := make(model.History, len(users))
	if len(users) == 0 {
		return history, nil
	}

	// Fetch every user's list in one round trip
	pipe := s.client.Pipeline()
	cmds := make(map[string]*redis.StringSliceCmd, len(users))
	for _, user := range users {
		cmds[user] = pipe.LRange(ctx, historyKey(user), 0, -1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("%w: read history: %w", model.ErrStorageFailure, err)
	}

	for user, cmd := range cmds {
		records, err := decodeRecords(cmd.Val())
		if err != nil {
			return nil, err
		}
		history[user] = records
	}
	return history, nil
}

func decodeRecords(values []string) ([]model.GameRecord, error) {
	records := make([]model.GameRecord, 0, len(values))
	for _, val := range values {
		var record model.GameRecord
		if err := json.Unmarshal([]byte(val), &record); err != nil {
			return nil, fmt.Errorf("%w: decode record: %w", model.ErrStorageFailure, err)
		}
		records = append(records, record)
	}
	return records, nil
}
