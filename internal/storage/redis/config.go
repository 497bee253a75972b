package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// ConnectTimeout bounds the initial ping
	ConnectTimeout time.Duration

	// MaxTxRetries bounds optimistic-lock retries when appending history
	MaxTxRetries int
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:            "redis://localhost:6379",
		PoolSize:       4,
		MinIdleConns:   1,
		ConnectTimeout: 5 * time.Second,
		MaxTxRetries:   5,
	}
}
