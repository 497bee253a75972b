package cli

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/mcoot/playmaster/internal/factory"
	redisstorage "github.com/mcoot/playmaster/internal/storage/redis"
)

// Config holds CLI configuration. Values come from the environment (and a
// .env file if present) and are overridden by flags.
type Config struct {
	DataDir          string `env:"PLAYMASTER_DATA_DIR" envDefault:"gaming_system"`
	Storage          string `env:"PLAYMASTER_STORAGE" envDefault:"file"`
	RedisURL         string `env:"PLAYMASTER_REDIS_URL" envDefault:"redis://localhost:6379"`
	SQLitePath       string `env:"PLAYMASTER_SQLITE_PATH"`
	WordsFile        string `env:"PLAYMASTER_WORDS_FILE"`
	MaxGuessAttempts int    `env:"PLAYMASTER_MAX_GUESS_ATTEMPTS" envDefault:"0"`
	Seed             uint64 `env:"PLAYMASTER_SEED"`
	LogLevel         string `env:"PLAYMASTER_LOG_LEVEL" envDefault:"info"`
	LogFile          string `env:"PLAYMASTER_LOG_FILE"`
	NoColor          bool   `env:"PLAYMASTER_NO_COLOR"`
	Output           string `env:"PLAYMASTER_OUTPUT" envDefault:"text"`
}

// LoadConfig reads .env (if present) and then the process environment
func LoadConfig() (*Config, error) {
	// A missing .env file is fine
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate checks values that flags and env cannot constrain
func (c *Config) Validate() error {
	storageTypes := []string{
		factory.StorageTypeFile,
		factory.StorageTypeMemory,
		factory.StorageTypeRedis,
		factory.StorageTypeSQLite,
	}
	if !slices.Contains(storageTypes, c.Storage) {
		return fmt.Errorf("invalid storage %q: must be one of %v", c.Storage, storageTypes)
	}
	if c.Output != "text" && c.Output != "json" {
		return fmt.Errorf("invalid output %q: must be text or json", c.Output)
	}
	if c.MaxGuessAttempts < 0 {
		return fmt.Errorf("max guess attempts must not be negative, got %d", c.MaxGuessAttempts)
	}
	return nil
}

// FactoryConfig converts the CLI config into the app factory's config
func (c *Config) FactoryConfig() factory.Config {
	cfg := factory.Config{
		StorageType:      c.Storage,
		DataDir:          c.DataDir,
		SQLitePath:       c.SQLitePath,
		WordsFile:        c.WordsFile,
		MaxGuessAttempts: c.MaxGuessAttempts,
		Seed:             c.Seed,
	}
	if cfg.SQLitePath == "" {
		cfg.SQLitePath = filepath.Join(c.DataDir, "playmaster.db")
	}
	if c.Storage == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = c.RedisURL
		cfg.RedisConfig = &redisCfg
	}
	return cfg
}

// LogPath returns where logs are written; "-" means stderr
func (c *Config) LogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(c.DataDir, "playmaster.log")
}

// ConsoleHistoryPath is where the interactive console keeps line history
func (c *Config) ConsoleHistoryPath() string {
	return filepath.Join(c.DataDir, ".console_history")
}
