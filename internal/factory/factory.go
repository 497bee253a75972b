package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mcoot/playmaster/internal/dependencies/clock"
	"github.com/mcoot/playmaster/internal/dependencies/random"
	"github.com/mcoot/playmaster/internal/middleware"
	"github.com/mcoot/playmaster/internal/services/auth"
	"github.com/mcoot/playmaster/internal/services/game"
	"github.com/mcoot/playmaster/internal/services/history"
	"github.com/mcoot/playmaster/internal/services/wordlist"
	"github.com/mcoot/playmaster/internal/session"
	"github.com/mcoot/playmaster/internal/storage"
	filestorage "github.com/mcoot/playmaster/internal/storage/file"
	"github.com/mcoot/playmaster/internal/storage/memory"
	redisstorage "github.com/mcoot/playmaster/internal/storage/redis"
	sqlitestorage "github.com/mcoot/playmaster/internal/storage/sqlite"
)

// Storage type constants
const (
	StorageTypeFile   = "file"
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeSQLite = "sqlite"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random
	Logger *slog.Logger

	// Services
	AuthService    *auth.Service
	HistoryService *history.Service
	WordList       wordlist.Source
	Catalog        *game.Catalog
}

// Config holds configuration for the application factory
type Config struct {
	// StorageType selects the storage backend: file, memory, redis or sqlite.
	// If empty, defaults to "file"
	StorageType string
	// DataDir holds the file store (required if StorageType is "file")
	DataDir string
	// SQLitePath is the database file (required if StorageType is "sqlite")
	SQLitePath string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// WordsFile is the Hangman word list. If empty, the built-in list is used
	WordsFile string
	// MaxGuessAttempts caps Guess the Number; 0 means unbounded
	MaxGuessAttempts int
	// Seed makes game randomness reproducible; 0 uses crypto/rand
	Seed uint64
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := openStorage(cfg)
	if err != nil {
		return nil, err
	}
	logger.Debug("storage opened", slog.String("type", storageTypeOrDefault(cfg.StorageType)))

	// Create external dependencies
	clk := clock.New()
	var rnd random.Random = random.New()
	if cfg.Seed != 0 {
		rnd = random.NewSeeded(cfg.Seed)
	}

	words := wordlist.New(cfg.WordsFile, logger)

	return newWithDependencies(store, clk, rnd, words, cfg.MaxGuessAttempts, logger), nil
}

func storageTypeOrDefault(storageType string) string {
	if storageType == "" {
		return StorageTypeFile
	}
	return storageType
}

func openStorage(cfg Config) (storage.Storage, error) {
	switch storageTypeOrDefault(cfg.StorageType) {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeFile:
		if cfg.DataDir == "" {
			return nil, errors.New("DataDir required when StorageType is file")
		}
		return filestorage.Open(cfg.DataDir)
	case StorageTypeSQLite:
		if cfg.SQLitePath == "" {
			return nil, errors.New("SQLitePath required when StorageType is sqlite")
		}
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o700); err != nil {
			return nil, fmt.Errorf("create sqlite directory: %w", err)
		}
		return sqlitestorage.Open(cfg.SQLitePath)
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		return redisstorage.New(*cfg.RedisConfig)
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'file', 'memory', 'redis' or 'sqlite'", cfg.StorageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	words wordlist.Source,
	maxGuessAttempts int,
	logger *slog.Logger,
) *App {
	wrap := func(g game.Game) game.Game {
		return middleware.Chain(g, middleware.Recovery(logger), middleware.Logging(logger, clk))
	}
	catalog := game.NewCatalog(
		wrap(game.NewGuessTheNumber(rnd, maxGuessAttempts, logger)),
		wrap(game.NewHangman(words, rnd, logger)),
	)

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		Logger:         logger,
		AuthService:    auth.New(store, logger),
		HistoryService: history.New(store, clk, logger),
		WordList:       words,
		Catalog:        catalog,
	}
}

// NewController creates a logged-out session controller over the app's services
func (a *App) NewController() *session.Controller {
	return session.NewController(a.AuthService, a.HistoryService, a.Catalog, a.Clock, a.Logger)
}

// Close releases the storage backend
func (a *App) Close() error {
	return a.Storage.Close()
}
