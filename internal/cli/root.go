package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mcoot/playmaster/internal/console"
	"github.com/mcoot/playmaster/internal/factory"
	"github.com/mcoot/playmaster/internal/shell"
)

// NewRootCmd creates the root command. Running it without a subcommand
// starts the interactive shell.
func NewRootCmd() *cobra.Command {
	cfg, loadErr := LoadConfig()
	if cfg == nil {
		cfg = &Config{}
	}

	rootCmd := &cobra.Command{
		Use:   "playmaster",
		Short: "Terminal gaming service with Guess the Number and Hangman",
		Long: `playmaster is a terminal gaming service.

Register or log in, then play Guess the Number or Hangman. Every completed
game is added to your history, which is kept between runs.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if loadErr != nil {
				return loadErr
			}
			return cfg.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, cfg, func(app *factory.App) error {
				con, err := console.New(cmd.InOrStdin(), cmd.OutOrStdout(), console.Options{
					HistoryFile: cfg.ConsoleHistoryPath(),
				})
				if err != nil {
					return err
				}
				defer con.Close()

				sh := shell.New(app.NewController(), con, app.Logger, shell.Options{
					NoColor: cfg.NoColor,
				})
				return sh.Run(cmd.Context())
			})
		},
		SilenceUsage: true,
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Data directory (env: PLAYMASTER_DATA_DIR)")
	flags.StringVar(&cfg.Storage, "storage", cfg.Storage, "Storage backend: file, memory, redis, sqlite (env: PLAYMASTER_STORAGE)")
	flags.StringVar(&cfg.RedisURL, "redis-url", cfg.RedisURL, "Redis URL (env: PLAYMASTER_REDIS_URL)")
	flags.StringVar(&cfg.SQLitePath, "sqlite-path", cfg.SQLitePath, "SQLite database path, default <data-dir>/playmaster.db (env: PLAYMASTER_SQLITE_PATH)")
	flags.StringVar(&cfg.WordsFile, "words-file", cfg.WordsFile, "Hangman word list, default built-in list (env: PLAYMASTER_WORDS_FILE)")
	flags.IntVar(&cfg.MaxGuessAttempts, "max-guess-attempts", cfg.MaxGuessAttempts, "Cap Guess the Number attempts, 0 for unbounded (env: PLAYMASTER_MAX_GUESS_ATTEMPTS)")
	flags.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Seed for reproducible games, 0 for random (env: PLAYMASTER_SEED)")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error (env: PLAYMASTER_LOG_LEVEL)")
	flags.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Log file, '-' for stderr, default <data-dir>/playmaster.log (env: PLAYMASTER_LOG_FILE)")
	flags.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "Disable colored output (env: PLAYMASTER_NO_COLOR)")
	flags.StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format for reports: text, json")

	// Add subcommands
	rootCmd.AddCommand(newHistoryCmd(cfg))
	rootCmd.AddCommand(newStatsCmd(cfg))

	return rootCmd
}

// withApp builds the logger and app for one command run and tears them down after
func withApp(cmd *cobra.Command, cfg *Config, run func(app *factory.App) error) error {
	logger, closeLog, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeLog()

	factoryCfg := cfg.FactoryConfig()
	factoryCfg.Logger = logger

	app, err := factory.New(factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("failed to close storage", slog.String("error", err.Error()))
		}
	}()

	logger.Info("playmaster started",
		slog.String("command", cmd.Name()),
		slog.String("storage", cfg.Storage),
	)
	return run(app)
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := NewRootCmd().ExecuteContext(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		stop()
		os.Exit(1)
	}
}
