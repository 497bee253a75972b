package middleware

import (
	"context"
	"log/slog"

	"github.com/mcoot/playmaster/internal/console"
	"github.com/mcoot/playmaster/internal/dependencies/clock"
	"github.com/mcoot/playmaster/internal/services/game"
)

// Console wraps console.Console to count the lines a game reads
type Console struct {
	console.Console
	reads int
}

// ReadLine counts successful reads
func (c *Console) ReadLine(ctx context.Context, prompt string) (string, error) {
	line, err := c.Console.ReadLine(ctx, prompt)
	if err == nil {
		c.reads++
	}
	return line, err
}

// ReadPassword counts successful reads
func (c *Console) ReadPassword(ctx context.Context, prompt string) (string, error) {
	line, err := c.Console.ReadPassword(ctx, prompt)
	if err == nil {
		c.reads++
	}
	return line, err
}

// Reads returns the number of lines read
func (c *Console) Reads() int {
	return c.reads
}

// Logging logs every game run with its outcome and duration
func Logging(logger *slog.Logger, clk clock.Clock) Middleware {
	return func(next game.Game) game.Game {
		return Wrap(next, func(ctx context.Context, con console.Console) (game.Result, error) {
			start := clk.Now()
			wrapped := &Console{Console: con}

			result, err := next.Play(ctx, wrapped)

			duration := clk.Now().Sub(start)
			if err != nil {
				logger.Warn("game aborted",
					slog.String("game", next.Name()),
					slog.Int("inputs", wrapped.reads),
					slog.Duration("duration", duration),
					slog.String("error", err.Error()),
				)
				return result, err
			}

			logger.Info("game played",
				slog.String("game", next.Name()),
				slog.Int("score", result.Score),
				slog.Int("attempts", result.Attempts),
				slog.Int("inputs", wrapped.reads),
				slog.Duration("duration", duration),
			)
			return result, nil
		})
	}
}
