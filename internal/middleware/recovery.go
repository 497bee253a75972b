package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/mcoot/playmaster/internal/console"
	"github.com/mcoot/playmaster/internal/model"
	"github.com/mcoot/playmaster/internal/services/game"
)

// Recovery turns a panic inside a game into a model.ErrGameCrashed error so
// the session survives and nothing is recorded
func Recovery(logger *slog.Logger) Middleware {
	return func(next game.Game) game.Game {
		return Wrap(next, func(ctx context.Context, con console.Console) (result game.Result, err error) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("panic recovered",
						slog.Any("error", r),
						slog.String("stack", string(debug.Stack())),
						slog.String("game", next.Name()),
					)
					result = game.Result{}
					err = fmt.Errorf("%w: %v", model.ErrGameCrashed, r)
				}
			}()

			return next.Play(ctx, con)
		})
	}
}
