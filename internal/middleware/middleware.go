// Package middleware wraps games with cross-cutting behavior such as panic
// recovery and run logging.
package middleware

import (
	"context"

	"github.com/mcoot/playmaster/internal/console"
	"github.com/mcoot/playmaster/internal/services/game"
)

// Middleware wraps a game
type Middleware func(game.Game) game.Game

// Chain applies mws to g; the first middleware is the outermost
func Chain(g game.Game, mws ...Middleware) game.Game {
	for i := len(mws) - 1; i >= 0; i-- {
		g = mws[i](g)
	}
	return g
}

// PlayFunc has the signature of game.Game.Play
type PlayFunc func(ctx context.Context, con console.Console) (game.Result, error)

// wrapped keeps the inner game's name and replaces its Play
type wrapped struct {
	game.Game
	play PlayFunc
}

func (w wrapped) Play(ctx context.Context, con console.Console) (game.Result, error) {
	return w.play(ctx, con)
}

// Wrap returns a game named like next whose Play is play
func Wrap(next game.Game, play PlayFunc) game.Game {
	return wrapped{Game: next, play: play}
}
