// Package game holds the playable games. Each game is a self-contained turn
// loop that talks to the player through a console and returns an outcome.
package game

import (
	"context"
	"strconv"

	"github.com/mcoot/playmaster/internal/console"
	"github.com/mcoot/playmaster/internal/model"
)

// Game is one playable game
type Game interface {
	// Name is the label stored with the game's records
	Name() string

	// Play runs one game to completion. An error means the run did not
	// complete and produced no outcome.
	Play(ctx context.Context, con console.Console) (Result, error)
}

// Result describes a completed run
type Result struct {
	model.Outcome

	// Attempts is the guess count for Guess the Number and the miss count
	// for Hangman
	Attempts int

	// Answer is the secret number or word
	Answer string
}

// Entry is a game with its menu ID
type Entry struct {
	ID   string
	Game Game
}

// Catalog is the ordered set of games offered on the menu
type Catalog struct {
	entries []Entry
}

// NewCatalog numbers games from "1" in the order given
func NewCatalog(games ...Game) *Catalog {
	entries := make([]Entry, len(games))
	for i, g := range games {
		entries[i] = Entry{ID: strconv.Itoa(i + 1), Game: g}
	}
	return &Catalog{entries: entries}
}

// Get returns the game with the given menu ID, or model.ErrUnknownGame
func (c *Catalog) Get(id string) (Game, error) {
	for _, e := range c.entries {
		if e.ID == id {
			return e.Game, nil
		}
	}
	return nil, model.ErrUnknownGame
}

// Entries returns the games in menu order
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of games
func (c *Catalog) Len() int {
	return len(c.entries)
}
