package model

import (
	"fmt"
	"time"
)

// Game names as they appear in outcomes and history
const (
	GameNameGuessTheNumber = "Guess the Number"
	GameNameHangman        = "Hangman"
)

// Scores a completed game can produce
const (
	ScoreWin  = 100
	ScoreLoss = 0
)

// Outcome is the result of a completed game run
type Outcome struct {
	GameName string
	Score    int
}

// Won reports whether the outcome carries the winning score
func (o Outcome) Won() bool {
	return o.Score == ScoreWin
}

// GameRecord is one persisted, per-user history entry.
// GameID is 1-based and scoped to the owning user.
type GameRecord struct {
	GameID   int       `json:"game_id" cbor:"game_id"`
	GameName string    `json:"game_name" cbor:"game_name"`
	Score    int       `json:"score" cbor:"score"`
	PlayedAt time.Time `json:"played_at" cbor:"played_at"`
}

// PlayedAtLayout is how history lines print the play time
const PlayedAtLayout = "2006-01-02 15:04 MST"

// String is the history line shown for the record. It depends only on
// the stored fields, so repeated views print the same text.
func (r GameRecord) String() string {
	line := fmt.Sprintf("Game ID: %d, Game: %s, Score: %d", r.GameID, r.GameName, r.Score)
	if r.PlayedAt.IsZero() {
		return line
	}
	return line + " (" + r.PlayedAt.UTC().Format(PlayedAtLayout) + ")"
}

// NewGameRecord builds the record appended after a user's existing count records
func NewGameRecord(existing int, outcome Outcome, playedAt time.Time) GameRecord {
	return GameRecord{
		GameID:   existing + 1,
		GameName: outcome.GameName,
		Score:    outcome.Score,
		PlayedAt: playedAt.UTC(),
	}
}

// History maps usernames to their records in insertion order
type History map[string][]GameRecord

// Clone returns a deep copy so callers cannot mutate store state
func (h History) Clone() History {
	out := make(History, len(h))
	for user, records := range h {
		cp := make([]GameRecord, len(records))
		copy(cp, records)
		out[user] = cp
	}
	return out
}
