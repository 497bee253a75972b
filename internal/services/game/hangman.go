package game

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mcoot/playmaster/internal/console"
	"github.com/mcoot/playmaster/internal/dependencies/random"
	"github.com/mcoot/playmaster/internal/model"
	"github.com/mcoot/playmaster/internal/services/wordlist"
)

// MaxMisses is the number of wrong letters that ends a Hangman round
const MaxMisses = 6

// Hangman asks the player to reveal a word one letter at a time
type Hangman struct {
	words  wordlist.Source
	random random.Random
	logger *slog.Logger
}

// Ensure Hangman implements Game
var _ Game = (*Hangman)(nil)

// NewHangman creates the game; words is loaded at the start of every round
func NewHangman(words wordlist.Source, random random.Random, logger *slog.Logger) *Hangman {
	return &Hangman{
		words:  words,
		random: random,
		logger: logger,
	}
}

func (h *Hangman) Name() string {
	return model.GameNameHangman
}

func (h *Hangman) Play(ctx context.Context, con console.Console) (Result, error) {
	words, err := h.words.Load(ctx)
	if err != nil {
		return Result{}, err
	}

	fmt.Fprintln(con, "\n=== Hangman ===")

	target := random.Pick(h.random, words)
	guessed := make(map[rune]bool)
	missed := make(map[rune]bool)
	misses := 0

	for misses < MaxMisses {
		fmt.Fprintf(con, "Word: %s\n", Mask(target, guessed))

		line, err := con.ReadLine(ctx, "Enter a letter: ")
		if err != nil {
			return Result{}, err
		}

		letter, ok := parseLetter(line)
		switch {
		case !ok:
			fmt.Fprintln(con, "Invalid input. Please enter a single letter.")
			continue
		case missed[letter]:
			fmt.Fprintf(con, "You already tried %q. Please enter a different letter.\n", letter)
			continue
		}

		if strings.ContainsRune(target, letter) {
			fmt.Fprintln(con, "Correct!")
			guessed[letter] = true
		} else {
			missed[letter] = true
			misses++
			fmt.Fprintf(con, "Incorrect! %d attempts left.\n", MaxMisses-misses)
		}

		if Solved(target, guessed) {
			fmt.Fprintf(con, "Congratulations! You guessed the word: %s\n", target)
			h.logger.Debug("hangman won", slog.Int("misses", misses))
			return h.result(model.ScoreWin, misses, target), nil
		}
	}

	fmt.Fprintf(con, "Sorry, you've run out of attempts. The correct word was: %s\n", target)
	h.logger.Debug("hangman lost", slog.Int("misses", misses))
	return h.result(model.ScoreLoss, misses, target), nil
}

func (h *Hangman) result(score, misses int, target string) Result {
	return Result{
		Outcome:  model.Outcome{GameName: h.Name(), Score: score},
		Attempts: misses,
		Answer:   target,
	}
}

// Mask shows guessed letters of word and replaces the rest with '_'
func Mask(word string, guessed map[rune]bool) string {
	var b strings.Builder
	for _, r := range word {
		if guessed[r] {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// Solved reports whether every letter of word has been guessed
func Solved(word string, guessed map[rune]bool) bool {
	for _, r := range word {
		if !guessed[r] {
			return false
		}
	}
	return true
}

// parseLetter accepts exactly one letter, lowercased
func parseLetter(line string) (rune, bool) {
	s := strings.ToLower(strings.TrimSpace(line))
	if utf8.RuneCountInString(s) != 1 {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(s)
	if !unicode.IsLetter(r) {
		return 0, false
	}
	return r, true
}
