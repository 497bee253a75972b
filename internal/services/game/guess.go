package game

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mcoot/playmaster/internal/console"
	"github.com/mcoot/playmaster/internal/dependencies/random"
	"github.com/mcoot/playmaster/internal/model"
)

// Secret range for Guess the Number
const (
	MinSecret = 1
	MaxSecret = 100
)

// GuessTheNumber asks the player to find a secret number with higher/lower hints
type GuessTheNumber struct {
	random random.Random
	logger *slog.Logger

	// maxAttempts caps the number of counted guesses; 0 means unbounded
	maxAttempts int
}

// Ensure GuessTheNumber implements Game
var _ Game = (*GuessTheNumber)(nil)

// NewGuessTheNumber creates the game. maxAttempts <= 0 plays until the
// number is found.
func NewGuessTheNumber(random random.Random, maxAttempts int, logger *slog.Logger) *GuessTheNumber {
	if maxAttempts < 0 {
		maxAttempts = 0
	}
	return &GuessTheNumber{
		random:      random,
		logger:      logger,
		maxAttempts: maxAttempts,
	}
}

func (g *GuessTheNumber) Name() string {
	return model.GameNameGuessTheNumber
}

// MaxAttempts returns the configured cap, 0 when unbounded
func (g *GuessTheNumber) MaxAttempts() int {
	return g.maxAttempts
}

func (g *GuessTheNumber) Play(ctx context.Context, con console.Console) (Result, error) {
	fmt.Fprintln(con, "\n=== Guess the Number ===")

	secret := random.Between(g.random, MinSecret, MaxSecret)
	attempts := 0
	prompt := fmt.Sprintf("Enter your guess (between %d and %d): ", MinSecret, MaxSecret)

	for g.maxAttempts == 0 || attempts < g.maxAttempts {
		line, err := con.ReadLine(ctx, prompt)
		if err != nil {
			return Result{}, err
		}

		guess, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			fmt.Fprintln(con, "Invalid input. Please enter a number.")
			continue
		}
		attempts++

		switch {
		case guess == secret:
			fmt.Fprintf(con, "Congratulations! You guessed the number %d in %d attempts.\n", secret, attempts)
			g.logger.Debug("guess the number won", slog.Int("attempts", attempts))
			return g.result(model.ScoreWin, attempts, secret), nil
		case guess < secret:
			fmt.Fprintln(con, "Too low! Try again.")
		default:
			fmt.Fprintln(con, "Too high! Try again.")
		}
	}

	fmt.Fprintf(con, "Sorry, you've used all %d attempts. The number was %d.\n", g.maxAttempts, secret)
	g.logger.Debug("guess the number lost", slog.Int("attempts", attempts))
	return g.result(model.ScoreLoss, attempts, secret), nil
}

func (g *GuessTheNumber) result(score, attempts, secret int) Result {
	return Result{
		Outcome:  model.Outcome{GameName: g.Name(), Score: score},
		Attempts: attempts,
		Answer:   strconv.Itoa(secret),
	}
}
