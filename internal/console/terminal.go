package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"

	"github.com/mcoot/playmaster/internal/model"
)

const clearScreen = "\033[H\033[2J"

// Terminal is a Console backed by readline for line editing, history and
// hidden password entry
type Terminal struct {
	rl *readline.Instance
}

// Ensure Terminal implements Console
var _ Console = (*Terminal)(nil)

// NewTerminal creates a readline console on the given terminal
func NewTerminal(in *os.File, out io.Writer, opts Options) (*Terminal, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     opts.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdin:           in,
		Stdout:          out,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize readline: %w", err)
	}
	return &Terminal{rl: rl}, nil
}

func (t *Terminal) Write(p []byte) (int, error) {
	return t.rl.Stdout().Write(p)
}

func (t *Terminal) ReadLine(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	t.rl.SetPrompt(prompt)
	line, err := t.rl.Readline()
	return line, mapReadlineError(err)
}

func (t *Terminal) ReadPassword(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	pw, err := t.rl.ReadPassword(prompt)
	return string(pw), mapReadlineError(err)
}

func (t *Terminal) Interactive() bool {
	return true
}

func (t *Terminal) Clear() {
	fmt.Fprint(t.rl.Stdout(), clearScreen)
}

func (t *Terminal) Close() error {
	return t.rl.Close()
}

// mapReadlineError turns Ctrl-C and Ctrl-D into a closed input
func mapReadlineError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, readline.ErrInterrupt), errors.Is(err, io.EOF):
		return model.ErrInputClosed
	default:
		return err
	}
}
