// Package console is the line-oriented input/output channel the shell and
// the games talk through.
package console

import (
	"context"
	"io"
	"os"

	"golang.org/x/term"
)

// Console reads prompted lines and accepts output writes.
// Reads return model.ErrInputClosed once input is exhausted.
type Console interface {
	io.Writer

	// ReadLine shows prompt and returns the next line without its newline
	ReadLine(ctx context.Context, prompt string) (string, error)

	// ReadPassword is ReadLine without echo where the channel supports it
	ReadPassword(ctx context.Context, prompt string) (string, error)

	// Interactive reports whether a person is typing on a terminal
	Interactive() bool

	// Clear wipes the screen on terminals and does nothing elsewhere
	Clear()

	Close() error
}

// Options configures New
type Options struct {
	// HistoryFile keeps readline history between runs; empty disables it
	HistoryFile string
}

// New returns a readline console when in is a terminal and a plain stream
// console otherwise (pipes, scripts, tests).
func New(in io.Reader, out io.Writer, opts Options) (Console, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return NewTerminal(f, out, opts)
	}
	return NewStream(in, out), nil
}
