package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mcoot/playmaster/internal/model"
)

// Stream is a Console over plain readers and writers
type Stream struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// Ensure Stream implements Console
var _ Console = (*Stream)(nil)

// NewStream creates a Stream reading lines from in and writing to out
func NewStream(in io.Reader, out io.Writer) *Stream {
	return &Stream{
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

func (s *Stream) Write(p []byte) (int, error) {
	return s.out.Write(p)
}

func (s *Stream) ReadLine(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if prompt != "" {
		fmt.Fprint(s.out, prompt)
	}
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", fmt.Errorf("%w: %w", model.ErrInputClosed, err)
		}
		return "", model.ErrInputClosed
	}
	// Echo a newline so prompts and output do not run together in transcripts
	fmt.Fprintln(s.out)
	return strings.TrimRight(s.scanner.Text(), "\r"), nil
}

func (s *Stream) ReadPassword(ctx context.Context, prompt string) (string, error) {
	return s.ReadLine(ctx, prompt)
}

func (s *Stream) Interactive() bool {
	return false
}

func (s *Stream) Clear() {}

func (s *Stream) Close() error {
	return nil
}
