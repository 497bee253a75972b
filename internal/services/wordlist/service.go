package wordlist

import (
	"bufio"
	"context"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode"

	"github.com/mcoot/playmaster/internal/model"
)

//go:embed words.txt
var defaultWords string

// Source supplies the words a Hangman round picks from
type Source interface {
	Load(ctx context.Context) ([]string, error)
}

// Service loads the Hangman word list from a newline-delimited file.
// The file is read on every Load so edits apply to the next game.
type Service struct {
	path   string
	logger *slog.Logger
}

// Ensure Service implements Source
var _ Source = (*Service)(nil)

// New creates a Service reading path; an empty path uses the built-in list
func New(path string, logger *slog.Logger) *Service {
	return &Service{
		path:   path,
		logger: logger,
	}
}

// Load reads and normalizes the word list
func (s *Service) Load(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var r io.Reader
	if s.path == "" {
		r = strings.NewReader(defaultWords)
	} else {
		file, err := os.Open(s.path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", model.ErrWordListLoad, err)
		}
		defer file.Close()
		r = file
	}

	words, skipped, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrWordListLoad, err)
	}
	if skipped > 0 {
		s.logger.Warn("skipped words containing non-letters",
			slog.String("path", s.path),
			slog.Int("skipped", skipped))
	}
	if len(words) == 0 {
		return nil, model.ErrWordListEmpty
	}
	return words, nil
}

// Parse reads one word per line. Blank lines are ignored, words are
// lowercased, and words containing anything but letters are skipped and
// counted.
func Parse(r io.Reader) (words []string, skipped int, err error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		word := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if word == "" {
			continue
		}
		if !onlyLetters(word) {
			skipped++
			continue
		}
		words = append(words, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, err
	}
	return words, skipped, nil
}

func onlyLetters(word string) bool {
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// Static is a fixed word list, useful for tests
type Static []string

// Load returns a copy of the list, or model.ErrWordListEmpty
func (w Static) Load(ctx context.Context) ([]string, error) {
	if len(w) == 0 {
		return nil, model.ErrWordListEmpty
	}
	out := make([]string, len(w))
	copy(out, w)
	return out, nil
}
