package factory

import (
	"time"

	"github.com/mcoot/playmaster/internal/dependencies/mocks"
	"github.com/mcoot/playmaster/internal/services/wordlist"
	"github.com/mcoot/playmaster/internal/storage/memory"
	"github.com/mcoot/playmaster/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	MemStore   *memory.Storage
}

// TestWords is the Hangman word list used by NewTestApp
var TestWords = wordlist.Static{"cat", "dog", "owl"}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, mockClock, mockRandom, TestWords, 0, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		MemStore:   store,
	}
}
