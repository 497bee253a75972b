package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/playmaster/internal/dependencies/mocks"
	"github.com/mcoot/playmaster/internal/model"
	"github.com/mcoot/playmaster/internal/services/wordlist"
	"github.com/mcoot/playmaster/internal/testutil"
)

func TestCatalogNumbersGamesInOrder(t *testing.T) {
	rnd := mocks.NewMockRandom()
	guess := NewGuessTheNumber(rnd, 0, testutil.NopLogger())
	hangman := NewHangman(wordlist.Static{"cat"}, rnd, testutil.NopLogger())
	catalog := NewCatalog(guess, hangman)

	entries := catalog.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "1", entries[0].ID)
	assert.Equal(t, model.GameNameGuessTheNumber, entries[0].Game.Name())
	assert.Equal(t, "2", entries[1].ID)
	assert.Equal(t, model.GameNameHangman, entries[1].Game.Name())
	assert.Equal(t, 2, catalog.Len())

	g, err := catalog.Get("2")
	require.NoError(t, err)
	assert.Same(t, hangman, g)
}

func TestCatalogUnknownGame(t *testing.T) {
	catalog := NewCatalog()

	_, err := catalog.Get("1")
	assert.ErrorIs(t, err, model.ErrUnknownGame)
}
