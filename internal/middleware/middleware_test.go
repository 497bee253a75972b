package middleware

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/playmaster/internal/console"
	"github.com/mcoot/playmaster/internal/dependencies/mocks"
	"github.com/mcoot/playmaster/internal/model"
	"github.com/mcoot/playmaster/internal/services/game"
	"github.com/mcoot/playmaster/internal/testutil"
)

// stubGame reads reads lines, then panics or returns a win
type stubGame struct {
	reads int
	panic bool
}

func (g *stubGame) Name() string { return "Stub" }

func (g *stubGame) Play(ctx context.Context, con console.Console) (game.Result, error) {
	for range g.reads {
		if _, err := con.ReadLine(ctx, "> "); err != nil {
			return game.Result{}, err
		}
	}
	if g.panic {
		panic("boom")
	}
	return game.Result{Outcome: model.Outcome{GameName: g.Name(), Score: model.ScoreWin}, Attempts: g.reads}, nil
}

func TestRecoveryConvertsPanic(t *testing.T) {
	g := Recovery(testutil.NopLogger())(&stubGame{panic: true})
	con, _ := testutil.ScriptConsole()

	result, err := g.Play(context.Background(), con)

	assert.ErrorIs(t, err, model.ErrGameCrashed)
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, game.Result{}, result)
	assert.Equal(t, "Stub", g.Name())
}

func TestRecoveryPassesResult(t *testing.T) {
	g := Recovery(testutil.NopLogger())(&stubGame{reads: 1})
	con, _ := testutil.ScriptConsole("x")

	result, err := g.Play(context.Background(), con)
	require.NoError(t, err)
	assert.True(t, result.Won())
}

func TestLoggingRecordsRun(t *testing.T) {
	logger, buf := testutil.CaptureLogger()
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	clk.Step = 2 * time.Second

	g := Logging(logger, clk)(&stubGame{reads: 2})
	con, _ := testutil.ScriptConsole("a", "b")

	_, err := g.Play(context.Background(), con)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "game played", entry["msg"])
	assert.Equal(t, "Stub", entry["game"])
	assert.EqualValues(t, 100, entry["score"])
	assert.EqualValues(t, 2, entry["inputs"])
	assert.EqualValues(t, 2*time.Second, entry["duration"])
}

func TestLoggingRecordsAbort(t *testing.T) {
	logger, buf := testutil.CaptureLogger()
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	g := Logging(logger, clk)(&stubGame{reads: 3})
	con, _ := testutil.ScriptConsole("a")

	_, err := g.Play(context.Background(), con)
	assert.ErrorIs(t, err, model.ErrInputClosed)
	assert.True(t, strings.Contains(buf.String(), `"msg":"game aborted"`))
	assert.True(t, strings.Contains(buf.String(), `"inputs":1`))
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next game.Game) game.Game {
			return Wrap(next, func(ctx context.Context, con console.Console) (game.Result, error) {
				order = append(order, name)
				return next.Play(ctx, con)
			})
		}
	}

	g := Chain(&stubGame{}, mark("outer"), mark("inner"))
	con, _ := testutil.ScriptConsole()
	_, err := g.Play(context.Background(), con)

	require.NoError(t, err)
	assert.Equal(t, []string{"outer", "inner"}, order)
}
