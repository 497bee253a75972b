package testutil

import (
	"bytes"
	"strings"

	"github.com/mcoot/playmaster/internal/console"
)

// ScriptConsole returns a non-interactive console that reads the given lines
// in order, plus the buffer capturing everything written to it.
// Reads past the last line fail with model.ErrInputClosed.
func ScriptConsole(lines ...string) (*console.Stream, *bytes.Buffer) {
	var out bytes.Buffer
	input := ""
	if len(lines) > 0 {
		input = strings.Join(lines, "\n") + "\n"
	}
	return console.NewStream(strings.NewReader(input), &out), &out
}
