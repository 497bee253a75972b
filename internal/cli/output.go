package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/mcoot/playmaster/internal/services/history"
)

// Output handles formatting output based on the configured format
type Output struct {
	w       io.Writer
	format  string
	heading *color.Color
}

// NewOutput creates a new Output formatter
func NewOutput(w io.Writer, format string, noColor bool) *Output {
	heading := color.New(color.FgCyan, color.Bold)
	if noColor {
		heading.DisableColor()
	}
	return &Output{w: w, format: format, heading: heading}
}

// HistoryReport is the output of the history command
type HistoryReport struct {
	Users []history.UserHistory `json:"users"`
	Now   time.Time             `json:"-"`
}

// StatsReport is the output of the stats command
type StatsReport struct {
	Users   int             `json:"users"`
	Games   int             `json:"games"`
	PerUser []history.Stats `json:"per_user"`
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case HistoryReport:
		o.printHistory(v)
	case StatsReport:
		o.printStats(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printHistory(r HistoryReport) {
	o.heading.Fprintln(o.w, "=== Game History ===")
	if len(r.Users) == 0 {
		fmt.Fprintln(o.w, "No games recorded.")
		return
	}
	for _, u := range r.Users {
		fmt.Fprintf(o.w, "\n%s's Games:\n", u.Username)
		if len(u.Records) == 0 {
			fmt.Fprintln(o.w, "   No games played yet.")
		}
		for _, rec := range u.Records {
			fmt.Fprintf(o.w, "   - %s", rec)
			if !rec.PlayedAt.IsZero() {
				fmt.Fprintf(o.w, ", %s", humanize.RelTime(rec.PlayedAt, r.Now, "ago", "from now"))
			}
			fmt.Fprintln(o.w)
		}
	}
}

func (o *Output) printStats(s StatsReport) {
	o.heading.Fprintln(o.w, "=== PlayMaster Stats ===")
	fmt.Fprintf(o.w, "Registered users: %s\n", humanize.Comma(int64(s.Users)))
	fmt.Fprintf(o.w, "Games recorded:   %s\n", humanize.Comma(int64(s.Games)))
	for _, st := range s.PerUser {
		fmt.Fprintf(o.w, "  %s: %d played, %d won, %s points\n",
			st.Username, st.Played, st.Won, humanize.Comma(int64(st.Total)))
	}
}
