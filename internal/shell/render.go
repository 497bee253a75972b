package shell

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/mcoot/playmaster/internal/model"
)

// renderer writes styled shell output
type renderer struct {
	w       io.Writer
	heading *color.Color
	success *color.Color
	failure *color.Color
}

func newRenderer(w io.Writer, noColor bool) *renderer {
	style := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if noColor {
			c.DisableColor()
		}
		return c
	}
	return &renderer{
		w:       w,
		heading: style(color.FgCyan, color.Bold),
		success: style(color.FgGreen),
		failure: style(color.FgRed),
	}
}

func (r *renderer) Heading(title string) {
	fmt.Fprintln(r.w)
	r.heading.Fprintf(r.w, "=== %s ===\n", title)
}

func (r *renderer) Println(a ...any) {
	fmt.Fprintln(r.w, a...)
}

func (r *renderer) Printf(format string, a ...any) {
	fmt.Fprintf(r.w, format, a...)
}

func (r *renderer) Success(format string, a ...any) {
	r.success.Fprintf(r.w, format+"\n", a...)
}

func (r *renderer) Failure(format string, a ...any) {
	r.failure.Fprintf(r.w, format+"\n", a...)
}

func (r *renderer) Record(rec model.GameRecord) {
	fmt.Fprintf(r.w, "   - %s\n", rec)
}
