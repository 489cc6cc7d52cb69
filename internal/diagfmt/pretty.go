package diagfmt

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"codetidy/internal/diag"
)

type palette struct {
	err, warn, info, path, rule, note, dim *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:  color.New(color.FgRed, color.Bold),
		warn: color.New(color.FgYellow, color.Bold),
		info: color.New(color.FgCyan),
		path: color.New(color.Bold),
		rule: color.New(color.FgMagenta),
		note: color.New(color.FgCyan, color.Bold),
		dim:  color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.path, p.rule, p.note, p.dim} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует находки в человекочитаемый вид, в порядке Bag:
//
//	<path>:<line>:<col>: <SEV> <RULE> [<code>]: <message>
//	    <line> | <snippet>
//	  note: <path>:<line>: <message>
//
// and closes with a one-line summary.
func Pretty(w io.Writer, bag *diag.Bag, opts PrettyOpts) {
	p := newPalette(opts.Color)
	items, dropped := selectItems(bag, opts.ShowWarnings, opts.Max)

	for _, d := range items {
		fmt.Fprintf(w, "%s: %s %s",
			p.path.Sprint(formatLocation(d.Primary, opts.PathMode, opts.BaseDir)),
			p.severity(d.Severity).Sprint(d.Severity.String()),
			p.rule.Sprint(d.Rule.ID()),
		)
		if d.Code != "" {
			fmt.Fprintf(w, " [%s]", d.Code)
		}
		fmt.Fprintf(w, ": %s\n", d.Message)

		if opts.ShowSnippet && d.Snippet != "" {
			gutter := "  "
			if d.Primary.Line > 0 {
				gutter = fmt.Sprintf("%d", d.Primary.Line)
			}
			fmt.Fprintf(w, "  %s %s\n", p.dim.Sprintf("%5s |", gutter), d.Snippet)
		}
		if opts.ShowNotes {
			for _, n := range d.Notes {
				fmt.Fprintf(w, "  %s %s: %s\n", p.note.Sprint("note:"), formatLocation(n.Loc, opts.PathMode, opts.BaseDir), n.Msg)
			}
		}
	}

	writeSummary(w, p, bag, opts, dropped)
}

func writeSummary(w io.Writer, p palette, bag *diag.Bag, opts PrettyOpts, dropped int) {
	if bag == nil {
		return
	}
	errs, warns := bag.Count(diag.SevError), bag.Count(diag.SevWarning)
	if errs == 0 && warns == 0 {
		return
	}
	fmt.Fprintf(w, "%s, %s", p.err.Sprint(plural(errs, "error")), p.warn.Sprint(plural(warns, "warning")))
	if dropped > 0 {
		fmt.Fprintf(w, " (%d more not shown)", dropped)
	}
	if !opts.ShowWarnings && warns > 0 {
		fmt.Fprint(w, p.dim.Sprint(" (warnings hidden, use --verbose)"))
	}
	fmt.Fprintln(w)
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
