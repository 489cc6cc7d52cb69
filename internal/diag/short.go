package diag

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ShortOpts controls FormatShort.
type ShortOpts struct {
	IncludeWarnings bool
	IncludeNotes    bool
	// BaseDir, when set, makes paths relative to it.
	BaseDir string
}

// FormatShort renders findings into a stable, single-line-per-entry
// representation suitable for golden files and the `short` CLI format.
// Pipeline order is kept; the result is empty when nothing remains.
func FormatShort(diags []Diagnostic, opts ShortOpts) string {
	var b strings.Builder
	first := true
	line := func(sev, rule string, loc Location, code, msg string) {
		if !first {
			b.WriteByte('\n')
		}
		first = false
		fmt.Fprintf(&b, "%s %s %s", sev, rule, shortLocation(loc, opts.BaseDir))
		if code != "" {
			fmt.Fprintf(&b, " [%s]", code)
		}
		b.WriteByte(' ')
		b.WriteString(sanitizeMessage(msg))
	}

	for _, d := range diags {
		if d.Severity < SevError && !opts.IncludeWarnings {
			continue
		}
		line(severityLabel(d.Severity), d.Rule.ID(), d.Primary, string(d.Code), d.Message)
		if !opts.IncludeNotes {
			continue
		}
		for _, note := range d.Notes {
			line("note", d.Rule.ID(), note.Loc, string(d.Code), note.Msg)
		}
	}
	return b.String()
}

func shortLocation(loc Location, baseDir string) string {
	if baseDir != "" && loc.Path != "" {
		if rel, err := filepath.Rel(baseDir, loc.Path); err == nil && !strings.HasPrefix(rel, "..") {
			loc.Path = rel
		}
	}
	loc.Path = normalizePath(loc.Path)
	return loc.String()
}

func normalizePath(path string) string {
	p := filepath.ToSlash(path)
	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}
	return p
}

func severityLabel(sev Severity) string {
	switch sev {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	default:
		return "info"
	}
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
