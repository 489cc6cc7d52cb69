package diagfmt

import (
	"encoding/json"
	"io"

	"codetidy/internal/diag"
)

// LocationJSON представляет местоположение в файле для JSON
type LocationJSON struct {
	File string `json:"file"`
	Line uint32 `json:"line,omitempty"`
	Col  uint32 `json:"col,omitempty"`
}

// NoteJSON представляет дополнительную заметку для JSON
type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// DiagnosticJSON представляет находку в JSON формате
type DiagnosticJSON struct {
	Severity  string       `json:"severity"`
	Rule      string       `json:"rule"`
	Title     string       `json:"title"`
	ErrorCode string       `json:"error_code,omitempty"`
	Message   string       `json:"message"`
	Location  LocationJSON `json:"location"`
	Snippet   string       `json:"snippet,omitempty"`
	Notes     []NoteJSON   `json:"notes,omitempty"`
}

// DiagnosticsOutput представляет корневую структуру JSON вывода.
// Errors and Warnings count the whole Bag, Count only what was emitted.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
	Errors      int              `json:"errors"`
	Warnings    int              `json:"warnings"`
}

func makeLocation(loc diag.Location, opts JSONOpts) LocationJSON {
	return LocationJSON{
		File: formatPath(loc.Path, opts.PathMode, opts.BaseDir),
		Line: loc.Line,
		Col:  loc.Col,
	}
}

// BuildDiagnosticsOutput формирует структуру JSON-вывода без сериализации.
func BuildDiagnosticsOutput(bag *diag.Bag, opts JSONOpts) DiagnosticsOutput {
	items, _ := selectItems(bag, opts.IncludeWarnings, opts.Max)
	diagnostics := make([]DiagnosticJSON, 0, len(items))

	for _, d := range items {
		dj := DiagnosticJSON{
			Severity:  d.Severity.String(),
			Rule:      d.Rule.ID(),
			Title:     d.Rule.Title(),
			ErrorCode: string(d.Code),
			Message:   d.Message,
			Location:  makeLocation(d.Primary, opts),
			Snippet:   d.Snippet,
		}
		if opts.IncludeNotes && len(d.Notes) > 0 {
			dj.Notes = make([]NoteJSON, len(d.Notes))
			for j, note := range d.Notes {
				dj.Notes[j] = NoteJSON{
					Message:  note.Msg,
					Location: makeLocation(note.Loc, opts),
				}
			}
		}
		diagnostics = append(diagnostics, dj)
	}

	out := DiagnosticsOutput{
		Diagnostics: diagnostics,
		Count:       len(diagnostics),
	}
	if bag != nil {
		out.Errors = bag.Count(diag.SevError)
		out.Warnings = bag.Count(diag.SevWarning)
	}
	return out
}

// JSON форматирует находки в JSON формат.
func JSON(w io.Writer, bag *diag.Bag, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDiagnosticsOutput(bag, opts))
}
