package diag

import (
	"fmt"

	"codetidy/internal/errcode"
)

// Location points at a file and, when known, a 1-based line and column.
type Location struct {
	Path string
	Line uint32
	Col  uint32
}

// At builds a location for a whole file.
func At(path string) Location {
	return Location{Path: path}
}

// AtLine builds a location for a line (column 1).
func AtLine(path string, line uint32) Location {
	return Location{Path: path, Line: line, Col: 1}
}

// IsZero reports whether the location carries no path.
func (l Location) IsZero() bool {
	return l.Path == ""
}

func (l Location) String() string {
	switch {
	case l.Path == "":
		return "<unknown>"
	case l.Line == 0:
		return l.Path
	case l.Col == 0:
		return fmt.Sprintf("%s:%d", l.Path, l.Line)
	}
	return fmt.Sprintf("%s:%d:%d", l.Path, l.Line, l.Col)
}

type Note struct {
	Loc Location
	Msg string
}

// Diagnostic is one finding of a check run.
type Diagnostic struct {
	Severity Severity
	Rule     Rule
	Code     errcode.Code // error code the finding is about, may be empty
	Message  string
	Primary  Location
	Snippet  string // offending line, trimmed
	Notes    []Note
}

func New(sev Severity, rule Rule, primary Location, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Rule:     rule,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(rule Rule, primary Location, msg string) Diagnostic {
	return New(SevError, rule, primary, msg)
}

func NewWarning(rule Rule, primary Location, msg string) Diagnostic {
	return New(SevWarning, rule, primary, msg)
}

func (d Diagnostic) WithCode(code errcode.Code) Diagnostic {
	d.Code = code
	return d
}

func (d Diagnostic) WithSnippet(line string) Diagnostic {
	d.Snippet = line
	return d
}

func (d Diagnostic) WithNote(loc Location, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Loc: loc, Msg: msg})
	return d
}
