package tidy

import (
	"fmt"
	"path/filepath"
	"strings"

	"fortio.org/safecast"

	"codetidy/internal/config"
	"codetidy/internal/diag"
	"codetidy/internal/errcode"
	"codetidy/internal/source"
)

// Entry is one accepted registry line.
type Entry struct {
	Code      errcode.Code
	Reference string
	Loc       diag.Location
}

// Registry is the ordered set of declared codes. It is read-only once
// ParseRegistry returns.
type Registry struct {
	Path    string
	entries []Entry
	index   map[errcode.Code]int
}

func newRegistry(path string) *Registry {
	return &Registry{
		Path:  path,
		index: make(map[errcode.Code]int),
	}
}

// Len returns the number of declared codes.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

// Entries returns the entries in file order. Do not modify the result.
func (r *Registry) Entries() []Entry {
	if r == nil {
		return nil
	}
	return r.entries
}

// Codes returns the declared codes in file order.
func (r *Registry) Codes() []errcode.Code {
	out := make([]errcode.Code, 0, r.Len())
	for _, e := range r.Entries() {
		out = append(out, e.Code)
	}
	return out
}

// Contains reports whether code is declared.
func (r *Registry) Contains(code errcode.Code) bool {
	if r == nil {
		return false
	}
	_, ok := r.index[code]
	return ok
}

// Entry returns the declaration of code.
func (r *Registry) Entry(code errcode.Code) (Entry, bool) {
	if r == nil {
		return Entry{}, false
	}
	idx, ok := r.index[code]
	if !ok {
		return Entry{}, false
	}
	return r.entries[idx], true
}

// Highest returns the lexicographically highest declared code.
func (r *Registry) Highest() (errcode.Code, bool) {
	return errcode.Max(r.Codes())
}

func (r *Registry) add(e Entry) {
	r.index[e.Code] = len(r.entries)
	r.entries = append(r.entries, e)
}

// ExpectedReference expands template for code.
func ExpectedReference(template string, code errcode.Code) string {
	return strings.ReplaceAll(template, config.CodePlaceholder, string(code))
}

// ParseRegistry extracts declared codes from the registry file. Every line
// whose trimmed form starts with something shaped like a code is significant;
// malformed ones are reported and skipped.
func ParseRegistry(f *source.File, syntax errcode.Syntax, template string, r diag.Reporter) *Registry {
	reg := newRegistry(f.Path)
	registryName := filepath.Base(f.Path)

	for lineNo, raw := range f.Lines() {
		line := strings.TrimSpace(raw)
		if !syntax.HasPrefix(line) {
			continue
		}
		loc := diag.Location{Path: f.Path, Line: lineNo, Col: indentCol(raw)}

		codePart, ref, ok := strings.Cut(line, ":")
		if !ok {
			diag.ReportError(r, diag.RegMalformedLine, loc, fmt.Sprintf(
				"Expected a line with the format `Exxxx: include_str!(\"..\")`, but got \"%s\" without a `:` delimiter",
				line,
			)).WithSnippet(line).Emit()
			continue
		}

		codeText := strings.TrimSpace(codePart)
		code, valid := syntax.Parse(codeText)
		if !valid {
			diag.ReportError(r, diag.RegInvalidCode, loc, fmt.Sprintf(
				"Malformed error code `%s`: expected one of `%s` followed by four digits",
				codeText, syntax.Letters,
			)).WithSnippet(line).Emit()
			continue
		}

		if first, dup := reg.Entry(code); dup {
			diag.ReportError(r, diag.RegDuplicateCode, loc, fmt.Sprintf("Found duplicate error code: `%s`", code)).
				WithCode(code).
				WithSnippet(line).
				WithNote(first.Loc, "first declared here").
				Emit()
			continue
		}

		got := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(ref), ","))
		want := ExpectedReference(template, code)
		if got != want {
			diag.ReportError(r, diag.RegReferenceMismatch, loc, fmt.Sprintf(
				"Error code `%s` expected to reference docs with `%s` but instead found `%s` in `%s`",
				code, want, got, registryName,
			)).WithCode(code).WithSnippet(line).Emit()
			continue
		}

		reg.add(Entry{Code: code, Reference: got, Loc: loc})
	}
	return reg
}

// indentCol returns the 1-based column of the first non-blank byte.
func indentCol(raw string) uint32 {
	n := len(raw) - len(strings.TrimLeft(raw, " \t"))
	col, err := safecast.Conv[uint32](n + 1)
	if err != nil {
		return 1
	}
	return col
}
