package tidy

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"fortio.org/safecast"

	"codetidy/internal/diag"
	"codetidy/internal/errcode"
	"codetidy/internal/pipeline"
	"codetidy/internal/source"
	"codetidy/internal/trace"
	"codetidy/internal/walk"
)

// Match is one code occurrence on a line.
type Match struct {
	Code errcode.Code
	Col  uint32 // 1-based byte column of the code
}

// UsageScanner finds code occurrences delimited the way the compiler emits
// them: `foo(a, E0111, a)`, `foo(E0111)`, `#[error = "E0111"]`.
type UsageScanner struct {
	re      *regexp.Regexp
	comment string
}

// NewUsageScanner builds a scanner for syntax. Lines whose left-trimmed form
// starts with comment are skipped.
func NewUsageScanner(syntax errcode.Syntax, comment string) *UsageScanner {
	return &UsageScanner{
		re:      regexp.MustCompile(`[(,"\s](` + syntax.Pattern() + `)[,)"]`),
		comment: comment,
	}
}

// ScanLine returns the non-overlapping matches of line, left to right.
func (s *UsageScanner) ScanLine(line string) []Match {
	if s.comment != "" && strings.HasPrefix(strings.TrimLeft(line, " \t"), s.comment) {
		return nil
	}
	idx := s.re.FindAllStringSubmatchIndex(line, -1)
	if len(idx) == 0 {
		return nil
	}
	out := make([]Match, 0, len(idx))
	for _, m := range idx {
		col, err := safecast.Conv[uint32](m[2] + 1)
		if err != nil {
			panic(fmt.Errorf("column overflow: %w", err))
		}
		out = append(out, Match{Code: errcode.Code(line[m[2]:m[3]]), Col: col})
	}
	return out
}

// ScanUsage walks the search roots and cross-checks every occurrence against
// the registry. The registry-wide checks run only after the whole walk.
// It returns the set of declared codes found in the sources.
func ScanUsage(ctx context.Context, reg *Registry, noLongerEmitted *errcode.Set, opts *Options, r diag.Reporter) (*errcode.Set, error) {
	scanner := NewUsageScanner(opts.Syntax, opts.CommentPrefix)
	found := errcode.NewSet()
	tracer := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx)
	files := 0

	visit := func(f *source.File) {
		files++
		trace.Point(tracer, trace.ScopeFile, "file", f.Path, parent)
		opts.emit(pipeline.Event{Stage: pipeline.StageUsage, Status: pipeline.StatusWorking, File: f.Path, Files: files})

		for lineNo, line := range f.Lines() {
			for _, m := range scanner.ScanLine(line) {
				trace.Point(tracer, trace.ScopeMatch, "match", string(m.Code), parent)
				if !reg.Contains(m.Code) {
					diag.ReportError(r, diag.UseUndeclared, diag.Location{Path: f.Path, Line: lineNo, Col: m.Col}, fmt.Sprintf(
						"Error code `%s` is used in the compiler but not defined and documented in `%s`.",
						m.Code, reg.Path,
					)).WithCode(m.Code).WithSnippet(strings.TrimSpace(line)).Emit()
					continue
				}
				found.Add(m.Code)
			}
		}
	}

	err := walk.Walk(ctx, opts.SearchRoots, walk.Options{
		Skip:    opts.SkipFunc(),
		Match:   walk.WithExt(opts.SourceExts...),
		Jobs:    opts.Jobs,
		OnError: readFailure(r),
	}, visit)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		reportWalkFailure(r, err)
	}

	// барьер: перекрёстная проверка только после полного обхода
	for _, e := range reg.Entries() {
		used := found.Has(e.Code)
		historic := noLongerEmitted.Has(e.Code)
		switch {
		case !used && !historic:
			diag.ReportError(r, diag.UseNeverEmitted, e.Loc, fmt.Sprintf(
				"Error code `%s` exists, but is not emitted by the compiler!", e.Code,
			)).WithCode(e.Code).Emit()
		case used && historic:
			diag.ReportWarning(r, diag.UseNoLongerEmitted, e.Loc, fmt.Sprintf(
				"Error code `%s` is used when it's marked as \"no longer emitted\"", e.Code,
			)).WithCode(e.Code).Emit()
		}
	}
	return found, nil
}
