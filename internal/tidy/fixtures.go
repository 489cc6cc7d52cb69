package tidy

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"codetidy/internal/diag"
	"codetidy/internal/errcode"
	"codetidy/internal/pipeline"
	"codetidy/internal/source"
	"codetidy/internal/trace"
)

// headerRe matches a diagnostic header such as `error[E0308]: mismatched types`.
var headerRe = regexp.MustCompile(`^error\[([^\]]*)\]`)

// CitesCode reports whether a fixture has a diagnostic header for code.
func CitesCode(f *source.File, code errcode.Code) bool {
	for _, raw := range f.Lines() {
		line := strings.TrimSpace(raw)
		if !strings.HasPrefix(line, "error[") {
			continue
		}
		if m := headerRe.FindStringSubmatch(line); m != nil && m[1] == string(code) {
			return true
		}
	}
	return false
}

// AuditFixtures checks that every declared code has a regression fixture
// that cites it, honoring the UI-test exemptions.
func AuditFixtures(ctx context.Context, reg *Registry, noLongerEmitted *errcode.Set, opts *Options, r diag.Reporter) error {
	tracer := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx)

	for i, e := range reg.Entries() {
		if err := ctx.Err(); err != nil {
			return err
		}
		code := e.Code
		path := opts.FixturePath(code)
		exists := fixtureExists(path)
		exempt := opts.Exemptions.UITest.Has(code)

		if exempt {
			if exists {
				diag.ReportError(r, diag.TstExemptButExists, diag.At(path), fmt.Sprintf(
					"Error code `%s` has a UI test in `%s`, it shouldn't be listed in the UI test exemption list!",
					code, path,
				)).WithCode(code).Emit()
			}
			continue
		}
		if !exists {
			diag.ReportWarning(r, diag.TstMissingFixture, e.Loc, fmt.Sprintf(
				"Error code `%s` needs to have at least one UI test in `%s`!", code, opts.TestsDir,
			)).WithCode(code).Emit()
			continue
		}

		trace.Point(tracer, trace.ScopeFile, "file", path, parent)
		opts.emit(pipeline.Event{Stage: pipeline.StageTests, Status: pipeline.StatusWorking, File: path, Files: i + 1})

		f, err := source.Load(path)
		if err != nil {
			diag.ReportWarning(r, diag.TstUnreadable, diag.At(path), fmt.Sprintf(
				"Failed to read UI test file (`%s`) for `%s` but the file exists. The test is assumed to work: %v",
				path, code, err,
			)).WithCode(code).Emit()
			continue
		}

		// исторические коды не могут появиться в свежем выводе
		if noLongerEmitted.Has(code) {
			continue
		}

		if !CitesCode(f, code) {
			diag.ReportWarning(r, diag.TstCodeNotCited, diag.At(path), fmt.Sprintf(
				"Error code `%s` has a UI test file, but doesn't contain its own error code!", code,
			)).WithCode(code).Emit()
		}
	}
	return nil
}

// fixtureExists treats anything but "not found" as present, so that
// permission problems surface as read failures.
func fixtureExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}
