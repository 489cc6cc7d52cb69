package tidy

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"codetidy/internal/diag"
	"codetidy/internal/errcode"
	"codetidy/internal/pipeline"
	"codetidy/internal/source"
	"codetidy/internal/trace"
	"codetidy/internal/walk"
)

const (
	fenceOpener       = "```"
	compileFailMarker = "compile_fail"
	ignoreMarker      = "ignore"
)

// ExplanationFacts are derived from one pass over an explanation document.
type ExplanationFacts struct {
	HasCodeExample       bool
	HasValidNegativeTest bool
	UsesIgnoreMarker     bool
	NoLongerEmitted      bool

	// IgnoreLine is the first fence line carrying the ignore marker.
	IgnoreLine uint32
}

// ScanExplanation computes the facts of the explanation of code.
func ScanExplanation(f *source.File, code errcode.Code, sentinel string) ExplanationFacts {
	var facts ExplanationFacts
	for lineNo, raw := range f.Lines() {
		line := strings.TrimSpace(raw)

		switch {
		case strings.HasPrefix(line, fenceOpener):
			facts.HasCodeExample = true
			if strings.Contains(line, compileFailMarker) && strings.Contains(line, string(code)) {
				facts.HasValidNegativeTest = true
			}
			// ignore-пример засчитывается как проверенный, но с предупреждением
			if strings.Contains(line, ignoreMarker) {
				if !facts.UsesIgnoreMarker {
					facts.IgnoreLine = lineNo
				}
				facts.UsesIgnoreMarker = true
				facts.HasValidNegativeTest = true
			}
		case sentinel != "" && strings.HasPrefix(line, sentinel):
			facts.NoLongerEmitted = true
			facts.HasCodeExample = true
			facts.HasValidNegativeTest = true
		}
	}
	return facts
}

// codeFromFileName returns the file name up to its first dot.
func codeFromFileName(path string) errcode.Code {
	name := filepath.Base(path)
	if stem, _, ok := strings.Cut(name, "."); ok {
		return errcode.Code(stem)
	}
	return errcode.Code(name)
}

// AuditExplanations checks every file of the explanations directory against
// the registry and returns the codes whose explanation says they are no
// longer emitted.
func AuditExplanations(ctx context.Context, reg *Registry, opts *Options, r diag.Reporter) (*errcode.Set, error) {
	noLongerEmitted := errcode.NewSet()
	documented := errcode.NewSet()
	registryName := filepath.Base(reg.Path)
	tracer := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx)
	files := 0

	visit := func(f *source.File) {
		files++
		trace.Point(tracer, trace.ScopeFile, "file", f.Path, parent)
		opts.emit(pipeline.Event{Stage: pipeline.StageDocs, Status: pipeline.StatusWorking, File: f.Path, Files: files})

		if ext := filepath.Ext(f.Path); ext != opts.DocExt {
			diag.ReportError(r, diag.DocUnexpectedFile, diag.At(f.Path), fmt.Sprintf(
				"Found unexpected file in error code docs directory (expected `*%s`): %s", opts.DocExt, f.Path,
			)).Emit()
			return
		}

		code := codeFromFileName(f.Path)
		if !reg.Contains(code) {
			diag.ReportError(r, diag.DocUnregistered, diag.At(f.Path), fmt.Sprintf(
				"Found valid file `%s` in error code docs directory without corresponding entry in `%s`",
				f.Path, registryName,
			)).Emit()
			return
		}
		documented.Add(code)

		facts := ScanExplanation(f, code, opts.Sentinel)

		if facts.UsesIgnoreMarker {
			diag.ReportWarning(r, diag.DocIgnoreMarker, diag.AtLine(f.Path, facts.IgnoreLine), fmt.Sprintf(
				"Error code `%s` uses the ignore header. This should not be used, add the error code to the doctest exemption list instead.",
				code,
			)).WithCode(code).WithSnippet(strings.TrimSpace(f.GetLine(facts.IgnoreLine))).Emit()
		}

		if facts.NoLongerEmitted {
			noLongerEmitted.Add(code)
		}

		if !facts.HasCodeExample {
			diag.ReportWarning(r, diag.DocNoCodeExample, diag.At(f.Path), fmt.Sprintf(
				"Error code `%s` doesn't have a code example, all error codes are expected to have one (even if untested).",
				code,
			)).WithCode(code).Emit()
			return
		}

		exempt := opts.Exemptions.Doctest.Has(code)
		switch {
		case !facts.HasValidNegativeTest && !exempt:
			diag.ReportError(r, diag.DocMissingDoctest, diag.At(f.Path), fmt.Sprintf(
				"`%s` doesn't use its own error code in compile_fail example", f.Path,
			)).WithCode(code).Emit()
		case facts.HasValidNegativeTest && exempt:
			diag.ReportError(r, diag.DocExemptButTested, diag.At(f.Path), fmt.Sprintf(
				"`%s` has a compile_fail doctest with its own error code, it shouldn't be listed in the doctest exemption list",
				f.Path,
			)).WithCode(code).Emit()
		}
	}

	err := walk.Walk(ctx, []string{opts.DocsDir}, walk.Options{
		Jobs:    opts.Jobs,
		OnError: readFailure(r),
	}, visit)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		reportWalkFailure(r, err)
		// без каталога пояснений отсутствие каждого файла это шум
		return noLongerEmitted, nil
	}

	for _, e := range reg.Entries() {
		if documented.Has(e.Code) {
			continue
		}
		diag.ReportError(r, diag.DocMissingExplanation, e.Loc, fmt.Sprintf(
			"Error code `%s` is registered but has no explanation file `%s`",
			e.Code, opts.ExplanationPath(e.Code),
		)).WithCode(e.Code).Emit()
	}
	return noLongerEmitted, nil
}

// readFailure reports per-file read errors as warnings.
func readFailure(r diag.Reporter) func(path string, err error) {
	return func(path string, err error) {
		diag.ReportWarning(r, diag.IOReadFailed, diag.At(path), fmt.Sprintf("Failed to read `%s`: %v", path, err)).Emit()
	}
}

// reportWalkFailure reports one IO5002 per root that could not be walked.
func reportWalkFailure(r diag.Reporter, err error) {
	errs := []error{err}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	}
	for _, e := range errs {
		var rootErr *walk.RootError
		if errors.As(e, &rootErr) {
			diag.ReportError(r, diag.IOWalkFailed, diag.At(rootErr.Root), fmt.Sprintf(
				"Failed to walk `%s`: %v", rootErr.Root, rootErr.Err,
			)).Emit()
			continue
		}
		diag.ReportError(r, diag.IOWalkFailed, diag.Location{}, e.Error()).Emit()
	}
}
