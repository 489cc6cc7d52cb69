package tidy

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"codetidy/internal/diag"
	"codetidy/internal/errcode"
	"codetidy/internal/pipeline"
	"codetidy/internal/trace"
)

func sampleTree() map[string]string {
	return map[string]string{
		registryRel: strings.Join([]string{
			"register_diagnostics! {",
			`    E0001: include_str!("./error_codes/E0001.md"),`,
			`    E0002: include_str!("./error_codes/E0002.md"),`,
			`    E0003: include_str!("./error_codes/E0003.md"),`,
			"}",
			"",
		}, "\n"),
		docsRel + "/E0001.md":           "A thing.\n\n```compile_fail,E0001\nfn main() {}\n```\n",
		docsRel + "/E0002.md":           sentinel + "\n\nOld.\n",
		docsRel + "/E0003.md":           "```compile_fail\nbad\n```\n",
		testsRel + "/E0001.stderr":      "error[E0001]: oops\n",
		testsRel + "/E0002.stderr":      "anything\n",
		"compiler/rustc_foo/src/lib.rs": "struct_span_code_err!(dcx, span, E0001, \"x\");\n// E0003 is here, in comment\nfoo(E0999);\n",
	}
}

func TestCheckFullPipeline(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, sampleTree())
	opts := testOptions(root)
	var out bytes.Buffer
	opts.Out = &out

	res, err := Check(context.Background(), opts)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}

	want := []finding{
		{Sev: "ERROR", Rule: "DOC2005", Code: "E0003", Path: docsRel + "/E0003.md"},
		{Sev: "WARNING", Rule: "TST3001", Code: "E0003", Path: registryRel, Line: 4, Col: 5},
		{Sev: "ERROR", Rule: "USE4001", Code: "E0999", Path: "compiler/rustc_foo/src/lib.rs", Line: 3, Col: 5},
		{Sev: "ERROR", Rule: "USE4002", Code: "E0003", Path: registryRel, Line: 4, Col: 5},
	}
	if diff := cmp.Diff(want, project(t, root, res.Bag.Items())); diff != "" {
		t.Fatalf("findings mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]errcode.Code{"E0002"}, res.NoLongerEmitted.Sorted()); diff != "" {
		t.Fatalf("no-longer-emitted mismatch (-want +got):\n%s", diff)
	}
	if !res.Bag.HasErrors() {
		t.Fatal("run must fail")
	}
	if got := out.String(); got != "Found 3 error codes\nHighest error code: `E0003`\n" {
		t.Fatalf("unexpected summary: %q", got)
	}
	if len(res.Timing.Phases) != 4 {
		t.Fatalf("expected 4 timed stages, got %+v", res.Timing.Phases)
	}
}

func TestCheckIsIdempotent(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, sampleTree())
	opts := testOptions(root)

	first, err := Check(context.Background(), opts)
	if err != nil {
		t.Fatalf("first Check: %v", err)
	}
	second, err := Check(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Check: %v", err)
	}
	if diff := cmp.Diff(first.Bag.Items(), second.Bag.Items()); diff != "" {
		t.Fatalf("runs differ (-first +second):\n%s", diff)
	}
	a := diag.FormatShort(first.Bag.Items(), diag.ShortOpts{IncludeWarnings: true, IncludeNotes: true})
	b := diag.FormatShort(second.Bag.Items(), diag.ShortOpts{IncludeWarnings: true, IncludeNotes: true})
	if a != b {
		t.Fatalf("rendered findings differ:\n%s\n---\n%s", a, b)
	}
}

func TestCheckCleanTree(t *testing.T) {
	root := t.TempDir()
	tree := sampleTree()
	tree[docsRel+"/E0003.md"] = "```compile_fail,E0003\n```\n"
	tree[testsRel+"/E0003.stderr"] = "error[E0003]: fine\n"
	tree["compiler/rustc_foo/src/lib.rs"] = "emit(E0001);\nemit(E0003);\n"
	writeTree(t, root, tree)

	res, err := Check(context.Background(), testOptions(root))
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if res.Bag.Len() != 0 {
		t.Fatalf("expected clean run, got %+v", project(t, root, res.Bag.Items()))
	}
}

func TestCheckEmptyRegistry(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		registryRel:         "// nothing registered\n",
		docsRel + "/.keep":  "",
		testsRel + "/.keep": "",
		"compiler/lib.rs":   "\n",
	})
	opts := testOptions(root)
	var out bytes.Buffer
	opts.Out = &out
	res, err := Check(context.Background(), opts)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !strings.Contains(out.String(), "Highest error code: none") {
		t.Fatalf("unexpected summary: %q", out.String())
	}
	// .keep is not markdown and is reported
	if res.Bag.Len() != 1 || res.Bag.Items()[0].Rule != diag.DocUnexpectedFile {
		t.Fatalf("unexpected findings: %+v", res.Bag.Items())
	}
}

func TestCheckUnreadableRegistry(t *testing.T) {
	_, err := Check(context.Background(), testOptions(t.TempDir()))
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestCheckCanceled(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, sampleTree())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Check(ctx, testOptions(root))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestCheckEmitsProgressAndTrace(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, sampleTree())
	opts := testOptions(root)

	var events []pipeline.Event
	opts.Progress = pipeline.FuncSink(func(ev pipeline.Event) { events = append(events, ev) })
	ring := trace.NewRingTracer(256, trace.LevelPhase)
	ctx := trace.WithTracer(context.Background(), ring)

	if _, err := Check(ctx, opts); err != nil {
		t.Fatalf("Check: %v", err)
	}

	final := map[pipeline.Stage]pipeline.Status{}
	var files int
	for _, ev := range events {
		if ev.File != "" {
			files++
			continue
		}
		final[ev.Stage] = ev.Status
	}
	wantStatus := map[pipeline.Stage]pipeline.Status{
		pipeline.StageRegistry: pipeline.StatusDone,
		pipeline.StageDocs:     pipeline.StatusError,
		pipeline.StageTests:    pipeline.StatusDone,
		pipeline.StageUsage:    pipeline.StatusError,
	}
	if diff := cmp.Diff(wantStatus, final); diff != "" {
		t.Fatalf("final stage status mismatch (-want +got):\n%s", diff)
	}
	// 3 docs + 2 fixtures + registry and one compiler source
	if files != 7 {
		t.Fatalf("expected 7 per-file events, got %d", files)
	}

	var names []string
	for _, ev := range ring.Snapshot() {
		if ev.Kind == trace.KindSpanBegin {
			names = append(names, ev.Name)
		}
	}
	if diff := cmp.Diff([]string{"check", "registry", "docs", "tests", "usage"}, names); diff != "" {
		t.Fatalf("span mismatch (-want +got):\n%s", diff)
	}
}

func TestOptionsPaths(t *testing.T) {
	opts := DefaultOptions("/repo")
	if got := opts.ExplanationPath("E0001"); got != filepath.Join("/repo", docsRel, "E0001.md") {
		t.Fatalf("ExplanationPath = %q", got)
	}
	if got := opts.FixturePath("E0001"); got != filepath.Join("/repo", testsRel, "E0001.stderr") {
		t.Fatalf("FixturePath = %q", got)
	}
	if !opts.Exemptions.Doctest.Has("E0640") || !opts.Exemptions.UITest.Has("E0729") {
		t.Fatal("default exemptions missing")
	}
}
