package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"off", "error", "phase", "detail", "DEBUG"} {
		if _, err := ParseLevel(s); err != nil {
			t.Errorf("ParseLevel(%q): %v", s, err)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestLevelScopes(t *testing.T) {
	cases := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDriver, false},
		{LevelPhase, ScopeStage, true},
		{LevelPhase, ScopeFile, false},
		{LevelDetail, ScopeFile, true},
		{LevelDetail, ScopeMatch, false},
		{LevelDebug, ScopeMatch, true},
	}
	for _, tc := range cases {
		if got := tc.level.ShouldEmit(tc.scope); got != tc.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tc.level, tc.scope, got, tc.want)
		}
	}
}

func TestSpanEmitsBeginAndEnd(t *testing.T) {
	ring := NewRingTracer(16, LevelPhase)
	ctx := WithTracer(context.Background(), ring)

	root := Begin(FromContext(ctx), ScopeDriver, "check", 0)
	ctx = WithSpan(ctx, root)
	stage := Begin(FromContext(ctx), ScopeStage, "docs", CurrentSpan(ctx))
	Point(ring, ScopeFile, "file", "E0001.md", stage.ID()) // отфильтровано уровнем
	stage.WithExtra("files", "3").End("")
	root.End("ok")

	events := ring.Snapshot()
	if len(events) != 4 {
		t.Fatalf("expected 4 events, got %d: %+v", len(events), events)
	}
	if events[1].ParentID != root.ID() {
		t.Fatalf("stage span parent = %d, want %d", events[1].ParentID, root.ID())
	}
	if events[2].Kind != KindSpanEnd || events[2].Extra["files"] != "3" {
		t.Fatalf("unexpected stage end event: %+v", events[2])
	}
	if events[3].Detail != "ok" {
		t.Fatalf("unexpected root end detail: %q", events[3].Detail)
	}
}

func TestDisabledTracerIsNop(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatal("expected Nop tracer from empty context")
	}
	span := Begin(Nop, ScopeDriver, "check", 0)
	if span.ID() != 0 || span.End("") != 0 {
		t.Fatal("nop span must be inert")
	}
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("New(off) = %v, %v", tr, err)
	}
}

func TestStreamTracerFormats(t *testing.T) {
	var text bytes.Buffer
	st := NewStreamTracer(&text, LevelDetail, FormatText)
	Point(st, ScopeFile, "file", "E0001.md", 1)
	if got := text.String(); !strings.Contains(got, "• file (E0001.md)") {
		t.Fatalf("unexpected text trace: %q", got)
	}

	var nd bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Format: FormatNDJSON, Output: &nd})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	Begin(tr, ScopeStage, "usage", 0).WithExtra("matches", "7").End("")
	lines := strings.Split(strings.TrimSpace(nd.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 ndjson lines, got %d", len(lines))
	}
	var ev map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &ev); err != nil {
		t.Fatalf("invalid ndjson: %v", err)
	}
	if ev["kind"] != "end" || ev["scope"] != "stage" || ev["name"] != "usage" {
		t.Fatalf("unexpected ndjson event: %v", ev)
	}
}
