package observ

import (
	"strings"
	"testing"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	reg := tm.Begin("registry")
	tm.End(reg, 12, "")
	docs := tm.Begin("docs")
	tm.End(docs, 3, "2 no longer emitted")
	tm.End(42, 0, "") // вне диапазона: игнорируется

	report := tm.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(report.Phases))
	}
	if report.Phases[0].Name != "registry" || report.Phases[0].Items != 12 {
		t.Fatalf("unexpected first phase: %+v", report.Phases[0])
	}
	summary := tm.Summary()
	if !strings.Contains(summary, "// 2 no longer emitted") || !strings.Contains(summary, "total") {
		t.Fatalf("unexpected summary:\n%s", summary)
	}
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	idx := tm.Begin("x")
	tm.End(idx, 0, "")
	if len(tm.Report().Phases) != 0 {
		t.Fatal("nil timer must report nothing")
	}
}
