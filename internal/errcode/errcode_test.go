package errcode

import (
	"regexp"
	"testing"
)

func TestSyntaxValid(t *testing.T) {
	s := DefaultSyntax()
	cases := []struct {
		in   string
		want bool
	}{
		{"E0001", true},
		{"E9999", true},
		{"E001", false},
		{"E00012", false},
		{"e0001", false},
		{"X0001", false},
		{"E00a1", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := s.Valid(tc.in); got != tc.want {
			t.Errorf("Valid(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestSyntaxHasPrefix(t *testing.T) {
	s := DefaultSyntax()
	if !s.HasPrefix("E00012: foo") {
		t.Fatalf("expected prefix match on over-long code")
	}
	if s.HasPrefix("Error: nope") {
		t.Fatalf("unexpected prefix match")
	}
	if s.HasPrefix("E12") {
		t.Fatalf("unexpected prefix match on short text")
	}
}

func TestNewSyntax(t *testing.T) {
	s, err := NewSyntax("EW")
	if err != nil {
		t.Fatalf("NewSyntax: %v", err)
	}
	if !s.Valid("W0001") || !s.Valid("E0001") {
		t.Fatalf("expected both letters to be accepted")
	}
	if _, err := NewSyntax("E1"); err == nil {
		t.Fatalf("expected digit letter to be rejected")
	}
	if _, err := NewSyntax(""); err == nil {
		t.Fatalf("expected empty letter set to be rejected")
	}
}

func TestSyntaxPattern(t *testing.T) {
	re := regexp.MustCompile("^" + DefaultSyntax().Pattern() + "$")
	if !re.MatchString("E0123") {
		t.Fatalf("pattern should match E0123")
	}
	if re.MatchString("W0123") {
		t.Fatalf("pattern should not match W0123")
	}
}

func TestMaxAndNext(t *testing.T) {
	got, ok := Max([]Code{"E0002", "E0799", "E0100"})
	if !ok || got != "E0799" {
		t.Fatalf("Max = %q, %v", got, ok)
	}
	if _, ok := Max(nil); ok {
		t.Fatalf("Max(nil) should report false")
	}
	next, ok := Next("E0799")
	if !ok || next != "E0800" {
		t.Fatalf("Next(E0799) = %q, %v", next, ok)
	}
	if _, ok := Next("E9999"); ok {
		t.Fatalf("Next(E9999) should report false")
	}
}

func TestSetSorted(t *testing.T) {
	s := NewSet("E0003", "E0001")
	if s.Add("E0001") {
		t.Fatalf("duplicate Add should report false")
	}
	s.Add("E0002")
	got := s.Sorted()
	want := []Code{"E0001", "E0002", "E0003"}
	if len(got) != len(want) {
		t.Fatalf("Sorted len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Sorted[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	var nilSet *Set
	if nilSet.Has("E0001") || nilSet.Len() != 0 {
		t.Fatalf("nil set should be empty")
	}
}
