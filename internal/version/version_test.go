package version

import (
	"testing"

	"github.com/fatih/color"
)

func withPlainOutput(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func override(t *testing.T, version, commit, date string) {
	t.Helper()
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	Version, GitCommit, BuildDate = version, commit, date
	t.Cleanup(func() {
		Version, GitCommit, BuildDate = origVersion, origCommit, origDate
	})
}

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestInfo(t *testing.T) {
	withPlainOutput(t)
	cases := []struct {
		version, commit, date string
		want                  string
	}{
		{"0.1.0-dev", "", "", "codetidy 0.1.0-dev"},
		{"1.2.3", "abc123", "", "codetidy 1.2.3 (commit abc123)"},
		{"1.2.3", "abc123", "2024-01-15T10:30:00Z", "codetidy 1.2.3 (commit abc123, built 2024-01-15T10:30:00Z)"},
		{"2.0", "", "2024-01-15", "codetidy 2.0 (built 2024-01-15)"},
	}
	for _, tc := range cases {
		override(t, tc.version, tc.commit, tc.date)
		if got := Info(); got != tc.want {
			t.Errorf("Info() = %q, want %q", got, tc.want)
		}
	}
}

func TestStyledKeepsText(t *testing.T) {
	withPlainOutput(t)
	override(t, "3.4.5-rc.1", "", "")
	if got := Styled(); got != "3.4.5-rc.1" {
		t.Fatalf("Styled() = %q", got)
	}
}
