package diagfmt

import (
	"fmt"
	"strings"

	"codetidy/internal/diag"
	"codetidy/internal/source"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto keeps short or relative paths and shortens long absolute ones.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

func (m PathMode) String() string {
	switch m {
	case PathModeAbsolute:
		return "absolute"
	case PathModeRelative:
		return "relative"
	case PathModeBasename:
		return "basename"
	default:
		return "auto"
	}
}

// ParsePathMode converts a flag value into a PathMode.
func ParsePathMode(s string) (PathMode, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return PathModeAuto, nil
	case "absolute":
		return PathModeAbsolute, nil
	case "relative":
		return PathModeRelative, nil
	case "basename":
		return PathModeBasename, nil
	}
	return PathModeAuto, fmt.Errorf("invalid path mode %q (expected: auto|absolute|relative|basename)", s)
}

// PrettyOpts configures pretty-printing of findings.
type PrettyOpts struct {
	Color        bool
	PathMode     PathMode
	BaseDir      string // для PathModeRelative
	ShowWarnings bool
	ShowNotes    bool
	ShowSnippet  bool
	Max          int // обрезка вывода, не Bag
}

// JSONOpts configures JSON output of findings.
type JSONOpts struct {
	PathMode        PathMode
	BaseDir         string
	Max             int // обрезка вывода, не Bag
	IncludeWarnings bool
	IncludeNotes    bool
}

// SarifRunMeta provides metadata for SARIF output.
type SarifRunMeta struct {
	ToolName        string
	ToolVersion     string
	InvocationArgs  []string
	PathMode        PathMode
	BaseDir         string
	IncludeWarnings bool
}

func formatPath(path string, mode PathMode, baseDir string) string {
	if path == "" {
		return ""
	}
	return source.FormatPath(path, mode.String(), baseDir)
}

func formatLocation(loc diag.Location, mode PathMode, baseDir string) string {
	loc.Path = formatPath(loc.Path, mode, baseDir)
	return loc.String()
}

// selectItems returns the findings to render, applying the warning filter
// and the rendering limit, plus the number dropped by the limit.
func selectItems(bag *diag.Bag, includeWarnings bool, limit int) ([]diag.Diagnostic, int) {
	if bag == nil {
		return nil, 0
	}
	items := bag.Items()
	if !includeWarnings {
		items = bag.Errors().Items()
	}
	if limit > 0 && len(items) > limit {
		return items[:limit], len(items) - limit
	}
	return items, 0
}
