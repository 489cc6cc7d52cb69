package tidy

import (
	"os"
	"path/filepath"
	"testing"

	"codetidy/internal/diag"
	"codetidy/internal/errcode"
)

const (
	registryRel = "compiler/rustc_error_codes/src/error_codes.rs"
	docsRel     = "compiler/rustc_error_codes/src/error_codes"
	testsRel    = "tests/ui/error-codes"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
}

// testOptions returns the default layout under root with empty exemptions.
func testOptions(root string) Options {
	opts := DefaultOptions(root)
	opts.Exemptions = Exemptions{Doctest: errcode.NewSet(), UITest: errcode.NewSet()}
	opts.Jobs = 2
	return opts
}

// finding is the comparable projection of a diagnostic used in tests.
type finding struct {
	Sev  string
	Rule string
	Code string
	Path string
	Line uint32
	Col  uint32
}

func project(t *testing.T, root string, items []diag.Diagnostic) []finding {
	t.Helper()
	out := make([]finding, 0, len(items))
	for _, d := range items {
		path := d.Primary.Path
		if root != "" && filepath.IsAbs(path) {
			rel, err := filepath.Rel(root, filepath.FromSlash(path))
			if err != nil {
				t.Fatalf("rel: %v", err)
			}
			path = filepath.ToSlash(rel)
		}
		out = append(out, finding{
			Sev:  d.Severity.String(),
			Rule: d.Rule.ID(),
			Code: string(d.Code),
			Path: path,
			Line: d.Primary.Line,
			Col:  d.Primary.Col,
		})
	}
	return out
}

func countRule(bag *diag.Bag, rule diag.Rule) int {
	n := 0
	for _, d := range bag.Items() {
		if d.Rule == rule {
			n++
		}
	}
	return n
}

func registryOf(t *testing.T, codes ...errcode.Code) *Registry {
	t.Helper()
	reg := newRegistry(registryRel)
	for i, c := range codes {
		line := uint32(i + 2) //nolint:gosec // test data is tiny
		reg.add(Entry{Code: c, Loc: diag.AtLine(registryRel, line)})
	}
	return reg
}
