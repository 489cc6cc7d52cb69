// Package config loads codetidy.toml (or codetidy.yaml) and supplies the
// defaults that describe the rustc source layout.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"codetidy/internal/errcode"
)

// CodePlaceholder is replaced by the error code in templates.
const CodePlaceholder = "{code}"

// Config is the decoded configuration. Relative paths are resolved against
// Root, the directory of the config file (or the checked root when no file
// was found).
type Config struct {
	Path string `toml:"-" yaml:"-"`
	Root string `toml:"-" yaml:"-"`

	Paths    PathsConfig    `toml:"paths" yaml:"paths"`
	Codes    CodesConfig    `toml:"codes" yaml:"codes"`
	Registry RegistryConfig `toml:"registry" yaml:"registry"`
	Docs     DocsConfig     `toml:"docs" yaml:"docs"`
	Tests    TestsConfig    `toml:"tests" yaml:"tests"`
	Usage    UsageConfig    `toml:"usage" yaml:"usage"`
}

type PathsConfig struct {
	Registry string   `toml:"registry" yaml:"registry"`
	Docs     string   `toml:"docs" yaml:"docs"`
	Tests    string   `toml:"tests" yaml:"tests"`
	Search   []string `toml:"search" yaml:"search"`
}

type CodesConfig struct {
	Letters string `toml:"letters" yaml:"letters"`
}

type RegistryConfig struct {
	// Reference is the expected right-hand side of a registry line with
	// {code} in place of the code.
	Reference string `toml:"reference" yaml:"reference"`
}

type DocsConfig struct {
	Extension     string   `toml:"extension" yaml:"extension"`
	Sentinel      string   `toml:"sentinel" yaml:"sentinel"`
	DoctestExempt []string `toml:"doctest_exempt" yaml:"doctest_exempt"`
}

type TestsConfig struct {
	Extension string   `toml:"extension" yaml:"extension"`
	UIExempt  []string `toml:"ui_exempt" yaml:"ui_exempt"`
}

type UsageConfig struct {
	Extensions []string `toml:"extensions" yaml:"extensions"`
	Comment    string   `toml:"comment" yaml:"comment"`
	SkipDirs   []string `toml:"skip_dirs" yaml:"skip_dirs"`
}

// Default returns the configuration matching the rustc tree layout.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Registry: "compiler/rustc_error_codes/src/error_codes.rs",
			Docs:     "compiler/rustc_error_codes/src/error_codes",
			Tests:    "tests/ui/error-codes",
			Search:   []string{"compiler"},
		},
		Codes: CodesConfig{Letters: errcode.DefaultLetters},
		Registry: RegistryConfig{
			Reference: `include_str!("./error_codes/{code}.md")`,
		},
		Docs: DocsConfig{
			Extension:     ".md",
			Sentinel:      "#### Note: this error code is no longer emitted by the compiler",
			DoctestExempt: []string{"E0464", "E0570", "E0601", "E0602", "E0640", "E0717"},
		},
		Tests: TestsConfig{
			Extension: ".stderr",
			UIExempt:  []string{"E0461", "E0465", "E0514", "E0554", "E0640", "E0717", "E0729"},
		},
		Usage: UsageConfig{
			Extensions: []string{".rs"},
			Comment:    "//",
			SkipDirs:   nil,
		},
	}
}

// Syntax returns the code syntax selected by [codes].letters.
func (c *Config) Syntax() (errcode.Syntax, error) {
	return errcode.NewSyntax(c.Codes.Letters)
}

// Resolve returns p joined to Root unless p is absolute.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, filepath.FromSlash(p))
}

// SearchRoots returns the resolved usage search roots.
func (c *Config) SearchRoots() []string {
	out := make([]string, 0, len(c.Paths.Search))
	for _, p := range c.Paths.Search {
		out = append(out, c.Resolve(p))
	}
	return out
}

// Validate reports every problem in the configuration at once.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	syntax, err := c.Syntax()
	if err != nil {
		add("[codes].letters: %w", err)
		syntax = errcode.DefaultSyntax()
	}
	if strings.TrimSpace(c.Paths.Registry) == "" {
		add("[paths].registry must not be empty")
	}
	if strings.TrimSpace(c.Paths.Docs) == "" {
		add("[paths].docs must not be empty")
	}
	if strings.TrimSpace(c.Paths.Tests) == "" {
		add("[paths].tests must not be empty")
	}
	if len(c.Paths.Search) == 0 {
		add("[paths].search must list at least one directory")
	}
	if !strings.Contains(c.Registry.Reference, CodePlaceholder) {
		add("[registry].reference must contain %s", CodePlaceholder)
	}
	checkExt := func(key, ext string) {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			add("%s: extension %q must start with '.'", key, ext)
		}
	}
	checkExt("[docs].extension", c.Docs.Extension)
	checkExt("[tests].extension", c.Tests.Extension)
	if len(c.Usage.Extensions) == 0 {
		add("[usage].extensions must not be empty")
	}
	for _, ext := range c.Usage.Extensions {
		checkExt("[usage].extensions", ext)
	}
	if strings.TrimSpace(c.Docs.Sentinel) == "" {
		add("[docs].sentinel must not be empty")
	}
	if strings.TrimSpace(c.Usage.Comment) == "" {
		add("[usage].comment must not be empty")
	}
	checkCodes := func(key string, codes []string) {
		for _, code := range codes {
			if !syntax.Valid(code) {
				add("%s: invalid error code %q", key, code)
			}
		}
		sorted := slices.Clone(codes)
		slices.Sort(sorted)
		if dup := firstDuplicate(sorted); dup != "" {
			add("%s: duplicate error code %q", key, dup)
		}
	}
	checkCodes("[docs].doctest_exempt", c.Docs.DoctestExempt)
	checkCodes("[tests].ui_exempt", c.Tests.UIExempt)

	if len(errs) == 0 {
		return nil
	}
	where := c.Path
	if where == "" {
		where = "configuration"
	}
	return fmt.Errorf("%s: %w", where, errors.Join(errs...))
}

func firstDuplicate(sorted []string) string {
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1] {
			return sorted[i]
		}
	}
	return ""
}
