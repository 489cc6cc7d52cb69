package tidy

import (
	"fmt"
	"io"
	"path/filepath"

	"codetidy/internal/config"
	"codetidy/internal/errcode"
	"codetidy/internal/pipeline"
	"codetidy/internal/walk"
)

// Exemptions are the static allow-lists of the check.
type Exemptions struct {
	// Doctest lists codes whose explanation may lack a compile_fail example.
	Doctest *errcode.Set
	// UITest lists codes that may lack a regression fixture.
	UITest *errcode.Set
}

// Options configures a check run. Paths are used as given; OptionsFromConfig
// resolves them against the config root.
type Options struct {
	RegistryPath string
	DocsDir      string
	TestsDir     string
	SearchRoots  []string

	Syntax errcode.Syntax
	// Reference is the expected registry reference with {code} placeholders.
	Reference string

	DocExt     string
	Sentinel   string
	FixtureExt string

	SourceExts    []string
	CommentPrefix string
	SkipDirs      []string

	Exemptions Exemptions

	// Jobs bounds concurrent file reads; <= 0 means GOMAXPROCS.
	Jobs int
	// Out receives the operator summary lines; nil discards them.
	Out io.Writer
	// Progress receives stage and file events; nil disables them.
	Progress pipeline.ProgressSink
}

// OptionsFromConfig converts a loaded configuration into run options.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	syntax, err := cfg.Syntax()
	if err != nil {
		return Options{}, fmt.Errorf("invalid code letters: %w", err)
	}
	return Options{
		RegistryPath:  cfg.Resolve(cfg.Paths.Registry),
		DocsDir:       cfg.Resolve(cfg.Paths.Docs),
		TestsDir:      cfg.Resolve(cfg.Paths.Tests),
		SearchRoots:   cfg.SearchRoots(),
		Syntax:        syntax,
		Reference:     cfg.Registry.Reference,
		DocExt:        cfg.Docs.Extension,
		Sentinel:      cfg.Docs.Sentinel,
		FixtureExt:    cfg.Tests.Extension,
		SourceExts:    cfg.Usage.Extensions,
		CommentPrefix: cfg.Usage.Comment,
		SkipDirs:      cfg.Usage.SkipDirs,
		Exemptions: Exemptions{
			Doctest: errcode.FromStrings(cfg.Docs.DoctestExempt),
			UITest:  errcode.FromStrings(cfg.Tests.UIExempt),
		},
	}, nil
}

// DefaultOptions returns the rustc layout rooted at root.
func DefaultOptions(root string) Options {
	cfg := config.Default()
	cfg.Root = root
	opts, err := OptionsFromConfig(cfg)
	if err != nil {
		// значения по умолчанию всегда валидны
		panic(err)
	}
	return opts
}

// ExplanationPath returns where the explanation of code is expected.
func (o *Options) ExplanationPath(code errcode.Code) string {
	return filepath.Join(o.DocsDir, string(code)+o.DocExt)
}

// FixturePath returns where the regression fixture of code is expected.
func (o *Options) FixturePath(code errcode.Code) string {
	return filepath.Join(o.TestsDir, string(code)+o.FixtureExt)
}

// SkipFunc prunes hidden and build directories plus the configured SkipDirs
// from the usage walk.
func (o *Options) SkipFunc() walk.SkipFunc {
	if len(o.SkipDirs) == 0 {
		return walk.FilterDirs()
	}
	return walk.AnySkip(walk.FilterDirs(), walk.FilterDirs(o.SkipDirs...))
}

func (o *Options) emit(evt pipeline.Event) {
	pipeline.Emit(o.Progress, evt)
}
