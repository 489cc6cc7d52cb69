package main

import (
	"fmt"
	"io"
	"os"

	"codetidy/internal/diag"
	"codetidy/internal/diagfmt"
	"codetidy/internal/version"
)

func renderFindings(w io.Writer, bag *diag.Bag, f checkFlags, root string) error {
	pathMode := diagfmt.PathModeRelative
	baseDir := root
	if f.fullPath {
		pathMode = diagfmt.PathModeAbsolute
		baseDir = ""
	}

	switch f.format {
	case "pretty":
		diagfmt.Pretty(w, bag, diagfmt.PrettyOpts{
			Color:        useColor(),
			PathMode:     pathMode,
			BaseDir:      baseDir,
			ShowWarnings: f.verbose,
			ShowNotes:    f.withNotes,
			ShowSnippet:  true,
			Max:          f.maxDiag,
		})
	case "short":
		items := shortItems(bag, f.verbose, f.maxDiag)
		output := diag.FormatShort(items, diag.ShortOpts{
			IncludeWarnings: f.verbose,
			IncludeNotes:    f.withNotes,
			BaseDir:         baseDir,
		})
		if output != "" {
			fmt.Fprintln(w, output)
		}
	case "json":
		return diagfmt.JSON(w, bag, diagfmt.JSONOpts{
			PathMode:        pathMode,
			BaseDir:         baseDir,
			Max:             f.maxDiag,
			IncludeWarnings: f.verbose,
			IncludeNotes:    f.withNotes,
		})
	case "sarif":
		return diagfmt.Sarif(w, bag, diagfmt.SarifRunMeta{
			ToolName:        "codetidy",
			ToolVersion:     version.Version,
			InvocationArgs:  os.Args[1:],
			PathMode:        pathMode,
			BaseDir:         baseDir,
			IncludeWarnings: f.verbose,
		})
	default:
		return fmt.Errorf("unknown format: %s", f.format)
	}
	return nil
}

// shortItems applies the warning filter before the limit so the limit counts
// printed lines only.
func shortItems(bag *diag.Bag, verbose bool, limit int) []diag.Diagnostic {
	items := bag.Items()
	if !verbose {
		items = bag.Errors().Items()
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
