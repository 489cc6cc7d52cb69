// Package walk enumerates files under one or more roots and hands them to a
// visitor as loaded source files. Reading is parallel, visiting is sequential
// and ordered by path, so callers see a single writer and a deterministic
// sequence.
package walk

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"codetidy/internal/source"
)

// SkipFunc reports whether a directory entry must be excluded. Returning
// true for a directory prunes the whole subtree.
type SkipFunc func(path string, d fs.DirEntry) bool

// MatchFunc reports whether a file should be loaded and visited.
type MatchFunc func(path string) bool

// Options configures Walk.
type Options struct {
	Skip  SkipFunc
	Match MatchFunc
	// Jobs bounds concurrent reads; <= 0 means GOMAXPROCS.
	Jobs int
	// OnError receives per-file read failures. The file is not visited.
	OnError func(path string, err error)
}

// Visitor receives each loaded file.
type Visitor func(f *source.File)

// RootError reports a root that could not be walked at all.
type RootError struct {
	Root string
	Err  error
}

func (e *RootError) Error() string {
	return fmt.Sprintf("walk %s: %v", e.Root, e.Err)
}

func (e *RootError) Unwrap() error { return e.Err }

// Walk lists all matching files below roots, reads them with up to Jobs
// goroutines, and then calls visit for each successfully read file in sorted
// path order. A root that cannot be walked yields a *RootError (joined with
// other root errors); the remaining roots are still processed.
func Walk(ctx context.Context, roots []string, opts Options, visit Visitor) error {
	var rootErrs []error
	var paths []string
	seen := make(map[string]struct{})

	for _, root := range roots {
		found, err := list(root, opts)
		if err != nil {
			rootErrs = append(rootErrs, &RootError{Root: root, Err: err})
		}
		for _, p := range found {
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			paths = append(paths, p)
		}
	}
	slices.Sort(paths)

	files, err := load(ctx, paths, opts)
	if err != nil {
		return err
	}
	for i, f := range files {
		if f.err != nil {
			if opts.OnError != nil {
				opts.OnError(paths[i], f.err)
			}
			continue
		}
		if visit != nil {
			visit(f.file)
		}
	}
	return errors.Join(rootErrs...)
}

// Files is Walk without a visitor: it returns the loaded files in order.
func Files(ctx context.Context, roots []string, opts Options) ([]*source.File, error) {
	var out []*source.File
	err := Walk(ctx, roots, opts, func(f *source.File) {
		out = append(out, f)
	})
	return out, err
}

func list(root string, opts Options) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// корень недоступен: прерываем обход этого корня
			if path == root {
				return err
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path != root && opts.Skip != nil && opts.Skip(path, d) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if opts.Match != nil && !opts.Match(path) {
			return nil
		}
		out = append(out, path)
		return nil
	})
	return out, err
}

type loaded struct {
	file *source.File
	err  error
}

func load(ctx context.Context, paths []string, opts Options) ([]loaded, error) {
	results := make([]loaded, len(paths))
	if len(paths) == 0 {
		return results, nil
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// индексы уникальны для каждой горутины, мьютекс не нужен
			f, err := source.Load(path)
			results[i] = loaded{file: f, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
