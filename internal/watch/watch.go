// Package watch reruns a callback when files below a set of roots change.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"codetidy/internal/walk"
)

// DefaultDebounce is the quiet period after the last event before a rerun.
const DefaultDebounce = 300 * time.Millisecond

// Options configures Run.
type Options struct {
	Debounce time.Duration
	// Skip prunes directories that must not be watched.
	Skip walk.SkipFunc
	// OnError receives watcher errors; the loop keeps running.
	OnError func(error)
	// Ignore drops events for paths the trigger itself writes.
	Ignore func(path string) bool
}

// ErrNoRoots reports that none of the roots could be watched.
var ErrNoRoots = errors.New("watch: no directory could be watched")

// Run watches roots recursively and calls trigger after every burst of
// changes. trigger runs on the loop goroutine, so runs never overlap. Run
// returns nil when ctx is canceled.
func Run(ctx context.Context, roots []string, opts Options, trigger func(context.Context)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	added := 0
	var addErrs []error
	for _, root := range roots {
		n, err := addRecursive(watcher, root, opts.Skip, true)
		added += n
		if err != nil {
			addErrs = append(addErrs, err)
		}
	}
	if added == 0 {
		return errors.Join(append([]error{ErrNoRoots}, addErrs...)...)
	}
	for _, err := range addErrs {
		report(opts, err)
	}

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	// таймер создаётся на первом событии; nil-канал в select не срабатывает
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if opts.Ignore != nil && opts.Ignore(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				// новые каталоги тоже надо слушать
				if _, err := addRecursive(watcher, ev.Name, opts.Skip, false); err != nil && !errors.Is(err, fs.ErrNotExist) {
					report(opts, err)
				}
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
				fire = timer.C
			} else {
				timer.Reset(debounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			report(opts, err)
		case <-fire:
			trigger(ctx)
		}
	}
}

// addRecursive adds root and every directory below it that skip keeps.
// keepRoot exempts root itself from skip. A root that is a plain file adds
// nothing.
func addRecursive(w *fsnotify.Watcher, root string, skip walk.SkipFunc, keepRoot bool) (int, error) {
	n := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if skip != nil && !(keepRoot && path == root) && skip(path, d) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			return err
		}
		n++
		return nil
	})
	return n, err
}

func report(opts Options, err error) {
	if opts.OnError != nil && err != nil {
		opts.OnError(err)
	}
}
