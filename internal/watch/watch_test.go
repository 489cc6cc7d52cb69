package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"codetidy/internal/walk"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRunTriggersOnChange(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "docs"), 0o755); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs atomic.Int32
	fired := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, []string{root}, Options{Debounce: 20 * time.Millisecond}, func(context.Context) {
			runs.Add(1)
			fired <- struct{}{}
		})
	}()

	// ждём, пока watcher подпишется; пишем повторно, пока не сработает
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	i := 0
wait:
	for {
		select {
		case <-fired:
			break wait
		case <-tick.C:
			i++
			name := filepath.Join(root, "docs", "E0001.md")
			if err := os.WriteFile(name, []byte{byte('a' + i%26)}, 0o600); err != nil {
				t.Fatal(err)
			}
		case <-deadline:
			t.Fatalf("trigger was not called")
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not stop after cancel")
	}
	if runs.Load() == 0 {
		t.Fatalf("expected at least one run")
	}
}

func TestRunMissingRoot(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	err := Run(context.Background(), []string{missing}, Options{}, func(context.Context) {})
	if !errors.Is(err, ErrNoRoots) {
		t.Fatalf("Run error = %v, want ErrNoRoots", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Run error should wrap the walk failure: %v", err)
	}
}

func TestAddRecursiveSkips(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{"src", "target/debug", ".git/objects", "src/nested"} {
		if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(dir)), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	w, err := newWatcher(t)
	if err != nil {
		t.Fatal(err)
	}
	n, err := addRecursive(w, root, walk.FilterDirs(), true)
	if err != nil {
		t.Fatalf("addRecursive: %v", err)
	}
	// root, src, src/nested
	if n != 3 {
		t.Fatalf("watched %d directories, want 3 (list %v)", n, w.WatchList())
	}

	// созданный позже пропускаемый каталог не добавляется
	n, err = addRecursive(w, filepath.Join(root, "target"), walk.FilterDirs(), false)
	if err != nil || n != 0 {
		t.Fatalf("skipped directory was watched: n=%d err=%v", n, err)
	}
}
