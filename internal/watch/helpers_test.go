package watch

import (
	"testing"

	"github.com/fsnotify/fsnotify"
)

func newWatcher(t *testing.T) (*fsnotify.Watcher, error) {
	t.Helper()
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	t.Cleanup(func() { _ = w.Close() })
	return w, nil
}
