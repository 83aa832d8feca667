// Package fswatch implements the ports.Watcher interface using
// github.com/fsnotify/fsnotify. It recursively watches a project
// directory, keeps only installer sources (.wxs, .wxi), and batches
// rapid events before invoking the callback (editors often trigger
// multiple writes per save).
package fswatch

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// How long to collect events after the first one before flushing the
// batch. Editor save bursts land well inside this window.
const debounceWindow = 300 * time.Millisecond

// Directories that never contain installer sources worth watching.
// Hidden directories (.git, .vs, ...) are skipped by name prefix.
var ignoreDirs = map[string]bool{
	"bin":          true,
	"obj":          true,
	"packages":     true,
	"node_modules": true,
}

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	fw       *fsnotify.Watcher
	done     chan struct{}
	finished chan struct{}
	watching bool
	stopped  bool
	mu       sync.Mutex
}

// NewWatcher creates a new file system watcher.
func NewWatcher() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fw:       fw,
		done:     make(chan struct{}),
		finished: make(chan struct{}),
	}, nil
}

// Watch starts monitoring root recursively. onChange receives the
// deduplicated batch of source paths that changed since the last
// callback.
func (w *Watcher) Watch(root string, onChange func(paths []string)) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	if _, err := os.Stat(absRoot); err != nil {
		return err
	}

	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return errors.New("watcher is stopped")
	}
	if w.watching {
		w.mu.Unlock()
		return errors.New("watch already active")
	}
	w.mu.Unlock()

	// Walk and add all directories.
	err = filepath.Walk(absRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip inaccessible paths
		}
		if info.IsDir() {
			if path != absRoot && shouldIgnoreDir(info.Name()) {
				return filepath.SkipDir
			}
			return w.fw.Add(path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.watching = true
	w.mu.Unlock()

	go w.loop(onChange)
	return nil
}

func (w *Watcher) loop(onChange func(paths []string)) {
	defer close(w.finished)

	pending := make(map[string]bool)
	var flush <-chan time.Time

	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}

			// Newly created directories join the watch list.
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if !shouldIgnoreDir(info.Name()) {
						w.fw.Add(event.Name)
					}
				}
			}

			if !isSourceFile(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				pending[event.Name] = true
				if flush == nil {
					flush = time.After(debounceWindow)
				}
			}

		case <-flush:
			flush = nil
			batch := make([]string, 0, len(pending))
			for path := range pending {
				batch = append(batch, path)
			}
			sort.Strings(batch)
			pending = make(map[string]bool)
			onChange(batch)

		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			// fsnotify recovers on its own; nothing useful to report

		case <-w.done:
			return
		}
	}
}

// Stop ends monitoring and releases all resources. After Stop returns
// no further onChange calls fire. Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	watching := w.watching
	w.mu.Unlock()

	close(w.done)
	err := w.fw.Close()
	if watching {
		<-w.finished
	}
	return err
}

// shouldIgnoreDir returns true if the directory should be skipped.
func shouldIgnoreDir(name string) bool {
	return ignoreDirs[name] || strings.HasPrefix(name, ".")
}

// isSourceFile returns true for the installer source extensions the
// linter understands.
func isSourceFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wxs", ".wxi":
		return true
	}
	return false
}
