package fswatch

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects onChange batches so tests can inspect them safely
// from the test goroutine.
type recorder struct {
	mu      sync.Mutex
	batches [][]string
}

func (r *recorder) record(paths []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, paths)
}

func (r *recorder) seen() map[string]bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make(map[string]bool)
	for _, batch := range r.batches {
		for _, p := range batch {
			all[p] = true
		}
	}
	return all
}

func (r *recorder) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.batches)
}

func newTestWatcher(t *testing.T) (*Watcher, string, *recorder) {
	t.Helper()
	dir := t.TempDir()
	w, err := NewWatcher()
	require.NoError(t, err)
	t.Cleanup(func() { w.Stop() })

	rec := &recorder{}
	require.NoError(t, w.Watch(dir, rec.record))
	return w, dir, rec
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("<Wix/>\n"), 0644))
}

func TestWatcherBatchesChanges(t *testing.T) {
	_, dir, rec := newTestWatcher(t)

	a := filepath.Join(dir, "product.wxs")
	b := filepath.Join(dir, "components.wxs")
	writeFile(t, a)
	writeFile(t, b)

	require.Eventually(t, func() bool {
		seen := rec.seen()
		return seen[a] && seen[b]
	}, 5*time.Second, 50*time.Millisecond, "both files should be reported")
}

func TestWatcherFiltersNonSourceFiles(t *testing.T) {
	_, dir, rec := newTestWatcher(t)

	readme := filepath.Join(dir, "README.txt")
	src := filepath.Join(dir, "product.wxs")
	writeFile(t, readme)
	writeFile(t, src)

	require.Eventually(t, func() bool {
		return rec.seen()[src]
	}, 5*time.Second, 50*time.Millisecond)

	assert.False(t, rec.seen()[readme], "non-source files must not trigger the callback")
}

func TestWatcherPicksUpNewDirectories(t *testing.T) {
	_, dir, rec := newTestWatcher(t)

	sub := filepath.Join(dir, "fragments")
	require.NoError(t, os.Mkdir(sub, 0755))
	time.Sleep(200 * time.Millisecond) // let the new directory join the watch list

	nested := filepath.Join(sub, "ui.wxs")
	writeFile(t, nested)

	require.Eventually(t, func() bool {
		return rec.seen()[nested]
	}, 5*time.Second, 50*time.Millisecond)
}

func TestWatcherStop(t *testing.T) {
	w, dir, rec := newTestWatcher(t)

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop(), "stop is idempotent")

	writeFile(t, filepath.Join(dir, "late.wxs"))
	time.Sleep(2 * debounceWindow)
	assert.Zero(t, rec.calls(), "no callbacks after Stop returns")

	err := w.Watch(dir, rec.record)
	assert.Error(t, err, "a stopped watcher cannot be reused")
}

func TestWatcherRejectsMissingRoot(t *testing.T) {
	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Stop()

	err = w.Watch(filepath.Join(t.TempDir(), "nope"), func([]string) {})
	assert.Error(t, err)
}

func TestWatcherRejectsDoubleWatch(t *testing.T) {
	w, dir, rec := newTestWatcher(t)

	err := w.Watch(dir, rec.record)
	assert.Error(t, err)
}
