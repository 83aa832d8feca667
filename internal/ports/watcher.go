package ports

// Watcher monitors a project directory for source changes and triggers
// re-analysis. The adapter (fsnotify) must filter to installer sources
// (.wxs, .wxi) and debounce editor write bursts before invoking onChange.
// Only one Watch call should be active at a time.
type Watcher interface {
	// Watch starts monitoring root recursively. onChange is called with the
	// batch of paths that changed since the last callback, deduplicated.
	// The callback may be invoked from any goroutine. Returns an error if
	// the directory doesn't exist or permissions are insufficient.
	Watch(root string, onChange func(paths []string)) error

	// Stop ends monitoring and releases all resources. After Stop returns,
	// no further onChange calls will fire. Safe to call multiple times.
	Stop() error
}
