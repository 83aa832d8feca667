// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. Domain logic depends
// only on these interfaces, never on concrete implementations.
package ports

import "github.com/Tsahi-Elkayam/wixcraft-sub006/internal/domain/lint"

// ResultCache persists per-file analysis results between runs so unchanged
// files skip rule evaluation entirely. The backing store (bbolt) is keyed by
// file path; entries carry the content hash and ruleset hash they were
// computed under, and a lookup with either hash stale is a miss.
//
// Cached diagnostics are the per-file results after severity overrides and
// suppression filtering, before project-wide phases (project rules, baseline,
// caps). Replaying them through the engine must not re-apply per-file filters.
//
// Crash safety: Put must be transactional. A crash mid-write must not corrupt
// previously committed entries.
type ResultCache interface {
	// Get retrieves the cached diagnostics for path. The second return is
	// false when there is no entry, or when the entry was computed from
	// different content or a different ruleset.
	Get(path, contentHash, rulesetHash string) ([]lint.Diagnostic, bool)

	// Put stores the diagnostics for path, overwriting any prior entry.
	Put(path, contentHash, rulesetHash string, diags []lint.Diagnostic) error

	// Invalidate removes the entry for path. Idempotent: invalidating a
	// path with no entry is not an error.
	Invalidate(path string) error

	// Close flushes and releases the backing store. The cache must not be
	// used after Close.
	Close() error
}
