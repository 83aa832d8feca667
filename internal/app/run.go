package app

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/domain/lint"
)

// RunResult carries everything a command needs to render one pass.
type RunResult struct {
	Diagnostics   []lint.Diagnostic
	Stats         *lint.RunStats
	CacheHits     int
	BaselineAdded int // new baseline entries recorded in update mode
}

// Run lints the given paths end to end: discovery, parsing, rule
// execution (through the cache when enabled), the project phase, and
// the baseline. Diagnostics come back sorted by file, position, and
// rule ID.
func (a *App) Run(paths []string) (*RunResult, error) {
	files, err := DiscoverFiles(paths)
	if err != nil {
		return nil, err
	}
	a.log.Debug("starting run", "files", len(files))

	result := &RunResult{}
	run := a.Engine.NewRun()

	for _, path := range files {
		src, err := os.ReadFile(path)
		if err != nil {
			a.log.Warn("skipping unreadable file", "file", path, "error", err)
			continue
		}
		doc := a.Parser.Parse(path, src)

		if a.Cache == nil {
			run.AddDocument(doc)
			continue
		}

		hash := contentHash(src)
		if diags, ok := a.Cache.Get(path, hash, a.rulesetHash); ok {
			// A hit replaces rule execution, not parsing: project
			// rules still need the tree.
			run.AddCachedDocument(doc, diags)
			result.CacheHits++
			continue
		}
		diags := run.AddDocument(doc)
		if err := a.Cache.Put(path, hash, a.rulesetHash, diags); err != nil {
			a.log.Warn("cache write failed", "file", path, "error", err)
		}
	}

	diags, stats := run.Finish()
	lint.SortDiagnostics(diags)
	result.Diagnostics = diags
	result.Stats = stats

	if a.Baseline != nil && a.cfg.UpdateBaseline {
		result.BaselineAdded = a.Baseline.AddDiagnostics(diags, a.Root)
		if err := a.Baseline.Save(a.cfg.BaselinePath); err != nil {
			return nil, fmt.Errorf("save baseline: %w", err)
		}
		a.log.Info("baseline updated",
			"path", a.cfg.BaselinePath, "added", result.BaselineAdded)
	}

	return result, nil
}

// PruneDeleted drops cache entries for paths that no longer exist.
// Watch mode calls it with each change batch.
func (a *App) PruneDeleted(paths []string) {
	if a.Cache == nil {
		return
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := a.Cache.Invalidate(path); err != nil {
			a.log.Warn("cache invalidate failed", "file", path, "error", err)
		}
	}
}

func contentHash(src []byte) string {
	sum := sha256.Sum256(src)
	return hex.EncodeToString(sum[:])
}

// rulesetFingerprint hashes everything that decides what a run
// produces for one file: the registered rule metadata and the filter
// configuration. Cached results are replayed only when it matches.
func rulesetFingerprint(reg *lint.Registry, cfg lint.Config) string {
	h := sha256.New()
	for _, r := range reg.Rules() {
		meta := r.Meta()
		fmt.Fprintf(h, "%s:%s:%t\n", meta.ID, meta.Severity, meta.Enabled)
	}
	if data, err := lint.EncodeConfig(cfg, "json"); err == nil {
		h.Write(data)
	}
	return hex.EncodeToString(h.Sum(nil))
}
