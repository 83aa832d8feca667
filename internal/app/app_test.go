package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/domain/lint"
)

func newTestApp(t *testing.T, cfg Config) *App {
	t.Helper()
	a, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

// writePackage drops a source with two known findings: the Package is
// missing UpgradeCode (VAL-001) and Compressed (BP-005).
func writePackage(t *testing.T, dir string) string {
	t.Helper()
	src := `<Wix>
  <Package Name="Demo" Version="1.0" Manufacturer="Acme">
    <MajorUpgrade DowngradeErrorMessage="A newer version is installed." />
  </Package>
</Wix>
`
	path := filepath.Join(dir, "product.wxs")
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))
	return path
}

func TestNewRegistersBuiltinRules(t *testing.T) {
	a := newTestApp(t, Config{Root: t.TempDir()})

	require.Greater(t, a.Registry.Len(), 10)
	t.Logf("registry holds %d rules", a.Registry.Len())

	_, ok := a.Registry.Get("VAL-001")
	assert.True(t, ok, "data rules from the embedded pack")
	_, ok = a.Registry.Get("BP-101")
	assert.True(t, ok, "code rules")
	_, ok = a.Registry.Get("DEAD-101")
	assert.True(t, ok, "project rules")
}

func TestNewLoadsCustomRuleDir(t *testing.T) {
	rulesDir := t.TempDir()
	custom := `validation:
  - id: CUST-001
    name: custom-rule
    severity: medium
    target: Package
    condition: "true"
    message: flagged by the custom pack
`
	require.NoError(t, os.WriteFile(filepath.Join(rulesDir, "custom.yaml"), []byte(custom), 0644))

	a := newTestApp(t, Config{Root: t.TempDir(), RuleDirs: []string{rulesDir}})
	_, ok := a.Registry.Get("CUST-001")
	assert.True(t, ok)
}

func TestNewRejectsDuplicateCustomRuleID(t *testing.T) {
	rulesDir := t.TempDir()
	clash := `validation:
  - id: VAL-001
    name: shadowing-a-builtin
    severity: medium
    message: nope
`
	require.NoError(t, os.WriteFile(filepath.Join(rulesDir, "clash.yaml"), []byte(clash), 0644))

	_, err := New(Config{Root: t.TempDir(), RuleDirs: []string{rulesDir}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VAL-001")
}

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	path := writePackage(t, dir)

	a := newTestApp(t, Config{Root: dir, Lint: lint.DefaultConfig()})
	res, err := a.Run([]string{dir})
	require.NoError(t, err)

	require.Len(t, res.Diagnostics, 2)
	assert.Equal(t, "BP-005", res.Diagnostics[0].RuleID, "sorted by rule ID within a line")
	assert.Equal(t, "VAL-001", res.Diagnostics[1].RuleID)
	assert.Equal(t, path, res.Diagnostics[0].File)

	assert.Equal(t, 1, res.Stats.FilesProcessed)
	assert.Equal(t, 1, res.Stats.FilesWithIssues)
	assert.Equal(t, 1, res.Stats.Errors, "VAL-001 is error-level")
	assert.Equal(t, 1, res.Stats.Hints, "BP-005 is info-level")
	assert.Equal(t, 2, res.Stats.ExitCode())
}

func TestRunPackageMissingUpgradeGuards(t *testing.T) {
	dir := t.TempDir()
	src := `<Wix>
  <Package Name="Demo" Version="1.0" Manufacturer="Acme">
    <Feature Id="Main" Title="Main" />
  </Package>
</Wix>
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "product.wxs"), []byte(src), 0644))

	cfg := lint.DefaultConfig()
	cfg.Enabled = []string{"VAL-001", "BP-101"}

	a := newTestApp(t, Config{Root: dir, Lint: cfg})
	res, err := a.Run([]string{dir})
	require.NoError(t, err)

	// One finding for the missing UpgradeCode attribute, one for the
	// missing MajorUpgrade child, both anchored on the Package element.
	require.Len(t, res.Diagnostics, 2)
	assert.Equal(t, "BP-101", res.Diagnostics[0].RuleID)
	assert.Equal(t, "VAL-001", res.Diagnostics[1].RuleID)
	for _, d := range res.Diagnostics {
		assert.Equal(t, lint.Position{Line: 2, Column: 3}, d.Range.Start)
	}
}

func TestRunWithCache(t *testing.T) {
	dir := t.TempDir()
	path := writePackage(t, dir)

	a := newTestApp(t, Config{
		Root:         dir,
		Lint:         lint.DefaultConfig(),
		CacheEnabled: true,
		CachePath:    filepath.Join(dir, "cache.db"),
	})

	first, err := a.Run([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, 0, first.CacheHits)
	require.Len(t, first.Diagnostics, 2)

	second, err := a.Run([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, 1, second.CacheHits)
	assert.Equal(t, first.Diagnostics, second.Diagnostics, "replayed results match")

	// Any edit invalidates by content hash.
	require.NoError(t, os.WriteFile(path, []byte("<Wix>\n  <Fragment />\n</Wix>\n"), 0644))
	third, err := a.Run([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, 0, third.CacheHits)
}

func TestRunUpdateBaselineThenFilter(t *testing.T) {
	dir := t.TempDir()
	writePackage(t, dir)
	baselinePath := filepath.Join(dir, "wixcraft-baseline.json")

	recorder := newTestApp(t, Config{
		Root:           dir,
		Lint:           lint.DefaultConfig(),
		BaselinePath:   baselinePath,
		UpdateBaseline: true,
	})
	res, err := recorder.Run([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, 2, res.BaselineAdded)
	assert.Len(t, res.Diagnostics, 2, "update mode still reports everything")
	require.FileExists(t, baselinePath)

	filtered := newTestApp(t, Config{
		Root:         dir,
		Lint:         lint.DefaultConfig(),
		BaselinePath: baselinePath,
	})
	res, err = filtered.Run([]string{dir})
	require.NoError(t, err)
	assert.Empty(t, res.Diagnostics)
	assert.Equal(t, 2, res.Stats.SuppressedBaseline)
}

func TestNewMissingBaselineFails(t *testing.T) {
	_, err := New(Config{
		Root:         t.TempDir(),
		BaselinePath: filepath.Join(t.TempDir(), "nope.json"),
	})
	require.Error(t, err, "an explicit baseline that does not exist is an error, not an empty baseline")
}

func TestRulesetFingerprint(t *testing.T) {
	reg := lint.NewRegistry()

	base := rulesetFingerprint(reg, lint.DefaultConfig())
	assert.Equal(t, base, rulesetFingerprint(reg, lint.DefaultConfig()), "deterministic")

	strict := lint.DefaultConfig()
	strict.MinSeverity = lint.SeverityHigh
	assert.NotEqual(t, base, rulesetFingerprint(reg, strict), "config changes invalidate the cache")
}

func TestPruneDeleted(t *testing.T) {
	dir := t.TempDir()
	path := writePackage(t, dir)
	src, err := os.ReadFile(path)
	require.NoError(t, err)
	hash := contentHash(src)

	a := newTestApp(t, Config{
		Root:         dir,
		Lint:         lint.DefaultConfig(),
		CacheEnabled: true,
		CachePath:    filepath.Join(dir, "cache.db"),
	})
	_, err = a.Run([]string{dir})
	require.NoError(t, err)

	_, ok := a.Cache.Get(path, hash, a.rulesetHash)
	require.True(t, ok, "the run cached an entry")

	require.NoError(t, os.Remove(path))
	a.PruneDeleted([]string{path})

	_, ok = a.Cache.Get(path, hash, a.rulesetHash)
	assert.False(t, ok, "deletion pruned the entry")
}
