package cmd

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/app"
	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/domain/lint"
)

func sampleDiagnostic() lint.Diagnostic {
	return lint.Diagnostic{
		RuleID:   "VAL-001",
		File:     "product.wxs",
		Severity: lint.SeverityCritical,
		Category: lint.CategoryValidation,
		Message:  "Package is missing an UpgradeCode attribute",
		Help:     "Add UpgradeCode with a stable GUID so upgrades can find the product.",
		Range: lint.Range{
			Start: lint.Position{Line: 2, Column: 3},
			End:   lint.Position{Line: 2, Column: 11},
		},
		SourceLine: `  <Package Name="Demo">`,
	}
}

func TestFormatDiagnosticPlain(t *testing.T) {
	color.NoColor = true

	out := formatDiagnostic(sampleDiagnostic(), 0)
	lines := strings.Split(out, "\n")

	assert.Equal(t, "product.wxs:2:3 critical [VAL-001] Package is missing an UpgradeCode attribute", lines[0])
	assert.Equal(t, `    <Package Name="Demo">`, lines[1])
	assert.Equal(t, "    ^^^^^^^^", lines[2], "caret pads to column 3 and spans 8 columns")
	assert.Equal(t, "  help: Add UpgradeCode with a stable GUID so upgrades can find the product.", lines[3])
}

func TestFormatDiagnosticFixAndRelated(t *testing.T) {
	color.NoColor = true

	d := sampleDiagnostic()
	d.Fix = &lint.Fix{Description: `Add UpgradeCode="PUT-GUID-HERE"`}
	d.Related = []lint.Related{{
		File:    "fragment.wxs",
		Range:   lint.Range{Start: lint.Position{Line: 7, Column: 1}},
		Message: "first defined here",
	}}

	out := formatDiagnostic(d, 0)
	assert.Contains(t, out, `  fix: Add UpgradeCode="PUT-GUID-HERE"`)
	assert.Contains(t, out, "  note: fragment.wxs:7: first defined here")
}

func TestFormatSourceContextGutter(t *testing.T) {
	color.NoColor = true

	d := sampleDiagnostic()
	d.ContextBefore = []lint.ContextLine{{Line: 1, Text: "<Wix>"}}
	d.ContextAfter = []lint.ContextLine{{Line: 3, Text: "</Wix>"}}

	out := formatDiagnostic(d, 2)
	lines := strings.Split(out, "\n")

	require.GreaterOrEqual(t, len(lines), 5)
	assert.Equal(t, "     1 │ <Wix>", lines[1])
	assert.Equal(t, `     2 │   <Package Name="Demo">`, lines[2])
	assert.Equal(t, "       │   ^^^^^^^^", lines[3])
	assert.Equal(t, "     3 │ </Wix>", lines[4])
}

func TestFormatSourceContextFallsBackToSourceLine(t *testing.T) {
	color.NoColor = true

	out := formatSourceContext(sampleDiagnostic())
	assert.Equal(t, "    <Package Name=\"Demo\">\n    ^^^^^^^^\n", out)
}

func TestAttachContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "product.wxs")
	require.NoError(t, os.WriteFile(path, []byte("<Wix>\n  <Package Name=\"Demo\">\n  </Package>\n</Wix>\n"), 0o644))

	d := sampleDiagnostic()
	d.File = path
	diags := []lint.Diagnostic{d, {File: filepath.Join(t.TempDir(), "gone.wxs"), Range: d.Range}}

	attachContext(diags, 1)

	require.Len(t, diags[0].ContextBefore, 1)
	assert.Equal(t, lint.ContextLine{Line: 1, Text: "<Wix>"}, diags[0].ContextBefore[0])
	require.Len(t, diags[0].ContextAfter, 1)
	assert.Equal(t, lint.ContextLine{Line: 3, Text: "  </Package>"}, diags[0].ContextAfter[0])

	assert.Empty(t, diags[1].ContextBefore, "unreadable files are skipped")
	assert.Empty(t, diags[1].ContextAfter)
}

func TestCaretLinePreservesTabs(t *testing.T) {
	color.NoColor = true

	d := sampleDiagnostic()
	d.SourceLine = "\t<Package>"
	d.Range.Start.Column = 2
	d.Range.End.Column = 10

	assert.Equal(t, "\t^^^^^^^^", caretLine(d))
}

func TestCaretLineMinimumWidth(t *testing.T) {
	color.NoColor = true

	d := sampleDiagnostic()
	d.Range.End = d.Range.Start // zero-width span still gets one caret

	assert.True(t, strings.HasSuffix(caretLine(d), "^"))
	assert.Equal(t, 1, strings.Count(caretLine(d), "^"))
}

func TestFormatSummaryClean(t *testing.T) {
	color.NoColor = true

	res := &app.RunResult{Stats: &lint.RunStats{FilesProcessed: 4}}
	out := formatSummary(res)

	assert.Equal(t, "no problems found (4 files checked)\n", out)
}

func TestFormatSummaryCounts(t *testing.T) {
	color.NoColor = true

	res := &app.RunResult{
		Stats: &lint.RunStats{
			FilesProcessed:     3,
			FilesWithIssues:    1,
			Errors:             1,
			Hints:              1,
			SuppressedBaseline: 2,
			Truncated:          1,
		},
		CacheHits: 2,
	}
	out := formatSummary(res)
	t.Logf("summary:\n%s", out)

	assert.Contains(t, out, "2 problems (1 error, 0 warnings, 1 hint) in 1 of 3 files")
	assert.Contains(t, out, "2 findings suppressed (2 baseline, 0 inline, 0 per-file)")
	assert.Contains(t, out, "1 over the max-diagnostics cap")
	assert.Contains(t, out, "2 files served from cache")
}

func TestFormatJSONShape(t *testing.T) {
	res := &app.RunResult{Stats: &lint.RunStats{FilesProcessed: 1}}
	data, err := formatJSON(res)
	require.NoError(t, err)

	var payload struct {
		Diagnostics []lint.Diagnostic `json:"diagnostics"`
		Summary     *lint.RunStats    `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.NotNil(t, payload.Summary)
	assert.Equal(t, 1, payload.Summary.FilesProcessed)

	// A clean run serializes an empty array, not null.
	assert.Contains(t, string(data), `"diagnostics": []`)
}

func TestLintExitCode(t *testing.T) {
	assert.Equal(t, 2, LintExitCode(lintExit{2}))
	assert.Equal(t, 1, LintExitCode(lintExit{1}))
	assert.Equal(t, -1, LintExitCode(errors.New("boom")))
	assert.Equal(t, -1, LintExitCode(nil))
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "1 file", plural(1, "file"))
	assert.Equal(t, "2 files", plural(2, "file"))
	assert.Equal(t, "0 stale entries", plural(0, "stale entry"))
}
