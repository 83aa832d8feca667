package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/app"
	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/domain/lint"
)

// severityColor picks the display color for a severity bucket.
func severityColor(sev lint.Severity) *color.Color {
	switch {
	case sev.IsErrorLevel():
		return color.New(color.FgRed, color.Bold)
	case sev.IsWarningLevel():
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgCyan)
	}
}

// formatText renders findings for the terminal:
//
//	file:line:col severity [rule-id] message
//	  <source line>
//	  ^^^^^^^
//	  help: ...
//	  fix: ...
//
// followed by a summary line.
func formatText(res *app.RunResult, contextLines int) string {
	var sb strings.Builder
	for _, d := range res.Diagnostics {
		sb.WriteString(formatDiagnostic(d, contextLines))
		sb.WriteString("\n")
	}
	sb.WriteString(formatSummary(res))
	return sb.String()
}

func formatDiagnostic(d lint.Diagnostic, contextLines int) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s:%d:%d %s %s %s\n",
		d.File, d.Range.Start.Line, d.Range.Start.Column,
		severityColor(d.Severity).Sprint(d.Severity),
		color.New(color.FgMagenta).Sprintf("[%s]", d.RuleID),
		d.Message))

	if contextLines > 0 {
		sb.WriteString(formatSourceContext(d))
	} else if strings.TrimSpace(d.SourceLine) != "" {
		sb.WriteString("  " + d.SourceLine + "\n")
		sb.WriteString("  " + caretLine(d) + "\n")
	}

	if d.Help != "" {
		sb.WriteString("  " + color.New(color.FgCyan).Sprint("help:") + " " + d.Help + "\n")
	}
	if d.Fix != nil {
		sb.WriteString("  " + color.New(color.FgGreen).Sprint("fix:") + " " + d.Fix.Description + "\n")
	}
	for _, rel := range d.Related {
		sb.WriteString(fmt.Sprintf("  note: %s:%d: %s\n", rel.File, rel.Range.Start.Line, rel.Message))
	}
	return sb.String()
}

// caretLine underlines the finding's span within its source line. Tabs
// in the padding are preserved so the caret stays aligned.
func caretLine(d lint.Diagnostic) string {
	col := d.Range.Start.Column
	if col < 1 {
		col = 1
	}
	var pad strings.Builder
	for i := 0; i < len(d.SourceLine) && i < col-1; i++ {
		if d.SourceLine[i] == '\t' {
			pad.WriteByte('\t')
		} else {
			pad.WriteByte(' ')
		}
	}
	width := 1
	if d.Range.End.Line == d.Range.Start.Line && d.Range.End.Column > col {
		width = d.Range.End.Column - col
	}
	return pad.String() + severityColor(d.Severity).Sprint(strings.Repeat("^", width))
}

// attachContext loads each finding's file once and stores up to n
// numbered lines of surrounding source on the diagnostic, so both the
// text gutter and the JSON payload carry them.
func attachContext(diags []lint.Diagnostic, n int) {
	if n <= 0 {
		return
	}
	byFile := make(map[string][]string)
	for i, d := range diags {
		lines, seen := byFile[d.File]
		if !seen {
			lines, _ = fileLines(d.File)
			byFile[d.File] = lines
		}
		if lines == nil {
			continue
		}
		diags[i] = d.WithContext(lines, n)
	}
}

// formatSourceContext shows the attached context lines around the
// finding with a line number gutter. A diagnostic without context
// falls back to the plain source line.
func formatSourceContext(d lint.Diagnostic) string {
	if len(d.ContextBefore) == 0 && len(d.ContextAfter) == 0 {
		if strings.TrimSpace(d.SourceLine) == "" {
			return ""
		}
		return "  " + d.SourceLine + "\n  " + caretLine(d) + "\n"
	}

	gutter := color.New(color.FgHiBlack)
	var sb strings.Builder
	numbered := func(ln int, text string) {
		sb.WriteString(fmt.Sprintf("  %s %s\n", gutter.Sprintf("%4d │", ln), text))
	}
	for _, c := range d.ContextBefore {
		numbered(c.Line, c.Text)
	}
	numbered(d.Range.Start.Line, d.SourceLine)
	sb.WriteString(fmt.Sprintf("  %s %s\n", gutter.Sprint("     │"), caretLine(d)))
	for _, c := range d.ContextAfter {
		numbered(c.Line, c.Text)
	}
	return sb.String()
}

func fileLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	return strings.Split(text, "\n"), nil
}

func formatSummary(res *app.RunResult) string {
	s := res.Stats
	var sb strings.Builder

	if s.Total() == 0 {
		sb.WriteString(color.New(color.FgGreen).Sprint("no problems found"))
		sb.WriteString(fmt.Sprintf(" (%s checked)\n", plural(s.FilesProcessed, "file")))
	} else {
		headline := color.New(color.FgYellow, color.Bold)
		if s.Errors > 0 {
			headline = color.New(color.FgRed, color.Bold)
		}
		sb.WriteString(headline.Sprint(plural(s.Total(), "problem")))
		sb.WriteString(fmt.Sprintf(" (%s, %s, %s) in %d of %s\n",
			plural(s.Errors, "error"), plural(s.Warnings, "warning"), plural(s.Hints, "hint"),
			s.FilesWithIssues, plural(s.FilesProcessed, "file")))
	}

	suppressed := s.SuppressedBaseline + s.SuppressedInline + s.SuppressedPerFile
	if suppressed > 0 || s.Truncated > 0 {
		var notes []string
		if suppressed > 0 {
			notes = append(notes, fmt.Sprintf("%s suppressed (%d baseline, %d inline, %d per-file)",
				plural(suppressed, "finding"), s.SuppressedBaseline, s.SuppressedInline, s.SuppressedPerFile))
		}
		if s.Truncated > 0 {
			notes = append(notes, fmt.Sprintf("%d over the max-diagnostics cap", s.Truncated))
		}
		sb.WriteString(strings.Join(notes, ", ") + "\n")
	}
	if res.CacheHits > 0 {
		sb.WriteString(fmt.Sprintf("%s served from cache\n", plural(res.CacheHits, "file")))
	}
	return sb.String()
}

// formatStatistics renders per-rule timings, slowest first.
func formatStatistics(s *lint.RunStats) string {
	type row struct {
		id   string
		stat *lint.RuleStat
	}
	rows := make([]row, 0, len(s.RuleStats))
	for id, st := range s.RuleStats {
		rows = append(rows, row{id, st})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].stat.Duration != rows[j].stat.Duration {
			return rows[i].stat.Duration > rows[j].stat.Duration
		}
		return rows[i].id < rows[j].id
	})

	var sb strings.Builder
	sb.WriteString("\nrule timings:\n")
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("  %-12s %10s %5d hits\n",
			r.id, r.stat.Duration.Round(time.Microsecond), r.stat.Hits))
	}
	sb.WriteString(fmt.Sprintf("  elapsed %s over %s\n",
		s.Elapsed.Round(time.Millisecond), plural(s.FilesProcessed, "file")))
	return sb.String()
}

func formatJSON(res *app.RunResult) ([]byte, error) {
	diags := res.Diagnostics
	if diags == nil {
		diags = []lint.Diagnostic{}
	}
	payload := struct {
		Diagnostics []lint.Diagnostic `json:"diagnostics"`
		Summary     *lint.RunStats    `json:"summary"`
	}{diags, res.Stats}
	return json.MarshalIndent(payload, "", "  ")
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	if strings.HasSuffix(noun, "y") {
		return fmt.Sprintf("%d %sies", n, noun[:len(noun)-1])
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
