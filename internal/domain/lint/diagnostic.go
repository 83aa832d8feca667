package lint

import (
	"sort"

	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/domain/doctree"
)

// Position is a 1-based line and column in a source file.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Range is a half-open span between two positions.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// TextEdit is one replacement in the original source. Offsets are byte
// indexes into the unmodified file; an insertion has StartOffset ==
// EndOffset.
type TextEdit struct {
	StartOffset int    `json:"start_offset"`
	EndOffset   int    `json:"end_offset"`
	Range       Range  `json:"range"`
	NewText     string `json:"new_text"`
}

// Fix is a machine-applicable remediation. The engine only renders
// fixes; applying them is always the caller's decision.
type Fix struct {
	Description string     `json:"description"`
	Edits       []TextEdit `json:"edits,omitempty"`
}

// Related points at another location that gives a finding context,
// such as the first occurrence of a duplicated identifier.
type Related struct {
	File    string `json:"file"`
	Range   Range  `json:"range"`
	Message string `json:"message"`
}

// ContextLine is one numbered source line surrounding a finding.
type ContextLine struct {
	Line int    `json:"line"`
	Text string `json:"text"`
}

// Diagnostic is one finding produced by a rule. It is a value: once
// produced it is never mutated, only filtered out by later stages.
type Diagnostic struct {
	RuleID        string        `json:"rule_id"`
	File          string        `json:"file"`
	Range         Range         `json:"range"`
	StartOffset   int           `json:"start_offset"`
	EndOffset     int           `json:"end_offset"`
	Severity      Severity      `json:"severity"`
	Category      Category      `json:"category"`
	Message       string        `json:"message"`
	Help          string        `json:"help,omitempty"`
	Fix           *Fix          `json:"fix,omitempty"`
	Related       []Related     `json:"related,omitempty"`
	SourceLine    string        `json:"source_line,omitempty"`
	ContextBefore []ContextLine `json:"context_before,omitempty"`
	ContextAfter  []ContextLine `json:"context_after,omitempty"`
}

// NewDiagnostic builds a diagnostic for a node using the rule's
// metadata. The range covers the whole element.
func NewDiagnostic(meta Meta, doc *doctree.Document, n *doctree.Node, message string) Diagnostic {
	endLine, endCol := doc.LineColAt(n.End)
	return Diagnostic{
		RuleID: meta.ID,
		File:   doc.Path,
		Range: Range{
			Start: Position{Line: n.Line, Column: n.Column},
			End:   Position{Line: endLine, Column: endCol},
		},
		StartOffset: n.Start,
		EndOffset:   n.End,
		Severity:    meta.Severity,
		Category:    meta.Category,
		Message:     message,
		SourceLine:  doc.LineText(n.Line),
	}
}

// WithContext returns a copy of the diagnostic carrying up to n
// numbered source lines on each side of the finding line. lines holds
// the whole file split on newlines, indexed from line 1. A count of
// zero or a diagnostic without a line leaves the copy unchanged.
func (d Diagnostic) WithContext(lines []string, n int) Diagnostic {
	line := d.Range.Start.Line
	if n <= 0 || line == 0 || line > len(lines) {
		return d
	}
	for i := line - n; i < line; i++ {
		if i >= 1 {
			d.ContextBefore = append(d.ContextBefore, ContextLine{Line: i, Text: lines[i-1]})
		}
	}
	for i := line + 1; i <= line+n && i <= len(lines); i++ {
		d.ContextAfter = append(d.ContextAfter, ContextLine{Line: i, Text: lines[i-1]})
	}
	return d
}

// RelatedAt builds a related-location entry for a node.
func RelatedAt(doc *doctree.Document, n *doctree.Node, message string) Related {
	endLine, endCol := doc.LineColAt(n.End)
	return Related{
		File: doc.Path,
		Range: Range{
			Start: Position{Line: n.Line, Column: n.Column},
			End:   Position{Line: endLine, Column: endCol},
		},
		Message: message,
	}
}

// SortDiagnostics orders diagnostics by file, position, and rule ID
// for stable display. The engine itself returns them unsorted.
func SortDiagnostics(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Range.Start.Line != b.Range.Start.Line {
			return a.Range.Start.Line < b.Range.Start.Line
		}
		if a.Range.Start.Column != b.Range.Start.Column {
			return a.Range.Start.Column < b.Range.Start.Column
		}
		return a.RuleID < b.RuleID
	})
}
