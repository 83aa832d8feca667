package doctree

import (
	"fmt"
	"sort"
	"strings"
)

// Suppression is an inline disable directive in force on one line.
// An empty Rules set suppresses every rule.
type Suppression struct {
	Rules map[string]struct{}
}

// ParseError describes why a document could not be parsed.
type ParseError struct {
	Line   int
	Column int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Msg)
}

// Document is one parsed source file. Source is kept for context
// lines, hashing, and fix spans. A document with ParseErr set has a
// nil Root and is excluded from rule execution.
type Document struct {
	Path   string
	Source []byte
	Root   *Node
	Lines  []string // Source split on '\n'

	// Suppressions maps a 1-based line number to the inline disable
	// directive in force there.
	Suppressions map[int]Suppression

	ParseErr *ParseError

	lineOffsets []int // byte offset of each line start
}

// NewDocument builds a document around raw source, precomputing the
// line table. Root, Suppressions, and ParseErr are set by the parser.
func NewDocument(path string, src []byte) *Document {
	offsets := []int{0}
	for i, b := range src {
		if b == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return &Document{
		Path:        path,
		Source:      src,
		Lines:       strings.Split(string(src), "\n"),
		lineOffsets: offsets,
	}
}

// LineColAt converts a byte offset into a 1-based line and column.
// Out-of-range offsets clamp to the nearest valid position.
func (d *Document) LineColAt(offset int) (line, col int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(d.Source) {
		offset = len(d.Source)
	}
	i := sort.Search(len(d.lineOffsets), func(i int) bool {
		return d.lineOffsets[i] > offset
	}) - 1
	if i < 0 {
		i = 0
	}
	return i + 1, offset - d.lineOffsets[i] + 1
}

// LineText returns the text of a 1-based line without its trailing
// newline, or "" when the line does not exist.
func (d *Document) LineText(line int) string {
	if line < 1 || line > len(d.Lines) {
		return ""
	}
	return strings.TrimSuffix(d.Lines[line-1], "\r")
}

// Nodes returns every element in document order. Safe on documents
// that failed to parse.
func (d *Document) Nodes() []*Node {
	if d.Root == nil {
		return nil
	}
	var out []*Node
	d.Root.Walk(func(n *Node) {
		out = append(out, n)
	})
	return out
}

// NodesOfKind returns every element of the given kind in document order.
func (d *Document) NodesOfKind(kind string) []*Node {
	var out []*Node
	if d.Root == nil {
		return nil
	}
	d.Root.Walk(func(n *Node) {
		if n.Kind == kind {
			out = append(out, n)
		}
	})
	return out
}

// AddSuppression merges an inline disable directive for a line. An
// empty rule list widens the directive to every rule.
func (d *Document) AddSuppression(line int, rules []string) {
	if d.Suppressions == nil {
		d.Suppressions = make(map[int]Suppression)
	}
	existing, ok := d.Suppressions[line]
	if !ok {
		s := Suppression{Rules: make(map[string]struct{}, len(rules))}
		for _, r := range rules {
			s.Rules[r] = struct{}{}
		}
		if len(rules) == 0 {
			s.Rules = map[string]struct{}{}
		}
		d.Suppressions[line] = s
		return
	}
	if len(existing.Rules) == 0 {
		return // already suppresses everything
	}
	if len(rules) == 0 {
		d.Suppressions[line] = Suppression{Rules: map[string]struct{}{}}
		return
	}
	for _, r := range rules {
		existing.Rules[r] = struct{}{}
	}
}

// SuppressedAt reports whether the rule is disabled on the given line
// by an inline directive.
func (d *Document) SuppressedAt(line int, ruleID string) bool {
	s, ok := d.Suppressions[line]
	if !ok {
		return false
	}
	if len(s.Rules) == 0 {
		return true
	}
	_, hit := s.Rules[ruleID]
	return hit
}
