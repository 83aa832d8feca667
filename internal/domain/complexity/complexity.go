// Package complexity computes a McCabe-style structural complexity
// signal over document trees. Rules consume it (flagging overly
// complex installers) and the CLI reports it standalone.
package complexity

import (
	"sort"
	"strings"

	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/domain/doctree"
)

// Config names the element kinds that count as decision points.
// Explicit configuration rather than package statics so callers can
// tune the sets; DefaultConfig matches common installer authoring.
type Config struct {
	// DecisionElements count one point per occurrence.
	DecisionElements map[string]bool

	// ConditionElements count one point when they carry ConditionAttr.
	ConditionElements map[string]bool

	ConditionAttr string
}

// DefaultConfig returns the stock decision-element sets.
func DefaultConfig() Config {
	return Config{
		DecisionElements: map[string]bool{
			"Condition":       true,
			"Launch":          true,
			"RegistrySearch":  true,
			"FileSearch":      true,
			"ProductSearch":   true,
			"ComponentSearch": true,
		},
		ConditionElements: map[string]bool{
			"Feature":      true,
			"Component":    true,
			"CustomAction": true,
			"SetProperty":  true,
		},
		ConditionAttr: "Condition",
	}
}

// Metrics is the result of one analysis. Derived and recomputed per
// run; never persisted.
type Metrics struct {
	Cyclomatic     int `json:"cyclomatic"`
	DecisionPoints int `json:"decision_points"`
	MaxDepth       int `json:"max_depth"`
	NodeCount      int `json:"node_count"`
	AttributeCount int `json:"attribute_count"`
}

// Rating buckets a cyclomatic score for human display.
type Rating int

const (
	RatingLow      Rating = iota // 0-10
	RatingModerate               // 11-20
	RatingHigh                   // 21-50
	RatingVeryHigh               // 51+
)

func (r Rating) String() string {
	switch r {
	case RatingLow:
		return "low"
	case RatingModerate:
		return "moderate"
	case RatingHigh:
		return "high"
	case RatingVeryHigh:
		return "very-high"
	default:
		return "unknown"
	}
}

// Rating buckets the metrics' cyclomatic score.
func (m Metrics) Rating() Rating {
	switch {
	case m.Cyclomatic <= 10:
		return RatingLow
	case m.Cyclomatic <= 20:
		return RatingModerate
	case m.Cyclomatic <= 50:
		return RatingHigh
	default:
		return RatingVeryHigh
	}
}

// logicalOps are counted per occurrence inside attribute values. A
// Condition attribute already counted through ConditionElements counts
// again when its value contains AND/OR.
var logicalOps = []string{" AND ", " OR ", " and ", " or "}

// Analyze walks the whole document.
func Analyze(cfg Config, doc *doctree.Document) Metrics {
	if doc.Root == nil {
		return Metrics{Cyclomatic: 1}
	}
	return AnalyzeNode(cfg, doc.Root)
}

// AnalyzeNode walks the subtree rooted at n. Depth is measured from n,
// so a lone node has MaxDepth 1.
func AnalyzeNode(cfg Config, n *doctree.Node) Metrics {
	var m Metrics
	walk(cfg, n, 1, &m)
	m.Cyclomatic = m.DecisionPoints + 1
	return m
}

func walk(cfg Config, n *doctree.Node, depth int, m *Metrics) {
	m.NodeCount++
	m.AttributeCount += len(n.Attrs)
	if depth > m.MaxDepth {
		m.MaxDepth = depth
	}

	if cfg.DecisionElements[n.Kind] {
		m.DecisionPoints++
	}
	if cfg.ConditionElements[n.Kind] && n.HasAttr(cfg.ConditionAttr) {
		m.DecisionPoints++
	}
	for _, a := range n.Attrs {
		for _, op := range logicalOps {
			m.DecisionPoints += strings.Count(a.Value, op)
		}
	}

	for _, ch := range n.Children {
		walk(cfg, ch, depth+1, m)
	}
}

// ElementStat is one element kind's share of a document.
type ElementStat struct {
	Kind  string `json:"kind"`
	Count int    `json:"count"`
}

// Distribution tallies element kinds across the document, most
// frequent first, ties broken by kind name.
func Distribution(doc *doctree.Document) []ElementStat {
	counts := make(map[string]int)
	for _, n := range doc.Nodes() {
		counts[n.Kind]++
	}
	out := make([]ElementStat, 0, len(counts))
	for kind, count := range counts {
		out = append(out, ElementStat{Kind: kind, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Kind < out[j].Kind
	})
	return out
}

// Report is the per-document complexity summary the CLI renders.
type Report struct {
	File     string        `json:"file"`
	Metrics  Metrics       `json:"metrics"`
	Rating   string        `json:"rating"`
	Elements []ElementStat `json:"elements,omitempty"`
}

// Analyzer carries a config across documents.
type Analyzer struct {
	cfg Config
}

// NewAnalyzer returns an analyzer; a zero Config falls back to the
// defaults.
func NewAnalyzer(cfg Config) *Analyzer {
	if cfg.DecisionElements == nil && cfg.ConditionElements == nil {
		cfg = DefaultConfig()
	}
	return &Analyzer{cfg: cfg}
}

// Report analyzes one document into a renderable summary.
func (a *Analyzer) Report(doc *doctree.Document) Report {
	m := Analyze(a.cfg, doc)
	return Report{
		File:     doc.Path,
		Metrics:  m,
		Rating:   m.Rating().String(),
		Elements: Distribution(doc),
	}
}
