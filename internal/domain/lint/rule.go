package lint

import (
	"sync"

	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/domain/doctree"
)

// Meta describes a rule independent of how it is implemented.
type Meta struct {
	ID          string   // unique, stable identifier, e.g. "VAL-001"
	Name        string   // short slug, e.g. "package-requires-upgradecode"
	Description string   // one-line summary for listings
	Severity    Severity // default severity; configs may override per rule
	Category    Category
	Enabled     bool // default state before config policy applies
	Tags        []string

	// Deprecation metadata. A deprecated rule still runs when enabled;
	// the engine logs a warning naming its replacement.
	Since             string // version the rule first shipped in
	Deprecated        bool
	DeprecatedMessage string
	ReplacedBy        string // rule ID that supersedes this one
}

// Rule is the common contract of data and code rules.
type Rule interface {
	Meta() Meta
}

// CodeRule analyzes one document at a time.
type CodeRule interface {
	Rule
	Check(doc *doctree.Document) []Diagnostic
}

// ProjectRule analyzes every successfully parsed document at once.
// Implementing it routes the rule through the project phase instead of
// the per-document phase.
type ProjectRule interface {
	Rule
	CheckProject(docs []*doctree.Document) []Diagnostic
}

// DataRule is a declarative rule: a target element, a condition, and a
// message template, optionally with a fix template. The condition is
// compiled on first use and cached; a condition that fails to compile
// never matches.
type DataRule struct {
	RuleMeta      Meta
	TargetElement string // element kind to match; "" matches every node
	Condition     string
	Message       string
	Help          string
	Fix           *FixTemplate

	condOnce sync.Once
	cond     Condition
	condErr  error
}

// Meta returns the rule's metadata.
func (r *DataRule) Meta() Meta { return r.RuleMeta }

func (r *DataRule) compiled() (Condition, error) {
	r.condOnce.Do(func() {
		r.cond, r.condErr = CompileCondition(r.Condition)
	})
	return r.cond, r.condErr
}

// Targets reports whether the rule applies to the node's element kind.
func (r *DataRule) Targets(n *doctree.Node) bool {
	return r.TargetElement == "" || r.TargetElement == n.Kind
}

// Matches reports whether the rule's condition holds for the node.
// Malformed conditions fail closed and never match.
func (r *DataRule) Matches(n *doctree.Node) bool {
	c, err := r.compiled()
	if err != nil {
		return false
	}
	return c.Match(n)
}

// VerifyCondition compiles the condition and reports any syntax error.
// Used by best-effort validation; the engine itself never fails on a
// malformed condition.
func (r *DataRule) VerifyCondition() error {
	_, err := r.compiled()
	return err
}
