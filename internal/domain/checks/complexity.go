package checks

import (
	"fmt"

	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/domain/complexity"
	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/domain/doctree"
	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/domain/lint"
)

// DefaultComplexityThreshold is the cyclomatic score above which a
// document is reported. 20 is the top of the Moderate band.
const DefaultComplexityThreshold = 20

// ExcessiveComplexity reports documents whose cyclomatic score crosses
// the threshold. The finding lands on the root element.
type ExcessiveComplexity struct {
	meta      lint.Meta
	threshold int
	cfg       complexity.Config
}

func NewExcessiveComplexity(threshold int) *ExcessiveComplexity {
	if threshold <= 0 {
		threshold = DefaultComplexityThreshold
	}
	return &ExcessiveComplexity{
		meta: lint.Meta{
			ID:          "MAINT-101",
			Name:        "excessive-complexity",
			Description: "Document cyclomatic complexity should stay under the threshold",
			Severity:    lint.SeverityMedium,
			Category:    lint.CategoryMaintainability,
			Enabled:     true,
			Tags:        []string{"complexity"},
		},
		threshold: threshold,
		cfg:       complexity.DefaultConfig(),
	}
}

func (r *ExcessiveComplexity) Meta() lint.Meta { return r.meta }

func (r *ExcessiveComplexity) Check(doc *doctree.Document) []lint.Diagnostic {
	if doc.Root == nil {
		return nil
	}

	m := complexity.Analyze(r.cfg, doc)
	if m.Cyclomatic <= r.threshold {
		return nil
	}

	msg := fmt.Sprintf("document cyclomatic complexity is %d (threshold %d, rating %s)",
		m.Cyclomatic, r.threshold, m.Rating())
	d := lint.NewDiagnostic(r.meta, doc, doc.Root, msg)
	d.Help = "Split condition-heavy authoring into included fragments, or move branching into custom action scheduling."
	return []lint.Diagnostic{d}
}
