package checks

import (
	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/domain/doctree"
	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/domain/lint"
)

// RequireMajorUpgrade flags Package elements without a direct MajorUpgrade
// child. Packages without one install side by side instead of upgrading.
type RequireMajorUpgrade struct {
	meta lint.Meta
}

func NewRequireMajorUpgrade() *RequireMajorUpgrade {
	return &RequireMajorUpgrade{meta: lint.Meta{
		ID:          "BP-101",
		Name:        "package-requires-majorupgrade",
		Description: "Package should declare a MajorUpgrade element",
		Severity:    lint.SeverityMedium,
		Category:    lint.CategoryBestPractice,
		Enabled:     true,
		Tags:        []string{"upgrade"},
	}}
}

func (r *RequireMajorUpgrade) Meta() lint.Meta { return r.meta }

func (r *RequireMajorUpgrade) Check(doc *doctree.Document) []lint.Diagnostic {
	if doc.Root == nil {
		return nil
	}

	var out []lint.Diagnostic
	doc.Root.Walk(func(n *doctree.Node) {
		if n.Kind != "Package" {
			return
		}
		if n.FirstChild("MajorUpgrade") != nil {
			return
		}
		d := lint.NewDiagnostic(r.meta, doc, n,
			"Package has no MajorUpgrade element - new versions will install side by side")
		d.Help = "MajorUpgrade schedules the upgrade actions with safe defaults; one line usually suffices."
		out = append(out, d)
	})
	return out
}
