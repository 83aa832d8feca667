package checks

import (
	"fmt"
	"strings"

	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/domain/doctree"
	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/domain/lint"
)

// sensitiveMarkers are substrings of a Property Id that suggest its value
// is a credential. Matched against the upper-cased Id. Bare "KEY" is left
// out: it hits KeyPath-style names far more often than credentials.
var sensitiveMarkers = []string{"PASSWORD", "PASSWD", "PWD", "SECRET", "TOKEN", "APIKEY"}

// SensitiveProperty flags credential-looking properties that are not
// Hidden. Windows Installer writes property values into the install log
// in clear text unless Hidden="yes".
type SensitiveProperty struct {
	meta lint.Meta
	fix  *lint.FixTemplate
}

func NewSensitiveProperty() *SensitiveProperty {
	return &SensitiveProperty{
		meta: lint.Meta{
			ID:          "SEC-101",
			Name:        "sensitive-property-hidden",
			Description: "Credential-looking properties must set Hidden=\"yes\"",
			Severity:    lint.SeverityHigh,
			Category:    lint.CategorySecurity,
			Enabled:     true,
			Tags:        []string{"security", "logging"},
		},
		fix: &lint.FixTemplate{
			Action:    lint.FixAddAttribute,
			AttrName:  "Hidden",
			AttrValue: "yes",
		},
	}
}

func (r *SensitiveProperty) Meta() lint.Meta { return r.meta }

func (r *SensitiveProperty) Check(doc *doctree.Document) []lint.Diagnostic {
	if doc.Root == nil {
		return nil
	}

	var out []lint.Diagnostic
	doc.Root.Walk(func(n *doctree.Node) {
		if n.Kind != "Property" {
			return
		}
		id, ok := n.Attr("Id")
		if !ok || !looksSensitive(id) {
			return
		}
		if n.AttrValue("Hidden") == "yes" {
			return
		}
		msg := fmt.Sprintf("Property '%s' looks sensitive but is not Hidden - its value is written to the install log", id)
		d := lint.NewDiagnostic(r.meta, doc, n, msg)
		d.Fix = lint.RenderFix(r.fix, doc, n, lint.ContextForNode(n))
		out = append(out, d)
	})
	return out
}

func looksSensitive(id string) bool {
	upper := strings.ToUpper(id)
	for _, marker := range sensitiveMarkers {
		if strings.Contains(upper, marker) {
			return true
		}
	}
	return false
}
