package checks

import (
	"fmt"
	"regexp"

	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/domain/doctree"
	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/domain/lint"
)

// guidRe accepts the 8-4-4-4-12 hex form, with or without braces, any case.
var guidRe = regexp.MustCompile(`(?i)^\{?[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\}?$`)

// guidAttrs are the attributes whose values must be well-formed GUIDs
// whenever they are present.
var guidAttrs = []string{"Guid", "UpgradeCode", "ProductCode"}

// InvalidGUID flags GUID-valued attributes that do not parse as GUIDs.
// Guid="*" on a Component is the auto-GUID form and is allowed.
type InvalidGUID struct {
	meta lint.Meta
}

func NewInvalidGUID() *InvalidGUID {
	return &InvalidGUID{meta: lint.Meta{
		ID:          "VAL-101",
		Name:        "invalid-guid",
		Description: "GUID-valued attributes must hold a well-formed GUID",
		Severity:    lint.SeverityHigh,
		Category:    lint.CategoryValidation,
		Enabled:     true,
		Tags:        []string{"guid"},
	}}
}

func (r *InvalidGUID) Meta() lint.Meta { return r.meta }

func (r *InvalidGUID) Check(doc *doctree.Document) []lint.Diagnostic {
	if doc.Root == nil {
		return nil
	}

	var out []lint.Diagnostic
	doc.Root.Walk(func(n *doctree.Node) {
		for _, name := range guidAttrs {
			value, ok := n.Attr(name)
			if !ok {
				continue
			}
			if value == "*" && name == "Guid" && n.Kind == "Component" {
				continue
			}
			if guidRe.MatchString(value) {
				continue
			}
			msg := fmt.Sprintf("%s attribute value %q is not a valid GUID", name, value)
			out = append(out, lint.NewDiagnostic(r.meta, doc, n, msg))
		}
	})
	return out
}
