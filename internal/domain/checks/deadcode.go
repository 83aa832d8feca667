package checks

import (
	"fmt"

	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/domain/doctree"
	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/domain/lint"
	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/ports"
)

// UnreferencedComponent flags Components that no Feature or group pulls
// in. Unreferenced components are compiled but never installed.
//
// Detection counts whole-word occurrences of each Component Id across
// every source in the run: the declaration itself accounts for one hit,
// so a count of one means nothing references the component. Components
// sitting directly inside a Feature or ComponentGroup are included by
// their parent and are skipped.
type UnreferencedComponent struct {
	meta    lint.Meta
	scanner ports.ReferenceScanner
}

func NewUnreferencedComponent(scanner ports.ReferenceScanner) *UnreferencedComponent {
	return &UnreferencedComponent{
		meta: lint.Meta{
			ID:          "DEAD-101",
			Name:        "unreferenced-component",
			Description: "Components must be referenced by a Feature or ComponentGroup",
			Severity:    lint.SeverityMedium,
			Category:    lint.CategoryDeadCode,
			Enabled:     true,
			Tags:        []string{"dead-code"},
		},
		scanner: scanner,
	}
}

func (r *UnreferencedComponent) Meta() lint.Meta { return r.meta }

func (r *UnreferencedComponent) CheckProject(docs []*doctree.Document) []lint.Diagnostic {
	type decl struct {
		doc  *doctree.Document
		node *doctree.Node
	}
	var order []string
	decls := make(map[string]decl)

	for _, doc := range docs {
		if doc.Root == nil {
			continue
		}
		doc.Root.Walk(func(n *doctree.Node) {
			if n.Kind != "Component" || includedByParent(n) {
				return
			}
			id, ok := n.Attr("Id")
			if !ok || id == "" {
				return
			}
			if _, seen := decls[id]; seen {
				return
			}
			decls[id] = decl{doc, n}
			order = append(order, id)
		})
	}
	if len(order) == 0 {
		return nil
	}

	if err := r.scanner.Build(order); err != nil {
		return nil
	}

	totals := make(map[string]int)
	for _, doc := range docs {
		for id, count := range r.scanner.Occurrences(doc.Source) {
			totals[id] += count
		}
	}

	var out []lint.Diagnostic
	for _, id := range order {
		if totals[id] > 1 {
			continue
		}
		d := decls[id]
		msg := fmt.Sprintf("Component '%s' is not referenced by any Feature or ComponentGroup", id)
		out = append(out, lint.NewDiagnostic(r.meta, d.doc, d.node, msg))
	}
	return out
}

// includedByParent reports whether an ancestor already pulls the
// component into the install.
func includedByParent(n *doctree.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Kind == "Feature" || p.Kind == "ComponentGroup" {
			return true
		}
	}
	return false
}
