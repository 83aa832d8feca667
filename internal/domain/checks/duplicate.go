package checks

import (
	"fmt"
	"strings"

	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/domain/doctree"
	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/domain/lint"
)

// DuplicateID flags elements that redeclare an Id already used by another
// element of the same kind, in this or any other document of the run.
// Windows Installer identifiers are scoped per table, so a Feature and a
// Directory may legitimately share an Id; two Components may not.
type DuplicateID struct {
	meta lint.Meta
}

func NewDuplicateID() *DuplicateID {
	return &DuplicateID{meta: lint.Meta{
		ID:          "VAL-102",
		Name:        "duplicate-id",
		Description: "Element Ids must be unique per element kind across the project",
		Severity:    lint.SeverityHigh,
		Category:    lint.CategoryValidation,
		Enabled:     true,
		Tags:        []string{"naming"},
	}}
}

func (r *DuplicateID) Meta() lint.Meta { return r.meta }

func (r *DuplicateID) CheckProject(docs []*doctree.Document) []lint.Diagnostic {
	type decl struct {
		doc  *doctree.Document
		node *doctree.Node
	}
	first := make(map[string]decl)

	var out []lint.Diagnostic
	for _, doc := range docs {
		if doc.Root == nil {
			continue
		}
		doc.Root.Walk(func(n *doctree.Node) {
			// Id on a *Ref element is a reference, not a declaration.
			if strings.HasSuffix(n.Kind, "Ref") {
				return
			}
			id, ok := n.Attr("Id")
			if !ok || id == "" {
				return
			}
			key := n.Kind + "\x00" + id
			prev, seen := first[key]
			if !seen {
				first[key] = decl{doc, n}
				return
			}
			msg := fmt.Sprintf("%s Id '%s' is already declared", n.Kind, id)
			d := lint.NewDiagnostic(r.meta, doc, n, msg)
			d.Related = []lint.Related{
				lint.RelatedAt(prev.doc, prev.node, "first declared here"),
			}
			out = append(out, d)
		})
	}
	return out
}
