package checks

import (
	"fmt"

	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/domain/doctree"
	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/domain/lint"
)

// refTargets maps the reference elements this check understands to the
// kind they must resolve against. Reference kinds outside this table
// (UIRef, WixVariableRef, ...) usually resolve into extension libraries
// the linter cannot see, so they are left alone.
var refTargets = map[string]string{
	"ComponentRef":      "Component",
	"ComponentGroupRef": "ComponentGroup",
	"FeatureRef":        "Feature",
	"DirectoryRef":      "Directory",
	"CustomActionRef":   "CustomAction",
	"PropertyRef":       "Property",
}

// standardDirectories are the well-known folder Ids the installer defines
// by itself. A DirectoryRef to one of these never needs a declaration.
var standardDirectories = map[string]bool{
	"TARGETDIR":              true,
	"ProgramFilesFolder":     true,
	"ProgramFiles64Folder":   true,
	"ProgramFiles6432Folder": true,
	"ProgramMenuFolder":      true,
	"StartMenuFolder":        true,
	"StartupFolder":          true,
	"DesktopFolder":          true,
	"AppDataFolder":          true,
	"CommonAppDataFolder":    true,
	"LocalAppDataFolder":     true,
	"CommonFilesFolder":      true,
	"CommonFiles64Folder":    true,
	"SystemFolder":           true,
	"System64Folder":         true,
	"WindowsFolder":          true,
	"TempFolder":             true,
	"FontsFolder":            true,
	"PersonalFolder":         true,
	"SendToFolder":           true,
	"TemplateFolder":         true,
	"FavoritesFolder":        true,
	"NetHoodFolder":          true,
	"PrintHoodFolder":        true,
	"RecentFolder":           true,
}

// DanglingRef flags references whose target Id is declared nowhere in the
// run. Resolution happens at link time, so a target living in a wixlib
// outside the linted set is a legitimate reason to suppress this finding.
type DanglingRef struct {
	meta lint.Meta
}

func NewDanglingRef() *DanglingRef {
	return &DanglingRef{meta: lint.Meta{
		ID:          "VAL-103",
		Name:        "dangling-ref",
		Description: "Reference elements must resolve to a declaration in the project",
		Severity:    lint.SeverityHigh,
		Category:    lint.CategoryValidation,
		Enabled:     true,
		Tags:        []string{"reference"},
	}}
}

func (r *DanglingRef) Meta() lint.Meta { return r.meta }

func (r *DanglingRef) CheckProject(docs []*doctree.Document) []lint.Diagnostic {
	declared := make(map[string]bool)
	for _, doc := range docs {
		if doc.Root == nil {
			continue
		}
		doc.Root.Walk(func(n *doctree.Node) {
			id, ok := n.Attr("Id")
			if !ok || id == "" {
				return
			}
			kind := n.Kind
			// StandardDirectory declares a well-known Directory.
			if kind == "StandardDirectory" {
				kind = "Directory"
			}
			declared[kind+"\x00"+id] = true
		})
	}

	var out []lint.Diagnostic
	for _, doc := range docs {
		if doc.Root == nil {
			continue
		}
		doc.Root.Walk(func(n *doctree.Node) {
			target, ok := refTargets[n.Kind]
			if !ok {
				return
			}
			id, ok := n.Attr("Id")
			if !ok || id == "" {
				return
			}
			if target == "Directory" && standardDirectories[id] {
				return
			}
			if declared[target+"\x00"+id] {
				return
			}
			msg := fmt.Sprintf("%s '%s' does not resolve to a %s in this project", n.Kind, id, target)
			d := lint.NewDiagnostic(r.meta, doc, n, msg)
			d.Help = "If the target lives in a wixlib outside this project, suppress this finding for the line."
			out = append(out, d)
		})
	}
	return out
}
