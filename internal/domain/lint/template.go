package lint

import (
	"regexp"
	"strconv"

	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/domain/doctree"
)

// MessageContext carries the values available to message placeholders.
// A nil map leaves the corresponding placeholders verbatim; a non-nil
// ChildCounts map renders missing kinds as 0.
type MessageContext struct {
	Attributes  map[string]string
	ChildCounts map[string]int
	Depth       int
	HasDepth    bool
}

// ContextForNode builds the full message context for a matched node.
func ContextForNode(n *doctree.Node) MessageContext {
	attrs := make(map[string]string, len(n.Attrs))
	for _, a := range n.Attrs {
		attrs[a.Name] = a.Value
	}
	return MessageContext{
		Attributes:  attrs,
		ChildCounts: n.ChildCounts(),
		Depth:       n.Depth(),
		HasDepth:    true,
	}
}

var (
	tplAttrRe  = regexp.MustCompile(`\{\{attributes\.([^}\s]+)\}\}`)
	tplCountRe = regexp.MustCompile(`\{\{countChildren\((?:'([^']*)'|"([^"]*)")\)\}\}`)
	tplDepthRe = regexp.MustCompile(`\{\{getDepth\(\)\}\}`)
)

// RenderMessage substitutes {{attributes.X}}, {{countChildren('Kind')}},
// and {{getDepth()}} placeholders. Rendering is total: placeholders
// whose value is unavailable, and anything else between {{ }}, stay in
// the output verbatim.
func RenderMessage(template string, ctx MessageContext) string {
	out := tplAttrRe.ReplaceAllStringFunc(template, func(m string) string {
		name := tplAttrRe.FindStringSubmatch(m)[1]
		if v, ok := ctx.Attributes[name]; ok {
			return v
		}
		return m
	})
	out = tplCountRe.ReplaceAllStringFunc(out, func(m string) string {
		if ctx.ChildCounts == nil {
			return m
		}
		sub := tplCountRe.FindStringSubmatch(m)
		name := sub[1]
		if name == "" {
			name = sub[2]
		}
		return strconv.Itoa(ctx.ChildCounts[name])
	})
	out = tplDepthRe.ReplaceAllStringFunc(out, func(m string) string {
		if !ctx.HasDepth {
			return m
		}
		return strconv.Itoa(ctx.Depth)
	})
	return out
}
