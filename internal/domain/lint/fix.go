package lint

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/domain/doctree"
)

// FixAction identifies what a fix template does to the matched element.
type FixAction int

const (
	FixAddAttribute FixAction = iota
	FixRemoveAttribute
	FixReplaceAttributeValue
	FixAddChildElement
	FixRemoveElement
	FixReplaceText
)

// String returns the kebab-case action name.
func (a FixAction) String() string {
	switch a {
	case FixAddAttribute:
		return "add-attribute"
	case FixRemoveAttribute:
		return "remove-attribute"
	case FixReplaceAttributeValue:
		return "replace-attribute-value"
	case FixAddChildElement:
		return "add-child-element"
	case FixRemoveElement:
		return "remove-element"
	case FixReplaceText:
		return "replace-text"
	default:
		return "unknown"
	}
}

// FixActionFromName maps an action name to its constant. Accepts the
// kebab-case names plus camelCase aliases. Returns -1 for unknown names.
func FixActionFromName(name string) FixAction {
	switch name {
	case "add-attribute", "addAttribute":
		return FixAddAttribute
	case "remove-attribute", "removeAttribute":
		return FixRemoveAttribute
	case "replace-attribute-value", "replaceAttributeValue":
		return FixReplaceAttributeValue
	case "add-child-element", "addChildElement":
		return FixAddChildElement
	case "remove-element", "removeElement":
		return FixRemoveElement
	case "replace-text", "replaceText":
		return FixReplaceText
	default:
		return -1
	}
}

// PositionKind states where add-child-element places the new child.
type PositionKind int

const (
	PositionFirst PositionKind = iota
	PositionLast
	PositionBefore
	PositionAfter
)

// ChildPosition is a parsed position spec: first, last, before(i), or
// after(i) with a 0-based child index. Out-of-range indexes clamp to
// the first or last child at render time.
type ChildPosition struct {
	Kind  PositionKind
	Index int
}

// ParseChildPosition parses a position spec. An empty spec means first.
func ParseChildPosition(s string) (ChildPosition, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "" || s == "first":
		return ChildPosition{Kind: PositionFirst}, nil
	case s == "last":
		return ChildPosition{Kind: PositionLast}, nil
	case strings.HasPrefix(s, "before(") && strings.HasSuffix(s, ")"):
		i, err := strconv.Atoi(s[len("before(") : len(s)-1])
		if err != nil {
			return ChildPosition{}, fmt.Errorf("invalid position %q", s)
		}
		return ChildPosition{Kind: PositionBefore, Index: i}, nil
	case strings.HasPrefix(s, "after(") && strings.HasSuffix(s, ")"):
		i, err := strconv.Atoi(s[len("after(") : len(s)-1])
		if err != nil {
			return ChildPosition{}, fmt.Errorf("invalid position %q", s)
		}
		return ChildPosition{Kind: PositionAfter, Index: i}, nil
	default:
		return ChildPosition{}, fmt.Errorf("invalid position %q", s)
	}
}

// FixTemplate describes a declarative fix attached to a data rule.
// String values may carry message placeholders; they are rendered with
// the same context as the rule message.
type FixTemplate struct {
	Action FixAction

	// add-attribute, remove-attribute, replace-attribute-value
	AttrName  string
	AttrValue string

	// add-child-element
	ChildKind  string
	ChildAttrs map[string]string
	Position   ChildPosition

	// replace-text
	Text string
}

// RenderFix turns a fix template and a matched node into concrete text
// edits against the document's original source. The result always has
// a description; it has no edits when there is nothing to change (for
// example remove-attribute when the attribute is already absent, or
// replace-text on a self-closing element).
func RenderFix(tpl *FixTemplate, doc *doctree.Document, n *doctree.Node, ctx MessageContext) *Fix {
	if tpl == nil {
		return nil
	}
	switch tpl.Action {
	case FixAddAttribute:
		value := RenderMessage(tpl.AttrValue, ctx)
		fix := &Fix{Description: fmt.Sprintf("Add %s=%q", tpl.AttrName, value)}
		if attr := n.FindAttr(tpl.AttrName); attr != nil {
			// Already present: rewrite the value in place.
			fix.Edits = []TextEdit{editAt(doc, attr.ValueStart, attr.ValueEnd, xmlEscapeAttr(value))}
			return fix
		}
		off := attrInsertOffset(doc, n)
		fix.Edits = []TextEdit{editAt(doc, off, off, " "+tpl.AttrName+`="`+xmlEscapeAttr(value)+`"`)}
		return fix

	case FixRemoveAttribute:
		fix := &Fix{Description: "Apply fix: remove-attribute"}
		attr := n.FindAttr(tpl.AttrName)
		if attr == nil {
			return fix
		}
		start := attr.NameStart
		for start-1 >= 0 && isXMLSpace(doc.Source[start-1]) {
			start--
		}
		fix.Edits = []TextEdit{editAt(doc, start, attr.ValueEnd+1, "")}
		return fix

	case FixReplaceAttributeValue:
		fix := &Fix{Description: "Apply fix: replace-attribute-value"}
		attr := n.FindAttr(tpl.AttrName)
		if attr == nil {
			return fix
		}
		value := RenderMessage(tpl.AttrValue, ctx)
		fix.Edits = []TextEdit{editAt(doc, attr.ValueStart, attr.ValueEnd, xmlEscapeAttr(value))}
		return fix

	case FixAddChildElement:
		fix := &Fix{Description: "Apply fix: add-child-element"}
		element := renderChildElement(tpl, ctx)
		parentIndent := lineIndent(doc, n.Line)
		childIndent := parentIndent + "  "
		if n.SelfClosing() {
			// Convert <X ... /> into an open/close pair around the child.
			slash := n.OpenTagEnd - 2
			for slash-1 >= 0 && isXMLSpace(doc.Source[slash-1]) {
				slash--
			}
			fix.Edits = []TextEdit{
				editAt(doc, slash, n.OpenTagEnd, ">"),
				editAt(doc, n.OpenTagEnd, n.OpenTagEnd,
					"\n"+childIndent+element+"\n"+parentIndent+"</"+n.Kind+">"),
			}
			return fix
		}
		pos := clampPosition(tpl.Position, len(n.Children))
		var off int
		var text string
		switch pos.Kind {
		case PositionFirst:
			off = n.OpenTagEnd
			text = "\n" + childIndent + element
		case PositionLast:
			off = n.CloseTagStart
			text = "  " + element + "\n" + parentIndent
		case PositionBefore:
			ch := n.Children[pos.Index]
			off = ch.Start
			text = element + "\n" + childIndent
		case PositionAfter:
			ch := n.Children[pos.Index]
			off = ch.End
			text = "\n" + childIndent + element
		}
		fix.Edits = []TextEdit{editAt(doc, off, off, text)}
		return fix

	case FixRemoveElement:
		fix := &Fix{Description: "Apply fix: remove-element"}
		start := n.Start
		for start-1 >= 0 && (doc.Source[start-1] == ' ' || doc.Source[start-1] == '\t') {
			start--
		}
		if start-1 >= 0 && doc.Source[start-1] == '\n' {
			start--
		}
		fix.Edits = []TextEdit{editAt(doc, start, n.End, "")}
		return fix

	case FixReplaceText:
		fix := &Fix{Description: "Apply fix: replace-text"}
		if n.SelfClosing() {
			return fix
		}
		text := RenderMessage(tpl.Text, ctx)
		fix.Edits = []TextEdit{editAt(doc, n.OpenTagEnd, n.CloseTagStart, xmlEscapeText(text))}
		return fix

	default:
		return nil
	}
}

// ApplyEdits returns a copy of src with the edits applied. Offsets
// always refer to the original source; overlapping edits are an error.
func ApplyEdits(src []byte, edits []TextEdit) ([]byte, error) {
	sorted := make([]TextEdit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].StartOffset != sorted[j].StartOffset {
			return sorted[i].StartOffset < sorted[j].StartOffset
		}
		return sorted[i].EndOffset < sorted[j].EndOffset
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i].StartOffset < sorted[i-1].EndOffset {
			return nil, fmt.Errorf("overlapping edits at offset %d", sorted[i].StartOffset)
		}
	}
	var out []byte
	prev := 0
	for _, e := range sorted {
		if e.StartOffset < prev || e.EndOffset > len(src) || e.StartOffset > e.EndOffset {
			return nil, fmt.Errorf("edit out of range: %d..%d", e.StartOffset, e.EndOffset)
		}
		out = append(out, src[prev:e.StartOffset]...)
		out = append(out, e.NewText...)
		prev = e.EndOffset
	}
	return append(out, src[prev:]...), nil
}

// attrInsertOffset finds where a new attribute goes: just before the
// '>' of the open tag, backing over a self-closing "/>" and the
// whitespace in front of it.
func attrInsertOffset(doc *doctree.Document, n *doctree.Node) int {
	off := n.OpenTagEnd - 1
	if off-1 >= 0 && doc.Source[off-1] == '/' {
		off--
		for off-1 >= 0 && isXMLSpace(doc.Source[off-1]) {
			off--
		}
	}
	return off
}

func clampPosition(pos ChildPosition, childCount int) ChildPosition {
	if pos.Kind != PositionBefore && pos.Kind != PositionAfter {
		return pos
	}
	if childCount == 0 {
		return ChildPosition{Kind: PositionFirst}
	}
	if pos.Index < 0 {
		pos.Index = 0
	}
	if pos.Index >= childCount {
		pos.Index = childCount - 1
	}
	return pos
}

// renderChildElement serializes the new child as a self-closing tag
// with its attributes sorted by name for deterministic output.
func renderChildElement(tpl *FixTemplate, ctx MessageContext) string {
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(tpl.ChildKind)
	names := make([]string, 0, len(tpl.ChildAttrs))
	for k := range tpl.ChildAttrs {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		b.WriteString(" ")
		b.WriteString(k)
		b.WriteString(`="`)
		b.WriteString(xmlEscapeAttr(RenderMessage(tpl.ChildAttrs[k], ctx)))
		b.WriteString(`"`)
	}
	b.WriteString(" />")
	return b.String()
}

func editAt(doc *doctree.Document, start, end int, newText string) TextEdit {
	sl, sc := doc.LineColAt(start)
	el, ec := doc.LineColAt(end)
	return TextEdit{
		StartOffset: start,
		EndOffset:   end,
		Range: Range{
			Start: Position{Line: sl, Column: sc},
			End:   Position{Line: el, Column: ec},
		},
		NewText: newText,
	}
}

func lineIndent(doc *doctree.Document, line int) string {
	text := doc.LineText(line)
	for i := 0; i < len(text); i++ {
		if text[i] != ' ' && text[i] != '\t' {
			return text[:i]
		}
	}
	return text
}

func isXMLSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

var (
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
)

func xmlEscapeAttr(s string) string { return attrEscaper.Replace(s) }
func xmlEscapeText(s string) string { return textEscaper.Replace(s) }
