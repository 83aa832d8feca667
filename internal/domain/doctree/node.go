// Package doctree holds the parsed document model the analysis engine
// walks. All types are pure Go with no external dependencies.
package doctree

// Attr is one element attribute with its source spans.
// Offsets index into Document.Source. NameStart is the first byte of
// the attribute name; ValueStart and ValueEnd delimit the value text
// between its quotes, so Source[ValueStart:ValueEnd] is the raw value.
type Attr struct {
	Name  string
	Value string

	NameStart  int
	ValueStart int
	ValueEnd   int
}

// Node is one element of the parsed tree.
type Node struct {
	Kind     string  // element name, e.g. "Component"
	Attrs    []Attr  // document order
	Children []*Node // document order
	Parent   *Node   // nil at the root
	Text     string  // trimmed character data directly inside the element

	Line   int // 1-based line of the opening '<'
	Column int // 1-based byte column of the opening '<'

	Start         int // offset of the opening '<'
	OpenTagEnd    int // one past the '>' that ends the open tag
	CloseTagStart int // offset of the closing tag's '<', -1 when self-closing
	End           int // one past the last byte of the element
}

// Attr returns the value of the named attribute and whether it exists.
// Lookup is case-sensitive.
func (n *Node) Attr(name string) (string, bool) {
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			return n.Attrs[i].Value, true
		}
	}
	return "", false
}

// AttrValue returns the value of the named attribute, or "" when absent.
func (n *Node) AttrValue(name string) string {
	v, _ := n.Attr(name)
	return v
}

// HasAttr returns true if the named attribute is present, even with an
// empty value.
func (n *Node) HasAttr(name string) bool {
	_, ok := n.Attr(name)
	return ok
}

// FindAttr returns the attribute record for span access, or nil.
func (n *Node) FindAttr(name string) *Attr {
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			return &n.Attrs[i]
		}
	}
	return nil
}

// SelfClosing reports whether the element was written as <Kind ... />.
func (n *Node) SelfClosing() bool {
	return n.CloseTagStart < 0
}

// Name derives a display name for the element: the Id attribute when
// present, else the Name attribute, else "".
func (n *Node) Name() string {
	if v, ok := n.Attr("Id"); ok {
		return v
	}
	if v, ok := n.Attr("Name"); ok {
		return v
	}
	return ""
}

// Depth returns the node's depth in the tree. The root is depth 1.
func (n *Node) Depth() int {
	d := 1
	for p := n.Parent; p != nil; p = p.Parent {
		d++
	}
	return d
}

// ChildCount returns the number of direct children of the given kind.
func (n *Node) ChildCount(kind string) int {
	c := 0
	for _, ch := range n.Children {
		if ch.Kind == kind {
			c++
		}
	}
	return c
}

// ChildCounts returns the number of direct children per element kind.
// The map is never nil.
func (n *Node) ChildCounts() map[string]int {
	counts := make(map[string]int, len(n.Children))
	for _, ch := range n.Children {
		counts[ch.Kind]++
	}
	return counts
}

// ChildrenOfKind returns the direct children of the given kind in
// document order.
func (n *Node) ChildrenOfKind(kind string) []*Node {
	var out []*Node
	for _, ch := range n.Children {
		if ch.Kind == kind {
			out = append(out, ch)
		}
	}
	return out
}

// FirstChild returns the first direct child of the given kind, or nil.
func (n *Node) FirstChild(kind string) *Node {
	for _, ch := range n.Children {
		if ch.Kind == kind {
			return ch
		}
	}
	return nil
}

// Walk visits the node and every descendant in document order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, ch := range n.Children {
		ch.Walk(fn)
	}
}
