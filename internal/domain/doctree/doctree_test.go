package doctree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTree() *Node {
	root := &Node{Kind: "Package", Attrs: []Attr{{Name: "Name", Value: "Demo"}}}
	comp := &Node{Kind: "Component", Attrs: []Attr{{Name: "Id", Value: "MainComp"}}, Parent: root}
	file1 := &Node{Kind: "File", Parent: comp}
	file2 := &Node{Kind: "File", Parent: comp}
	reg := &Node{Kind: "RegistryValue", Parent: comp}
	comp.Children = []*Node{file1, file2, reg}
	root.Children = []*Node{comp}
	return root
}

func TestNodeAttrLookup(t *testing.T) {
	root := buildTree()

	v, ok := root.Attr("Name")
	require.True(t, ok)
	assert.Equal(t, "Demo", v)

	_, ok = root.Attr("name")
	assert.False(t, ok, "attribute lookup is case-sensitive")

	assert.Equal(t, "", root.AttrValue("Missing"))
	assert.False(t, root.HasAttr("Missing"))
	assert.True(t, root.HasAttr("Name"))
}

func TestNodeName(t *testing.T) {
	root := buildTree()
	comp := root.Children[0]

	assert.Equal(t, "MainComp", comp.Name(), "Id wins")
	assert.Equal(t, "Demo", root.Name(), "falls back to Name attribute")
	assert.Equal(t, "", comp.Children[0].Name())
}

func TestNodeDepthAndCounts(t *testing.T) {
	root := buildTree()
	comp := root.Children[0]

	assert.Equal(t, 1, root.Depth())
	assert.Equal(t, 2, comp.Depth())
	assert.Equal(t, 3, comp.Children[0].Depth())

	assert.Equal(t, 2, comp.ChildCount("File"))
	assert.Equal(t, 1, comp.ChildCount("RegistryValue"))
	assert.Equal(t, 0, comp.ChildCount("Shortcut"))

	counts := comp.ChildCounts()
	assert.Equal(t, 2, counts["File"])
	assert.Equal(t, 0, counts["Shortcut"])

	assert.Len(t, comp.ChildrenOfKind("File"), 2)
	require.NotNil(t, comp.FirstChild("RegistryValue"))
	assert.Nil(t, comp.FirstChild("Shortcut"))
}

func TestNodeWalkOrder(t *testing.T) {
	root := buildTree()

	var kinds []string
	root.Walk(func(n *Node) { kinds = append(kinds, n.Kind) })
	assert.Equal(t, []string{"Package", "Component", "File", "File", "RegistryValue"}, kinds)
}

func TestDocumentLineColAt(t *testing.T) {
	src := []byte("<A>\n  <B/>\n</A>\n")
	doc := NewDocument("test.wxs", src)

	line, col := doc.LineColAt(0)
	assert.Equal(t, 1, line)
	assert.Equal(t, 1, col)

	line, col = doc.LineColAt(6) // the '<' of <B/>
	assert.Equal(t, 2, line)
	assert.Equal(t, 3, col)

	line, col = doc.LineColAt(len(src) + 100)
	assert.Equal(t, 4, line, "clamps past the end")
	assert.Equal(t, 1, col)

	line, col = doc.LineColAt(-5)
	assert.Equal(t, 1, line)
	assert.Equal(t, 1, col)
}

func TestDocumentLineText(t *testing.T) {
	doc := NewDocument("test.wxs", []byte("first\r\nsecond\nthird"))

	assert.Equal(t, "first", doc.LineText(1), "strips trailing CR")
	assert.Equal(t, "second", doc.LineText(2))
	assert.Equal(t, "third", doc.LineText(3))
	assert.Equal(t, "", doc.LineText(0))
	assert.Equal(t, "", doc.LineText(99))
}

func TestDocumentNodes(t *testing.T) {
	doc := NewDocument("test.wxs", nil)
	assert.Nil(t, doc.Nodes(), "nil root yields no nodes")

	doc.Root = buildTree()
	assert.Len(t, doc.Nodes(), 5)
	assert.Len(t, doc.NodesOfKind("File"), 2)
	assert.Empty(t, doc.NodesOfKind("Feature"))
}

func TestSuppressions(t *testing.T) {
	doc := NewDocument("test.wxs", nil)

	doc.AddSuppression(3, []string{"VAL-001", "SEC-002"})
	assert.True(t, doc.SuppressedAt(3, "VAL-001"))
	assert.True(t, doc.SuppressedAt(3, "SEC-002"))
	assert.False(t, doc.SuppressedAt(3, "BP-001"))
	assert.False(t, doc.SuppressedAt(4, "VAL-001"))

	// A bare directive widens to every rule.
	doc.AddSuppression(3, nil)
	assert.True(t, doc.SuppressedAt(3, "BP-001"))

	// Widened lines stay widened.
	doc.AddSuppression(3, []string{"VAL-001"})
	assert.True(t, doc.SuppressedAt(3, "anything"))

	doc.AddSuppression(7, nil)
	assert.True(t, doc.SuppressedAt(7, "VAL-001"), "bare directive suppresses everything")
}
