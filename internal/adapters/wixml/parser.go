// Package wixml parses WiX-style XML sources into the doctree model.
// It tracks byte offsets for every element and attribute value so fix
// rendering can edit the original text, and it collects inline disable
// directives from comments.
//
// encoding/xml hands out tokens back to back: every byte of the input
// belongs to exactly one token, so the decoder's input offset before
// and after each Token call delimits that token's raw bytes. Attribute
// spans are recovered by re-scanning the raw open tag, which the
// decoder has already validated.
package wixml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/domain/doctree"
)

// Parser implements ports.Parser.
type Parser struct{}

// Parse builds the document tree. Never returns nil; malformed input
// is reported through Document.ParseErr.
func (Parser) Parse(path string, src []byte) *doctree.Document {
	return Parse(path, src)
}

// ParseFile reads and parses one file. I/O failures come back as
// errors; malformed XML is reported through Document.ParseErr.
func ParseFile(path string) (*doctree.Document, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(path, src), nil
}

// Parse builds the document tree for one source. The returned document
// always carries the raw source, the line table, and any inline
// disable directives; Root is nil when ParseErr is set.
func Parse(path string, src []byte) *doctree.Document {
	doc := doctree.NewDocument(path, src)
	scanSuppressions(doc)

	dec := xml.NewDecoder(bytes.NewReader(src))
	var stack []*doctree.Node

	for {
		start := int(dec.InputOffset())
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			doc.Root = nil
			doc.ParseErr = parseError(doc, dec, err)
			return doc
		}
		end := int(dec.InputOffset())

		switch t := tok.(type) {
		case xml.StartElement:
			line, col := doc.LineColAt(start)
			n := &doctree.Node{
				Kind:          t.Name.Local,
				Line:          line,
				Column:        col,
				Start:         start,
				OpenTagEnd:    end,
				CloseTagStart: -1,
				End:           end,
			}
			n.Attrs = attrSpans(src, start, end, t.Attr)
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				n.Parent = parent
				parent.Children = append(parent.Children, n)
			} else {
				if doc.Root != nil {
					doc.Root = nil
					doc.ParseErr = &doctree.ParseError{Line: line, Column: col, Msg: "multiple root elements"}
					return doc
				}
				doc.Root = n
			}
			stack = append(stack, n)

		case xml.EndElement:
			if len(stack) == 0 {
				continue
			}
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			// A zero-width end token is the decoder's synthetic close
			// for a self-closing tag; the spans are already final.
			if end > start {
				n.CloseTagStart = start
				n.End = end
			}

		case xml.CharData:
			if len(stack) > 0 {
				text := strings.TrimSpace(string(t))
				if text != "" {
					top := stack[len(stack)-1]
					if top.Text == "" {
						top.Text = text
					} else {
						top.Text += " " + text
					}
				}
			}
		}
	}

	if doc.Root == nil {
		doc.ParseErr = &doctree.ParseError{Line: 1, Column: 1, Msg: "no root element"}
	}
	return doc
}

// attrSpans recovers attribute byte spans by re-scanning the raw open
// tag. Attribute order from the decoder matches source order, so spans
// and decoded values pair up by index. Names keep their raw prefixed
// spelling; values are the decoder's entity-decoded form.
func attrSpans(src []byte, tagStart, tagEnd int, attrs []xml.Attr) []doctree.Attr {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]doctree.Attr, 0, len(attrs))
	i := tagStart + 1 // past '<'
	for i < tagEnd && !isSpace(src[i]) && src[i] != '>' && src[i] != '/' {
		i++ // element name
	}
	for len(out) < len(attrs) && i < tagEnd {
		for i < tagEnd && isSpace(src[i]) {
			i++
		}
		if i >= tagEnd || src[i] == '>' || src[i] == '/' {
			break
		}
		nameStart := i
		for i < tagEnd && src[i] != '=' && !isSpace(src[i]) {
			i++
		}
		name := string(src[nameStart:i])
		for i < tagEnd && isSpace(src[i]) {
			i++
		}
		if i >= tagEnd || src[i] != '=' {
			break
		}
		i++
		for i < tagEnd && isSpace(src[i]) {
			i++
		}
		if i >= tagEnd || (src[i] != '"' && src[i] != '\'') {
			break
		}
		quote := src[i]
		i++
		valueStart := i
		for i < tagEnd && src[i] != quote {
			i++
		}
		valueEnd := i
		i++
		out = append(out, doctree.Attr{
			Name:       name,
			Value:      attrs[len(out)].Value,
			NameStart:  nameStart,
			ValueStart: valueStart,
			ValueEnd:   valueEnd,
		})
	}
	return out
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func parseError(doc *doctree.Document, dec *xml.Decoder, err error) *doctree.ParseError {
	var syn *xml.SyntaxError
	if errors.As(err, &syn) {
		// SyntaxError only carries a line; take the column from the
		// decoder's offset when it still points at that line.
		line, col := doc.LineColAt(int(dec.InputOffset()))
		if line != syn.Line {
			line, col = syn.Line, 1
		}
		return &doctree.ParseError{Line: line, Column: col, Msg: syn.Msg}
	}
	line, col := doc.LineColAt(int(dec.InputOffset()))
	return &doctree.ParseError{Line: line, Column: col, Msg: err.Error()}
}

// suppressRe matches inline disable directives:
//
//	<!-- wixcraft-disable -->
//	<!-- wixcraft-disable VAL-001, SEC-001 -->
//	<!-- wixcraft-disable-next-line BP-002 -->
//
// An empty rule list disables every rule.
var suppressRe = regexp.MustCompile(`<!--\s*wixcraft-disable(-next-line)?\s*([\w\-,\s]*?)\s*-->`)

// scanSuppressions reads directives line by line from the raw source,
// so they survive even when the document fails to parse.
func scanSuppressions(doc *doctree.Document) {
	for i, lineText := range doc.Lines {
		for _, m := range suppressRe.FindAllStringSubmatch(lineText, -1) {
			target := i + 1
			if m[1] == "-next-line" {
				target++
			}
			var rules []string
			for _, part := range strings.Split(m[2], ",") {
				if part = strings.TrimSpace(part); part != "" {
					rules = append(rules, part)
				}
			}
			doc.AddSuppression(target, rules)
		}
	}
}
