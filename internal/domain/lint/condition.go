package lint

import (
	"fmt"
	"strings"

	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/domain/doctree"
)

// Condition is a compiled boolean expression over a node's attributes.
//
// The grammar is small: the atoms true, false, and
// attributes.Name; an optional repeatable ! prefix; and the textual
// connectives " AND " and " OR ". Connectives associate left to right
// with no precedence, so A AND B OR C reads ((A AND B) OR C).
// attributes.Name is truthy when the attribute is present with a
// non-empty value. An empty expression never matches.
type Condition struct {
	terms []condTerm
	ops   []condOp // ops[i] joins terms[i] and terms[i+1]
}

type condTerm struct {
	negate bool   // odd number of leading '!'
	isAttr bool
	attr   string // attribute name when isAttr
	value  bool   // literal value when !isAttr
}

type condOp int

const (
	opAnd condOp = iota
	opOr
)

// CompileCondition parses an expression into an evaluatable form.
// An empty expression compiles to a condition that never matches.
func CompileCondition(expr string) (Condition, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Condition{}, nil
	}

	var c Condition
	rest := expr
	for {
		andIdx := strings.Index(rest, " AND ")
		orIdx := strings.Index(rest, " OR ")
		if andIdx < 0 && orIdx < 0 {
			term, err := parseCondTerm(rest)
			if err != nil {
				return Condition{}, err
			}
			c.terms = append(c.terms, term)
			return c, nil
		}

		var op condOp
		var cut, width int
		if orIdx < 0 || (andIdx >= 0 && andIdx < orIdx) {
			op, cut, width = opAnd, andIdx, len(" AND ")
		} else {
			op, cut, width = opOr, orIdx, len(" OR ")
		}
		term, err := parseCondTerm(rest[:cut])
		if err != nil {
			return Condition{}, err
		}
		c.terms = append(c.terms, term)
		c.ops = append(c.ops, op)
		rest = rest[cut+width:]
	}
}

func parseCondTerm(s string) (condTerm, error) {
	s = strings.TrimSpace(s)
	var t condTerm
	for strings.HasPrefix(s, "!") {
		t.negate = !t.negate
		s = strings.TrimSpace(s[1:])
	}
	switch {
	case s == "true":
		t.value = true
	case s == "false":
		t.value = false
	case strings.HasPrefix(s, "attributes."):
		name := s[len("attributes."):]
		if name == "" || strings.ContainsAny(name, " \t") {
			return condTerm{}, fmt.Errorf("invalid attribute reference %q", s)
		}
		t.isAttr = true
		t.attr = name
	case s == "":
		return condTerm{}, fmt.Errorf("missing operand")
	default:
		return condTerm{}, fmt.Errorf("unknown operand %q", s)
	}
	return t, nil
}

// Match evaluates the condition against a node. Evaluation folds left
// to right and short-circuits.
func (c Condition) Match(n *doctree.Node) bool {
	if len(c.terms) == 0 {
		return false
	}
	acc := c.terms[0].eval(n)
	for i, op := range c.ops {
		switch op {
		case opAnd:
			if !acc {
				continue
			}
			acc = c.terms[i+1].eval(n)
		case opOr:
			if acc {
				continue
			}
			acc = c.terms[i+1].eval(n)
		}
	}
	return acc
}

func (t condTerm) eval(n *doctree.Node) bool {
	v := t.value
	if t.isAttr {
		s, ok := n.Attr(t.attr)
		v = ok && s != ""
	}
	if t.negate {
		return !v
	}
	return v
}
