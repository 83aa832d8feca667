// Package refscan implements the ports.ReferenceScanner interface using an
// Aho-Corasick automaton. It wraps the petar-dambovaliev/aho-corasick
// library for O(n + m + z) matching: one pass over each source counts every
// identifier in the set at once.
package refscan

import (
	"fmt"

	aho "github.com/petar-dambovaliev/aho-corasick"
)

// Scanner implements ports.ReferenceScanner. Build compiles an automaton
// from the identifier set; Occurrences counts whole-word hits per source.
type Scanner struct {
	automaton aho.AhoCorasick
	ids       []string
	built     bool
}

// New returns an empty scanner. Occurrences on an unbuilt scanner returns
// an empty map.
func New() *Scanner {
	return &Scanner{}
}

// Build compiles the Aho-Corasick automaton from the given identifiers.
// Previous identifiers are discarded.
func (s *Scanner) Build(ids []string) error {
	for _, id := range ids {
		if id == "" {
			return fmt.Errorf("empty identifier in scan set")
		}
	}

	s.ids = make([]string, len(ids))
	copy(s.ids, ids)

	builder := aho.NewAhoCorasickBuilder(aho.Opts{
		DFA: true,
	})
	s.automaton = builder.Build(s.ids)
	s.built = true
	return nil
}

// Occurrences counts whole-word matches of each identifier in src.
// Identifiers with no matches are absent from the result.
func (s *Scanner) Occurrences(src []byte) map[string]int {
	counts := make(map[string]int)
	if !s.built || len(s.ids) == 0 {
		return counts
	}

	iter := s.automaton.IterOverlappingByte(src)
	for next := iter.Next(); next != nil; next = iter.Next() {
		m := *next
		if !wholeWord(src, m.Start(), m.End()) {
			continue
		}
		counts[s.ids[m.Pattern()]]++
	}
	return counts
}

// wholeWord reports whether the match at [start, end) touches no
// identifier character on either side. "Main" inside "MainComponent"
// is not a whole-word hit; "Main" inside Target="[#Main]" is.
func wholeWord(src []byte, start, end int) bool {
	if start > 0 && isIdentByte(src[start-1]) {
		return false
	}
	if end < len(src) && isIdentByte(src[end]) {
		return false
	}
	return true
}

func isIdentByte(b byte) bool {
	return b == '_' ||
		('0' <= b && b <= '9') ||
		('a' <= b && b <= 'z') ||
		('A' <= b && b <= 'Z')
}
