package ports

// ReferenceScanner counts identifier occurrences across document sources
// using multi-pattern matching (Aho-Corasick). A single pass over each
// source finds all identifiers simultaneously, regardless of how many are
// in the set. This is O(n + m + z) where n=source length, m=total pattern
// length, z=number of matches.
//
// The automaton must be rebuilt when the identifier set changes, which is
// once per run: project rules collect the declared Ids first, then scan.
type ReferenceScanner interface {
	// Build replaces the identifier set and reconstructs the automaton.
	// Previous identifiers are discarded. Returns an error if the set
	// contains an empty string.
	Build(ids []string) error

	// Occurrences returns how many times each identifier appears in src as
	// a whole word (neighbors are not letters, digits, or underscores).
	// Identifiers that never appear are absent from the map. Matching is
	// case-sensitive; installer Ids are case-sensitive too.
	Occurrences(src []byte) map[string]int
}
