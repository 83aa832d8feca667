package ports

import "github.com/Tsahi-Elkayam/wixcraft-sub006/internal/domain/doctree"

// Parser turns raw source bytes into an attributed document tree.
// The concrete implementation (encoding/xml with offset tracking) lives in
// internal/adapters/wixml. Parsers never return an error: a document that
// cannot be decoded comes back with ParseErr set and a nil Root, so the
// engine can report the failure as a diagnostic instead of aborting the run.
type Parser interface {
	// Parse decodes src into a document tree. path is recorded on the
	// document and in every node location; it is never opened. Suppression
	// comments must be collected even when decoding fails partway, so that
	// rules suppressed on a line stay suppressed across a broken edit.
	Parse(path string, src []byte) *doctree.Document
}
