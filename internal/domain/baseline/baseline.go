// Package baseline records known findings so established projects can
// adopt the linter without first fixing every legacy issue. Matching
// is tolerant of file drift: an entry matches by exact line first,
// then by line-content hash, then by message hash.
package baseline

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/domain/lint"
)

// Version is the baseline file format version.
const Version = 1

// Issue is one recorded finding. File is slash-separated and relative
// to the baseline root, so the file travels between machines.
type Issue struct {
	RuleID      string `json:"rule_id"`
	File        string `json:"file"`
	Line        int    `json:"line"`
	ContentHash string `json:"content_hash"`
	MessageHash string `json:"message_hash"`
}

// Baseline is the persisted set of accepted findings.
type Baseline struct {
	Version   int     `json:"version"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
	Issues    []Issue `json:"issues"`
}

// New returns an empty baseline stamped with the current time.
func New() *Baseline {
	now := time.Now().UTC().Format(time.RFC3339)
	return &Baseline{Version: Version, CreatedAt: now, UpdatedAt: now}
}

// Load reads a baseline file. A missing file satisfies
// errors.Is(err, fs.ErrNotExist) so callers can treat it as "no
// baseline"; anything unreadable or malformed is an error.
func Load(path string) (*Baseline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read baseline %s: %w", path, err)
	}
	var b Baseline
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse baseline %s: %w", path, err)
	}
	if b.Version != Version {
		return nil, fmt.Errorf("baseline %s: unsupported version %d", path, b.Version)
	}
	return &b, nil
}

// Save writes the baseline, re-stamping UpdatedAt.
func (b *Baseline) Save(path string) error {
	b.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// Add records one issue. Exact repeats are dropped; returns whether
// the issue was new.
func (b *Baseline) Add(issue Issue) bool {
	for _, ex := range b.Issues {
		if ex == issue {
			return false
		}
	}
	b.Issues = append(b.Issues, issue)
	return true
}

// AddDiagnostics records findings as issues keyed relative to root.
// Returns the number of new entries.
func (b *Baseline) AddDiagnostics(diags []lint.Diagnostic, root string) int {
	added := 0
	for _, d := range diags {
		if b.Add(IssueFor(d, root)) {
			added++
		}
	}
	return added
}

// IssueFor converts one diagnostic into its baseline form.
func IssueFor(d lint.Diagnostic, root string) Issue {
	return Issue{
		RuleID:      d.RuleID,
		File:        relPath(root, d.File),
		Line:        d.Range.Start.Line,
		ContentHash: HashLine(d.SourceLine),
		MessageHash: HashMessage(d.Message),
	}
}

// Filter drops diagnostics the baseline already records. The baseline
// itself is not modified, so one baseline serves many runs.
func (b *Baseline) Filter(diags []lint.Diagnostic, root string) []lint.Diagnostic {
	if len(b.Issues) == 0 {
		return diags
	}
	index := make(map[string][]Issue, len(b.Issues))
	for _, issue := range b.Issues {
		key := issue.RuleID + ":" + issue.File
		index[key] = append(index[key], issue)
	}
	var out []lint.Diagnostic
	for _, d := range diags {
		key := d.RuleID + ":" + relPath(root, d.File)
		if matchesAny(index[key], d) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func matchesAny(issues []Issue, d lint.Diagnostic) bool {
	if len(issues) == 0 {
		return false
	}
	line := d.Range.Start.Line
	for _, is := range issues {
		if is.Line == line {
			return true
		}
	}
	// The line moved: try the content of the line the finding sits on.
	if strings.TrimSpace(d.SourceLine) != "" {
		h := HashLine(d.SourceLine)
		for _, is := range issues {
			if is.ContentHash == h {
				return true
			}
		}
	}
	// The line was edited too: fall back to the rendered message.
	h := HashMessage(d.Message)
	for _, is := range issues {
		if is.MessageHash == h {
			return true
		}
	}
	return false
}

// PruneMissingFiles drops issues whose file no longer exists under
// root. Returns the number of entries removed.
func (b *Baseline) PruneMissingFiles(root string) int {
	kept := b.Issues[:0]
	removed := 0
	for _, issue := range b.Issues {
		path := filepath.Join(root, filepath.FromSlash(issue.File))
		if _, err := os.Stat(path); err == nil {
			kept = append(kept, issue)
		} else {
			removed++
		}
	}
	b.Issues = kept
	return removed
}

// Filterer adapts the baseline to the engine's filter hook with a
// fixed root for path resolution.
func (b *Baseline) Filterer(root string) lint.DiagnosticFilter {
	return filterer{b: b, root: root}
}

type filterer struct {
	b    *Baseline
	root string
}

func (f filterer) Filter(diags []lint.Diagnostic) []lint.Diagnostic {
	return f.b.Filter(diags, f.root)
}

// HashLine fingerprints one source line, ignoring surrounding
// whitespace so reindentation does not break the match.
func HashLine(line string) string {
	h := fnv.New64a()
	h.Write([]byte(strings.TrimSpace(line)))
	return strconv.FormatUint(h.Sum64(), 16)
}

// HashMessage fingerprints a diagnostic message.
func HashMessage(msg string) string {
	h := fnv.New64a()
	h.Write([]byte(msg))
	return strconv.FormatUint(h.Sum64(), 16)
}

func relPath(root, file string) string {
	if root == "" {
		return filepath.ToSlash(file)
	}
	rel, err := filepath.Rel(root, file)
	if err != nil {
		return filepath.ToSlash(file)
	}
	return filepath.ToSlash(rel)
}
