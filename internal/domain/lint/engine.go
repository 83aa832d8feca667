package lint

import (
	"time"

	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/domain/doctree"
	"github.com/hashicorp/go-hclog"
)

// DiagnosticFilter removes diagnostics a later stage should not see.
// The baseline store implements it.
type DiagnosticFilter interface {
	Filter(diags []Diagnostic) []Diagnostic
}

// ParseErrorRuleID is stamped on the structural diagnostic emitted for
// a document that failed to parse.
const ParseErrorRuleID = "parse-error"

// Engine executes resolved rules over parsed documents. The engine is
// synchronous and does no I/O; callers own file reading, parsing, and
// result persistence.
type Engine struct {
	registry *Registry
	cfg      Config
	log      hclog.Logger
	baseline DiagnosticFilter
}

// NewEngine builds an engine over a registry and a config. A nil
// logger disables engine logging.
func NewEngine(registry *Registry, cfg Config, log hclog.Logger) *Engine {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Engine{registry: registry, cfg: cfg, log: log}
}

// SetBaseline installs a baseline filter applied at the end of a run.
func (e *Engine) SetBaseline(f DiagnosticFilter) { e.baseline = f }

// Config returns the engine's effective configuration.
func (e *Engine) Config() Config { return e.cfg }

// Run executes the full pipeline over the documents: per-document
// rules, the project phase, then the global filters. Diagnostics are
// returned unsorted; callers sort for display.
func (e *Engine) Run(docs []*doctree.Document) ([]Diagnostic, *RunStats) {
	run := e.NewRun()
	for _, doc := range docs {
		run.AddDocument(doc)
	}
	return run.Finish()
}

// Run tracks one analysis pass. Documents are added one at a time so a
// caller can interpose a result cache; Finish then runs the project
// phase and the global filters exactly once.
type Run struct {
	e      *Engine
	data   []*DataRule
	code   []CodeRule
	proj   []ProjectRule
	docs   map[string]*doctree.Document // path → document, for suppression lookup
	parsed []*doctree.Document          // parse-OK documents for the project phase
	diags  []Diagnostic
	stats  RunStats
	start  time.Time
}

// NewRun resolves the effective rules and starts a pass.
func (e *Engine) NewRun() *Run {
	run := &Run{
		e:     e,
		docs:  make(map[string]*doctree.Document),
		stats: RunStats{RuleStats: make(map[string]*RuleStat)},
		start: time.Now(),
	}
	for _, r := range e.registry.Resolve(e.cfg) {
		meta := r.Meta()
		if meta.Deprecated {
			e.log.Warn("rule is deprecated",
				"rule", meta.ID, "message", meta.DeprecatedMessage, "replaced_by", meta.ReplacedBy)
		}
		switch rr := r.(type) {
		case ProjectRule:
			run.proj = append(run.proj, rr)
		case CodeRule:
			run.code = append(run.code, rr)
		case *DataRule:
			if err := rr.VerifyCondition(); err != nil {
				// Malformed conditions fail closed; keep the rule so
				// timings still show it, but say why it cannot fire.
				e.log.Warn("rule condition does not parse and will never match",
					"rule", meta.ID, "error", err)
			}
			run.data = append(run.data, rr)
		}
	}
	return run
}

// AddDocument runs the per-document phase and returns the surviving
// diagnostics for that document. The returned slice is exactly what a
// result cache should store. Documents on excluded paths are skipped;
// documents that failed to parse produce one structural diagnostic and
// stay out of the project phase.
func (r *Run) AddDocument(doc *doctree.Document) []Diagnostic {
	if r.e.cfg.ExcludesPath(doc.Path) {
		return nil
	}
	r.docs[doc.Path] = doc
	r.stats.FilesProcessed++

	if doc.ParseErr != nil {
		r.stats.ParseFailures++
		out := r.applyFilters([]Diagnostic{parseErrorDiagnostic(doc)})
		r.diags = append(r.diags, out...)
		return out
	}
	r.parsed = append(r.parsed, doc)

	var produced []Diagnostic

	for _, n := range doc.Nodes() {
		for _, dr := range r.data {
			if !dr.Targets(n) {
				continue
			}
			t0 := time.Now()
			hits := 0
			if dr.Matches(n) {
				hits = 1
				ctx := ContextForNode(n)
				d := NewDiagnostic(dr.RuleMeta, doc, n, RenderMessage(dr.Message, ctx))
				d.Help = dr.Help
				d.Fix = RenderFix(dr.Fix, doc, n, ctx)
				produced = append(produced, d)
			}
			r.stats.addRuleTime(dr.RuleMeta.ID, time.Since(t0), hits)
		}
	}

	for _, cr := range r.code {
		t0 := time.Now()
		out, panicked := runCodeRule(cr, doc)
		r.stats.addRuleTime(cr.Meta().ID, time.Since(t0), len(out))
		if panicked != nil {
			r.e.log.Error("rule panicked, dropping its results for this document",
				"rule", cr.Meta().ID, "file", doc.Path, "panic", panicked)
			continue
		}
		produced = append(produced, out...)
	}

	out := r.applyFilters(produced)
	r.diags = append(r.diags, out...)
	return out
}

// AddCachedDocument registers a document whose per-document
// diagnostics came from a cache, skipping rule execution. The cached
// diagnostics already passed the per-diagnostic filters when they were
// produced, so they are collected as-is. The document still
// participates in the project phase.
func (r *Run) AddCachedDocument(doc *doctree.Document, diags []Diagnostic) {
	if r.e.cfg.ExcludesPath(doc.Path) {
		return
	}
	r.docs[doc.Path] = doc
	r.stats.FilesProcessed++
	if doc.ParseErr != nil {
		r.stats.ParseFailures++
	} else {
		r.parsed = append(r.parsed, doc)
	}
	r.diags = append(r.diags, diags...)
}

// Finish runs the project phase over every parse-OK document, applies
// the baseline and the diagnostics cap, and returns the surviving
// diagnostics, unsorted, with the run statistics.
func (r *Run) Finish() ([]Diagnostic, *RunStats) {
	for _, pr := range r.proj {
		t0 := time.Now()
		out, panicked := runProjectRule(pr, r.parsed)
		r.stats.addRuleTime(pr.Meta().ID, time.Since(t0), len(out))
		if panicked != nil {
			r.e.log.Error("project rule panicked, dropping its results",
				"rule", pr.Meta().ID, "panic", panicked)
			continue
		}
		r.diags = append(r.diags, r.applyFilters(out)...)
	}

	if r.e.baseline != nil {
		before := len(r.diags)
		r.diags = r.e.baseline.Filter(r.diags)
		r.stats.SuppressedBaseline = before - len(r.diags)
	}

	if limit := r.e.cfg.MaxDiagnostics; limit > 0 && len(r.diags) > limit {
		r.stats.Truncated = len(r.diags) - limit
		r.diags = r.diags[:limit]
	}

	files := make(map[string]bool)
	for _, d := range r.diags {
		switch {
		case d.Severity.IsErrorLevel():
			r.stats.Errors++
		case d.Severity.IsWarningLevel():
			r.stats.Warnings++
		default:
			r.stats.Hints++
		}
		files[d.File] = true
	}
	r.stats.FilesWithIssues = len(files)
	r.stats.Elapsed = time.Since(r.start)
	return r.diags, &r.stats
}

// applyFilters applies the per-diagnostic stages in pipeline order:
// severity overrides, the minimum-severity gate, inline suppressions,
// and per-file ignores.
func (r *Run) applyFilters(diags []Diagnostic) []Diagnostic {
	cfg := r.e.cfg
	var out []Diagnostic
	for _, d := range diags {
		if ov, ok := cfg.SeverityOverrides[d.RuleID]; ok {
			d.Severity = ov
		}
		if d.Severity < cfg.MinSeverity {
			r.stats.FilteredMinSeverity++
			continue
		}
		if doc, ok := r.docs[d.File]; ok && doc.SuppressedAt(d.Range.Start.Line, d.RuleID) {
			r.stats.SuppressedInline++
			continue
		}
		if cfg.IsIgnoredForFile(d.File, d.RuleID) {
			r.stats.SuppressedPerFile++
			continue
		}
		out = append(out, d)
	}
	return out
}

func parseErrorDiagnostic(doc *doctree.Document) Diagnostic {
	pos := Position{Line: doc.ParseErr.Line, Column: doc.ParseErr.Column}
	return Diagnostic{
		RuleID:     ParseErrorRuleID,
		File:       doc.Path,
		Range:      Range{Start: pos, End: pos},
		Severity:   SeverityCritical,
		Category:   CategoryValidation,
		Message:    "document is not well-formed: " + doc.ParseErr.Msg,
		SourceLine: doc.LineText(pos.Line),
	}
}

func runCodeRule(cr CodeRule, doc *doctree.Document) (out []Diagnostic, panicked any) {
	defer func() {
		if p := recover(); p != nil {
			out = nil
			panicked = p
		}
	}()
	return cr.Check(doc), nil
}

func runProjectRule(pr ProjectRule, docs []*doctree.Document) (out []Diagnostic, panicked any) {
	defer func() {
		if p := recover(); p != nil {
			out = nil
			panicked = p
		}
	}()
	return pr.CheckProject(docs), nil
}
