package lint

import "time"

// RuleStat accumulates execution metrics for one rule across a run.
type RuleStat struct {
	Duration time.Duration `json:"duration_ns"`
	Hits     int           `json:"hits"`
}

// RunStats summarizes one engine run.
type RunStats struct {
	FilesProcessed  int `json:"files_processed"`
	FilesWithIssues int `json:"files_with_issues"`
	ParseFailures   int `json:"parse_failures"`

	Errors   int `json:"errors"`   // severity high and above
	Warnings int `json:"warnings"` // severity medium
	Hints    int `json:"hints"`    // severity below medium

	FilteredMinSeverity int `json:"filtered_min_severity"`
	SuppressedInline    int `json:"suppressed_inline"`
	SuppressedPerFile   int `json:"suppressed_per_file"`
	SuppressedBaseline  int `json:"suppressed_baseline"`
	Truncated           int `json:"truncated"` // dropped by the max-diagnostics cap

	RuleStats map[string]*RuleStat `json:"rule_stats,omitempty"`
	Elapsed   time.Duration        `json:"elapsed_ns"`
}

// Total returns the number of surviving diagnostics.
func (s *RunStats) Total() int {
	return s.Errors + s.Warnings + s.Hints
}

// ExitCode maps the run outcome to a process exit code: 2 when any
// error-level diagnostic remains, 1 when any warning-level one does,
// 0 otherwise.
func (s *RunStats) ExitCode() int {
	switch {
	case s.Errors > 0:
		return 2
	case s.Warnings > 0:
		return 1
	default:
		return 0
	}
}

func (s *RunStats) addRuleTime(id string, d time.Duration, hits int) {
	st := s.RuleStats[id]
	if st == nil {
		st = &RuleStat{}
		s.RuleStats[id] = st
	}
	st.Duration += d
	st.Hits += hits
}
