// Package lint implements the rule model, the condition language, and
// the analysis engine that turns parsed documents into diagnostics.
package lint

import (
	"encoding/json"
	"fmt"
)

// Severity ranks how serious a finding is. Values are ordered:
// Info < Low < Medium < High < Critical < Blocker.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
	SeverityCritical
	SeverityBlocker
)

// String returns the canonical lowercase severity label.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	case SeverityBlocker:
		return "blocker"
	default:
		return "unknown"
	}
}

// SeverityFromName maps a severity name to its constant. Accepts the
// canonical names plus the aliases "information", "warning", and
// "error". Returns -1 for unknown names.
func SeverityFromName(name string) Severity {
	switch name {
	case "info", "information":
		return SeverityInfo
	case "low":
		return SeverityLow
	case "medium", "warning":
		return SeverityMedium
	case "high":
		return SeverityHigh
	case "critical", "error":
		return SeverityCritical
	case "blocker":
		return SeverityBlocker
	default:
		return -1
	}
}

// IsErrorLevel reports whether the severity maps to the "error" bucket
// used for exit codes and SARIF levels.
func (s Severity) IsErrorLevel() bool { return s >= SeverityHigh }

// IsWarningLevel reports whether the severity maps to the "warning"
// bucket.
func (s Severity) IsWarningLevel() bool { return s == SeverityMedium }

// MarshalJSON encodes the severity as its lowercase name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a severity from its name.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	v := SeverityFromName(name)
	if v < 0 {
		return fmt.Errorf("unknown severity %q", name)
	}
	*s = v
	return nil
}
