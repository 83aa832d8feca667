// Package checks holds the built-in compiled rules: checks that need more
// than a declarative condition, such as value validation, child element
// lookups, and cross-document reference tracking.
//
// Single-document checks implement lint.CodeRule. Cross-document checks
// implement lint.ProjectRule and run in the project phase, after every
// file in the run has been parsed.
package checks

import (
	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/domain/lint"
	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/ports"
)

// AllRules returns every built-in compiled rule. The scanner feeds the
// dead-code checks; passing nil disables them.
func AllRules(scanner ports.ReferenceScanner) []lint.Rule {
	rules := []lint.Rule{
		NewInvalidGUID(),
		NewRequireMajorUpgrade(),
		NewSensitiveProperty(),
		NewExcessiveComplexity(0),
		NewDuplicateID(),
		NewDanglingRef(),
	}
	if scanner != nil {
		rules = append(rules, NewUnreferencedComponent(scanner))
	}
	return rules
}
