// Package sarifout renders diagnostics as SARIF 2.1.0 for code-scanning
// uploads. It wraps the owenrumney/go-sarif builder.
package sarifout

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/domain/lint"
)

const informationURI = "https://github.com/Tsahi-Elkayam/wixcraft-sub006"

// Render writes diags as a single-run SARIF report. rules fills the
// driver's rule table; diagnostics whose rule is not in the slice still
// render, they just have no table entry to point back at.
func Render(w io.Writer, diags []lint.Diagnostic, rules []lint.Rule) error {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return fmt.Errorf("create sarif report: %w", err)
	}

	run := sarif.NewRunWithInformationURI("wixcraft", informationURI)

	for _, r := range rules {
		meta := r.Meta()
		desc := meta.Description
		if desc == "" {
			desc = meta.Name
		}
		run.AddRule(meta.ID).
			WithDescription(desc).
			WithDefaultConfiguration(&sarif.ReportingConfiguration{
				Level: toSarifLevel(meta.Severity),
			})
	}

	for _, d := range diags {
		location := sarif.NewLocation().WithPhysicalLocation(
			sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewArtifactLocation().WithUri(filepath.ToSlash(d.File))).
				WithRegion(sarif.NewRegion().
					WithStartLine(d.Range.Start.Line).
					WithStartColumn(d.Range.Start.Column).
					WithEndLine(d.Range.End.Line).
					WithEndColumn(d.Range.End.Column)),
		)

		result := sarif.NewRuleResult(d.RuleID).
			WithMessage(sarif.NewTextMessage(d.Message)).
			WithLevel(toSarifLevel(d.Severity)).
			WithLocations([]*sarif.Location{location})
		run.AddResult(result)
	}

	report.AddRun(run)
	return report.PrettyWrite(w)
}

// toSarifLevel maps the six-step severity scale onto SARIF's three
// levels: the error bucket is "error", the warning bucket "warning",
// everything below is "note".
func toSarifLevel(sev lint.Severity) string {
	switch {
	case sev.IsErrorLevel():
		return "error"
	case sev.IsWarningLevel():
		return "warning"
	default:
		return "note"
	}
}
