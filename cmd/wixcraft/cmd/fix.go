package cmd

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/app"
	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/domain/lint"
)

var (
	fixWrite    bool
	fixRules    []string
	fixRuleDirs []string
)

var fixCmd = &cobra.Command{
	Use:   "fix [paths...]",
	Short: "Preview or apply automatic fixes",
	Long: `Run the linter and show the fixes it can apply as diffs. Nothing is
written unless --write is given. The autoFix and confirmFix config
lists scope which rules apply automatically; --rule overrides both.`,
	Args:         cobra.ArbitraryArgs,
	RunE:         runFix,
	SilenceUsage: true,
}

func init() {
	f := fixCmd.Flags()
	f.BoolVar(&fixWrite, "write", false, "Write fixes to the source files")
	f.StringSliceVar(&fixRules, "rule", nil, "Only fix these rule IDs/wildcards")
	f.StringSliceVar(&fixRuleDirs, "rules-dir", nil, "Load additional YAML rules from these directories")
}

func runFix(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := app.New(app.Config{
		Root:     projectRoot(),
		Lint:     cfg,
		RuleDirs: fixRuleDirs,
		Logger:   newLogger(),
	})
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.Run(args)
	if err != nil {
		return err
	}

	selected, needConfirm := selectFixes(res.Diagnostics, cfg)
	out := cmd.OutOrStdout()
	if !colorEnabled() {
		color.NoColor = true
	}

	if len(selected) == 0 {
		fmt.Fprintln(out, "no applicable fixes")
		if needConfirm > 0 {
			fmt.Fprintf(out, "%s confirmation; select them explicitly with --rule\n", pluralVerb(needConfirm, "fix needs", "fixes need"))
		}
		return nil
	}

	if !fixWrite {
		if err := previewFixes(out, selected); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s available; rerun with --write to apply\n", plural(len(selected), "fix"))
		if needConfirm > 0 {
			fmt.Fprintf(out, "%s confirmation; select them explicitly with --rule\n", pluralVerb(needConfirm, "fix needs", "fixes need"))
		}
		return nil
	}

	applied, conflicted, files, err := writeFixes(selected)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "fixed %s in %s\n", plural(applied, "issue"), plural(files, "file"))
	if conflicted > 0 {
		fmt.Fprintf(out, "%s overlapped an earlier fix; rerun fix to apply them\n", plural(conflicted, "fix"))
	}
	if needConfirm > 0 {
		fmt.Fprintf(out, "%s confirmation; select them explicitly with --rule\n", pluralVerb(needConfirm, "fix needs", "fixes need"))
	}
	return nil
}

// selectFixes keeps the diagnostics whose fixes should run. --rule
// patterns override the config policy entirely; otherwise a non-empty
// autoFix list acts as an allow-list and confirmFix entries are held
// back for an explicit --rule run.
func selectFixes(diags []lint.Diagnostic, cfg lint.Config) (selected []lint.Diagnostic, needConfirm int) {
	for _, d := range diags {
		if d.Fix == nil || len(d.Fix.Edits) == 0 {
			continue
		}
		if len(fixRules) > 0 {
			if matchesAnyPattern(fixRules, d.RuleID) {
				selected = append(selected, d)
			}
			continue
		}
		if len(cfg.AutoFix) > 0 && !matchesAnyPattern(cfg.AutoFix, d.RuleID) {
			continue
		}
		if matchesAnyPattern(cfg.ConfirmFix, d.RuleID) {
			needConfirm++
			continue
		}
		selected = append(selected, d)
	}
	return selected, needConfirm
}

func matchesAnyPattern(patterns []string, id string) bool {
	for _, p := range patterns {
		if lint.MatchRuleID(p, id) {
			return true
		}
	}
	return false
}

// previewFixes renders each fix as a unified-style diff of its own
// edits, independent of the others.
func previewFixes(out io.Writer, selected []lint.Diagnostic) error {
	sources := make(map[string][]byte)
	for _, d := range selected {
		src, ok := sources[d.File]
		if !ok {
			var err error
			src, err = os.ReadFile(d.File)
			if err != nil {
				return err
			}
			sources[d.File] = src
		}
		fixed, err := lint.ApplyEdits(src, d.Fix.Edits)
		if err != nil {
			return fmt.Errorf("render fix for %s: %w", d.RuleID, err)
		}
		fmt.Fprintf(out, "%s:%d:%d %s %s\n",
			d.File, d.Range.Start.Line, d.Range.Start.Column,
			color.New(color.FgMagenta).Sprintf("[%s]", d.RuleID),
			d.Fix.Description)
		fmt.Fprint(out, renderDiff(d.File, src, fixed))
		fmt.Fprintln(out)
	}
	return nil
}

// writeFixes applies fixes file by file. Fixes are applied atomically
// per diagnostic: when any edit would overlap one already accepted for
// the file, the whole fix is held for a later run.
func writeFixes(selected []lint.Diagnostic) (applied, conflicted, files int, err error) {
	byFile := make(map[string][]lint.Diagnostic)
	var order []string
	for _, d := range selected {
		if _, ok := byFile[d.File]; !ok {
			order = append(order, d.File)
		}
		byFile[d.File] = append(byFile[d.File], d)
	}

	for _, path := range order {
		src, err := os.ReadFile(path)
		if err != nil {
			return applied, conflicted, files, err
		}

		var accepted []lint.TextEdit
		for _, d := range byFile[path] {
			if overlapsAny(accepted, d.Fix.Edits) {
				conflicted++
				continue
			}
			accepted = append(accepted, d.Fix.Edits...)
			applied++
		}
		if len(accepted) == 0 {
			continue
		}

		fixed, err := lint.ApplyEdits(src, accepted)
		if err != nil {
			return applied, conflicted, files, fmt.Errorf("apply fixes to %s: %w", path, err)
		}
		mode := fs.FileMode(0o644)
		if st, err := os.Stat(path); err == nil {
			mode = st.Mode()
		}
		if err := os.WriteFile(path, fixed, mode); err != nil {
			return applied, conflicted, files, err
		}
		files++
	}
	return applied, conflicted, files, nil
}

func overlapsAny(accepted []lint.TextEdit, edits []lint.TextEdit) bool {
	for _, e := range edits {
		for _, a := range accepted {
			if e.StartOffset < a.EndOffset && a.StartOffset < e.EndOffset {
				return true
			}
		}
	}
	return false
}

// renderDiff shows the changed region only: common leading and
// trailing lines are trimmed and one @@ header locates the hunk.
func renderDiff(path string, before, after []byte) string {
	b := strings.Split(string(before), "\n")
	a := strings.Split(string(after), "\n")

	prefix := 0
	for prefix < len(b) && prefix < len(a) && b[prefix] == a[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(b)-prefix && suffix < len(a)-prefix && b[len(b)-1-suffix] == a[len(a)-1-suffix] {
		suffix++
	}

	var sb strings.Builder
	gray := color.New(color.FgHiBlack)
	sb.WriteString(gray.Sprintf("--- %s\n", path))
	sb.WriteString(gray.Sprintf("+++ %s (fixed)\n", path))
	sb.WriteString(gray.Sprintf("@@ line %d @@\n", prefix+1))
	del := color.New(color.FgRed)
	add := color.New(color.FgGreen)
	for _, line := range b[prefix : len(b)-suffix] {
		sb.WriteString(del.Sprintf("-%s\n", line))
	}
	for _, line := range a[prefix : len(a)-suffix] {
		sb.WriteString(add.Sprintf("+%s\n", line))
	}
	return sb.String()
}

func pluralVerb(n int, singular, pluralForm string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, pluralForm)
}
