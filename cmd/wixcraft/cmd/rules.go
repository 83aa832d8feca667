package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/app"
	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/domain/lint"
)

var (
	rulesCategory string
	rulesRuleDirs []string
	rulesVerify   bool
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List registered rules",
	Long: `List every registered rule with its ID, default severity, category,
and name. Rules disabled by default or deprecated are marked.`,
	Args: cobra.NoArgs,
	RunE: runRules,
}

func init() {
	f := rulesCmd.Flags()
	f.StringVar(&rulesCategory, "category", "", "Only list rules in this category")
	f.StringSliceVar(&rulesRuleDirs, "rules-dir", nil, "Load additional YAML rules from these directories")
	f.BoolVar(&rulesVerify, "verify", false, "Compile every rule condition and report failures")
}

func runRules(cmd *cobra.Command, args []string) error {
	var category lint.Category
	filtered := rulesCategory != ""
	if filtered {
		category = lint.CategoryFromName(rulesCategory)
		if category < 0 {
			return fmt.Errorf("unknown category %q", rulesCategory)
		}
	}

	a, err := app.New(app.Config{
		Root:     projectRoot(),
		RuleDirs: rulesRuleDirs,
		Logger:   newLogger(),
	})
	if err != nil {
		return err
	}
	defer a.Close()

	if rulesVerify {
		return verifyRules(cmd, a.Registry)
	}

	out := cmd.OutOrStdout()
	n := 0
	for _, r := range a.Registry.Rules() {
		meta := r.Meta()
		if filtered && meta.Category != category {
			continue
		}
		state := ""
		if !meta.Enabled {
			state = " (disabled)"
		}
		if meta.Deprecated {
			state += " (deprecated)"
		}
		fmt.Fprintf(out, "%-10s %-8s %-15s %s%s\n", meta.ID, meta.Severity, meta.Category, meta.Name, state)
		n++
	}
	fmt.Fprintf(out, "\n%s\n", plural(n, "rule"))
	return nil
}

func verifyRules(cmd *cobra.Command, reg *lint.Registry) error {
	failures := reg.VerifyConditions()
	if len(failures) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "all rule conditions compile")
		return nil
	}
	ids := make([]string, 0, len(failures))
	for id := range failures {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", id, failures[id])
	}
	return fmt.Errorf("%d rule conditions failed to compile", len(failures))
}
