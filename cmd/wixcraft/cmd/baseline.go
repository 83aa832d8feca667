package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/app"
	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/domain/baseline"
)

var (
	baselineFile     string
	baselineRuleDirs []string
)

var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Create and maintain a baseline of accepted findings",
	Long: `A baseline records current findings so they stop being reported,
letting an established project adopt the linter incrementally. New
findings are still reported; lint --baseline applies the file.`,
}

var baselineCreateCmd = &cobra.Command{
	Use:   "create [paths...]",
	Short: "Record all current findings as accepted",
	Args:  cobra.ArbitraryArgs,
	RunE:  runBaselineCreate,
}

var baselinePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Drop entries whose files no longer exist",
	Args:  cobra.NoArgs,
	RunE:  runBaselinePrune,
}

var baselineShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Summarize the baseline contents",
	Args:  cobra.NoArgs,
	RunE:  runBaselineShow,
}

func init() {
	pf := baselineCmd.PersistentFlags()
	pf.StringVar(&baselineFile, "file", ".wixcraft-baseline.json", "Baseline file path")
	pf.StringSliceVar(&baselineRuleDirs, "rules-dir", nil, "Load additional YAML rules from these directories")
	baselineCmd.AddCommand(baselineCreateCmd, baselinePruneCmd, baselineShowCmd)
}

func runBaselineCreate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := app.New(app.Config{
		Root:     projectRoot(),
		Lint:     cfg,
		RuleDirs: baselineRuleDirs,
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

	b := baseline.New()
	n := b.AddDiagnostics(res.Diagnostics, a.Root)
	if err := b.Save(baselineFile); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "baseline %s created with %s\n", baselineFile, plural(n, "finding"))
	return nil
}

func runBaselinePrune(cmd *cobra.Command, args []string) error {
	b, err := baseline.Load(baselineFile)
	if err != nil {
		return err
	}
	removed := b.PruneMissingFiles(projectRoot())
	if err := b.Save(baselineFile); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s removed, %d left\n", plural(removed, "stale entry"), len(b.Issues))
	return nil
}

func runBaselineShow(cmd *cobra.Command, args []string) error {
	b, err := baseline.Load(baselineFile)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "baseline %s\n", baselineFile)
	fmt.Fprintf(out, "  version: %d\n", b.Version)
	fmt.Fprintf(out, "  created: %s\n", b.CreatedAt)
	fmt.Fprintf(out, "  updated: %s\n", b.UpdatedAt)
	fmt.Fprintf(out, "  issues:  %d\n", len(b.Issues))

	if len(b.Issues) == 0 {
		return nil
	}
	counts := make(map[string]int)
	for _, issue := range b.Issues {
		counts[issue.RuleID]++
	}
	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if counts[ids[i]] != counts[ids[j]] {
			return counts[ids[i]] > counts[ids[j]]
		}
		return ids[i] < ids[j]
	})
	fmt.Fprintln(out, "\nby rule:")
	for _, id := range ids {
		fmt.Fprintf(out, "  %-10s %d\n", id, counts[id])
	}
	return nil
}
