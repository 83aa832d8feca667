package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/adapters/sarifout"
	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/app"
	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/domain/lint"
)

var (
	lintFormat      string
	lintSelect      []string
	lintIgnore      []string
	lintMinSeverity string
	lintSeverities  []string
	lintExcludes    []string
	lintRuleDirs    []string
	lintBaseline    string
	lintUpdateBase  bool
	lintStatistics  bool
	lintMaxDiags    int
	lintUseCache    bool
	lintContext     int
	lintQuiet       bool
)

var lintCmd = &cobra.Command{
	Use:           "lint [paths...]",
	Short:         "Analyze installer sources and report findings",
	Long:          "Runs every enabled rule over the given files or directories (default: the current directory) and reports the findings. Exit code 2 means error-level findings, 1 warning-level, 0 clean.",
	Args:          cobra.ArbitraryArgs,
	RunE:          runLint,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	f := lintCmd.Flags()
	f.StringVar(&lintFormat, "format", "text", "Output format: text, json, or sarif")
	f.StringSliceVar(&lintSelect, "select", nil, "Only run these rule IDs/wildcards")
	f.StringSliceVar(&lintIgnore, "ignore", nil, "Additionally disable these rule IDs/wildcards")
	f.StringVar(&lintMinSeverity, "min-severity", "", "Drop findings below this severity")
	f.StringArrayVar(&lintSeverities, "severity", nil, "Override a rule's severity (rule=level, repeatable)")
	f.StringSliceVar(&lintExcludes, "exclude", nil, "Exclude paths matching these globs")
	f.StringSliceVar(&lintRuleDirs, "rules-dir", nil, "Load additional YAML rules from these directories")
	f.StringVar(&lintBaseline, "baseline", "", "Filter findings recorded in this baseline file")
	f.BoolVar(&lintUpdateBase, "update-baseline", false, "Record current findings into the baseline")
	f.BoolVar(&lintStatistics, "statistics", false, "Print per-rule timing statistics")
	f.IntVar(&lintMaxDiags, "max-diagnostics", 0, "Cap the number of reported findings (0 = unlimited)")
	f.BoolVar(&lintUseCache, "cache", false, "Reuse per-file results between runs")
	f.IntVar(&lintContext, "context", 0, "Show N source lines around each finding")
	f.BoolVarP(&lintQuiet, "quiet", "q", false, "Suppress findings, keep the exit code")
}

func runLint(cmd *cobra.Command, args []string) error {
	cfg, err := buildLintConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "wixcraft: %v\n", err)
		return err
	}

	a, err := app.New(app.Config{
		Root:           projectRoot(),
		Lint:           cfg,
		RuleDirs:       lintRuleDirs,
		BaselinePath:   lintBaseline,
		UpdateBaseline: lintUpdateBase,
		CacheEnabled:   lintUseCache,
		Logger:         newLogger(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "wixcraft: %v\n", err)
		return err
	}
	defer a.Close()

	res, err := a.Run(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wixcraft: %v\n", err)
		return err
	}

	if err := renderResult(cmd.OutOrStdout(), a, res); err != nil {
		fmt.Fprintf(os.Stderr, "wixcraft: %v\n", err)
		return err
	}

	if code := res.Stats.ExitCode(); code != 0 {
		return lintExit{code}
	}
	return nil
}

// buildLintConfig merges CLI flags over the file config: select
// replaces, ignore extends, scalars override.
func buildLintConfig() (lint.Config, error) {
	switch lintFormat {
	case "text", "json", "sarif":
	default:
		return lint.Config{}, fmt.Errorf("unknown format %q (want text, json, or sarif)", lintFormat)
	}

	cfg, err := loadConfig()
	if err != nil {
		return lint.Config{}, err
	}

	if len(lintSelect) > 0 {
		cfg.Enabled = lintSelect
	}
	cfg.Disabled = append(cfg.Disabled, lintIgnore...)

	if lintMinSeverity != "" {
		sev := lint.SeverityFromName(lintMinSeverity)
		if sev < 0 {
			return lint.Config{}, fmt.Errorf("unknown severity %q", lintMinSeverity)
		}
		cfg.MinSeverity = sev
	}

	for _, spec := range lintSeverities {
		id, level, ok := strings.Cut(spec, "=")
		if !ok {
			return lint.Config{}, fmt.Errorf("malformed --severity %q (want rule=level)", spec)
		}
		sev := lint.SeverityFromName(level)
		if sev < 0 {
			return lint.Config{}, fmt.Errorf("unknown severity %q for rule %s", level, id)
		}
		if cfg.SeverityOverrides == nil {
			cfg.SeverityOverrides = make(map[string]lint.Severity)
		}
		cfg.SeverityOverrides[id] = sev
	}

	cfg.ExcludePaths = append(cfg.ExcludePaths, lintExcludes...)
	if lintMaxDiags > 0 {
		cfg.MaxDiagnostics = lintMaxDiags
	}
	return cfg, nil
}

func renderResult(w io.Writer, a *app.App, res *app.RunResult) error {
	attachContext(res.Diagnostics, lintContext)
	switch lintFormat {
	case "text":
		if !colorEnabled() {
			color.NoColor = true
		}
		if !lintQuiet {
			fmt.Fprint(w, formatText(res, lintContext))
		}
		if lintUpdateBase {
			fmt.Fprintf(w, "baseline: %d new findings recorded\n", res.BaselineAdded)
		}
		if lintStatistics {
			fmt.Fprint(w, formatStatistics(res.Stats))
		}
		return nil

	case "json":
		data, err := formatJSON(res)
		if err != nil {
			return err
		}
		_, err = w.Write(append(data, '\n'))
		return err

	case "sarif":
		return sarifout.Render(w, res.Diagnostics, a.Registry.Rules())
	}
	return fmt.Errorf("unknown format %q", lintFormat)
}
