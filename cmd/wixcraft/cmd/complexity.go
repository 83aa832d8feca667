package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/adapters/wixml"
	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/app"
	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/domain/complexity"
)

var (
	complexityFormat    string
	complexityThreshold int
)

var complexityCmd = &cobra.Command{
	Use:   "complexity [paths...]",
	Short: "Report structural complexity per source file",
	Long: `Compute a cyclomatic-style complexity score for each installer source:
conditions, searches, and conditional features count as decision points.
Use --threshold to only report files at or above a score.`,
	Args: cobra.ArbitraryArgs,
	RunE: runComplexity,
}

func init() {
	f := complexityCmd.Flags()
	f.StringVar(&complexityFormat, "format", "text", "Output format: text or json")
	f.IntVar(&complexityThreshold, "threshold", 0, "Only report files with a cyclomatic score at or above this")
}

func runComplexity(cmd *cobra.Command, args []string) error {
	if complexityFormat != "text" && complexityFormat != "json" {
		return fmt.Errorf("unknown format %q (want text or json)", complexityFormat)
	}

	files, err := app.DiscoverFiles(args)
	if err != nil {
		return err
	}

	analyzer := complexity.NewAnalyzer(complexity.DefaultConfig())
	var reports []complexity.Report
	for _, path := range files {
		doc, err := wixml.ParseFile(path)
		if err != nil {
			return err
		}
		if doc.ParseErr != nil {
			fmt.Fprintf(os.Stderr, "wixcraft: %s:%v\n", path, doc.ParseErr)
			continue
		}
		rep := analyzer.Report(doc)
		if rep.Metrics.Cyclomatic < complexityThreshold {
			continue
		}
		reports = append(reports, rep)
	}

	out := cmd.OutOrStdout()
	if complexityFormat == "json" {
		if reports == nil {
			reports = []complexity.Report{}
		}
		data, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if !colorEnabled() {
		color.NoColor = true
	}
	for _, rep := range reports {
		fmt.Fprintf(out, "%s\n", color.New(color.Bold).Sprint(rep.File))
		fmt.Fprintf(out, "  cyclomatic:      %d (%s)\n", rep.Metrics.Cyclomatic, ratingColor(rep.Rating).Sprint(rep.Rating))
		fmt.Fprintf(out, "  decision points: %d\n", rep.Metrics.DecisionPoints)
		fmt.Fprintf(out, "  max depth:       %d\n", rep.Metrics.MaxDepth)
		fmt.Fprintf(out, "  nodes:           %d\n", rep.Metrics.NodeCount)
		fmt.Fprintf(out, "  attributes:      %d\n", rep.Metrics.AttributeCount)
		if len(rep.Elements) > 0 {
			fmt.Fprintf(out, "  top elements:    %s\n", topElements(rep.Elements, 5))
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "%s analyzed\n", plural(len(reports), "file"))
	return nil
}

func ratingColor(rating string) *color.Color {
	switch rating {
	case "low":
		return color.New(color.FgGreen)
	case "moderate":
		return color.New(color.FgYellow)
	case "high":
		return color.New(color.FgRed)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

func topElements(stats []complexity.ElementStat, n int) string {
	if len(stats) > n {
		stats = stats[:n]
	}
	parts := make([]string, len(stats))
	for i, st := range stats {
		parts[i] = fmt.Sprintf("%s (%d)", st.Kind, st.Count)
	}
	return strings.Join(parts, ", ")
}
