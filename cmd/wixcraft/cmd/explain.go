package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/app"
	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/domain/lint"
)

var explainRuleDirs []string

var explainCmd = &cobra.Command{
	Use:   "explain <rule-id>",
	Short: "Show full details for one rule",
	Args:  cobra.ExactArgs(1),
	RunE:  runExplain,
}

func init() {
	f := explainCmd.Flags()
	f.StringSliceVar(&explainRuleDirs, "rules-dir", nil, "Load additional YAML rules from these directories")
}

func runExplain(cmd *cobra.Command, args []string) error {
	a, err := app.New(app.Config{
		Root:     projectRoot(),
		RuleDirs: explainRuleDirs,
		Logger:   newLogger(),
	})
	if err != nil {
		return err
	}
	defer a.Close()

	rule, ok := a.Registry.Get(args[0])
	if !ok {
		return fmt.Errorf("unknown rule %q", args[0])
	}

	if !colorEnabled() {
		color.NoColor = true
	}
	out := cmd.OutOrStdout()
	meta := rule.Meta()

	fmt.Fprintf(out, "%s  %s\n", color.New(color.Bold).Sprint(meta.ID), meta.Name)
	fmt.Fprintf(out, "  severity:  %s\n", severityColor(meta.Severity).Sprint(meta.Severity))
	fmt.Fprintf(out, "  category:  %s\n", meta.Category)
	if len(meta.Tags) > 0 {
		fmt.Fprintf(out, "  tags:      %s\n", strings.Join(meta.Tags, ", "))
	}
	if meta.Since != "" {
		fmt.Fprintf(out, "  since:     %s\n", meta.Since)
	}
	if !meta.Enabled {
		fmt.Fprintln(out, "  enabled:   no")
	}
	if meta.Deprecated {
		note := meta.DeprecatedMessage
		if note == "" && meta.ReplacedBy != "" {
			note = "replaced by " + meta.ReplacedBy
		}
		fmt.Fprintf(out, "  deprecated: %s\n", note)
	}
	if meta.Description != "" {
		fmt.Fprintf(out, "\n%s\n", meta.Description)
	}

	if dr, ok := rule.(*lint.DataRule); ok {
		fmt.Fprintln(out, "\ndeclarative rule:")
		target := dr.TargetElement
		if target == "" {
			target = "(any element)"
		}
		fmt.Fprintf(out, "  target:    %s\n", target)
		fmt.Fprintf(out, "  condition: %s\n", dr.Condition)
		fmt.Fprintf(out, "  message:   %s\n", dr.Message)
		if dr.Help != "" {
			fmt.Fprintf(out, "  help:      %s\n", dr.Help)
		}
		if dr.Fix != nil {
			fmt.Fprintf(out, "  fix:       %s\n", describeFixTemplate(dr.Fix))
		}
	}
	return nil
}

func describeFixTemplate(ft *lint.FixTemplate) string {
	switch ft.Action {
	case lint.FixAddAttribute:
		return fmt.Sprintf("%s %s=%q", ft.Action, ft.AttrName, ft.AttrValue)
	case lint.FixRemoveAttribute:
		return fmt.Sprintf("%s %s", ft.Action, ft.AttrName)
	case lint.FixReplaceAttributeValue:
		return fmt.Sprintf("%s %s=%q", ft.Action, ft.AttrName, ft.AttrValue)
	case lint.FixAddChildElement:
		return fmt.Sprintf("%s <%s>", ft.Action, ft.ChildKind)
	case lint.FixReplaceText:
		return fmt.Sprintf("%s %q", ft.Action, ft.Text)
	default:
		return ft.Action.String()
	}
}
