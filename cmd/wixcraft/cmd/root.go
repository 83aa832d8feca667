package cmd

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/domain/lint"
)

var (
	flagVerbose bool
	flagDebug   bool
	flagNoColor bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "wixcraft",
	Short: "A linter for WiX installer sources",
	Long:  "Static analysis for .wxs/.wxi installer authoring: validation, best practices, security checks, and machine-applicable fixes.",
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Verbose logging")
	pf.BoolVar(&flagDebug, "debug", false, "Debug logging")
	pf.BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	pf.StringVar(&flagConfig, "config", "", "Config file (default: discovered from the working directory)")

	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(complexityCmd)
	rootCmd.AddCommand(baselineCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(initCmd)
}

// projectRoot returns the project root (cwd by default).
func projectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	return dir
}

// newLogger builds the CLI logger. Logs go to stderr so stdout stays
// machine-readable.
func newLogger() hclog.Logger {
	level := hclog.Warn
	if flagVerbose {
		level = hclog.Info
	}
	if flagDebug {
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "wixcraft",
		Output: os.Stderr,
		Level:  level,
	})
}

// colorEnabled resolves --no-color plus the NO_COLOR convention.
func colorEnabled() bool {
	return !flagNoColor && os.Getenv("NO_COLOR") == ""
}

// loadConfig resolves the effective file config: --config wins, then
// discovery walking up from the working directory.
func loadConfig() (lint.Config, error) {
	if flagConfig != "" {
		return lint.LoadConfigFile(flagConfig)
	}
	wd, err := os.Getwd()
	if err != nil {
		return lint.Config{}, err
	}
	if path, ok := lint.FindConfig(wd); ok {
		return lint.LoadConfigFile(path)
	}
	return lint.DefaultConfig(), nil
}
