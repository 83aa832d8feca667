package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/domain/lint"
)

var initFormat string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().StringVar(&initFormat, "format", "yaml", "Config format: yaml, json, or toml")
}

// initFileNames maps a format to the dotfile init writes. Discovery
// accepts more spellings; init always writes the leading candidate.
var initFileNames = map[string]string{
	"yaml": ".wixcraft.yaml",
	"yml":  ".wixcraft.yaml",
	"json": ".wixcraft.json",
	"toml": ".wixcraft.toml",
}

func runInit(cmd *cobra.Command, args []string) error {
	name, ok := initFileNames[initFormat]
	if !ok {
		return fmt.Errorf("unsupported config format %q (want yaml, json, or toml)", initFormat)
	}
	if _, err := os.Stat(name); err == nil {
		return fmt.Errorf("%s already exists", name)
	}

	cfg := lint.DefaultConfig()
	cfg.ExcludePaths = []string{"bin/*", "obj/*"}
	data, err := lint.EncodeConfig(cfg, initFormat)
	if err != nil {
		return err
	}
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", name)
	return nil
}
