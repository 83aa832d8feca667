// wixcraft is a linter for WiX-style installer sources.
// Single binary: rule engine, baseline, complexity metrics, and fixes.
package main

import (
	"os"

	"github.com/Tsahi-Elkayam/wixcraft-sub006/cmd/wixcraft/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if code := cmd.LintExitCode(err); code >= 0 {
			os.Exit(code)
		}
		os.Exit(1)
	}
}
