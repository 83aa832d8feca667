package cmd

import "fmt"

// lintExit is returned by lint/watch to signal a specific exit code:
// 2 = error-level findings, 1 = warning-level findings, 0 = clean.
type lintExit struct{ code int }

func (e lintExit) Error() string {
	switch e.code {
	case 1:
		return "warnings found"
	case 2:
		return "errors found"
	default:
		return fmt.Sprintf("lint exit %d", e.code)
	}
}

// LintExitCode extracts the exit code from a lintExit error.
// Returns -1 if the error is not a lintExit.
func LintExitCode(err error) int {
	if le, ok := err.(lintExit); ok {
		return le.code
	}
	return -1
}
