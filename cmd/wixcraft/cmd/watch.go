package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/adapters/fswatch"
	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/app"
)

var watchRuleDirs []string

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Relint on every change until interrupted",
	Long: `Watch a directory tree and relint whenever an installer source is
saved, created, renamed, or deleted. Results are cached, so a pass
after a change only re-runs rules for the files that changed.`,
	Args:         cobra.MaximumNArgs(1),
	RunE:         runWatch,
	SilenceUsage: true,
}

func init() {
	f := watchCmd.Flags()
	f.StringSliceVar(&watchRuleDirs, "rules-dir", nil, "Load additional YAML rules from these directories")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	root := projectRoot()
	if len(args) == 1 {
		root = args[0]
	}

	a, err := app.New(app.Config{
		Root:         root,
		Lint:         cfg,
		RuleDirs:     watchRuleDirs,
		CacheEnabled: true,
		Logger:       newLogger(),
	})
	if err != nil {
		return err
	}
	defer a.Close()

	if !colorEnabled() {
		color.NoColor = true
	}
	out := cmd.OutOrStdout()

	runOnce := func() {
		fmt.Fprint(out, "\033[2J\033[H")
		res, err := a.Run([]string{root})
		if err != nil {
			fmt.Fprintf(os.Stderr, "wixcraft: %v\n", err)
			return
		}
		fmt.Fprint(out, formatText(res, 0))
		fmt.Fprintln(out, "\nwatching for changes, ctrl-c to stop")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := fswatch.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Stop()

	// Buffered so a batch arriving mid-lint never stalls the watcher's
	// event loop.
	changes := make(chan []string, 16)
	if err := w.Watch(root, func(paths []string) {
		changes <- paths
	}); err != nil {
		return err
	}

	runOnce()
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "stopped")
			return nil
		case paths := <-changes:
			a.PruneDeleted(paths)
			runOnce()
		}
	}
}
