package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/go-drift/elements/cmd/elements/internal/demo"
	"github.com/go-drift/elements/cmd/elements/internal/scenario"
	"github.com/go-drift/elements/cmd/elements/internal/watch"
	"github.com/go-drift/elements/pkg/core"
	"github.com/go-drift/elements/pkg/log"
	"github.com/go-drift/elements/pkg/snapshot"
)

func newPlayCmd(a *app) *cobra.Command {
	var watchFile bool

	cmd := &cobra.Command{
		Use:   "play SCENARIO",
		Short: "Run a scenario and print the document after each step",
		Long: `play runs each step of SCENARIO as one event loop segment and prints the
document body afterwards, along with the render passes the step caused and
any errors it reported. With --diff only the changes since the previous step
are printed. With --watch the scenario is re-run whenever the file changes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			out := cmd.OutOrStdout()
			if !watchFile {
				return a.play(cmd.Context(), out, path)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.watch(ctx, out, path)
		},
	}

	cmd.Flags().Bool("diff", false, "print diffs between steps instead of full snapshots")
	cmd.Flags().BoolVarP(&watchFile, "watch", "w", false, "re-run the scenario when the file changes")
	_ = a.v.BindPFlag("play.diff", cmd.Flags().Lookup("diff"))
	return cmd
}

// play loads and runs the scenario at path, writing a report to out.
func (a *app) play(ctx context.Context, out io.Writer, path string) error {
	s, err := scenario.Load(path)
	if err != nil {
		return err
	}

	registry := core.NewRegistry()
	if err := demo.Register(registry); err != nil {
		return err
	}
	runner := &scenario.Runner{Registry: registry, Version: a.scenarioVersion()}
	results, err := runner.Run(ctx, s)
	if err != nil {
		return err
	}

	title := s.Name
	if title == "" {
		title = path
	}
	fmt.Fprintf(out, "# %s\n", title)
	prev := ""
	failures := 0
	for _, r := range results {
		fmt.Fprintf(out, "\n== step %d: %s (renders: %d)\n", r.Index, r.Title, r.Renders)
		switch {
		case !a.cfg.Play.Diff:
			if r.Snapshot != "" {
				fmt.Fprintln(out, r.Snapshot)
			}
		case r.Snapshot == prev:
			fmt.Fprintln(out, "(no change)")
		default:
			fmt.Fprint(out, snapshot.Diff(prev, r.Snapshot))
		}
		for _, e := range r.Errors {
			fmt.Fprintf(out, "! %v\n", e)
		}
		failures += len(r.Errors)
		prev = r.Snapshot
	}
	if failures > 0 {
		log.Warn(log.CatCLI, "scenario reported errors", "scenario", title, "count", failures)
	}
	return nil
}

// watch runs the scenario, then re-runs it on every change until ctx is done.
// Failed runs are reported and watching continues.
func (a *app) watch(ctx context.Context, out io.Writer, path string) error {
	cfg := watch.DefaultConfig(path)
	cfg.DebounceDur = a.cfg.Play.Debounce
	w, err := watch.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	changes, err := w.Start()
	if err != nil {
		return err
	}

	for {
		if err := a.play(ctx, out, path); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			fmt.Fprintf(out, "! %v\n", err)
		}
		fmt.Fprintf(out, "\nwatching %s for changes (Ctrl+C to stop)\n", path)

		select {
		case <-ctx.Done():
			return nil
		case <-changes:
			fmt.Fprintln(out, "\n--- change detected, re-running")
		}
	}
}
