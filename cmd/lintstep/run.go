// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/lintstep/lintstep/internal/issue"
	"github.com/lintstep/lintstep/internal/runner"
)

func newRunCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var (
		jobs   int
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "run [targets...]",
		Short: "Lint the selected targets",
		Long: `Resolve the lint tool, plan every selected target and run the declared
commands. Each target's output is printed as one block. The exit code is
that of the first failing target, or 1 if a target could not be launched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := app.openWorkspace(cmd.Context(), flags)
			if err != nil {
				return app.fail(cmd, err, flags.verbose, glamourStyle(nil))
			}
			steps, err := ws.prepare(cmd.Context(), args)
			if err != nil {
				return app.fail(cmd, err, ws.verbose, glamourStyle(ws.cfg))
			}

			if dryRun {
				renderPlanText(app.stdout, steps)
				return nil
			}

			summary, err := ws.execute(cmd.Context(), steps, jobs)
			if err != nil {
				return app.fail(cmd, err, ws.verbose, glamourStyle(ws.cfg))
			}
			if summary.OK() {
				return nil
			}

			if summary.Errored > 0 {
				app.renderIssue(issue.ToolLaunchFailedId, glamourStyle(ws.cfg))
			} else if ws.verbose {
				app.renderIssue(issue.LintFailedId, glamourStyle(ws.cfg))
			}
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true
			return &ExitError{Code: summary.ExitCode}
		},
	}

	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "maximum concurrent targets (default build.jobs, 0 = one per CPU)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the planned commands without running them")

	return cmd
}

// execute runs steps and prints a per-target report. jobs < 1 falls back to
// the configured concurrency.
func (w *workspace) execute(ctx context.Context, steps []runner.Step, jobs int) (runner.Summary, error) {
	if jobs < 1 {
		jobs = w.cfg.Build.EffectiveJobs()
	}

	r := &runner.Runner{
		Jobs:    jobs,
		Stdout:  w.app.stdout,
		Stderr:  w.app.stderr,
		Logger:  w.logger,
		WorkDir: string(w.root),
		Sandbox: w.sandbox,
	}
	results, err := r.Run(ctx, steps)
	if err != nil {
		return runner.Summary{}, err
	}

	summary := runner.Summarize(results)
	renderResults(w.app.stdout, results, summary)
	return summary, nil
}

// renderResults prints one status line per result followed by the totals.
func renderResults(w io.Writer, results []runner.Result, summary runner.Summary) {
	fmt.Fprintln(w)
	for _, r := range results {
		switch {
		case r.Skipped:
			fmt.Fprintf(w, "%s %s %s\n", WarningStyle.Render("-"), r.Target, WarningStyle.Render("skipped (no sources)"))
		case r.Err != nil:
			fmt.Fprintf(w, "%s %s %s\n", ErrorStyle.Render("!"), r.Target, ErrorStyle.Render(r.Err.Error()))
		case !r.ExitCode.IsSuccess():
			fmt.Fprintf(w, "%s %s %s %s\n", ErrorStyle.Render("✗"), r.Target,
				ErrorStyle.Render("exit "+r.ExitCode.String()), VerboseStyle.Render(r.Duration.Round(time.Millisecond).String()))
		default:
			fmt.Fprintf(w, "%s %s %s\n", SuccessStyle.Render("✓"), r.Target, VerboseStyle.Render(r.Duration.Round(time.Millisecond).String()))
		}
	}

	line := fmt.Sprintf("%d passed, %d failed, %d errored, %d skipped", summary.Passed, summary.Failed, summary.Errored, summary.Skipped)
	if summary.OK() {
		fmt.Fprintln(w, SuccessStyle.Render(line))
		return
	}
	fmt.Fprintln(w, ErrorStyle.Render(line))
}
