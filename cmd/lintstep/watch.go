// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lintstep/lintstep/internal/config"
	"github.com/lintstep/lintstep/internal/target"
	"github.com/lintstep/lintstep/internal/watch"
	"github.com/lintstep/lintstep/pkg/invocation"
	"github.com/lintstep/lintstep/pkg/types"
)

func newWatchCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var (
		jobs     int
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch [targets...]",
		Short: "Lint once, then re-lint whenever sources or configuration change",
		Long: `Lint the selected targets once, then watch the project root.

A change to a source file re-lints the targets that contain it. A change to
the tool configuration file or a lintstep config file reloads the
configuration and re-lints every selected target. Press Ctrl+C to stop.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := app.openWorkspace(cmd.Context(), flags)
			if err != nil {
				return app.fail(cmd, err, flags.verbose, glamourStyle(nil))
			}
			if err := runWatchMode(cmd.Context(), ws, args, jobs, debounce); err != nil {
				return app.fail(cmd, err, ws.verbose, glamourStyle(ws.cfg))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "maximum concurrent targets (default build.jobs, 0 = one per CPU)")
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period before re-linting")

	return cmd
}

// runWatchMode lints once, then blocks re-linting on change until ctx ends.
func runWatchMode(ctx context.Context, ws *workspace, names []string, jobs int, debounce time.Duration) error {
	out := ws.app.stdout

	steps, err := ws.prepare(ctx, names)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s Watch mode: initial run\n", CmdStyle.Render("→"))
	if _, err := ws.execute(ctx, steps, jobs); err != nil {
		return err
	}

	current := ws
	w, err := watch.New(watch.Config{
		Root:     string(ws.root),
		Suffix:   ws.cfg.Sources.Suffix,
		Files:    watchedConfigFiles(ws),
		Ignore:   ws.cfg.Sources.Exclude,
		Debounce: debounce,
		Logger:   ws.logger,
		OnChange: func(ctx context.Context, change watch.Change) error {
			if len(change.Files) > 0 {
				reloaded, err := ws.app.openWorkspace(ctx, ws.flags)
				if err != nil {
					current.logger.Error("configuration reload failed, keeping the previous one", "err", err)
				} else {
					current = reloaded
					current.logger.Info("configuration reloaded", "files", change.Files)
				}
			}
			relint(ctx, current, names, change, jobs)
			fmt.Fprintf(out, "\n%s Watching for changes...\n", CmdStyle.Render("→"))
			return nil
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	fmt.Fprintf(out, "\n%s Watching for changes (Ctrl+C to stop)...\n", CmdStyle.Render("→"))
	return w.Run(ctx)
}

// relint re-plans and runs the targets affected by change. Failures are
// logged; the watch loop keeps going so the user can fix and save again.
func relint(ctx context.Context, ws *workspace, names []string, change watch.Change, jobs int) {
	targets, err := ws.targets(ctx, names)
	if err != nil {
		ws.logger.Error("target discovery failed", "err", err)
		return
	}
	if len(change.Files) == 0 {
		targets = affectedTargets(targets, change.Sources, len(ws.cfg.Targets) > 0)
	}
	if len(targets) == 0 {
		ws.logger.Debug("no target affected", "sources", change.Sources)
		return
	}

	tool, err := ws.resolveTool()
	if err != nil {
		ws.logger.Error("lint tool unavailable", "err", err)
		return
	}

	fmt.Fprintf(ws.app.stdout, "%s Re-linting %s\n", CmdStyle.Render("→"), strings.Join(targetNames(targets), ", "))
	if _, err := ws.execute(ctx, ws.plan(targets, tool), jobs); err != nil {
		ws.logger.Error("run failed", "err", err)
	}
}

// affectedTargets keeps the targets owning at least one changed source. A
// declared target owns its whole directory tree; a discovered one only its
// own directory.
func affectedTargets(targets []target.Target, sources []string, recursive bool) []target.Target {
	var out []target.Target
	for _, t := range targets {
		dir := string(t.Dir)
		if slices.ContainsFunc(sources, func(src string) bool {
			if recursive {
				rel, err := filepath.Rel(dir, src)
				return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
			}
			return filepath.Dir(src) == dir
		}) {
			out = append(out, t)
		}
	}
	return out
}

// watchedConfigFiles lists the files whose change reloads the configuration:
// the tool config file in effect, a tool config file that would shadow it at
// the project root, and every lintstep config source.
func watchedConfigFiles(ws *workspace) []string {
	var files []string
	if name := ws.builder.ConfigFileName(); name != "" {
		files = append(files, filepath.Join(string(ws.root), name))
		if found, ok := invocation.FindConfigFile(ws.root, name); ok {
			files = append(files, string(found))
		}
	}

	files = append(files, filepath.Join(string(ws.root), config.ProjectFileName))
	if sources, err := config.Sources(config.LoadOptions{
		ConfigFilePath: types.FilesystemPath(ws.flags.configPath),
		BaseDir:        ws.root,
	}); err == nil {
		files = append(files, sources...)
	}

	slices.Sort(files)
	return slices.Compact(files)
}

func targetNames(targets []target.Target) []string {
	names := make([]string, len(targets))
	for i, t := range targets {
		names[i] = t.Name
	}
	return names
}
