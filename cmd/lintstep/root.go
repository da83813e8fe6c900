// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlagValues holds the persistent flags shared by every subcommand.
type rootFlagValues struct {
	configPath string
	verbose    bool
	root       string
	toolPath   string
}

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlagValues{}

	rootCmd := &cobra.Command{
		Use:   "lintstep",
		Short: "Run a source linter as a pre-build step",
		Long: TitleStyle.Render("lintstep") + SubtitleStyle.Render(" - run a source linter as a pre-build step") + `

lintstep turns each compilation unit of a project into one lint tool
invocation: fixed mode flags, the nearest tool configuration file found
above the project root, and the unit's source files.

` + SubtitleStyle.Render("Examples:") + `
  lintstep targets          List discovered compilation units
  lintstep plan             Print the command declared for each unit
  lintstep run              Lint every unit
  lintstep run Core --jobs 2
  lintstep watch            Re-lint on every change
  lintstep find-config      Show the tool configuration in effect`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default is <config dir>/lintstep/config.cue plus ./lintstep.cue)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	pf.StringVar(&flags.root, "root", "", "project root (default is the working directory)")
	pf.StringVar(&flags.toolPath, "tool-path", "", "lint executable, bypassing the PATH lookup")

	rootCmd.AddCommand(
		newTargetsCommand(app, flags),
		newPlanCommand(app, flags),
		newRunCommand(app, flags),
		newWatchCommand(app, flags),
		newFindConfigCommand(app, flags),
		newConfigCommand(app, flags),
	)

	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version != "dev" {
		return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev (built from source)"
}

// Execute runs the CLI and exits with the command's exit code.
// This is called by main.main().
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}

	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(int(exitCodeFor(err)))
	}
}
