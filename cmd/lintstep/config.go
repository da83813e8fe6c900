// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lintstep/lintstep/internal/config"
	"github.com/lintstep/lintstep/pkg/types"
)

// newConfigCommand creates the `lintstep config` command tree.
func newConfigCommand(app *App, flags *rootFlagValues) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage lintstep configuration",
		Long: `Manage lintstep configuration.

Configuration is layered, later sources winning key by key:
  1. <config dir>/lintstep/config.cue
     (Linux: ~/.config, macOS: ~/Library/Application Support, Windows: %APPDATA%)
  2. lintstep.cue in the project root
  3. LINTSTEP_* environment variables (e.g. LINTSTEP_TOOL_PATH)

--config replaces both files with the given one.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd, app, flags)
		},
	})

	var project bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd, app, flags, project)
		},
	}
	initCmd.Flags().BoolVar(&project, "project", false, "write lintstep.cue in the project root instead of the user config")
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(cmd, app, flags)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := app.openWorkspace(cmd.Context(), flags)
			if err != nil {
				return app.fail(cmd, err, flags.verbose, glamourStyle(nil))
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(ws.cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(cmd *cobra.Command, app *App, flags *rootFlagValues) error {
	ws, err := app.openWorkspace(cmd.Context(), flags)
	if err != nil {
		return app.fail(cmd, err, flags.verbose, glamourStyle(nil))
	}
	cfg := ws.cfg
	out := app.stdout

	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	none := SubtitleStyle.Render("(none)")

	fmt.Fprintln(out, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(out)

	sources, err := configSources(cmd.Context(), flags, ws.root)
	switch {
	case err != nil:
		fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("Config files"), WarningStyle.Render(err.Error()))
	case len(sources) == 0:
		fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("Config files"), SubtitleStyle.Render("(using defaults)"))
	default:
		fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("Config files"), strings.Join(sources, ", "))
	}
	fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("Project root"), ws.root)
	fmt.Fprintln(out)

	orNone := func(s string) string {
		if s == "" {
			return none
		}
		return valueStyle.Render(s)
	}

	fmt.Fprintf(out, "%s:\n", keyStyle.Render("tool"))
	fmt.Fprintf(out, "  name: %s\n", valueStyle.Render(cfg.Tool.Name.String()))
	fmt.Fprintf(out, "  path: %s\n", orNone(cfg.Tool.Path.String()))
	fmt.Fprintf(out, "  config_file: %s\n", orNone(cfg.Tool.ConfigFile))
	fmt.Fprintf(out, "  flags: %s\n", valueStyle.Render(strings.Join(cfg.Tool.Flags, " ")))
	fmt.Fprintf(out, "  display_name: %s\n", valueStyle.Render(cfg.Tool.DisplayName))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("sources"))
	fmt.Fprintf(out, "  suffix: %s\n", valueStyle.Render(cfg.Sources.Suffix.Normalize()))
	fmt.Fprintf(out, "  exclude: %s\n", orNone(strings.Join(cfg.Sources.Exclude, ", ")))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("targets"))
	if len(cfg.Targets) == 0 {
		fmt.Fprintf(out, "  %s\n", SubtitleStyle.Render("(discovered automatically)"))
	}
	for _, t := range cfg.Targets {
		fmt.Fprintf(out, "  - %s: %s\n", valueStyle.Render(t.Name), t.Path)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("build"))
	fmt.Fprintf(out, "  scratch_dir: %s\n", valueStyle.Render(string(ws.scratchDir(""))))
	fmt.Fprintf(out, "  output_dir_name: %s\n", valueStyle.Render(cfg.Build.OutputDirName))
	fmt.Fprintf(out, "  jobs: %s\n", valueStyle.Render(fmt.Sprintf("%d", cfg.Build.EffectiveJobs())))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(out, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))
	fmt.Fprintf(out, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))

	return nil
}

// configSources lists the config files in effect for root.
func configSources(ctx context.Context, flags *rootFlagValues, root types.FilesystemPath) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return config.Sources(config.LoadOptions{
		ConfigFilePath: types.FilesystemPath(flags.configPath),
		BaseDir:        root,
	})
}

func initConfig(cmd *cobra.Command, app *App, flags *rootFlagValues, project bool) error {
	var (
		path string
		err  error
	)
	if project {
		var root types.FilesystemPath
		root, err = resolveProjectRoot(flags.root)
		path = filepath.Join(string(root), config.ProjectFileName)
	} else {
		path, err = config.UserConfigPath("")
	}
	if err != nil {
		return app.fail(cmd, err, flags.verbose, glamourStyle(nil))
	}

	created, err := config.CreateDefaultConfig(path)
	if err != nil {
		return app.fail(cmd, fmt.Errorf("failed to create config: %w", err), flags.verbose, glamourStyle(nil))
	}
	if !created {
		fmt.Fprintf(app.stdout, "%s Configuration already exists at %s\n", WarningStyle.Render("!"), path)
		return nil
	}

	fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}

func showConfigPath(cmd *cobra.Command, app *App, flags *rootFlagValues) error {
	userPath, err := config.UserConfigPath("")
	if err != nil {
		return app.fail(cmd, err, flags.verbose, glamourStyle(nil))
	}
	root, err := resolveProjectRoot(flags.root)
	if err != nil {
		return app.fail(cmd, err, flags.verbose, glamourStyle(nil))
	}

	fmt.Fprintf(app.stdout, "Config directory: %s\n", filepath.Dir(userPath))
	fmt.Fprintf(app.stdout, "User config file: %s\n", userPath)
	fmt.Fprintf(app.stdout, "Project config file: %s\n", filepath.Join(string(root), config.ProjectFileName))
	if flags.configPath != "" {
		fmt.Fprintf(app.stdout, "Explicit config file: %s\n", flags.configPath)
	}
	return nil
}
