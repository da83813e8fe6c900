// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/lintstep/lintstep/internal/target"
)

// targetsDocument is the machine-readable form of `lintstep targets`.
type targetsDocument struct {
	Root    string          `json:"root" yaml:"root" toml:"root"`
	Targets []target.Target `json:"targets" yaml:"targets" toml:"targets"`
}

func newTargetsCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "targets [names...]",
		Short: "List the discovered compilation units",
		Long: `List the compilation units lintstep would lint.

Declared targets come from the targets section of the configuration. Without
declarations, every directory holding at least one source file is a target.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := outputFormat(format)
			if err := f.Validate(); err != nil {
				return app.fail(cmd, err, flags.verbose, glamourStyle(nil))
			}

			ws, err := app.openWorkspace(cmd.Context(), flags)
			if err != nil {
				return app.fail(cmd, err, flags.verbose, glamourStyle(nil))
			}
			targets, err := ws.targets(cmd.Context(), args)
			if err != nil {
				return app.fail(cmd, err, ws.verbose, glamourStyle(ws.cfg))
			}
			return renderTargets(app.stdout, f, targetsDocument{Root: string(ws.root), Targets: targets}, ws.verbose)
		},
	}

	cmd.Flags().StringVar(&format, "format", string(formatText), "output format: text, json, yaml or toml")

	return cmd
}

func renderTargets(w io.Writer, format outputFormat, doc targetsDocument, verbose bool) error {
	if format != formatText {
		return encodeStructured(w, format, doc)
	}

	if len(doc.Targets) == 0 {
		fmt.Fprintln(w, SubtitleStyle.Render("No targets found."))
		return nil
	}
	for _, t := range doc.Targets {
		count := fmt.Sprintf("%d files", len(t.Files))
		if len(t.Files) == 1 {
			count = "1 file"
		}
		style := VerboseStyle
		if t.IsEmpty() {
			style = WarningStyle
		}
		fmt.Fprintf(w, "%s %s %s\n", TitleStyle.Render(t.Name), style.Render(count), SubtitleStyle.Render(string(t.Dir)))
		if verbose {
			for _, f := range t.Files {
				fmt.Fprintf(w, "  %s\n", f)
			}
		}
	}
	return nil
}
