// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lintstep/lintstep/internal/runner"
	"github.com/lintstep/lintstep/pkg/types"
)

const (
	formatText outputFormat = "text"
	formatJSON outputFormat = "json"
	formatYAML outputFormat = "yaml"
	formatTOML outputFormat = "toml"
)

// ErrInvalidOutputFormat is the sentinel error wrapped by InvalidOutputFormatError.
var ErrInvalidOutputFormat = errors.New("invalid output format")

type (
	// outputFormat selects how plan and targets print their result.
	outputFormat string

	// InvalidOutputFormatError is returned for an unknown --format value.
	InvalidOutputFormatError struct {
		Value outputFormat
	}

	// planDocument is the machine-readable form of a plan.
	planDocument struct {
		Root  string      `json:"root" yaml:"root" toml:"root"`
		Steps []planEntry `json:"steps" yaml:"steps" toml:"steps"`
	}

	// planEntry describes one target's declared command.
	planEntry struct {
		Target      string   `json:"target" yaml:"target" toml:"target"`
		Skipped     bool     `json:"skipped" yaml:"skipped" toml:"skipped"`
		DisplayName string   `json:"display_name,omitempty" yaml:"display_name,omitempty" toml:"display_name,omitempty"`
		Executable  string   `json:"executable,omitempty" yaml:"executable,omitempty" toml:"executable,omitempty"`
		Arguments   []string `json:"arguments,omitempty" yaml:"arguments,omitempty" toml:"arguments,omitempty"`
		OutputDir   string   `json:"output_dir,omitempty" yaml:"output_dir,omitempty" toml:"output_dir,omitempty"`
	}
)

// Error implements the error interface.
func (e *InvalidOutputFormatError) Error() string {
	return fmt.Sprintf("invalid output format %q (valid: %s, %s, %s, %s)", e.Value, formatText, formatJSON, formatYAML, formatTOML)
}

// Unwrap returns ErrInvalidOutputFormat for errors.Is() compatibility.
func (e *InvalidOutputFormatError) Unwrap() error { return ErrInvalidOutputFormat }

// Validate returns an error if the format is not recognized.
func (f outputFormat) Validate() error {
	if !slices.Contains([]outputFormat{formatText, formatJSON, formatYAML, formatTOML}, f) {
		return &InvalidOutputFormatError{Value: f}
	}
	return nil
}

func newPlanCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "plan [targets...]",
		Short: "Print the lint command declared for each target",
		Long: `Print the lint command declared for each target without running it.

Targets without sources declare no command and are reported as skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := outputFormat(format)
			if err := f.Validate(); err != nil {
				return app.fail(cmd, err, flags.verbose, glamourStyle(nil))
			}

			ws, err := app.openWorkspace(cmd.Context(), flags)
			if err != nil {
				return app.fail(cmd, err, flags.verbose, glamourStyle(nil))
			}
			steps, err := ws.prepare(cmd.Context(), args)
			if err != nil {
				return app.fail(cmd, err, ws.verbose, glamourStyle(ws.cfg))
			}
			return renderPlan(app.stdout, f, ws.root, steps)
		},
	}

	cmd.Flags().StringVar(&format, "format", string(formatText), "output format: text, json, yaml or toml")

	return cmd
}

// newPlanDocument converts steps into their serializable form.
func newPlanDocument(root types.FilesystemPath, steps []runner.Step) planDocument {
	doc := planDocument{Root: string(root), Steps: make([]planEntry, 0, len(steps))}
	for _, step := range steps {
		entry := planEntry{Target: step.Target, Skipped: step.Spec == nil}
		if step.Spec != nil {
			entry.DisplayName = step.Spec.DisplayName
			entry.Executable = string(step.Spec.Executable)
			entry.Arguments = step.Spec.Arguments
			entry.OutputDir = string(step.Spec.OutputDir)
		}
		doc.Steps = append(doc.Steps, entry)
	}
	return doc
}

// renderPlan writes steps to w in the requested format.
func renderPlan(w io.Writer, format outputFormat, root types.FilesystemPath, steps []runner.Step) error {
	if format == formatText {
		renderPlanText(w, steps)
		return nil
	}
	return encodeStructured(w, format, newPlanDocument(root, steps))
}

// encodeStructured writes v as JSON, YAML or TOML.
func encodeStructured(w io.Writer, format outputFormat, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case formatTOML:
		return toml.NewEncoder(w).Encode(v)
	default:
		return &InvalidOutputFormatError{Value: format}
	}
}

// renderPlanText prints one block per step with its shell-quoted command line.
func renderPlanText(w io.Writer, steps []runner.Step) {
	if len(steps) == 0 {
		fmt.Fprintln(w, SubtitleStyle.Render("No targets found."))
		return
	}
	for _, step := range steps {
		if step.Spec == nil {
			fmt.Fprintf(w, "%s %s\n", TitleStyle.Render(step.Target), WarningStyle.Render("(skipped: no sources)"))
			continue
		}
		fmt.Fprintf(w, "%s %s\n", TitleStyle.Render(step.Target), SubtitleStyle.Render(step.Spec.DisplayName))
		fmt.Fprintf(w, "  %s\n", CmdStyle.Render(step.Spec.CommandLine()))
		fmt.Fprintf(w, "  %s %s\n", VerboseStyle.Render("output:"), step.Spec.OutputDir)
	}
}
