// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/lintstep/lintstep/internal/config"
	"github.com/lintstep/lintstep/internal/issue"
	"github.com/lintstep/lintstep/internal/target"
	"github.com/lintstep/lintstep/internal/toolpath"
)

const configLoadOperation = "load configuration"

type (
	// App wires CLI services and shared dependencies. It is the composition root
	// for the CLI layer; every command handler receives an App reference.
	App struct {
		Config      ConfigProvider
		Diagnostics DiagnosticRenderer
		stdout      io.Writer
		stderr      io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config      ConfigProvider
		Diagnostics DiagnosticRenderer
		Stdout      io.Writer
		Stderr      io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// DiagnosticRenderer renders target discovery diagnostics.
	DiagnosticRenderer interface {
		Render(ctx context.Context, diags []target.Diagnostic, logger *log.Logger)
	}

	defaultDiagnosticRenderer struct{}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Diagnostics == nil {
		deps.Diagnostics = &defaultDiagnosticRenderer{}
	}

	return &App{
		Config:      deps.Config,
		Diagnostics: deps.Diagnostics,
		stdout:      deps.Stdout,
		stderr:      deps.Stderr,
	}, nil
}

// Render logs each diagnostic at its severity.
func (r *defaultDiagnosticRenderer) Render(_ context.Context, diags []target.Diagnostic, logger *log.Logger) {
	for _, diag := range diags {
		kv := []any{"code", diag.Code}
		if diag.Path != "" {
			kv = append(kv, "path", diag.Path)
		}
		if diag.Severity == target.SeverityError {
			logger.Error(diag.Message, kv...)
			continue
		}
		logger.Warn(diag.Message, kv...)
	}
}

// newLogger returns the CLI logger writing to w.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{Prefix: "lintstep"})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// classifyError maps a failure to its issue catalog entry. The zero Id means
// the error has no dedicated guidance.
func classifyError(err error) issue.Id {
	switch {
	case errors.Is(err, toolpath.ErrToolNotFound):
		return issue.ToolNotFoundId
	case errors.Is(err, target.ErrInvalidRoot):
		return issue.ProjectRootInvalidId
	case errors.Is(err, target.ErrTargetNotFound):
		return issue.TargetNotFoundId
	case errors.Is(err, config.ErrInvalidConfig), errors.Is(err, config.ErrInvalidLoadOptions),
		issue.OperationOf(err) == configLoadOperation:
		return issue.ConfigLoadFailedId
	}
	return 0
}

// fail renders err with its catalog guidance on stderr and returns an
// ExitError so the error is not printed a second time.
func (a *App) fail(cmd *cobra.Command, err error, verbose bool, style string) error {
	fmt.Fprintf(a.stderr, "%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))
	if id := classifyError(err); id != 0 {
		a.renderIssue(id, style)
	}

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return &ExitError{Code: 1, Err: err}
}

// renderIssue prints catalog guidance, ignoring render failures.
func (a *App) renderIssue(id issue.Id, style string) {
	iss := issue.Get(id)
	if iss == nil {
		return
	}
	if rendered, err := iss.Render(style); err == nil {
		fmt.Fprint(a.stderr, rendered)
	}
}

// glamourStyle maps a configured color scheme onto a glamour style name.
func glamourStyle(cfg *config.Config) string {
	if cfg == nil || cfg.UI.ColorScheme == "" {
		return string(config.ColorSchemeAuto)
	}
	return string(cfg.UI.ColorScheme)
}
