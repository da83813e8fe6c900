// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/lintstep/lintstep/internal/config"
	"github.com/lintstep/lintstep/internal/issue"
	"github.com/lintstep/lintstep/internal/target"
	"github.com/lintstep/lintstep/internal/toolpath"
)

func TestClassifyError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want issue.Id
	}{
		{"tool not found", fmt.Errorf("wrapped: %w", toolpath.ErrToolNotFound), issue.ToolNotFoundId},
		{"invalid root", invalidRoot("/missing", errors.New("no such file")), issue.ProjectRootInvalidId},
		{"unknown target", &target.UnknownTargetError{Names: []string{"X"}}, issue.TargetNotFoundId},
		{"invalid config", fmt.Errorf("wrapped: %w", config.ErrInvalidConfig), issue.ConfigLoadFailedId},
		{
			name: "config load actionable error",
			err: issue.NewErrorContext().
				WithOperation(configLoadOperation).
				WithResource("lintstep.cue").
				Wrap(errors.New("syntax error")).
				BuildError(),
			want: issue.ConfigLoadFailedId,
		},
		{"unrelated", errors.New("boom"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := classifyError(tt.err); got != tt.want {
				t.Errorf("classifyError() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFormatErrorForDisplay(t *testing.T) {
	t.Parallel()

	plain := errors.New("plain failure")
	if got := formatErrorForDisplay(plain, false); got != "plain failure" {
		t.Errorf("formatErrorForDisplay(plain) = %q", got)
	}

	ae := issue.NewErrorContext().
		WithOperation("resolve lint tool").
		WithResource("swift-format").
		WithSuggestion("Install swift-format").
		Wrap(errors.New("not on PATH")).
		BuildError()
	got := formatErrorForDisplay(fmt.Errorf("outer: %w", ae), false)
	for _, want := range []string{"failed to resolve lint tool: swift-format: not on PATH", "• Install swift-format"} {
		if !strings.Contains(got, want) {
			t.Errorf("formatErrorForDisplay() = %q, want it to contain %q", got, want)
		}
	}
	if strings.Contains(got, "Error chain:") {
		t.Error("non-verbose output should not include the error chain")
	}
	if verbose := formatErrorForDisplay(ae, true); !strings.Contains(verbose, "Error chain:") {
		t.Errorf("verbose output = %q, want the error chain", verbose)
	}
}

func TestNewApp_Defaults(t *testing.T) {
	t.Parallel()

	app, err := NewApp(Dependencies{})
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	if app.Config == nil || app.Diagnostics == nil || app.stdout == nil || app.stderr == nil {
		t.Errorf("NewApp() left nil dependencies: %+v", app)
	}

	var out bytes.Buffer
	custom, err := NewApp(Dependencies{Stdout: &out, Config: staticConfig{cfg: config.DefaultConfig()}})
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	if custom.stdout != &out {
		t.Error("NewApp() replaced the injected stdout")
	}
	if _, ok := custom.Config.(staticConfig); !ok {
		t.Error("NewApp() replaced the injected config provider")
	}
}

func TestDefaultDiagnosticRenderer(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	(&defaultDiagnosticRenderer{}).Render(context.Background(), []target.Diagnostic{
		{Severity: target.SeverityWarning, Code: target.CodeTargetDirMissing, Message: "declared target directory does not exist", Path: "/repo/Gone"},
		{Severity: target.SeverityError, Code: target.CodePathUnreadable, Message: "cannot list directory"},
	}, newLogger(&buf, false))

	got := buf.String()
	for _, want := range []string{"WARN", "declared target directory does not exist", "/repo/Gone", "ERRO", "cannot list directory", target.CodePathUnreadable} {
		if !strings.Contains(got, want) {
			t.Errorf("rendered diagnostics = %q, want it to contain %q", got, want)
		}
	}
}

func TestGlamourStyle(t *testing.T) {
	t.Parallel()

	if got := glamourStyle(nil); got != "auto" {
		t.Errorf("glamourStyle(nil) = %q, want auto", got)
	}
	cfg := config.DefaultConfig()
	cfg.UI.ColorScheme = config.ColorSchemeLight
	if got := glamourStyle(cfg); got != "light" {
		t.Errorf("glamourStyle(light) = %q, want light", got)
	}
}
