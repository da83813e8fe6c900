// SPDX-License-Identifier: MPL-2.0

package toolpath

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lintstep/lintstep/internal/issue"
	"github.com/lintstep/lintstep/internal/testutil"
	"github.com/lintstep/lintstep/pkg/types"
)

func TestResolve_Override(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tool := testutil.WriteFakeTool(t, dir, "fmt-tool", "exit 0")

	got, err := Resolve("unused", types.FilesystemPath(tool))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if string(got) != tool {
		t.Errorf("Resolve() = %q, want %q", got, tool)
	}
}

func TestResolve_OverrideRejected(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	plain := filepath.Join(dir, "plain")
	testutil.MustWriteFile(t, plain, "not executable")
	if err := os.Chmod(plain, 0o644); err != nil {
		t.Fatal(err)
	}
	testutil.WriteFakeTool(t, dir, "unused", "exit 0")

	tests := []struct {
		name     string
		override string
	}{
		{"missing file", filepath.Join(dir, "missing")},
		{"directory", dir},
		{"not executable", plain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Resolve("sh", types.FilesystemPath(tt.override))
			if !errors.Is(err, ErrToolNotFound) {
				t.Fatalf("Resolve() error = %v, want ErrToolNotFound", err)
			}
			var ae *issue.ActionableError
			if !errors.As(err, &ae) || len(ae.Suggestions) == 0 {
				t.Errorf("error should be an ActionableError with suggestions, got %T", err)
			}
		})
	}
}

func TestResolve_PathLookup(t *testing.T) {
	dir := t.TempDir()
	tool := testutil.WriteFakeTool(t, dir, "lintstep-fake-tool", "exit 0")
	t.Setenv("PATH", dir)

	got, err := Resolve("lintstep-fake-tool", "")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if string(got) != tool {
		t.Errorf("Resolve() = %q, want %q", got, tool)
	}

	_, err = Resolve("lintstep-missing-tool", "")
	if !errors.Is(err, ErrToolNotFound) {
		t.Errorf("Resolve() error = %v, want ErrToolNotFound", err)
	}
}

func TestResolve_InvalidName(t *testing.T) {
	t.Parallel()

	_, err := Resolve("bin/tool", "")
	if !errors.Is(err, ErrToolNotFound) || !errors.Is(err, types.ErrInvalidToolName) {
		t.Errorf("Resolve() error = %v, want ErrToolNotFound wrapping ErrInvalidToolName", err)
	}
}
