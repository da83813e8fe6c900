// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lintstep/lintstep/pkg/types"
)

func TestExitError(t *testing.T) {
	t.Parallel()

	bare := &ExitError{Code: 3}
	if got := bare.Error(); got != "lint exited with status 3" {
		t.Errorf("Error() = %q", got)
	}
	if bare.Unwrap() != nil {
		t.Error("Unwrap() should be nil without a cause")
	}

	cause := errors.New("boom")
	wrapped := &ExitError{Code: types.ExitFailure, Err: cause}
	if got := wrapped.Error(); got != "boom" {
		t.Errorf("Error() = %q, want boom", got)
	}
	if !errors.Is(wrapped, cause) {
		t.Error("errors.Is(wrapped, cause) = false")
	}
}

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want types.ExitCode
	}{
		{"success", nil, types.ExitSuccess},
		{"plain error", errors.New("unknown flag"), types.ExitFailure},
		{"lint summary code", &ExitError{Code: 2}, 2},
		{"wrapped exit error", fmt.Errorf("run: %w", &ExitError{Code: 65}), 65},
		{"zero code still fails", &ExitError{Code: types.ExitSuccess}, types.ExitFailure},
		{"out of range code", &ExitError{Code: 300}, types.ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor() = %d, want %d", got, tt.want)
			}
		})
	}
}
