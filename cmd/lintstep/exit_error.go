// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/lintstep/lintstep/pkg/types"
)

// ExitError carries the process exit code out of a RunE handler. Code is
// the summary code of a lint run, or ExitFailure for infrastructure errors
// that were already reported.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("lint exited with status %s", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitCodeFor maps the error returned by the command tree to a process exit
// code. Codes outside 0-255 and errors without an ExitError become
// ExitFailure, so a failed command never exits 0.
func exitCodeFor(err error) types.ExitCode {
	if err == nil {
		return types.ExitSuccess
	}
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code.Validate() != nil || exitErr.Code.IsSuccess() {
		return types.ExitFailure
	}
	return exitErr.Code
}
