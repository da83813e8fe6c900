// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strconv"
)

const (
	// ExitSuccess is reported by a tool that found nothing to complain about.
	ExitSuccess ExitCode = 0
	// ExitFailure is reported for steps that could not launch or were
	// terminated by a signal.
	ExitFailure ExitCode = 1
)

// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

type (
	// ExitCode is a POSIX process exit status in 0-255.
	ExitCode int

	// InvalidExitCodeError is returned for an ExitCode outside 0-255.
	InvalidExitCodeError struct {
		Value ExitCode
	}
)

// Error implements the error interface.
func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d (must be in range 0-255)", e.Value)
}

// Unwrap returns ErrInvalidExitCode for errors.Is() compatibility.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// ExitCodeFromProcess maps the status reported by os.ProcessState.ExitCode.
// A status outside 0-255, such as the -1 reported for a signaled process,
// becomes ExitFailure and ok is false.
func ExitCodeFromProcess(status int) (code ExitCode, ok bool) {
	code = ExitCode(status)
	if code.Validate() != nil {
		return ExitFailure, false
	}
	return code, true
}

// Validate returns an *InvalidExitCodeError when c is outside 0-255.
func (c ExitCode) Validate() error {
	if c < 0 || c > 255 {
		return &InvalidExitCodeError{Value: c}
	}
	return nil
}

// IsSuccess reports whether c is ExitSuccess.
func (c ExitCode) IsSuccess() bool { return c == ExitSuccess }

func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
