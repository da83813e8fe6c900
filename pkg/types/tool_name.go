// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidToolName is the sentinel error wrapped by InvalidToolNameError.
var ErrInvalidToolName = errors.New("invalid tool name")

type (
	// ToolName is the bare name of an executable looked up on PATH
	// (e.g. "swift-format"). It must not contain path separators.
	ToolName string

	// InvalidToolNameError is returned when a ToolName is empty, whitespace-only
	// or contains a path separator.
	InvalidToolNameError struct {
		Value ToolName
	}
)

// String returns the string representation of the ToolName.
func (n ToolName) String() string { return string(n) }

// Validate returns an error if the name cannot be looked up on PATH.
func (n ToolName) Validate() error {
	s := string(n)
	if strings.TrimSpace(s) == "" || strings.ContainsAny(s, `/\`) {
		return &InvalidToolNameError{Value: n}
	}
	return nil
}

// Error implements the error interface for InvalidToolNameError.
func (e *InvalidToolNameError) Error() string {
	return fmt.Sprintf("invalid tool name %q: must be a bare executable name", e.Value)
}

// Unwrap returns ErrInvalidToolName for errors.Is() compatibility.
func (e *InvalidToolNameError) Unwrap() error { return ErrInvalidToolName }
