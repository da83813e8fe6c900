// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrInvalidFileSuffix is the sentinel error wrapped by InvalidFileSuffixError.
var ErrInvalidFileSuffix = errors.New("invalid file suffix")

type (
	// FileSuffix selects source files by extension. Both "swift" and ".swift"
	// are accepted; matching is case-insensitive.
	FileSuffix string

	// InvalidFileSuffixError is returned when a FileSuffix is empty, only a dot,
	// or contains a path separator.
	InvalidFileSuffixError struct {
		Value FileSuffix
	}
)

// String returns the string representation of the FileSuffix.
func (s FileSuffix) String() string { return string(s) }

// Normalize returns the dotted, lowercase form of the suffix (e.g. ".swift").
func (s FileSuffix) Normalize() string {
	ext := strings.ToLower(strings.TrimSpace(string(s)))
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// Matches reports whether path carries this suffix.
func (s FileSuffix) Matches(path string) bool {
	ext := s.Normalize()
	if ext == "" {
		return false
	}
	return strings.ToLower(filepath.Ext(path)) == ext
}

// Validate returns an error if the suffix cannot select any file.
func (s FileSuffix) Validate() error {
	ext := s.Normalize()
	if ext == "" || ext == "." || strings.ContainsAny(ext, `/\`) {
		return &InvalidFileSuffixError{Value: s}
	}
	return nil
}

// Error implements the error interface for InvalidFileSuffixError.
func (e *InvalidFileSuffixError) Error() string {
	return fmt.Sprintf("invalid file suffix %q: must be a non-empty extension without path separators", e.Value)
}

// Unwrap returns ErrInvalidFileSuffix for errors.Is() compatibility.
func (e *InvalidFileSuffixError) Unwrap() error { return ErrInvalidFileSuffix }
