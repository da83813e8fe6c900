// SPDX-License-Identifier: MPL-2.0

package target

import "fmt"

const (
	// SeverityWarning indicates a recoverable discovery warning.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a non-fatal discovery error diagnostic.
	SeverityError Severity = "error"

	// CodeTargetDirMissing marks a declared target whose directory does not exist.
	CodeTargetDirMissing = "target_dir_missing"
	// CodeTargetNotDirectory marks a declared target path that is not a directory.
	CodeTargetNotDirectory = "target_not_directory"
	// CodePathUnreadable marks a directory that could not be listed.
	CodePathUnreadable = "path_unreadable"
)

type (
	// Severity represents discovery diagnostic severity.
	Severity string

	// Diagnostic is a non-fatal discovery finding returned to callers
	// (rather than written to stderr) so the CLI decides how to render it.
	Diagnostic struct {
		Severity Severity
		// Code is a machine-readable identifier (e.g., "target_dir_missing").
		Code    string
		Message string
		// Path is the file path associated with this diagnostic (optional).
		Path string
		// Cause is the underlying error (optional, for programmatic inspection).
		Cause error
	}
)

// String renders the diagnostic on one line.
func (d Diagnostic) String() string {
	if d.Path == "" {
		return fmt.Sprintf("%s: %s", d.Severity, d.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", d.Severity, d.Message, d.Path)
}
