// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"
	"strconv"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

type (
	// FieldIssue is one problem reported against a document.
	FieldIssue struct {
		// Path locates the field, e.g. "targets[0].path". Empty for
		// document-level problems such as syntax errors.
		Path    string
		Message string
	}

	// ValidationError lists every problem CUE found in one document.
	ValidationError struct {
		FilePath string
		Issues   []FieldIssue
	}

	// FileTooLargeError is returned when a document exceeds the size limit.
	FileTooLargeError struct {
		FilePath string
		Size     int64
		Limit    int64
	}
)

// Error renders "<file>: <path>: <message>" for a single issue and an
// indented list otherwise.
func (e *ValidationError) Error() string {
	lines := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		if is.Path != "" {
			lines[i] = is.Path + ": " + is.Message
		} else {
			lines[i] = is.Message
		}
	}
	if len(lines) == 1 {
		return e.FilePath + ": " + lines[0]
	}
	return fmt.Sprintf("%s: validation failed:\n  %s", e.FilePath, strings.Join(lines, "\n  "))
}

// Error implements the error interface.
func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("%s: file size %d bytes exceeds maximum %d bytes", e.FilePath, e.Size, e.Limit)
}

// FormatError converts a CUE error into a *ValidationError whose issues
// carry field paths. Errors that CUE does not recognize are wrapped with the
// file path.
//
//	lintstep.cue: build.jobs: invalid value -1 (out of bound >=0)
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	list := cueerrors.Errors(err)
	if len(list) == 0 {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	ve := &ValidationError{FilePath: filePath, Issues: make([]FieldIssue, 0, len(list))}
	for _, e := range list {
		path := formatPath(cueerrors.Path(e))
		msg := e.Error()
		// CUE sometimes repeats the path at the start of the message.
		if path != "" {
			if rest, ok := strings.CutPrefix(msg, path); ok {
				msg = strings.TrimSpace(strings.TrimPrefix(rest, ":"))
			}
		}
		ve.Issues = append(ve.Issues, FieldIssue{Path: path, Message: msg})
	}
	return ve
}

// formatPath renders ["targets", "0", "path"] as "targets[0].path".
func formatPath(path []string) string {
	var b strings.Builder
	for i, part := range path {
		if _, err := strconv.Atoi(part); err == nil && i > 0 {
			b.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}

// CheckFileSize returns a *FileTooLargeError when data exceeds maxSize bytes.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if size := int64(len(data)); size > maxSize {
		return &FileTooLargeError{FilePath: filename, Size: size, Limit: maxSize}
	}
	return nil
}
