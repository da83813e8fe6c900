// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and
// remediation hints. The issue catalog adds longer Markdown guidance for the
// failures lintstep users hit most often (missing lint tool, broken
// configuration, unknown targets), rendered for the terminal with glamour.
package issue
