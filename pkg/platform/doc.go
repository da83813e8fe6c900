// SPDX-License-Identifier: MPL-2.0

// Package platform handles the OS-specific details lintstep works around:
// Windows reserved file names in scratch paths, and application sandboxes
// that hide host executables from the process.
package platform
