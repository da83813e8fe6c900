// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for lintstep.
//
// The CLI plays the host build system's role around the invocation builder:
// it loads configuration, enumerates targets, resolves the lint tool, picks
// scratch directories, and prints or launches the declared commands.
package cmd
