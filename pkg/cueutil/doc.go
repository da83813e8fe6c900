// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates CUE documents against an embedded schema
// definition and reports failures with JSON-path style locations, e.g.
//
//	config.cue: tool.flags[1]: conflicting values "x" and string
package cueutil
