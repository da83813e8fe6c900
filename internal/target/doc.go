// SPDX-License-Identifier: MPL-2.0

// Package target enumerates compilation units under a project root.
//
// A unit is either declared (a named directory whose source files are
// collected recursively) or discovered (every directory that directly holds
// at least one source file). Files are absolute and sorted so that the same
// tree always yields the same units.
package target
