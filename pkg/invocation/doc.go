// SPDX-License-Identifier: MPL-2.0

// Package invocation turns the source files of one compilation unit into a
// single, deterministic external lint-tool invocation.
//
// A Builder never runs anything. Given the unit's files, the project root, a
// per-step scratch directory and the resolved tool executable it returns a
// Spec (executable, ordered arguments, declared output directory) or nil when
// there is nothing to lint. The argument list is always laid out as:
//
//	<fixed flags...> [--config <nearest config file>] <file> <file> ...
//
// The tool's configuration file is located by walking from the project root
// towards the filesystem root; the closest match wins. This is done here
// rather than left to the tool because hosts frequently launch pre-build
// steps from a working directory unrelated to the project.
//
// Builders are immutable after construction and safe for concurrent use.
package invocation
