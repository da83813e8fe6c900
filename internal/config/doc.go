// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is layered: built-in defaults, then the user file
// (config.cue under $XDG_CONFIG_HOME/lintstep, ~/Library/Application Support/lintstep
// on macOS, %APPDATA%\lintstep on Windows), then the project file lintstep.cue,
// then LINTSTEP_* environment variables. An explicit file path replaces both files.
//
// Every file is validated against the embedded CUE schema (config_schema.cue)
// before it is merged.
package config
