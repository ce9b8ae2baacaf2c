// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/umlgraph/config.cue (or the XDG equivalent on Linux,
// ~/Library/Application Support/umlgraph/config.cue on macOS, %APPDATA%\umlgraph\config.cue
// on Windows), falling back to ./config.cue. It selects codec sorting, primitive seeding,
// the dependency sort kinds and cycle policy, the qualified name separator and UI settings.
// UMLGRAPH_* environment variables override file values.
//
// Configuration files are validated against a CUE schema (config_schema.cue) to ensure
// type safety and provide clear error messages for invalid configurations.
package config
