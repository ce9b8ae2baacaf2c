// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for umlgraph.
//
// This package implements the Cobra command hierarchy: the root command with
// its global flags, and subcommands that validate, print, sort, convert and
// graph model documents, plus configuration management.
package cmd
