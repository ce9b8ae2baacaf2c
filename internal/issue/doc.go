// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors for the umlgraph command line.
//
// An ActionableError says which operation failed on which resource and how
// to fix it. It can point at a catalog Issue whose markdown guidance is
// rendered with glamour when the command runs in verbose mode.
package issue
