// SPDX-License-Identifier: MPL-2.0

// Package testutil provides test helpers that fail the test on error:
// writing document and config fixtures, and pointing the user config
// directory at a temporary home.
package testutil
