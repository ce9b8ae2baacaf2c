// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/invowk/umlgraph/pkg/platform"
)

// SetConfigHome points the platform user config directory below dir for the
// rest of the test and returns the directory it now resolves to. The
// variables are restored by t.Cleanup, so the test must not be parallel.
//
// Platform handling:
//   - Windows: APPDATA=dir
//   - macOS: HOME=dir, giving dir/Library/Application Support
//   - Linux and others: HOME=dir with XDG_CONFIG_HOME cleared, giving dir/.config
func SetConfigHome(t testing.TB, dir string) string {
	t.Helper()

	switch runtime.GOOS {
	case platform.Windows:
		t.Setenv("USERPROFILE", dir)
		t.Setenv("APPDATA", dir)
		return dir
	case platform.Darwin:
		t.Setenv("HOME", dir)
		return filepath.Join(dir, "Library", "Application Support")
	default:
		t.Setenv("HOME", dir)
		t.Setenv("XDG_CONFIG_HOME", "")
		return filepath.Join(dir, ".config")
	}
}
