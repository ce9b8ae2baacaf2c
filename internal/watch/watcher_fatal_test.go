// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"errors"
	"fmt"
	"testing"
)

// checkFatalClassification asserts that every fatal errno is recognized
// bare and wrapped, and that the others are not.
func checkFatalClassification(t *testing.T, fatal, recoverable []error) {
	t.Helper()

	for _, err := range fatal {
		if !isFatalFsnotifyError(err) {
			t.Errorf("isFatalFsnotifyError(%v) = false, want true", err)
		}
		if wrapped := fmt.Errorf("fsnotify: %w", err); !isFatalFsnotifyError(wrapped) {
			t.Errorf("isFatalFsnotifyError(%v) = false for the wrapped error", wrapped)
		}
	}
	for _, err := range append(recoverable, errors.New("document vanished")) {
		if isFatalFsnotifyError(err) {
			t.Errorf("isFatalFsnotifyError(%v) = true, want false", err)
		}
	}
}
