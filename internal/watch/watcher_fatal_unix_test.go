// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package watch

import (
	"syscall"
	"testing"
)

func TestIsFatalFsnotifyError(t *testing.T) {
	t.Parallel()

	checkFatalClassification(t,
		[]error{syscall.ENOSPC, syscall.EMFILE, syscall.ENFILE},
		[]error{syscall.EPERM, syscall.EACCES, syscall.ENOENT},
	)
}
