// SPDX-License-Identifier: MPL-2.0

//go:build windows

package watch

import (
	"syscall"
	"testing"
)

func TestIsFatalFsnotifyError(t *testing.T) {
	t.Parallel()

	checkFatalClassification(t,
		[]error{errnoTooManyOpenFiles, errnoInvalidHandle, errnoNotEnoughMemory},
		[]error{syscall.Errno(2), syscall.Errno(5)},
	)
}
