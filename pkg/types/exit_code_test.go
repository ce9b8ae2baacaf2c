// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code      ExitCode
		valid     bool
		success   bool
		orFailure ExitCode
	}{
		{code: ExitSuccess, valid: true, success: true, orFailure: ExitFailure},
		{code: ExitFailure, valid: true, orFailure: ExitFailure},
		{code: 3, valid: true, orFailure: 3},
		{code: 255, valid: true, orFailure: 255},
		{code: -1, orFailure: ExitFailure},
		{code: 256, orFailure: ExitFailure},
		{code: 1000, orFailure: ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			t.Parallel()

			err := tt.code.Validate()
			if (err == nil) != tt.valid {
				t.Errorf("Validate() = %v, want valid %v", err, tt.valid)
			}
			if err != nil && !errors.Is(err, ErrInvalidExitCode) {
				t.Errorf("Validate() error %v does not wrap ErrInvalidExitCode", err)
			}
			if got := tt.code.IsSuccess(); got != tt.success {
				t.Errorf("IsSuccess() = %v, want %v", got, tt.success)
			}
			if got := tt.code.OrFailure(); got != tt.orFailure {
				t.Errorf("OrFailure() = %d, want %d", got, tt.orFailure)
			}
		})
	}
}

func TestInvalidExitCodeErrorMessage(t *testing.T) {
	t.Parallel()

	err := ExitCode(300).Validate()
	if got, want := err.Error(), "invalid exit code 300 (must be in range 0-255)"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
