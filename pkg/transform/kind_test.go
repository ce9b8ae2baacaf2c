// SPDX-License-Identifier: MPL-2.0

package transform

import (
	"errors"
	"testing"
)

func TestParseDependencyKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   []string
		want    DependencyKind
		wantErr bool
	}{
		{"no names means all", nil, DependencyAll, false},
		{"all", []string{"all"}, DependencyAll, false},
		{"none", []string{"none"}, DependencyNone, false},
		{"single", []string{"attributes"}, DependencyAttributes, false},
		{"case insensitive", []string{"Generalizations"}, DependencyGeneralizations, false},
		{"pipe separated", []string{"attributes | operationParameters"}, DependencyAttributes | DependencyOperationParameters, false},
		{"several names", []string{"generalizations", "interfaceRealizations"}, DependencyGeneralizations | DependencyInterfaceRealizations, false},
		{"unknown", []string{"attributes", "imports"}, DependencyNone, true},
		{"empty name", []string{""}, DependencyNone, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseDependencyKinds(tt.input...)
			if tt.wantErr {
				var kerr *InvalidDependencyKindError
				if !errors.As(err, &kerr) || !errors.Is(err, ErrInvalidDependencyKind) {
					t.Fatalf("ParseDependencyKinds() error = %v, want InvalidDependencyKindError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDependencyKinds() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseDependencyKinds() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDependencyKind_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind DependencyKind
		want string
	}{
		{DependencyNone, "none"},
		{DependencyAll, "all"},
		{DependencyAttributes, "attributes"},
		{DependencyGeneralizations | DependencyOperationParameters, "generalizations|operationParameters"},
		{DependencyAttributes | 0x40, "attributes|0x40"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", uint8(tt.kind), got, tt.want)
		}
	}
}

func TestDependencyKind_IsValid(t *testing.T) {
	t.Parallel()

	if ok, errs := DependencyAll.IsValid(); !ok || len(errs) != 0 {
		t.Errorf("DependencyAll.IsValid() = %v, %v", ok, errs)
	}
	ok, errs := DependencyKind(0x10).IsValid()
	if ok || len(errs) != 1 || !errors.Is(errs[0], ErrInvalidDependencyKind) {
		t.Errorf("0x10.IsValid() = %v, %v", ok, errs)
	}
	if !DependencyAll.Has(DependencyAttributes) || DependencyAttributes.Has(DependencyAll) {
		t.Error("Has() mismatch")
	}
}

func TestParseCyclePolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    CyclePolicy
		wantErr bool
	}{
		{"", CycleKeepOrder, false},
		{"keep-order", CycleKeepOrder, false},
		{"FAIL", CycleFail, false},
		{"ignore", "", true},
	}
	for _, tt := range tests {
		got, err := ParseCyclePolicy(tt.input)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidCyclePolicy) {
				t.Errorf("ParseCyclePolicy(%q) error = %v", tt.input, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseCyclePolicy(%q) = %q, %v; want %q", tt.input, got, err, tt.want)
		}
	}
}
