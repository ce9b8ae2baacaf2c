// SPDX-License-Identifier: MPL-2.0

package transform

import (
	"errors"
	"fmt"
	"strings"
)

// DependencyNone and the kinds below select which relationships make one
// type depend on another during a dependency sort. They combine bitwise.
const (
	DependencyNone                  DependencyKind = 0
	DependencyGeneralizations       DependencyKind = 1 << 0
	DependencyInterfaceRealizations DependencyKind = 1 << 1
	DependencyAttributes            DependencyKind = 1 << 2
	DependencyOperationParameters   DependencyKind = 1 << 3

	DependencyAll = DependencyGeneralizations | DependencyInterfaceRealizations |
		DependencyAttributes | DependencyOperationParameters
)

const (
	// CycleKeepOrder orders what it can and keeps the elements blocked by a
	// cycle in their original relative order, after the others.
	CycleKeepOrder CyclePolicy = "keep-order"
	// CycleFail leaves a package with a cycle untouched and reports a
	// *CycleError.
	CycleFail CyclePolicy = "fail"
)

var (
	// ErrInvalidDependencyKind is the sentinel of InvalidDependencyKindError.
	ErrInvalidDependencyKind = errors.New("invalid dependency kind")

	// ErrInvalidCyclePolicy is returned for an unknown cycle policy name.
	ErrInvalidCyclePolicy = errors.New("invalid cycle policy")
)

type (
	// DependencyKind is a set of dependency relationships.
	DependencyKind uint8

	// CyclePolicy says what a dependency sort does with a cycle.
	CyclePolicy string

	// InvalidDependencyKindError is returned for an unknown dependency kind
	// name or an out of range value.
	InvalidDependencyKindError struct {
		Value string
	}
)

var dependencyKindNames = []struct {
	kind DependencyKind
	name string
}{
	{DependencyGeneralizations, "generalizations"},
	{DependencyInterfaceRealizations, "interfaceRealizations"},
	{DependencyAttributes, "attributes"},
	{DependencyOperationParameters, "operationParameters"},
}

// Error implements the error interface.
func (e *InvalidDependencyKindError) Error() string {
	return fmt.Sprintf("invalid dependency kind %q (valid: none, all, generalizations, interfaceRealizations, attributes, operationParameters)", e.Value)
}

// Unwrap returns ErrInvalidDependencyKind.
func (e *InvalidDependencyKindError) Unwrap() error { return ErrInvalidDependencyKind }

// Has reports whether every kind in other is selected.
func (k DependencyKind) Has(other DependencyKind) bool { return k&other == other }

// IsValid reports whether k only holds known kinds.
func (k DependencyKind) IsValid() (bool, []error) {
	if k&^DependencyAll != 0 {
		return false, []error{&InvalidDependencyKindError{Value: fmt.Sprintf("%#x", uint8(k))}}
	}
	return true, nil
}

// String lists the selected kinds joined by "|".
func (k DependencyKind) String() string {
	switch k {
	case DependencyNone:
		return "none"
	case DependencyAll:
		return "all"
	}
	var names []string
	for _, n := range dependencyKindNames {
		if k.Has(n.kind) {
			names = append(names, n.name)
		}
	}
	if rest := k &^ DependencyAll; rest != 0 {
		names = append(names, fmt.Sprintf("%#x", uint8(rest)))
	}
	return strings.Join(names, "|")
}

// ParseDependencyKinds combines the named kinds. Names are matched case
// insensitively, and "none" and "all" are accepted. No names means all.
func ParseDependencyKinds(names ...string) (DependencyKind, error) {
	if len(names) == 0 {
		return DependencyAll, nil
	}
	var k DependencyKind
	for _, raw := range names {
		for _, name := range strings.Split(raw, "|") {
			kind, err := parseDependencyKind(strings.TrimSpace(name))
			if err != nil {
				return DependencyNone, err
			}
			k |= kind
		}
	}
	return k, nil
}

func parseDependencyKind(name string) (DependencyKind, error) {
	switch strings.ToLower(name) {
	case "none":
		return DependencyNone, nil
	case "all":
		return DependencyAll, nil
	}
	for _, n := range dependencyKindNames {
		if strings.EqualFold(n.name, name) {
			return n.kind, nil
		}
	}
	return DependencyNone, &InvalidDependencyKindError{Value: name}
}

// ParseCyclePolicy parses a cycle policy name. An empty name is
// CycleKeepOrder.
func ParseCyclePolicy(name string) (CyclePolicy, error) {
	switch p := CyclePolicy(strings.ToLower(name)); p {
	case "":
		return CycleKeepOrder, nil
	case CycleKeepOrder, CycleFail:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q (valid: keep-order, fail)", ErrInvalidCyclePolicy, name)
}
