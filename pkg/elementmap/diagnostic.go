// SPDX-License-Identifier: MPL-2.0

package elementmap

import "fmt"

const (
	// SeverityWarning indicates a recoverable integrity warning.
	SeverityWarning Severity = "warning"
	// SeverityError indicates an integrity problem that leaves part of the
	// graph unusable, without aborting the pass that found it.
	SeverityError Severity = "error"
)

// Diagnostic codes.
const (
	// CodeDuplicateID reports a second element registered under an id that is
	// already taken. The later element replaces the earlier one.
	CodeDuplicateID = "duplicate_id"
	// CodeDanglingReference reports a reference whose target id is not indexed.
	CodeDanglingReference = "dangling_reference"
	// CodeAssociationEndConflict reports a property claimed as a member end by
	// more than one association.
	CodeAssociationEndConflict = "association_end_conflict"
	// CodeDependencyCycle reports packaged elements that depend on each other.
	CodeDependencyCycle = "dependency_cycle"
	// CodeUnknownKey reports a document key the element type does not declare.
	CodeUnknownKey = "unknown_key"
)

type (
	// Severity represents diagnostic severity.
	Severity string

	// Diagnostic is a structured integrity warning collected while building or
	// transforming a graph. Diagnostics are returned to callers rather than
	// failing the operation that produced them.
	Diagnostic struct {
		// Severity is the diagnostic level (warning or error).
		Severity Severity
		// Code is a machine-readable identifier (e.g., "duplicate_id").
		Code string
		// Message is the human-readable description.
		Message string
		// ElementID is the element the diagnostic is about (optional).
		ElementID string
		// Cause is the underlying error (optional).
		Cause error
	}
)

// String renders the diagnostic on one line.
func (d Diagnostic) String() string {
	if d.ElementID == "" {
		return fmt.Sprintf("%s [%s] %s", d.Severity, d.Code, d.Message)
	}
	return fmt.Sprintf("%s [%s] %s (id %s)", d.Severity, d.Code, d.Message, d.ElementID)
}

// HasErrors reports whether any diagnostic has error severity.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
