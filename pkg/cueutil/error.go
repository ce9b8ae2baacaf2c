// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

type (
	// CUEPath is a JSON-style path to a value, such as
	// "transform.dependency_kinds[0]" or "packagedElements[2].name".
	CUEPath string

	// Problem is one rejected value.
	Problem struct {
		// Path locates the value. Empty for syntax errors.
		Path CUEPath
		// Message is CUE's description with the path removed.
		Message string
	}

	// ValidationError lists the problems CUE reported for one file.
	ValidationError struct {
		FilePath string
		Problems []Problem
	}
)

// String returns the path text.
func (p CUEPath) String() string { return string(p) }

// Error renders "<file>: <path>: <message>" for a single problem and an
// indented list otherwise.
func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return e.FilePath + ": " + e.Problems[0].String()
	}
	lines := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		lines = append(lines, p.String())
	}
	return fmt.Sprintf("%s: validation failed:\n  %s", e.FilePath, strings.Join(lines, "\n  "))
}

// Path returns the first non-empty problem path.
func (e *ValidationError) Path() CUEPath {
	for _, p := range e.Problems {
		if p.Path != "" {
			return p.Path
		}
	}
	return ""
}

// String renders the problem as "path: message", or the bare message when
// there is no path.
func (p Problem) String() string {
	if p.Path == "" {
		return p.Message
	}
	return fmt.Sprintf("%s: %s", p.Path, p.Message)
}

// FormatError converts a CUE error into a *ValidationError naming filePath.
// Errors that carry no CUE detail are wrapped with the file name instead.
//
// Examples of the rendered message:
//   - config.cue: transform.cycle_policy: 2 errors in empty disjunction
//   - shop.cue: packagedElements[0].elementType: conflicting values
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	cueErrs := cueerrors.Errors(err)
	if len(cueErrs) == 0 {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	ve := &ValidationError{FilePath: filePath, Problems: make([]Problem, 0, len(cueErrs))}
	for _, e := range cueErrs {
		path := formatPath(cueerrors.Path(e))
		msg := e.Error()
		// CUE sometimes repeats the path in the message
		if path != "" && strings.HasPrefix(msg, path) {
			msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, path), ":"))
		}
		ve.Problems = append(ve.Problems, Problem{Path: CUEPath(path), Message: msg})
	}
	return ve
}

// formatPath converts a CUE error path such as ["packagedElements", "0",
// "name"] to "packagedElements[0].name".
func formatPath(path []string) string {
	var result strings.Builder
	for i, part := range path {
		switch {
		case i > 0 && isIndex(part):
			result.WriteString("[" + part + "]")
		case i > 0:
			result.WriteString("." + part)
		default:
			result.WriteString(part)
		}
	}
	return result.String()
}

func isIndex(part string) bool {
	if part == "" {
		return false
	}
	for _, c := range part {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CheckFileSize verifies that data does not exceed maxSize.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes",
			filename, len(data), maxSize)
	}
	return nil
}
