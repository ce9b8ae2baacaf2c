// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// Decode unifies data with the definition at defPath of schema, validates
// the result and decodes it into a T. Rejected values come back as a
// *ValidationError.
func Decode[T any](schema string, defPath string, data []byte, opts ...Option) (T, error) {
	var zero T
	options := collect(opts)
	filename := options.displayName()

	if err := CheckFileSize(data, options.maxFileSize, filename); err != nil {
		return zero, err
	}

	ctx := cuecontext.New()
	schemaValue := ctx.CompileString(schema)
	if err := schemaValue.Err(); err != nil {
		return zero, fmt.Errorf("internal error: compile schema: %w", err)
	}
	def := schemaValue.LookupPath(cue.ParsePath(defPath))
	if err := def.Err(); err != nil {
		return zero, fmt.Errorf("internal error: schema definition %s not found: %w", defPath, err)
	}

	userValue := ctx.CompileBytes(data, cue.Filename(filename))
	if err := userValue.Err(); err != nil {
		return zero, FormatError(err, filename)
	}

	unified := def.Unify(userValue)
	if err := unified.Validate(cue.Concrete(options.concrete)); err != nil {
		return zero, FormatError(err, filename)
	}

	var out T
	if err := unified.Decode(&out); err != nil {
		return zero, FormatError(err, filename)
	}
	return out, nil
}

// ExportJSON compiles a standalone CUE value and returns it as JSON. The
// value must be concrete.
func ExportJSON(data []byte, opts ...Option) ([]byte, error) {
	options := collect(opts)
	filename := options.displayName()

	if err := CheckFileSize(data, options.maxFileSize, filename); err != nil {
		return nil, err
	}

	v := cuecontext.New().CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, FormatError(err, filename)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, FormatError(err, filename)
	}
	out, err := v.MarshalJSON()
	if err != nil {
		return nil, FormatError(err, filename)
	}
	return out, nil
}
