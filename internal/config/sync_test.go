// SPDX-License-Identifier: MPL-2.0

package config

import (
	"maps"
	"reflect"
	"slices"
	"strings"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// compiledSchema compiles the embedded config schema.
func compiledSchema(t *testing.T) (*cue.Context, cue.Value) {
	t.Helper()

	ctx := cuecontext.New()
	schema := ctx.CompileString(configSchema)
	if err := schema.Err(); err != nil {
		t.Fatalf("compile config schema: %v", err)
	}
	return ctx, schema
}

func definition(t *testing.T, schema cue.Value, name string) cue.Value {
	t.Helper()

	def := schema.LookupPath(cue.ParsePath(name))
	if err := def.Err(); err != nil {
		t.Fatalf("lookup %s: %v", name, err)
	}
	return def
}

// schemaKeys lists the regular and optional fields declared by a definition.
func schemaKeys(t *testing.T, def cue.Value) []string {
	t.Helper()

	iter, err := def.Fields(cue.Definitions(false), cue.Optional(true))
	if err != nil {
		t.Fatalf("iterate fields: %v", err)
	}
	var keys []string
	for iter.Next() {
		sel := iter.Selector()
		if sel.IsDefinition() || sel.LabelType().IsHidden() {
			continue
		}
		keys = append(keys, strings.TrimSuffix(sel.String(), "?"))
	}
	slices.Sort(keys)
	return keys
}

// structKeys returns the json keys of typ and fails when a field's
// mapstructure tag disagrees with its json tag, since viper decodes through
// mapstructure while the schema is written against json names.
func structKeys(t *testing.T, typ reflect.Type) []string {
	t.Helper()

	keys := make(map[string]struct{})
	for i := range typ.NumField() {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		jsonKey, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if jsonKey == "" || jsonKey == "-" {
			continue
		}
		if ms, _, _ := strings.Cut(field.Tag.Get("mapstructure"), ","); ms != jsonKey {
			t.Errorf("%s.%s: mapstructure key %q differs from json key %q", typ.Name(), field.Name, ms, jsonKey)
		}
		keys[jsonKey] = struct{}{}
	}
	return slices.Sorted(maps.Keys(keys))
}

func TestSchemaMatchesStructTags(t *testing.T) {
	t.Parallel()

	_, schema := compiledSchema(t)
	tests := []struct {
		def string
		typ reflect.Type
	}{
		{"#Config", reflect.TypeFor[Config]()},
		{"#CodecConfig", reflect.TypeFor[CodecConfig]()},
		{"#TransformConfig", reflect.TypeFor[TransformConfig]()},
		{"#NamingConfig", reflect.TypeFor[NamingConfig]()},
		{"#UIConfig", reflect.TypeFor[UIConfig]()},
	}
	for _, tt := range tests {
		t.Run(tt.def, func(t *testing.T) {
			t.Parallel()
			cueKeys := schemaKeys(t, definition(t, schema, tt.def))
			goKeys := structKeys(t, tt.typ)
			if !slices.Equal(cueKeys, goKeys) {
				t.Errorf("%s keys = %v, %s tags = %v", tt.def, cueKeys, tt.typ.Name(), goKeys)
			}
		})
	}
}

func TestSchemaAcceptsGeneratedDefaults(t *testing.T) {
	t.Parallel()

	ctx, schema := compiledSchema(t)
	generated := ctx.CompileString(GenerateCUE(DefaultConfig()))
	if err := generated.Err(); err != nil {
		t.Fatalf("compile generated config: %v", err)
	}
	unified := definition(t, schema, "#Config").Unify(generated)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		t.Errorf("generated defaults rejected by #Config: %v", err)
	}
}

func TestSchemaDependencyKindsMatchTransform(t *testing.T) {
	t.Parallel()

	_, schema := compiledSchema(t)
	op, args := definition(t, schema, "#DependencyKind").Expr()
	if op != cue.OrOp {
		t.Fatalf("#DependencyKind should be a disjunction, got %v", op)
	}
	for _, arg := range args {
		name, err := arg.String()
		if err != nil {
			t.Fatalf("non-string kind: %v", err)
		}
		cfg := TransformConfig{DependencyKinds: []string{name}}
		if valid, errs := cfg.IsValid(); !valid {
			t.Errorf("schema kind %q is rejected by the sort: %v", name, errs)
		}
	}
}
