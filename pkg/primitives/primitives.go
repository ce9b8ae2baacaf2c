// SPDX-License-Identifier: MPL-2.0

// Package primitives provides the built-in primitive types that documents may
// reference by well-known id without declaring them.
package primitives

import "github.com/invowk/umlgraph/pkg/elements"

// Well-known ids of the built-in primitive types.
const (
	BooleanID = "boolean_id"
	IntegerID = "integer_id"
	RealID    = "real_id"
	StringID  = "string_id"
	ObjectID  = "object_id"
)

type (
	// TypeResolver returns a type for a well-known id.
	TypeResolver interface {
		ResolveType(id string) (elements.Classifier, bool)
	}

	// TypeResolverFunc adapts a function to TypeResolver.
	TypeResolverFunc func(id string) (elements.Classifier, bool)

	// Resolver resolves the built-in primitive types and delegates any other id
	// to an optional custom resolver. It returns the same instance for an id
	// on every call.
	Resolver struct {
		builtins map[string]elements.Classifier
		custom   TypeResolver
	}
)

// ResolveType implements TypeResolver.
func (f TypeResolverFunc) ResolveType(id string) (elements.Classifier, bool) { return f(id) }

// IDs returns the well-known ids in seeding order.
func IDs() []string {
	return []string{BooleanID, IntegerID, StringID, RealID, ObjectID}
}

// IsWellKnown reports whether id names a built-in primitive.
func IsWellKnown(id string) bool {
	switch id {
	case BooleanID, IntegerID, RealID, StringID, ObjectID:
		return true
	default:
		return false
	}
}

// All returns a fresh instance of each built-in type, in IDs order.
func All() []elements.Classifier {
	out := make([]elements.Classifier, 0, 5)
	for _, id := range IDs() {
		out = append(out, newBuiltin(id))
	}
	return out
}

// NewResolver returns a Resolver. custom may be nil.
func NewResolver(custom TypeResolver) *Resolver {
	r := &Resolver{builtins: make(map[string]elements.Classifier, 5), custom: custom}
	for _, t := range All() {
		r.builtins[t.AsElement().ID] = t
	}
	return r
}

// ResolveType implements TypeResolver.
func (r *Resolver) ResolveType(id string) (elements.Classifier, bool) {
	if t, ok := r.builtins[id]; ok {
		return t, true
	}
	if r.custom != nil {
		return r.custom.ResolveType(id)
	}
	return nil, false
}

func newBuiltin(id string) elements.Classifier {
	if id == ObjectID {
		dt := &elements.DataType{}
		dt.Kind = elements.KindDataType
		dt.ID = id
		dt.Name = "object"
		return dt
	}
	pt := &elements.PrimitiveType{}
	pt.Kind = elements.KindPrimitiveType
	pt.ID = id
	switch id {
	case BooleanID:
		pt.Name = "boolean"
	case IntegerID:
		pt.Name = "integer"
	case RealID:
		pt.Name = "real"
	case StringID:
		pt.Name = "string"
	}
	return pt
}
