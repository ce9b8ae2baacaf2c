// SPDX-License-Identifier: MPL-2.0

package delegate

import (
	"fmt"
	"strconv"

	"github.com/invowk/umlgraph/pkg/elements"
)

// ReturnParameter returns the first parameter of op with direction return.
func (d *ModelDelegate) ReturnParameter(op *elements.Operation) (*elements.Parameter, bool) {
	for _, p := range op.OwnedParameters {
		if p.Direction == elements.DirectionReturn && d.live(p) {
			return p, true
		}
	}
	return nil, false
}

// InputParameters returns the in and inout parameters of op.
func (d *ModelDelegate) InputParameters(op *elements.Operation) []*elements.Parameter {
	return d.parametersWith(op, elements.DirectionIn, elements.DirectionInOut)
}

// OutputParameters returns the out, inout and return parameters of op.
func (d *ModelDelegate) OutputParameters(op *elements.Operation) []*elements.Parameter {
	return d.parametersWith(op, elements.DirectionOut, elements.DirectionInOut, elements.DirectionReturn)
}

func (d *ModelDelegate) parametersWith(op *elements.Operation, dirs ...elements.ParameterDirectionKind) []*elements.Parameter {
	var out []*elements.Parameter
	for _, p := range op.OwnedParameters {
		if !d.live(p) {
			continue
		}
		for _, dir := range dirs {
			if p.Direction == dir {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// ReturnType returns the type of the return parameter of op.
func (d *ModelDelegate) ReturnType(op *elements.Operation) (elements.Classifier, bool) {
	p, ok := d.ReturnParameter(op)
	if !ok {
		return nil, false
	}
	return d.Type(p)
}

// Type returns the live type of t.
func (d *ModelDelegate) Type(t elements.TypedElement) (elements.Classifier, bool) {
	return lookupAs[elements.Classifier](d, t.AsTyped().TypeID)
}

// TypeName returns the name of the type of t, or "".
func (d *ModelDelegate) TypeName(t elements.TypedElement) string {
	typ, ok := d.Type(t)
	if !ok {
		return ""
	}
	return typ.AsNamed().Name
}

// Association returns the association p belongs to: its owner when the owner
// is an association, otherwise the association indexed for p as a member end.
func (d *ModelDelegate) Association(p *elements.Property) (*elements.Association, bool) {
	if a, ok := lookupAs[*elements.Association](d, p.OwnerID); ok {
		return a, true
	}
	a, ok := d.elements.AssociationHavingMemberEnd(p)
	if !ok || !d.live(a) {
		return nil, false
	}
	return a, true
}

// Enumeration returns the enumeration owning literal.
func (d *ModelDelegate) Enumeration(literal *elements.EnumerationLiteral) (*elements.Enumeration, bool) {
	return lookupAs[*elements.Enumeration](d, literal.OwnerID)
}

// SpecificationValue returns the raw value of the literal's specification.
func (d *ModelDelegate) SpecificationValue(literal *elements.EnumerationLiteral) any {
	if literal.Specification == nil {
		return nil
	}
	return d.Value(literal.Specification)
}

// Default returns the raw default value of a property or parameter.
func (d *ModelDelegate) Default(e elements.Element) any {
	var vs elements.ValueSpecification
	switch x := e.(type) {
	case *elements.Property:
		vs = x.DefaultValue
	case *elements.Parameter:
		vs = x.DefaultValue
	}
	if vs == nil {
		return nil
	}
	return d.Value(vs)
}

// Value returns the raw value of vs. A null literal yields nil.
func (d *ModelDelegate) Value(vs elements.ValueSpecification) any {
	return vs.RawValue()
}

// StringValue renders the value of vs. The unlimited natural prints as "*".
// ok is false for a null literal.
func (d *ModelDelegate) StringValue(vs elements.ValueSpecification) (string, bool) {
	switch raw := vs.RawValue().(type) {
	case nil:
		return "", false
	case elements.UnlimitedNatural:
		return raw.String(), true
	case float64:
		return strconv.FormatFloat(raw, 'f', -1, 64), true
	default:
		return fmt.Sprint(raw), true
	}
}

// FirstCommentBody returns the body of the first owned comment of e, or "".
func (d *ModelDelegate) FirstCommentBody(e elements.Element) string {
	comments := e.AsElement().OwnedComments
	if len(comments) == 0 {
		return ""
	}
	return comments[0].Body
}
