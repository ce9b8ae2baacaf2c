// SPDX-License-Identifier: MPL-2.0

// Package factory builds element graphs in code. Every element it creates is
// registered with the graph's identity index and attached to its owner, so
// navigation queries work on the result exactly as on a decoded document.
package factory

import (
	"fmt"

	"github.com/invowk/umlgraph/pkg/delegate"
	"github.com/invowk/umlgraph/pkg/elementmap"
	"github.com/invowk/umlgraph/pkg/elements"
	"github.com/invowk/umlgraph/pkg/resolver"
)

// ElementFactory creates elements in one graph. Owner parameters are typed,
// so attaching cannot fail for well-formed calls; the first failure is kept
// and reported by Err.
type ElementFactory struct {
	delegate *delegate.ModelDelegate
	err      error
}

// New returns a factory for the graph behind d. A nil d gets a fresh graph
// seeded with the primitive types.
func New(d *delegate.ModelDelegate) *ElementFactory {
	if d == nil {
		d = delegate.New(elementmap.New(elementmap.WithPrimitives()))
	}
	return &ElementFactory{delegate: d}
}

// NewModel creates a model named name in the graph behind d and passes it to
// each init function.
func NewModel(d *delegate.ModelDelegate, name string, init ...func(*ElementFactory, *elements.Model)) (*elements.Model, *ElementFactory) {
	f := New(d)
	m := create[*elements.Model](f, elements.KindModel, nil, "", "")
	m.Name = name
	for _, fn := range init {
		fn(f, m)
	}
	return m, f
}

// Delegate returns the navigation engine of the factory's graph.
func (f *ElementFactory) Delegate() *delegate.ModelDelegate { return f.delegate }

// Err returns the first error met while building, if any.
func (f *ElementFactory) Err() error { return f.err }

func create[T elements.Element](f *ElementFactory, kind elements.ElementType, owner elements.Element, key, id string) T {
	e, err := f.delegate.CreateElement(kind, owner, id)
	if err != nil {
		f.fail(err)
		var zero T
		return zero
	}
	if owner != nil {
		if err := elements.Attach(owner, key, e); err != nil {
			f.fail(err)
		}
	}
	return e.(T)
}

func named[T elements.NamedElement](f *ElementFactory, kind elements.ElementType, owner elements.Element, key, id, name string) T {
	e := create[T](f, kind, owner, key, id)
	e.AsNamed().Name = name
	return e
}

func (f *ElementFactory) fail(err error) {
	if f.err == nil {
		f.err = err
	}
}

// AddPackage adds a package to owner.
func (f *ElementFactory) AddPackage(owner elements.Namespace, id, name string) *elements.Package {
	return named[*elements.Package](f, elements.KindPackage, owner, "packagedElements", id, name)
}

// AddProfile adds a profile to owner.
func (f *ElementFactory) AddProfile(owner elements.Namespace, id, name string) *elements.Profile {
	p := named[*elements.Profile](f, elements.KindProfile, owner, "packagedElements", id, name)
	p.SafeName = name
	return p
}

// AddClass adds a class to owner.
func (f *ElementFactory) AddClass(owner elements.Namespace, id, name string) *elements.Class {
	return named[*elements.Class](f, elements.KindClass, owner, "packagedElements", id, name)
}

// AddStereotype adds a stereotype extending the given metaclasses to owner.
func (f *ElementFactory) AddStereotype(owner elements.Namespace, id, name string, metaClasses ...elements.ElementType) *elements.Stereotype {
	st := named[*elements.Stereotype](f, elements.KindStereotype, owner, "packagedElements", id, name)
	st.SafeName = name
	for _, mc := range metaClasses {
		ext := create[*elements.StereotypeExtension](f, elements.KindStereotypeExtension, st, "extends", "")
		ext.MetaClass = mc
	}
	return st
}

// AddInterface adds an interface to owner.
func (f *ElementFactory) AddInterface(owner elements.Namespace, id, name string) *elements.Interface {
	return named[*elements.Interface](f, elements.KindInterface, owner, "packagedElements", id, name)
}

// AddDataType adds a data type to owner.
func (f *ElementFactory) AddDataType(owner elements.Namespace, id, name string) *elements.DataType {
	return named[*elements.DataType](f, elements.KindDataType, owner, "packagedElements", id, name)
}

// AddEnumeration adds an enumeration to owner.
func (f *ElementFactory) AddEnumeration(owner elements.Namespace, id, name string) *elements.Enumeration {
	return named[*elements.Enumeration](f, elements.KindEnumeration, owner, "packagedElements", id, name)
}

// AddLiteral appends a literal to enum. Its order follows the existing
// literals.
func (f *ElementFactory) AddLiteral(enum *elements.Enumeration, id, name string) *elements.EnumerationLiteral {
	order := len(enum.OwnedLiterals) + 1
	lit := named[*elements.EnumerationLiteral](f, elements.KindEnumerationLiteral, enum, "ownedLiterals", id, name)
	lit.Order = order
	return lit
}

// AddProperty adds an attribute of the given type to owner.
func (f *ElementFactory) AddProperty(owner elements.MemberedClassifier, id, name, typeID string) *elements.Property {
	p := named[*elements.Property](f, elements.KindProperty, owner, "ownedAttributes", id, name)
	p.TypeID = typeID
	return p
}

// AddOperation adds an operation to owner.
func (f *ElementFactory) AddOperation(owner elements.MemberedClassifier, id, name string) *elements.Operation {
	return named[*elements.Operation](f, elements.KindOperation, owner, "ownedOperations", id, name)
}

// AddParameter appends a parameter to op.
func (f *ElementFactory) AddParameter(op *elements.Operation, id, name, typeID string, dir elements.ParameterDirectionKind) *elements.Parameter {
	p := named[*elements.Parameter](f, elements.KindParameter, op, "ownedParameters", id, name)
	p.TypeID = typeID
	p.Direction = dir
	return p
}

// AddGeneralization makes general a parent of specific.
func (f *ElementFactory) AddGeneralization(specific, general elements.Classifier) *elements.Generalization {
	g := create[*elements.Generalization](f, elements.KindGeneralization, specific, "generalizations", "")
	g.GeneralID = general.AsElement().ID
	f.delegate.OnGeneralizationAdded(g)
	return g
}

// AddInterfaceRealization makes c realize contract.
func (f *ElementFactory) AddInterfaceRealization(c elements.BehavioredClassifier, contract *elements.Interface) *elements.InterfaceRealization {
	ir := create[*elements.InterfaceRealization](f, elements.KindInterfaceRealization, c, "interfaceRealizations", "")
	ir.ContractID = contract.ID
	return ir
}

// AddAssociation adds an association between ends to owner.
func (f *ElementFactory) AddAssociation(owner elements.Namespace, id string, ends ...*elements.Property) *elements.Association {
	a := create[*elements.Association](f, elements.KindAssociation, owner, "packagedElements", id)
	for _, end := range ends {
		a.MemberEnds = append(a.MemberEnds, end.ID)
		f.delegate.OnMemberEndAdded(a, end)
	}
	return a
}

// AddComment attaches a comment to owner. Comments get a generated id.
func (f *ElementFactory) AddComment(owner elements.Element, body string) *elements.Comment {
	c := create[*elements.Comment](f, elements.KindComment, owner, "ownedComments", "")
	c.Body = body
	return c
}

// SetMultiplicity replaces the bounds of e.
func (f *ElementFactory) SetMultiplicity(e elements.MultiplicityElement, lower int, upper elements.UnlimitedNatural) {
	mc := e.AsMultiplicity()
	for _, old := range []elements.ValueSpecification{mc.LowerValue, mc.UpperValue} {
		if old != nil {
			f.delegate.Orphan(old)
		}
	}
	mc.LowerValue, mc.UpperValue = nil, nil

	lo := create[*elements.LiteralInteger](f, elements.KindLiteralInteger, e, "lowerValue", "")
	lo.Value = lower
	hi := create[*elements.LiteralUnlimitedNatural](f, elements.KindLiteralUnlimitedNatural, e, "upperValue", "")
	hi.Value = upper
}

// SetDefault replaces the default value of p.
func (f *ElementFactory) SetDefault(p *elements.Property, value any) {
	if p.DefaultValue != nil {
		f.delegate.Orphan(p.DefaultValue)
		p.DefaultValue = nil
	}
	f.literal(p, "defaultValue", value)
}

// ApplyStereotype applies st to e with the given meta-attribute values, keyed
// by meta-attribute name. The values are materialized onto e the same way as
// when a document is read.
func (f *ElementFactory) ApplyStereotype(e elements.Element, st *elements.Stereotype, values map[string]any) {
	for _, meta := range f.delegate.AllAttributes(st) {
		v, ok := values[meta.Name]
		if !ok {
			continue
		}
		tv := create[*elements.TaggedValueSpecification](f, elements.KindTaggedValueSpecification, e, "taggedValues", "")
		tv.DefinitionID = meta.ID
		f.literal(tv, "specification", v)
	}
	r := resolver.New(f.delegate)
	r.AddUnresolvedReference(resolver.KeyAppliedStereotypes, e, st.ID)
	r.Resolve()
}

// literal creates a literal holding v under owner.key. Unsupported values are
// recorded as an error.
func (f *ElementFactory) literal(owner elements.Element, key string, v any) elements.ValueSpecification {
	switch x := v.(type) {
	case nil:
		return create[*elements.LiteralNull](f, elements.KindLiteralNull, owner, key, "")
	case string:
		l := create[*elements.LiteralString](f, elements.KindLiteralString, owner, key, "")
		l.Value = x
		return l
	case bool:
		l := create[*elements.LiteralBoolean](f, elements.KindLiteralBoolean, owner, key, "")
		l.Value = x
		return l
	case int:
		l := create[*elements.LiteralInteger](f, elements.KindLiteralInteger, owner, key, "")
		l.Value = x
		return l
	case float64:
		l := create[*elements.LiteralReal](f, elements.KindLiteralReal, owner, key, "")
		l.Value = x
		return l
	case elements.UnlimitedNatural:
		l := create[*elements.LiteralUnlimitedNatural](f, elements.KindLiteralUnlimitedNatural, owner, key, "")
		l.Value = x
		return l
	}
	f.fail(fmt.Errorf("no literal kind for %T", v))
	return nil
}
