// SPDX-License-Identifier: MPL-2.0

package elements

import (
	"errors"
	"fmt"
)

// ErrNotAGraphNode is returned by New for the document envelope kinds.
var ErrNotAGraphNode = errors.New("element type is not a graph node")

// New returns a zero element of the concrete type for kind, with its kind tag set.
func New(kind ElementType) (Element, error) {
	var e Element
	switch kind {
	case KindComment:
		e = &Comment{}
	case KindTaggedValueSpecification:
		e = &TaggedValueSpecification{}
	case KindStereotypeExtension:
		e = &StereotypeExtension{}
	case KindGeneralization:
		e = &Generalization{}
	case KindInterfaceRealization:
		e = &InterfaceRealization{}
	case KindClass:
		e = &Class{}
	case KindStereotype:
		e = &Stereotype{}
	case KindInterface:
		e = &Interface{}
	case KindDataType:
		e = &DataType{}
	case KindPrimitiveType:
		e = &PrimitiveType{}
	case KindEnumeration:
		e = &Enumeration{}
	case KindEnumerationLiteral:
		e = &EnumerationLiteral{}
	case KindAssociation:
		e = &Association{}
	case KindProperty:
		e = &Property{}
	case KindParameter:
		e = &Parameter{}
	case KindOperation:
		e = &Operation{}
	case KindPackage:
		e = &Package{}
	case KindProfile:
		e = &Profile{}
	case KindModel:
		e = &Model{}
	case KindLiteralInteger:
		e = &LiteralInteger{}
	case KindLiteralString:
		e = &LiteralString{}
	case KindLiteralReal:
		e = &LiteralReal{}
	case KindLiteralBoolean:
		e = &LiteralBoolean{}
	case KindLiteralNull:
		e = &LiteralNull{}
	case KindLiteralUnlimitedNatural:
		e = &LiteralUnlimitedNatural{}
	case KindDocument, KindDocumentReference:
		return nil, fmt.Errorf("%w: %s", ErrNotAGraphNode, kind)
	default:
		return nil, &InvalidElementTypeError{Value: kind}
	}
	e.AsElement().Kind = kind
	return e, nil
}

// ID returns the id of e, or "" when e is nil.
func ID(e Element) string {
	if e == nil {
		return ""
	}
	return e.AsElement().ID
}

// KindOf returns the kind of e, or "" when e is nil.
func KindOf(e Element) ElementType {
	if e == nil {
		return ""
	}
	return e.AsElement().Kind
}

// Name returns the name of e when it is a named element.
func Name(e Element) string {
	if n, ok := e.(NamedElement); ok {
		return n.AsNamed().Name
	}
	return ""
}

// IDs maps elements to their ids.
func IDs[E Element](list []E) []string {
	out := make([]string, 0, len(list))
	for _, e := range list {
		out = append(out, e.AsElement().ID)
	}
	return out
}
