// SPDX-License-Identifier: MPL-2.0

package elements

import (
	"errors"
	"fmt"
)

// Element kinds, as written in the elementType key of a document.
const (
	KindTaggedValueSpecification ElementType = "taggedValueSpecification"
	KindStereotypeExtension      ElementType = "stereotypeExtension"
	KindClass                    ElementType = "class"
	KindStereotype               ElementType = "stereotype"
	KindProperty                 ElementType = "property"
	KindPackage                  ElementType = "package"
	KindProfile                  ElementType = "profile"
	KindDataType                 ElementType = "dataType"
	KindPrimitiveType            ElementType = "primitiveType"
	KindParameter                ElementType = "parameter"
	KindOperation                ElementType = "operation"
	KindModel                    ElementType = "model"
	KindLiteralUnlimitedNatural  ElementType = "literalUnlimitedNatural"
	KindLiteralString            ElementType = "literalString"
	KindLiteralReal              ElementType = "literalReal"
	KindLiteralNull              ElementType = "literalNull"
	KindLiteralInteger           ElementType = "literalInteger"
	KindLiteralBoolean           ElementType = "literalBoolean"
	KindInterfaceRealization     ElementType = "interfaceRealization"
	KindInterface                ElementType = "interface"
	KindGeneralization           ElementType = "generalization"
	KindEnumerationLiteral       ElementType = "enumerationLiteral"
	KindEnumeration              ElementType = "enumeration"
	KindDocumentReference        ElementType = "documentReference"
	KindDocument                 ElementType = "document"
	KindComment                  ElementType = "comment"
	KindAssociation              ElementType = "association"
)

// Enumerated attribute values.
const (
	VisibilityPublic    VisibilityKind = "public"
	VisibilityPrivate   VisibilityKind = "private"
	VisibilityProtected VisibilityKind = "protected"
	VisibilityPackage   VisibilityKind = "package"

	AggregationNone      AggregationKind = "none"
	AggregationShared    AggregationKind = "shared"
	AggregationComposite AggregationKind = "composite"

	DirectionIn     ParameterDirectionKind = "in"
	DirectionInOut  ParameterDirectionKind = "inout"
	DirectionOut    ParameterDirectionKind = "out"
	DirectionReturn ParameterDirectionKind = "return"
)

// ErrInvalidElementType is the sentinel error wrapped by InvalidElementTypeError.
var ErrInvalidElementType = errors.New("invalid element type")

type (
	// ElementType is the closed tag identifying the kind of an element.
	ElementType string

	// VisibilityKind determines where a named element is visible.
	VisibilityKind string

	// AggregationKind states the aggregation semantics of a property.
	AggregationKind string

	// ParameterDirectionKind states how a parameter passes data.
	ParameterDirectionKind string

	// InvalidElementTypeError is returned when an ElementType value is not one
	// of the known kinds. It wraps ErrInvalidElementType for errors.Is().
	InvalidElementTypeError struct {
		Value ElementType
	}
)

var allKinds = []ElementType{
	KindTaggedValueSpecification, KindStereotypeExtension, KindClass, KindStereotype,
	KindProperty, KindPackage, KindProfile, KindDataType, KindPrimitiveType, KindParameter,
	KindOperation, KindModel, KindLiteralUnlimitedNatural, KindLiteralString, KindLiteralReal,
	KindLiteralNull, KindLiteralInteger, KindLiteralBoolean, KindInterfaceRealization,
	KindInterface, KindGeneralization, KindEnumerationLiteral, KindEnumeration,
	KindDocumentReference, KindDocument, KindComment, KindAssociation,
}

// Kinds returns every known element kind.
func Kinds() []ElementType {
	out := make([]ElementType, len(allKinds))
	copy(out, allKinds)
	return out
}

// Error implements the error interface.
func (e *InvalidElementTypeError) Error() string {
	return fmt.Sprintf("invalid element type %q", e.Value)
}

// Unwrap returns ErrInvalidElementType for errors.Is() compatibility.
func (e *InvalidElementTypeError) Unwrap() error { return ErrInvalidElementType }

// String returns the tag.
func (t ElementType) String() string { return string(t) }

// IsValid reports whether t is one of the known kinds.
func (t ElementType) IsValid() (bool, []error) {
	for _, k := range allKinds {
		if k == t {
			return true, nil
		}
	}
	return false, []error{&InvalidElementTypeError{Value: t}}
}

// IsClassifier reports whether elements of this kind can take part in generalization.
func (t ElementType) IsClassifier() bool {
	switch t {
	case KindClass, KindStereotype, KindInterface, KindDataType, KindPrimitiveType,
		KindEnumeration, KindAssociation:
		return true
	default:
		return false
	}
}

// IsType reports whether the kind is a Type. All classifiers are types.
func (t ElementType) IsType() bool {
	return t.IsClassifier()
}

// IsMemberedClassifier reports whether the kind owns attributes and operations.
func (t ElementType) IsMemberedClassifier() bool {
	switch t {
	case KindClass, KindStereotype, KindInterface, KindDataType, KindPrimitiveType, KindEnumeration:
		return true
	default:
		return false
	}
}

// IsBehavioredClassifier reports whether the kind can realize interfaces.
func (t ElementType) IsBehavioredClassifier() bool {
	return t == KindClass || t == KindStereotype
}

// IsPackage reports whether the kind is a package (including profiles and models).
func (t ElementType) IsPackage() bool {
	return t == KindPackage || t == KindProfile || t == KindModel
}

// IsClass reports whether the kind is a class (stereotypes are classes).
func (t ElementType) IsClass() bool {
	return t == KindClass || t == KindStereotype
}

// IsDataType reports whether the kind is a data type or one of its specializations.
func (t ElementType) IsDataType() bool {
	return t == KindDataType || t == KindPrimitiveType || t == KindEnumeration
}

// IsAssociation reports whether the kind is an association.
func (t ElementType) IsAssociation() bool {
	return t == KindAssociation
}

// IsFeature reports whether the kind is a feature of a classifier.
func (t ElementType) IsFeature() bool {
	return t == KindProperty || t == KindOperation
}

// IsValueSpecification reports whether the kind is one of the literal kinds.
func (t ElementType) IsValueSpecification() bool {
	switch t {
	case KindLiteralUnlimitedNatural, KindLiteralString, KindLiteralReal, KindLiteralNull,
		KindLiteralInteger, KindLiteralBoolean:
		return true
	default:
		return false
	}
}
