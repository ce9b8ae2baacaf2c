// SPDX-License-Identifier: MPL-2.0

package elements

type (
	// Comment is an annotation attached to an element.
	Comment struct {
		ElementCore
		Body string `json:"body,omitempty"`
	}

	// TaggedValueSpecification holds the value of one stereotype meta-attribute.
	TaggedValueSpecification struct {
		ElementCore
		DefinitionID  string             `json:"definition,omitempty" uml:"ref"`
		Specification ValueSpecification `json:"specification,omitempty" uml:"owned"`
	}

	// StereotypeExtension names a metaclass that a stereotype extends.
	StereotypeExtension struct {
		ElementCore
		IsRequired bool        `json:"isRequired,omitempty"`
		MetaClass  ElementType `json:"metaClass,omitempty"`
	}

	// Generalization is a specific-to-general edge owned by the specific classifier.
	Generalization struct {
		ElementCore
		GeneralID       string `json:"general,omitempty" uml:"ref"`
		IsSubstitutable bool   `json:"isSubstitutable,omitempty"`
	}

	// InterfaceRealization is a realization edge to an interface contract.
	InterfaceRealization struct {
		NamedCore
		ContractID string `json:"contract,omitempty" uml:"ref"`
	}

	// Class is a classifier with attributes, operations and behavior.
	Class struct {
		NamedCore
		ClassifierCore
		MembersCore
		BehaviorCore
		IsActive bool `json:"isActive,omitempty"`
	}

	// Stereotype is a class defined in a profile that extends metaclasses
	// with meta-attributes.
	Stereotype struct {
		Class
		Extends  []*StereotypeExtension `json:"extends,omitempty" uml:"owned-list"`
		SafeName string                 `json:"safeName,omitempty"`
	}

	// Interface declares a contract that classifiers realize.
	Interface struct {
		NamedCore
		ClassifierCore
		MembersCore
	}

	// DataType is a classifier whose instances are identified by value.
	DataType struct {
		NamedCore
		ClassifierCore
		MembersCore
	}

	// PrimitiveType is a predefined data type such as string or integer.
	PrimitiveType struct {
		DataType
	}

	// Enumeration is a data type whose values are its owned literals.
	Enumeration struct {
		DataType
		BaseTypeID    string                `json:"baseType,omitempty" uml:"ref"`
		OwnedLiterals []*EnumerationLiteral `json:"ownedLiterals,omitempty" uml:"owned-list"`
	}

	// EnumerationLiteral is one value of an enumeration.
	EnumerationLiteral struct {
		NamedCore
		Order         int                `json:"order,omitempty"`
		Specification ValueSpecification `json:"specification,omitempty" uml:"owned"`
	}

	// Association relates properties. Its member ends may be owned by the
	// association itself or by other classifiers.
	Association struct {
		NamedCore
		ClassifierCore
		MemberEnds []string    `json:"memberEnds,omitempty" uml:"refs"`
		OwnedEnds  []*Property `json:"ownedEnds,omitempty" uml:"owned-list"`
	}

	// Property is a typed structural feature: an attribute or an association end.
	Property struct {
		NamedCore
		TypedCore
		MultiplicityCore
		FeatureCore
		IsReadOnly     bool               `json:"isReadOnly,omitempty"`
		Aggregation    AggregationKind    `json:"aggregation,omitempty"`
		DefaultValue   ValueSpecification `json:"defaultValue,omitempty" uml:"owned"`
		IsDerived      bool               `json:"isDerived,omitempty"`
		IsDerivedUnion bool               `json:"isDerivedUnion,omitempty"`
		IsID           bool               `json:"isID,omitempty"`
		IsNavigable    bool               `json:"isNavigable,omitempty"`
	}

	// Parameter is one argument or the return value of an operation.
	Parameter struct {
		NamedCore
		TypedCore
		MultiplicityCore
		Order        int                    `json:"order,omitempty"`
		DefaultValue ValueSpecification     `json:"defaultValue,omitempty" uml:"owned"`
		Direction    ParameterDirectionKind `json:"direction,omitempty"`
		IsException  bool                   `json:"isException,omitempty"`
		IsStream     bool                   `json:"isStream,omitempty"`
	}

	// Operation is a behavioral feature owned by a classifier.
	Operation struct {
		NamedCore
		FeatureCore
		IsAbstract      bool         `json:"isAbstract,omitempty"`
		OwnedParameters []*Parameter `json:"ownedParameters,omitempty" uml:"owned-list"`
		IsConstructor   bool         `json:"isConstructor,omitempty"`
		IsQuery         bool         `json:"isQuery,omitempty"`
	}

	// Package is a namespace for packaged elements.
	Package struct {
		NamedCore
		PackageCore
	}

	// Profile is a package of stereotypes.
	Profile struct {
		Package
		SafeName string `json:"safeName,omitempty"`
	}

	// Model is the root package of a document.
	Model struct {
		Package
	}

	// LiteralInteger is an integer value specification.
	LiteralInteger struct {
		NamedCore
		TypedCore
		Value int `json:"value,omitempty"`
	}

	// LiteralString is a string value specification.
	LiteralString struct {
		NamedCore
		TypedCore
		Value string `json:"value,omitempty"`
	}

	// LiteralReal is a floating point value specification.
	LiteralReal struct {
		NamedCore
		TypedCore
		Value float64 `json:"value,omitempty"`
	}

	// LiteralBoolean is a boolean value specification.
	LiteralBoolean struct {
		NamedCore
		TypedCore
		Value bool `json:"value,omitempty"`
	}

	// LiteralNull is the absence of a value.
	LiteralNull struct {
		NamedCore
		TypedCore
	}

	// LiteralUnlimitedNatural is a value specification holding a natural
	// number or unlimited (*).
	LiteralUnlimitedNatural struct {
		NamedCore
		TypedCore
		Value UnlimitedNatural `json:"value"`
	}
)

// OrderValue returns the parameter's position.
func (p *Parameter) OrderValue() int { return p.Order }

// OrderValue returns the literal's position.
func (l *EnumerationLiteral) OrderValue() int { return l.Order }

// RawValue returns the literal's value as a Go value.
func (l *LiteralInteger) RawValue() any          { return l.Value }
func (l *LiteralString) RawValue() any           { return l.Value }
func (l *LiteralReal) RawValue() any             { return l.Value }
func (l *LiteralBoolean) RawValue() any          { return l.Value }
func (*LiteralNull) RawValue() any               { return nil }
func (l *LiteralUnlimitedNatural) RawValue() any { return l.Value }
