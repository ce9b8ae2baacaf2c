// SPDX-License-Identifier: MPL-2.0

package elements

type (
	// Element is any node in the graph.
	Element interface {
		AsElement() *ElementCore
	}

	// NamedElement is an element that may have a name.
	NamedElement interface {
		Element
		AsNamed() *NamedCore
	}

	// TypedElement is a named element that refers to a type by id.
	TypedElement interface {
		NamedElement
		AsTyped() *TypedCore
	}

	// MultiplicityElement carries lower and upper bound value specifications.
	MultiplicityElement interface {
		TypedElement
		AsMultiplicity() *MultiplicityCore
	}

	// Classifier is a type that can take part in generalization.
	Classifier interface {
		PackageableElement
		AsClassifier() *ClassifierCore
	}

	// MemberedClassifier is a classifier that owns attributes and operations.
	MemberedClassifier interface {
		Classifier
		AsMembered() *MembersCore
	}

	// BehavioredClassifier is a classifier that can realize interfaces.
	BehavioredClassifier interface {
		MemberedClassifier
		AsBehaviored() *BehaviorCore
	}

	// PackageableElement is an element that a package may own directly.
	PackageableElement interface {
		NamedElement
		packageable()
	}

	// Namespace is a package, profile or model.
	Namespace interface {
		PackageableElement
		AsPackage() *PackageCore
	}

	// Feature is a property or operation owned by a classifier.
	Feature interface {
		NamedElement
		Ordered
		AsFeature() *FeatureCore
	}

	// Ordered is implemented by elements that carry an explicit order.
	// An order of 0 means "no order".
	Ordered interface {
		OrderValue() int
	}

	// ValueSpecification is one of the literal kinds.
	ValueSpecification interface {
		TypedElement
		RawValue() any
	}
)

// ElementCore holds the attributes shared by every element.
type ElementCore struct {
	Kind               ElementType                 `json:"elementType"`
	ID                 string                      `json:"id,omitempty"`
	OwnedComments      []*Comment                  `json:"ownedComments,omitempty" uml:"owned-list"`
	AppliedStereotypes []string                    `json:"appliedStereotypes,omitempty" uml:"refs"`
	TaggedValues       []*TaggedValueSpecification `json:"taggedValues,omitempty" uml:"owned-list"`

	// OwnerID is the id of the containing element. It is a back-reference,
	// never ownership, and is not serialized.
	OwnerID string `json:"-"`
	// Extensions holds stereotype meta-attribute values materialized onto
	// this element when its applied stereotypes are resolved.
	Extensions map[string]any `json:"-"`
}

// AsElement returns the shared element attributes.
func (c *ElementCore) AsElement() *ElementCore { return c }

// SetExtension records a materialized stereotype value.
func (c *ElementCore) SetExtension(name string, value any) {
	if c.Extensions == nil {
		c.Extensions = make(map[string]any)
	}
	c.Extensions[name] = value
}

// Extension returns a materialized stereotype value.
func (c *ElementCore) Extension(name string) (any, bool) {
	v, ok := c.Extensions[name]
	return v, ok
}

// NamedCore adds a name and visibility.
type NamedCore struct {
	ElementCore
	Name       string         `json:"name,omitempty"`
	Visibility VisibilityKind `json:"visibility,omitempty"`
}

// AsNamed returns the name-bearing part of an element.
func (c *NamedCore) AsNamed() *NamedCore { return c }

// TypedCore refers to the element's type.
type TypedCore struct {
	TypeID string `json:"type,omitempty" uml:"ref"`
}

// AsTyped returns the type reference of an element.
func (c *TypedCore) AsTyped() *TypedCore { return c }

// MultiplicityCore holds multiplicity bounds.
type MultiplicityCore struct {
	IsOrdered  bool               `json:"isOrdered,omitempty"`
	IsUnique   bool               `json:"isUnique,omitempty"`
	LowerValue ValueSpecification `json:"lowerValue,omitempty" uml:"owned"`
	UpperValue ValueSpecification `json:"upperValue,omitempty" uml:"owned"`
}

// AsMultiplicity returns the multiplicity bounds of an element.
func (c *MultiplicityCore) AsMultiplicity() *MultiplicityCore { return c }

// ClassifierCore holds generalization data.
type ClassifierCore struct {
	IsAbstract            bool              `json:"isAbstract,omitempty"`
	IsFinalSpecialization bool              `json:"isFinalSpecialization,omitempty"`
	IsLeaf                bool              `json:"isLeaf,omitempty"`
	IsInferred            bool              `json:"isInferred,omitempty"`
	Generalizations       []*Generalization `json:"generalizations,omitempty" uml:"owned-list"`
}

// AsClassifier returns the generalization data of a classifier.
func (c *ClassifierCore) AsClassifier() *ClassifierCore { return c }

func (*ClassifierCore) packageable() {}

// MembersCore holds owned attributes and operations.
type MembersCore struct {
	OwnedAttributes []*Property  `json:"ownedAttributes,omitempty" uml:"owned-list"`
	OwnedOperations []*Operation `json:"ownedOperations,omitempty" uml:"owned-list"`
}

// AsMembered returns the owned attributes and operations.
func (c *MembersCore) AsMembered() *MembersCore { return c }

// BehaviorCore holds interface realizations.
type BehaviorCore struct {
	InterfaceRealizations []*InterfaceRealization `json:"interfaceRealizations,omitempty" uml:"owned-list"`
}

// AsBehaviored returns the interface realizations.
func (c *BehaviorCore) AsBehaviored() *BehaviorCore { return c }

// FeatureCore holds attributes common to properties and operations.
type FeatureCore struct {
	IsStatic bool `json:"isStatic,omitempty"`
	IsLeaf   bool `json:"isLeaf,omitempty"`
	Order    int  `json:"order,omitempty"`
}

// AsFeature returns the feature flags of a property or operation.
func (c *FeatureCore) AsFeature() *FeatureCore { return c }

// OrderValue returns the feature's order.
func (c *FeatureCore) OrderValue() int { return c.Order }

// PackageCore holds the contents of a package.
type PackageCore struct {
	IsNamespaceRoot  bool                 `json:"isNamespaceRoot,omitempty"`
	AppliedProfiles  []string             `json:"appliedProfiles,omitempty" uml:"refs"`
	PackagedElements []PackageableElement `json:"packagedElements,omitempty" uml:"owned-list"`
}

// AsPackage returns the contents of a package.
func (c *PackageCore) AsPackage() *PackageCore { return c }

func (*PackageCore) packageable() {}
