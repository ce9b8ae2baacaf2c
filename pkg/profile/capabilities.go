// SPDX-License-Identifier: MPL-2.0

package profile

import (
	"slices"

	"github.com/invowk/umlgraph/pkg/delegate"
	"github.com/invowk/umlgraph/pkg/elements"
)

type (
	// Capabilities is a lookup of what the stereotypes of a set of profiles
	// add to each element kind. It is built once, after the profiles are
	// read, and never changes the elements themselves.
	Capabilities struct {
		delegate *delegate.ModelDelegate
		byKind   map[elements.ElementType][]*elements.Stereotype
		byID     map[string]*elements.Stereotype
		meta     map[capabilityKey][]*elements.Property
	}

	capabilityKey struct {
		kind         elements.ElementType
		stereotypeID string
	}
)

// NewCapabilities indexes the stereotypes of profiles by the metaclasses
// they extend. A stereotype applies to the metaclasses it extends and to
// those its specializations extend.
func NewCapabilities(d *delegate.ModelDelegate, profiles ...*elements.Profile) *Capabilities {
	c := &Capabilities{
		delegate: d,
		byKind:   map[elements.ElementType][]*elements.Stereotype{},
		byID:     map[string]*elements.Stereotype{},
		meta:     map[capabilityKey][]*elements.Property{},
	}
	for _, p := range profiles {
		for _, st := range Stereotypes(p) {
			c.byID[st.ID] = st
			attrs := d.AllAttributes(st)
			for _, kind := range AllMetaClassesExtendedBy(d, st) {
				c.byKind[kind] = append(c.byKind[kind], st)
				c.meta[capabilityKey{kind, st.ID}] = attrs
			}
		}
	}
	return c
}

// Stereotype returns an indexed stereotype by id.
func (c *Capabilities) Stereotype(id string) (*elements.Stereotype, bool) {
	st, ok := c.byID[id]
	return st, ok
}

// StereotypesFor returns the stereotypes that can be applied to elements of
// kind, in profile order.
func (c *Capabilities) StereotypesFor(kind elements.ElementType) []*elements.Stereotype {
	return slices.Clone(c.byKind[kind])
}

// MetaAttributes returns the meta-attributes the stereotype adds to elements
// of kind. ok is false when the stereotype does not extend kind.
func (c *Capabilities) MetaAttributes(kind elements.ElementType, stereotypeID string) ([]*elements.Property, bool) {
	attrs, ok := c.meta[capabilityKey{kind, stereotypeID}]
	return attrs, ok
}

// Is reports whether the stereotype extends the kind of e and is applied to
// e, directly or through a specializing stereotype.
func (c *Capabilities) Is(e elements.Element, stereotypeID string) bool {
	if _, ok := c.MetaAttributes(elements.KindOf(e), stereotypeID); !ok {
		return false
	}
	return HasStereotypeID(c.delegate, e, stereotypeID)
}

// Value returns the value of a stereotype meta-attribute on e: the value
// materialized when the stereotype was applied, else the meta-attribute's
// default. ok is false when the stereotype does not define name for the
// kind of e or is not applied to e.
func (c *Capabilities) Value(e elements.Element, stereotypeID, name string) (any, bool) {
	if !c.Is(e, stereotypeID) {
		return nil, false
	}
	attrs, _ := c.MetaAttributes(elements.KindOf(e), stereotypeID)
	i := slices.IndexFunc(attrs, func(p *elements.Property) bool { return p.Name == name })
	if i < 0 {
		return nil, false
	}
	if v, ok := e.AsElement().Extension(name); ok {
		return v, true
	}
	return c.delegate.Default(attrs[i]), true
}

// PackagedElementsOf returns the elements packaged directly in pkg that have
// the stereotype applied, optionally restricted to elements of exactly kind.
func (c *Capabilities) PackagedElementsOf(pkg elements.Namespace, stereotypeID string, kind ...elements.ElementType) []elements.PackageableElement {
	return FilterByStereotypeID(c.delegate, pkg.AsPackage().PackagedElements, stereotypeID, kind...)
}

// OwnedAttributesOf returns the attributes of mc that have the stereotype
// applied.
func (c *Capabilities) OwnedAttributesOf(mc elements.MemberedClassifier, stereotypeID string) []*elements.Property {
	return FilterByStereotypeID(c.delegate, mc.AsMembered().OwnedAttributes, stereotypeID)
}

// OwnedOperationsOf returns the operations of mc that have the stereotype
// applied.
func (c *Capabilities) OwnedOperationsOf(mc elements.MemberedClassifier, stereotypeID string) []*elements.Operation {
	return FilterByStereotypeID(c.delegate, mc.AsMembered().OwnedOperations, stereotypeID)
}

// PackagesOf returns the packages packaged directly in pkg that have the
// profile applied.
func (c *Capabilities) PackagesOf(pkg elements.Namespace, profileID string) []*elements.Package {
	return FilterByProfileID(pkg.AsPackage().PackagedElements, profileID)
}
