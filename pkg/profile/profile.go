// SPDX-License-Identifier: MPL-2.0

// Package profile answers questions about profiles, the stereotypes they
// define and the elements those stereotypes are applied to.
package profile

import (
	"slices"

	"github.com/invowk/umlgraph/pkg/delegate"
	"github.com/invowk/umlgraph/pkg/elements"
)

// Stereotypes returns the stereotypes packaged directly in p.
func Stereotypes(p *elements.Profile) []*elements.Stereotype {
	if p == nil {
		return nil
	}
	var out []*elements.Stereotype
	for _, pe := range p.PackagedElements {
		if st, ok := pe.(*elements.Stereotype); ok {
			out = append(out, st)
		}
	}
	return out
}

// HasStereotypeID reports whether the stereotype with the given id, or a
// stereotype specializing it, is applied to e.
func HasStereotypeID(d *delegate.ModelDelegate, e elements.Element, stereotypeID string) bool {
	if e == nil {
		return false
	}
	var applied []elements.Classifier
	for _, id := range e.AsElement().AppliedStereotypes {
		if c, ok := lookupClassifier(d, id); ok {
			applied = append(applied, c)
		}
	}
	return hasStereotypeID(d, applied, stereotypeID, map[string]bool{})
}

func hasStereotypeID(d *delegate.ModelDelegate, stereotypes []elements.Classifier, id string, visited map[string]bool) bool {
	for _, st := range stereotypes {
		sid := st.AsElement().ID
		if sid == id {
			return true
		}
		if visited[sid] {
			continue
		}
		visited[sid] = true
		if hasStereotypeID(d, d.Parents(st), id, visited) {
			return true
		}
	}
	return false
}

func lookupClassifier(d *delegate.ModelDelegate, id string) (elements.Classifier, bool) {
	e, ok := d.Map().Lookup(id)
	if !ok || !d.Map().IsLive(id) {
		return nil, false
	}
	c, ok := e.(elements.Classifier)
	return c, ok
}

// MetaClassesExtendedBy returns the metaclasses st extends.
func MetaClassesExtendedBy(st *elements.Stereotype) []elements.ElementType {
	out := make([]elements.ElementType, 0, len(st.Extends))
	for _, ext := range st.Extends {
		out = append(out, ext.MetaClass)
	}
	return out
}

// AllMetaClassesExtendedBy returns the metaclasses st extends followed by
// those its direct specializations extend, without duplicates.
func AllMetaClassesExtendedBy(d *delegate.ModelDelegate, st *elements.Stereotype) []elements.ElementType {
	out := MetaClassesExtendedBy(st)
	for _, spec := range d.Specializations(st) {
		derived, ok := spec.(*elements.Stereotype)
		if !ok {
			continue
		}
		for _, ext := range derived.Extends {
			if !slices.Contains(out, ext.MetaClass) {
				out = append(out, ext.MetaClass)
			}
		}
	}
	return out
}

// HasProfileID reports whether the profile with the given id is applied to
// pkg.
func HasProfileID(pkg elements.Namespace, profileID string) bool {
	if pkg == nil {
		return false
	}
	return slices.Contains(pkg.AsPackage().AppliedProfiles, profileID)
}

// FilterByStereotypeID returns the elements of list that have the stereotype
// applied, optionally restricted to elements of exactly kind.
func FilterByStereotypeID[E elements.Element](d *delegate.ModelDelegate, list []E, stereotypeID string, kind ...elements.ElementType) []E {
	var out []E
	for _, e := range list {
		if len(kind) > 0 && kind[0] != "" && elements.KindOf(e) != kind[0] {
			continue
		}
		if HasStereotypeID(d, e, stereotypeID) {
			out = append(out, e)
		}
	}
	return out
}

// FilterByProfileID returns the packages in list that have the profile
// applied. Only elements of kind package are considered.
func FilterByProfileID(list []elements.PackageableElement, profileID string) []*elements.Package {
	var out []*elements.Package
	for _, pe := range list {
		p, ok := pe.(*elements.Package)
		if ok && HasProfileID(p, profileID) {
			out = append(out, p)
		}
	}
	return out
}
