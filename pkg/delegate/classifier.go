// SPDX-License-Identifier: MPL-2.0

package delegate

import (
	"slices"

	"github.com/invowk/umlgraph/pkg/elements"
)

// Specific returns the classifier owning g.
func (d *ModelDelegate) Specific(g *elements.Generalization) (elements.Classifier, bool) {
	return lookupAs[elements.Classifier](d, g.OwnerID)
}

// General returns the general classifier of g when it is live.
func (d *ModelDelegate) General(g *elements.Generalization) (elements.Classifier, bool) {
	return lookupAs[elements.Classifier](d, g.GeneralID)
}

// FirstGeneralization returns the first generalization of c.
func (d *ModelDelegate) FirstGeneralization(c elements.Classifier) (*elements.Generalization, bool) {
	gens := c.AsClassifier().Generalizations
	if len(gens) == 0 {
		return nil, false
	}
	return gens[0], true
}

// FirstParent returns the general of the first generalization of c.
func (d *ModelDelegate) FirstParent(c elements.Classifier) (elements.Classifier, bool) {
	g, ok := d.FirstGeneralization(c)
	if !ok {
		return nil, false
	}
	return d.General(g)
}

// Parents returns the live direct generals of c in declaration order.
func (d *ModelDelegate) Parents(c elements.Classifier) []elements.Classifier {
	var out []elements.Classifier
	for _, g := range c.AsClassifier().Generalizations {
		if general, ok := d.General(g); ok {
			out = append(out, general)
		}
	}
	return out
}

// AllParents returns the direct and indirect ancestors of c, more specific
// first. A parent reached again is moved to the end, so a common ancestor in
// a diamond appears after every path that reaches it.
func (d *ModelDelegate) AllParents(c elements.Classifier) []elements.Classifier {
	var out []elements.Classifier
	root := c.AsElement().ID
	d.collectParents(c, root, map[string]bool{root: true}, &out)
	return out
}

func (d *ModelDelegate) collectParents(c elements.Classifier, root string, path map[string]bool, out *[]elements.Classifier) {
	own := d.Parents(c)
	for _, p := range own {
		id := p.AsElement().ID
		if id == root {
			continue
		}
		*out = slices.DeleteFunc(*out, func(x elements.Classifier) bool { return x.AsElement().ID == id })
		*out = append(*out, p)
	}
	for _, p := range own {
		id := p.AsElement().ID
		if path[id] {
			continue
		}
		path[id] = true
		d.collectParents(p, root, path, out)
		delete(path, id)
	}
}

// Specializations returns the live direct specializations of c.
func (d *ModelDelegate) Specializations(c elements.Classifier) []elements.Classifier {
	return d.elements.SpecializationsOf(c.AsElement().ID)
}

// AllSpecializations returns the live transitive specializations of c.
func (d *ModelDelegate) AllSpecializations(c elements.Classifier) []elements.Classifier {
	return d.elements.AllSpecializationsOf(c.AsElement().ID)
}

// SuperClasses returns the live generals of c whose kind is exactly the kind of c.
func (d *ModelDelegate) SuperClasses(c elements.Classifier) []elements.Classifier {
	kind := c.AsElement().Kind
	var out []elements.Classifier
	for _, p := range d.Parents(c) {
		if p.AsElement().Kind == kind {
			out = append(out, p)
		}
	}
	return out
}

// SuperTypes returns every live general of c.
func (d *ModelDelegate) SuperTypes(c elements.Classifier) []elements.Classifier {
	return d.Parents(c)
}

// AllAttributes returns the attributes of c and of every ancestor, most
// general first.
func (d *ModelDelegate) AllAttributes(c elements.MemberedClassifier) []*elements.Property {
	var out []*elements.Property
	d.mergeMembers(c, map[string]bool{}, func(mc elements.MemberedClassifier) {
		out = append(out, liveOnly(d, mc.AsMembered().OwnedAttributes)...)
	})
	return out
}

// AllOperations returns the operations of c and of every ancestor, most
// general first. An owned operation replaces each inherited operation with an
// equal signature.
func (d *ModelDelegate) AllOperations(c elements.MemberedClassifier) []*elements.Operation {
	var out []*elements.Operation
	d.mergeMembers(c, map[string]bool{}, func(mc elements.MemberedClassifier) {
		for _, op := range liveOnly(d, mc.AsMembered().OwnedOperations) {
			out = slices.DeleteFunc(out, func(base *elements.Operation) bool {
				return HaveEqualSignatures(base, op)
			})
			out = append(out, op)
		}
	})
	return out
}

func (d *ModelDelegate) mergeMembers(c elements.MemberedClassifier, visited map[string]bool, add func(elements.MemberedClassifier)) {
	visited[c.AsElement().ID] = true
	for _, g := range c.AsClassifier().Generalizations {
		general, ok := lookupAs[elements.MemberedClassifier](d, g.GeneralID)
		if !ok || visited[general.AsElement().ID] {
			continue
		}
		d.mergeMembers(general, visited, add)
	}
	add(c)
}

// HaveEqualSignatures reports whether x and y have the same name and the same
// parameter types in the same order.
func HaveEqualSignatures(x, y *elements.Operation) bool {
	if x.Name != y.Name || len(x.OwnedParameters) != len(y.OwnedParameters) {
		return false
	}
	for i := range x.OwnedParameters {
		if x.OwnedParameters[i].TypeID != y.OwnedParameters[i].TypeID {
			return false
		}
	}
	return true
}
