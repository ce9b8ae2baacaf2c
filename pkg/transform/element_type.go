// SPDX-License-Identifier: MPL-2.0

package transform

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/invowk/umlgraph/pkg/delegate"
	"github.com/invowk/umlgraph/pkg/elements"
)

var transformableKinds = []elements.ElementType{
	elements.KindClass,
	elements.KindDataType,
	elements.KindEnumeration,
	elements.KindInterface,
	elements.KindPrimitiveType,
	elements.KindStereotype,
}

// ElementTypeTransform rebuilds every packaged element whose kind is exactly
// the source kind as an element of the target kind. Name, classifier,
// member and realization data carry over where the target kind has them.
// Contained elements the target cannot hold are orphaned.
type ElementTypeTransform struct {
	delegate *delegate.ModelDelegate
	logger   *log.Logger
	source   elements.ElementType
	target   elements.ElementType
}

// NewElementTypeTransform returns a transform from source to target. Both
// must be one of class, dataType, enumeration, interface, primitiveType or
// stereotype. Equal kinds are accepted with a warning, and the transform
// does nothing.
func NewElementTypeTransform(d *delegate.ModelDelegate, source, target elements.ElementType) (*ElementTypeTransform, error) {
	for _, k := range []elements.ElementType{source, target} {
		if !slices.Contains(transformableKinds, k) {
			return nil, fmt.Errorf("element type transform: %w", &elements.InvalidElementTypeError{Value: k})
		}
	}
	t := &ElementTypeTransform{delegate: d, logger: d.Map().Logger(), source: source, target: target}
	if source == target {
		t.logger.Warn("Element type transform has the same source and target type", "elementType", source)
	}
	return t, nil
}

// Transform rebuilds the matching elements in pkg and its nested packages.
func (t *ElementTypeTransform) Transform(pkg elements.Namespace) error {
	if t.source == t.target {
		return nil
	}
	return NewPackagedElementTransform(t.transformElement).Transform(pkg)
}

func (t *ElementTypeTransform) transformElement(pe elements.PackageableElement) (elements.PackageableElement, error) {
	if elements.KindOf(pe) != t.source {
		return pe, nil
	}
	e, err := elements.New(t.target)
	if err != nil {
		return nil, err
	}
	out := e.(elements.PackageableElement)
	carryOver(pe, out)
	addTargetDefaults(out, t.source)

	kept := map[elements.Element]bool{}
	for _, c := range elements.Children(out) {
		kept[c] = true
	}
	var dropped []string
	for _, c := range elements.Children(pe) {
		if !kept[c] {
			t.delegate.Orphan(c)
			dropped = append(dropped, c.AsElement().ID)
		}
	}
	if len(dropped) > 0 {
		t.logger.Warn("Children the target type cannot own were orphaned",
			"id", pe.AsElement().ID, "elementType", t.target, "orphaned", dropped)
	}

	t.delegate.Map().Replace(out)
	t.logger.Debug("Transformed element type", "id", pe.AsElement().ID, "from", t.source, "to", t.target)
	return out, nil
}

// carryOver copies the cores both elements share from src to dst. The kind
// of dst is preserved.
func carryOver(src, dst elements.Element) {
	kind := dst.AsElement().Kind
	if s, ok := src.(elements.NamedElement); ok {
		if d, ok := dst.(elements.NamedElement); ok {
			*d.AsNamed() = *s.AsNamed()
		}
	}
	dst.AsElement().Kind = kind

	if s, ok := src.(elements.Classifier); ok {
		if d, ok := dst.(elements.Classifier); ok {
			*d.AsClassifier() = *s.AsClassifier()
		}
	}
	if s, ok := src.(elements.MemberedClassifier); ok {
		if d, ok := dst.(elements.MemberedClassifier); ok {
			*d.AsMembered() = *s.AsMembered()
		}
	}
	if s, ok := src.(elements.BehavioredClassifier); ok {
		if d, ok := dst.(elements.BehavioredClassifier); ok {
			*d.AsBehaviored() = *s.AsBehaviored()
		}
	}
	if s, ok := src.(*elements.Enumeration); ok {
		if d, ok := dst.(*elements.Enumeration); ok {
			d.BaseTypeID, d.OwnedLiterals = s.BaseTypeID, s.OwnedLiterals
		}
	}
}

// addTargetDefaults sets the values a kind starts with when the element did
// not have that kind's data before.
func addTargetDefaults(e elements.Element, source elements.ElementType) {
	switch x := e.(type) {
	case *elements.Class:
		if !source.IsClass() {
			x.IsActive = true
		}
	case *elements.Stereotype:
		if !source.IsClass() {
			x.IsActive = true
		}
		if source != elements.KindStereotype {
			x.SafeName = x.Name
		}
	}
}
