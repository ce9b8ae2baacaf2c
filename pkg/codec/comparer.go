// SPDX-License-Identifier: MPL-2.0

package codec

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/invowk/umlgraph/pkg/elements"
)

// noOrder is the order value of elements without an explicit order.
const noOrder = 0

// Comparer orders packaged and ordered elements. It is not safe for
// concurrent use.
type Comparer struct {
	names *collate.Collator
}

// NewComparer returns a Comparer that collates names for tag.
func NewComparer(tag language.Tag) *Comparer {
	return &Comparer{names: collate.New(tag)}
}

// CompareNames compares two names using locale-aware collation.
func (c *Comparer) CompareNames(x, y string) int {
	return c.names.CompareString(x, y)
}

// CompareOrdered sorts by order, placing elements without an order after
// those with one. Equal orders fall back to the name for features and keep
// the existing order otherwise.
func (c *Comparer) CompareOrdered(x, y elements.Element) int {
	xo, yo := orderOf(x), orderOf(y)
	switch {
	case xo == noOrder && yo != noOrder:
		return 1
	case yo == noOrder && xo != noOrder:
		return -1
	case xo != yo:
		return xo - yo
	}
	if elements.KindOf(x).IsFeature() {
		return c.CompareNames(elements.Name(x), elements.Name(y))
	}
	return 0
}

// ComparePackageable places packages first, then compares by name.
func (c *Comparer) ComparePackageable(x, y elements.PackageableElement) int {
	xp := x.AsElement().Kind == elements.KindPackage
	yp := y.AsElement().Kind == elements.KindPackage
	switch {
	case xp && !yp:
		return -1
	case yp && !xp:
		return 1
	}
	return c.CompareNames(x.AsNamed().Name, y.AsNamed().Name)
}

// Sort orders the contents of root and every element it contains: packaged
// elements with ComparePackageable, and attributes, operations, parameters
// and enumeration literals with CompareOrdered.
func (c *Comparer) Sort(root elements.Element) {
	elements.Walk(root, func(e elements.Element) bool {
		if ns, ok := e.(elements.Namespace); ok {
			slices.SortStableFunc(ns.AsPackage().PackagedElements, c.ComparePackageable)
		}
		if mc, ok := e.(elements.MemberedClassifier); ok {
			sortOrdered(c, mc.AsMembered().OwnedAttributes)
			sortOrdered(c, mc.AsMembered().OwnedOperations)
		}
		switch x := e.(type) {
		case *elements.Operation:
			sortOrdered(c, x.OwnedParameters)
		case *elements.Enumeration:
			sortOrdered(c, x.OwnedLiterals)
		}
		return true
	})
}

func sortOrdered[E elements.Element](c *Comparer, list []E) {
	slices.SortStableFunc(list, func(x, y E) int { return c.CompareOrdered(x, y) })
}

func orderOf(e elements.Element) int {
	if o, ok := e.(elements.Ordered); ok {
		return o.OrderValue()
	}
	return noOrder
}
