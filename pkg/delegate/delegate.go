// SPDX-License-Identifier: MPL-2.0

// Package delegate implements the navigation engine over a graph indexed by an
// elementmap.ElementMap: ancestor and descendant walks, inherited-member
// merging, multiplicity resolution and qualified naming. Queries never mutate
// the graph. The few commands (CreateElement, OnGeneralizationAdded,
// OnMemberEndAdded, Orphan) are named as such.
package delegate

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/invowk/umlgraph/pkg/elementmap"
	"github.com/invowk/umlgraph/pkg/elements"
)

// DefaultSeparator joins package names in qualified names.
const DefaultSeparator = "."

type (
	// ModelDelegate answers structural queries about one graph.
	ModelDelegate struct {
		elements *elementmap.ElementMap
		logger   *log.Logger
		newID    func() string
	}

	// Option configures a ModelDelegate.
	Option func(*ModelDelegate)
)

// WithIDGenerator sets the function used for elements created without an id.
func WithIDGenerator(fn func() string) Option {
	return func(d *ModelDelegate) {
		if fn != nil {
			d.newID = fn
		}
	}
}

// New returns a delegate over m. A nil m gets a fresh map.
func New(m *elementmap.ElementMap, opts ...Option) *ModelDelegate {
	if m == nil {
		m = elementmap.New()
	}
	d := &ModelDelegate{
		elements: m,
		logger:   m.Logger(),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Map returns the identity index backing the delegate.
func (d *ModelDelegate) Map() *elementmap.ElementMap { return d.elements }

// NewID returns a fresh element id.
func (d *ModelDelegate) NewID() string { return d.newID() }

// FindElementByID returns the element with the given id.
func (d *ModelDelegate) FindElementByID(id string) (elements.Element, bool) {
	return d.elements.ElementByID(id)
}

// CreateElement creates an element of the given kind, records owner as its
// owner and indexes it. An empty id is replaced by a generated one. The
// element is returned even when its id is a duplicate, in which case the
// index keeps the first element.
func (d *ModelDelegate) CreateElement(kind elements.ElementType, owner elements.Element, id string) (elements.Element, error) {
	e, err := elements.New(kind)
	if err != nil {
		return nil, fmt.Errorf("create element: %w", err)
	}
	if id == "" {
		id = d.newID()
	}
	core := e.AsElement()
	core.ID = id
	if owner != nil {
		core.OwnerID = owner.AsElement().ID
	}
	d.elements.AddElement(e, nil)
	return e, nil
}

// OnGeneralizationAdded registers the owner of g as a specialization of g's general.
func (d *ModelDelegate) OnGeneralizationAdded(g *elements.Generalization) {
	specific, ok := d.Specific(g)
	if !ok {
		return
	}
	d.elements.AddSpecialization(g.GeneralID, specific)
}

// OnMemberEndAdded registers a as the association of end p.
func (d *ModelDelegate) OnMemberEndAdded(a *elements.Association, p *elements.Property) {
	d.elements.AddAssociationByEndID(p.ID, a)
}

// Orphan marks e and every element it contains as removed from the live graph.
func (d *ModelDelegate) Orphan(e elements.Element) {
	elements.Walk(e, func(x elements.Element) bool {
		d.elements.Orphan(x.AsElement().ID)
		return true
	})
}

func (d *ModelDelegate) live(e elements.Element) bool {
	return e != nil && d.elements.IsLive(e.AsElement().ID)
}

// lookup resolves id without logging and only when it is live.
func (d *ModelDelegate) lookup(id string) (elements.Element, bool) {
	e, ok := d.elements.Lookup(id)
	if !ok || !d.elements.IsLive(id) {
		return nil, false
	}
	return e, true
}

func lookupAs[T elements.Element](d *ModelDelegate, id string) (T, bool) {
	var zero T
	e, ok := d.lookup(id)
	if !ok {
		return zero, false
	}
	t, ok := e.(T)
	return t, ok
}

func liveOnly[E elements.Element](d *ModelDelegate, list []E) []E {
	out := make([]E, 0, len(list))
	for _, e := range list {
		if d.live(e) {
			out = append(out, e)
		}
	}
	return out
}
