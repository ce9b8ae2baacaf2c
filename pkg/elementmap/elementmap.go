// SPDX-License-Identifier: MPL-2.0

// Package elementmap provides the identity index of a graph: the
// authoritative id to element table, the generalization to specializations
// index, and the association-end to association index.
//
// An ElementMap is owned by one session and is not safe for concurrent
// mutation.
package elementmap

import (
	"os"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/invowk/umlgraph/pkg/elements"
	"github.com/invowk/umlgraph/pkg/primitives"
)

type (
	// ElementMap indexes the elements of one graph by id.
	ElementMap struct {
		logger *log.Logger

		elements map[string]elements.Element
		order    []string

		specializations   map[string][]elements.Classifier
		associationsByEnd map[string]*elements.Association
		orphans           map[string]struct{}

		types       primitives.TypeResolver
		diagnostics []Diagnostic
	}

	// Option configures an ElementMap.
	Option func(*ElementMap)
)

// DefaultLogger returns the logger used when none is configured.
func DefaultLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "umlgraph",
	})
	logger.SetLevel(log.WarnLevel)
	return logger
}

// WithLogger sets the logger for integrity warnings.
func WithLogger(logger *log.Logger) Option {
	return func(m *ElementMap) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithPrimitives seeds the map with the built-in primitive types.
func WithPrimitives() Option {
	return func(m *ElementMap) {
		for _, t := range primitives.All() {
			m.AddElement(t, nil)
		}
	}
}

// WithTypeResolver sets a fallback consulted for ids that are not indexed.
// A type it resolves is indexed on first use.
func WithTypeResolver(r primitives.TypeResolver) Option {
	return func(m *ElementMap) { m.types = r }
}

// New creates an empty ElementMap.
func New(opts ...Option) *ElementMap {
	m := &ElementMap{
		logger:            DefaultLogger(),
		elements:          make(map[string]elements.Element),
		specializations:   make(map[string][]elements.Classifier),
		associationsByEnd: make(map[string]*elements.Association),
		orphans:           make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Logger returns the map's logger. Components sharing a session log through it.
func (m *ElementMap) Logger() *log.Logger { return m.logger }

// AddElement indexes e. A duplicate id is logged and dropped; the existing
// entry wins. When data is non-nil, the generalizations and member ends it
// declares are indexed as well.
func (m *ElementMap) AddElement(e elements.Element, data elements.Element) bool {
	id := e.AsElement().ID
	if _, exists := m.elements[id]; exists {
		m.logger.Warn("Duplicate element id", "id", id)
		m.Report(Diagnostic{
			Severity:  SeverityWarning,
			Code:      CodeDuplicateID,
			Message:   "duplicate element id '" + id + "', keeping the first element",
			ElementID: id,
		})
		return false
	}
	m.elements[id] = e
	m.order = append(m.order, id)

	if data == nil {
		return true
	}
	if c, ok := e.(elements.Classifier); ok {
		if dc, ok := data.(elements.Classifier); ok {
			for _, g := range dc.AsClassifier().Generalizations {
				m.AddSpecialization(g.GeneralID, c)
			}
		}
	}
	if a, ok := e.(*elements.Association); ok {
		if da, ok := data.(*elements.Association); ok {
			for _, end := range da.MemberEnds {
				m.AddAssociationByEndID(end, a)
			}
		}
	}
	return true
}

// Has reports whether id is indexed or resolvable through the type resolver.
func (m *ElementMap) Has(id string) bool {
	if _, ok := m.elements[id]; ok {
		return true
	}
	if m.types != nil && id != "" {
		_, ok := m.types.ResolveType(id)
		return ok
	}
	return false
}

// ElementByID returns the element with the given id. An empty id is not an
// error. An unknown id is logged.
func (m *ElementMap) ElementByID(id string) (elements.Element, bool) {
	if id == "" {
		return nil, false
	}
	if e, ok := m.Lookup(id); ok {
		return e, true
	}
	m.logger.Warn("Unknown element id", "id", id)
	return nil, false
}

// Lookup is ElementByID without logging.
func (m *ElementMap) Lookup(id string) (elements.Element, bool) {
	if id == "" {
		return nil, false
	}
	if e, ok := m.elements[id]; ok {
		return e, true
	}
	if m.types != nil {
		if t, ok := m.types.ResolveType(id); ok {
			m.AddElement(t, nil)
			return t, true
		}
	}
	return nil, false
}

// ElementsByIDList maps ids to elements, dropping unresolvable ids.
func (m *ElementMap) ElementsByIDList(ids []string) []elements.Element {
	out := make([]elements.Element, 0, len(ids))
	for _, id := range ids {
		if e, ok := m.ElementByID(id); ok {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of indexed elements, orphans included.
func (m *ElementMap) Len() int { return len(m.elements) }

// Elements returns every indexed element in insertion order, orphans included.
func (m *ElementMap) Elements() []elements.Element {
	out := make([]elements.Element, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.elements[id])
	}
	return out
}

// IsLive reports whether id is indexed and not orphaned. Every traversal
// consults this predicate.
func (m *ElementMap) IsLive(id string) bool {
	if _, ok := m.elements[id]; !ok {
		return false
	}
	_, orphaned := m.orphans[id]
	return !orphaned
}

// Orphan marks id as removed from the live graph. The element stays
// reachable through ElementByID.
func (m *ElementMap) Orphan(id string) bool {
	if _, ok := m.elements[id]; !ok {
		return false
	}
	m.orphans[id] = struct{}{}
	return true
}

// Replace swaps the element indexed under replacement's id, keeping its
// position and every index entry that pointed at the old element.
func (m *ElementMap) Replace(replacement elements.Element) bool {
	id := replacement.AsElement().ID
	old, ok := m.elements[id]
	if !ok {
		return false
	}
	m.elements[id] = replacement

	if c, ok := replacement.(elements.Classifier); ok {
		for general, specifics := range m.specializations {
			for i, s := range specifics {
				if elements.Element(s) == old {
					m.specializations[general][i] = c
				}
			}
		}
	}
	if a, ok := replacement.(*elements.Association); ok {
		for end, owner := range m.associationsByEnd {
			if elements.Element(owner) == old {
				m.associationsByEnd[end] = a
			}
		}
	}
	return true
}

// AddSpecialization records specific as a direct specialization of generalID.
func (m *ElementMap) AddSpecialization(generalID string, specific elements.Classifier) {
	if generalID == "" {
		return
	}
	m.specializations[generalID] = append(m.specializations[generalID], specific)
}

// RemoveSpecialization removes specific from the specializations of
// generalID. Removing an absent entry is a no-op.
func (m *ElementMap) RemoveSpecialization(generalID string, specific elements.Classifier) {
	list, ok := m.specializations[generalID]
	if !ok {
		return
	}
	id := specific.AsElement().ID
	idx := slices.IndexFunc(list, func(c elements.Classifier) bool { return c.AsElement().ID == id })
	if idx < 0 {
		return
	}
	list = slices.Delete(list, idx, idx+1)
	if len(list) == 0 {
		delete(m.specializations, generalID)
		return
	}
	m.specializations[generalID] = list
}

// SpecializationsOf returns the live direct specializations of generalID in
// insertion order.
func (m *ElementMap) SpecializationsOf(generalID string) []elements.Classifier {
	list := m.specializations[generalID]
	out := make([]elements.Classifier, 0, len(list))
	for _, c := range list {
		if m.IsLive(c.AsElement().ID) {
			out = append(out, c)
		}
	}
	return out
}

// AllSpecializationsOf returns the transitive specializations of generalID,
// depth-first and without duplicates. Orphans are neither returned nor
// expanded.
func (m *ElementMap) AllSpecializationsOf(generalID string) []elements.Classifier {
	var out []elements.Classifier
	visited := map[string]struct{}{generalID: {}}
	m.collectSpecializations(generalID, visited, &out)
	return out
}

func (m *ElementMap) collectSpecializations(generalID string, visited map[string]struct{}, out *[]elements.Classifier) {
	for _, s := range m.specializations[generalID] {
		id := s.AsElement().ID
		if _, seen := visited[id]; seen {
			continue
		}
		visited[id] = struct{}{}
		if !m.IsLive(id) {
			continue
		}
		*out = append(*out, s)
		m.collectSpecializations(id, visited, out)
	}
}

// AddAssociationByEndID records a as the association having endID as a member
// end. The last writer wins; a different association claiming the same end
// is logged as a conflict.
func (m *ElementMap) AddAssociationByEndID(endID string, a *elements.Association) {
	if endID == "" {
		return
	}
	if existing, ok := m.associationsByEnd[endID]; ok && existing != a {
		m.logger.Warn("Association end claimed by more than one association",
			"end", endID, "previous", existing.ID, "association", a.ID)
		m.Report(Diagnostic{
			Severity:  SeverityWarning,
			Code:      CodeAssociationEndConflict,
			Message:   "member end '" + endID + "' moved from association '" + existing.ID + "' to '" + a.ID + "'",
			ElementID: endID,
		})
	}
	m.associationsByEnd[endID] = a
}

// RemoveAssociationByEndID forgets the association of endID.
func (m *ElementMap) RemoveAssociationByEndID(endID string) {
	delete(m.associationsByEnd, endID)
}

// AssociationHavingMemberEnd returns the association that has p as a member end.
func (m *ElementMap) AssociationHavingMemberEnd(p *elements.Property) (*elements.Association, bool) {
	if p == nil || p.ID == "" {
		return nil, false
	}
	a, ok := m.associationsByEnd[p.ID]
	return a, ok
}

// Report records a diagnostic.
func (m *ElementMap) Report(d Diagnostic) {
	m.diagnostics = append(m.diagnostics, d)
}

// Diagnostics returns the diagnostics recorded so far.
func (m *ElementMap) Diagnostics() []Diagnostic {
	return slices.Clone(m.diagnostics)
}
