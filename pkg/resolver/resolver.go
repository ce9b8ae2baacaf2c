// SPDX-License-Identifier: MPL-2.0

// Package resolver buffers id references found while a graph is being built
// and writes them onto their referrers once every referenceable element is
// indexed.
package resolver

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/charmbracelet/log"
	"golang.org/x/exp/maps"

	"github.com/invowk/umlgraph/pkg/delegate"
	"github.com/invowk/umlgraph/pkg/elementmap"
	"github.com/invowk/umlgraph/pkg/elements"
)

// Reference keys with ordering rules or side effects on resolution.
const (
	KeyDefinition         = "definition"
	KeyAppliedStereotypes = "appliedStereotypes"
	KeyGeneral            = "general"
	KeyMemberEnds         = "memberEnds"
)

// priority lists keys that must resolve before the others, in order. Keys
// not listed resolve before all listed keys.
var priority = []string{KeyDefinition, KeyAppliedStereotypes}

type (
	// Resolver holds unresolved references grouped by key.
	Resolver struct {
		delegate *delegate.ModelDelegate
		logger   *log.Logger
		byKey    map[string]*pending
		seq      int
	}

	// pending holds the references buffered under one key, in the order they
	// were added. A referrer's list-valued ids stay in declared order.
	pending struct {
		seq     int
		isArray bool
		refs    []reference
	}

	reference struct {
		referrer elements.Element
		id       string
	}
)

// New returns a Resolver that looks targets up through d.
func New(d *delegate.ModelDelegate) *Resolver {
	return &Resolver{
		delegate: d,
		logger:   d.Map().Logger(),
		byKey:    make(map[string]*pending),
	}
}

// AddUnresolvedReference buffers one or more references from referrer under
// key. Whether key holds a list is fixed when the key is first registered.
func (r *Resolver) AddUnresolvedReference(key string, referrer elements.Element, ids ...string) {
	group, ok := r.byKey[key]
	if !ok {
		isArray := len(ids) > 1
		if info, declared := elements.Field(referrer, key); declared {
			isArray = info.Role.IsList()
		}
		group = &pending{seq: r.seq, isArray: isArray}
		r.seq++
		r.byKey[key] = group
	}
	for _, id := range ids {
		group.refs = append(group.refs, reference{referrer: referrer, id: id})
	}
}

// Pending returns the number of buffered references over all keys.
func (r *Resolver) Pending() int {
	n := 0
	for _, group := range r.byKey {
		n += len(group.refs)
	}
	return n
}

// Resolve writes every buffered reference whose target exists, in key
// priority order, and applies the structural side effects of general,
// memberEnds and appliedStereotypes. List-valued references keep the order
// each referrer declared them in. Unresolvable targets are logged once per id
// and skipped. The buffer is empty afterwards.
func (r *Resolver) Resolve() {
	keys := maps.Keys(r.byKey)
	slices.SortFunc(keys, func(a, b string) int {
		if c := cmp.Compare(slices.Index(priority, a), slices.Index(priority, b)); c != 0 {
			return c
		}
		return cmp.Compare(r.byKey[a].seq, r.byKey[b].seq)
	})

	m := r.delegate.Map()
	for _, key := range keys {
		group := r.byKey[key]
		var dangling []string
		counts := make(map[string]int)
		for _, ref := range group.refs {
			target, ok := m.Lookup(ref.id)
			if !ok {
				if counts[ref.id] == 0 {
					dangling = append(dangling, ref.id)
				}
				counts[ref.id]++
				continue
			}
			r.write(key, group.isArray, ref.referrer, target)
		}
		for _, id := range dangling {
			r.logger.Warn("Unresolvable reference", "key", key, "id", id, "referrers", counts[id])
			m.Report(elementmap.Diagnostic{
				Severity:  elementmap.SeverityWarning,
				Code:      elementmap.CodeDanglingReference,
				Message:   fmt.Sprintf("%d elements have a '%s' reference with unresolvable id %s", counts[id], key, id),
				ElementID: id,
			})
		}
	}
	r.byKey = make(map[string]*pending)
	r.seq = 0
}

func (r *Resolver) write(key string, isArray bool, referrer, target elements.Element) {
	id := target.AsElement().ID
	info, ok := elements.Field(referrer, key)
	if !ok || info.Role.IsList() != isArray {
		r.logger.Warn("Reference key not declared on element", "key", key, "elementType", elements.KindOf(referrer))
		return
	}
	if err := elements.SetReference(referrer, key, id); err != nil {
		r.logger.Warn("Cannot write reference", "key", key, "id", id, "error", err)
		return
	}

	switch key {
	case KeyGeneral:
		if g, ok := referrer.(*elements.Generalization); ok {
			r.delegate.OnGeneralizationAdded(g)
		}
	case KeyMemberEnds:
		a, aok := referrer.(*elements.Association)
		p, pok := target.(*elements.Property)
		if aok && pok {
			r.delegate.OnMemberEndAdded(a, p)
		}
	case KeyAppliedStereotypes:
		if st, ok := target.(*elements.Stereotype); ok {
			r.applyStereotype(referrer, st)
		}
	}
}

// applyStereotype materializes the meta-attributes of st onto e as
// extensions. Only elements carrying tagged values are extended. A
// meta-attribute takes the value of the tagged value defined by it, else its
// default value, else nil. Names e already has are skipped.
func (r *Resolver) applyStereotype(e elements.Element, st *elements.Stereotype) {
	core := e.AsElement()
	if len(core.TaggedValues) == 0 {
		return
	}
	for _, meta := range r.delegate.AllAttributes(st) {
		if elements.HasAttribute(e, meta.Name) {
			continue
		}
		var vs elements.ValueSpecification
		idx := slices.IndexFunc(core.TaggedValues, func(tv *elements.TaggedValueSpecification) bool {
			return tv.DefinitionID == meta.ID
		})
		switch {
		case idx >= 0:
			vs = core.TaggedValues[idx].Specification
		case meta.DefaultValue != nil:
			vs = meta.DefaultValue
		}
		var value any
		if vs != nil {
			value = vs.RawValue()
		}
		core.SetExtension(meta.Name, value)
	}
}
