// SPDX-License-Identifier: MPL-2.0

// Package elements defines the closed set of metamodel element kinds and the
// capability interfaces they implement.
//
// Elements live in an arena owned by an elementmap.ElementMap. Every link that
// is not containment (owner, general, type, contract, definition, memberEnds,
// appliedStereotypes, ...) is stored as an element id and resolved through the
// map on demand. Contained children are held directly by their owner, exactly
// once.
//
// The serialized meaning of each field is declared with struct tags: the json
// tag names the key, and the uml tag states whether the key carries a
// reference ("ref", "refs") or contained elements ("owned", "owned-list").
// Untagged fields are plain scalars.
package elements
