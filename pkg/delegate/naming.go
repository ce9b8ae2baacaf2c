// SPDX-License-Identifier: MPL-2.0

package delegate

import (
	"slices"
	"strings"

	"github.com/invowk/umlgraph/pkg/elements"
)

// Package returns the package that owns e.
func (d *ModelDelegate) Package(e elements.Element) (elements.Namespace, bool) {
	return lookupAs[elements.Namespace](d, e.AsElement().OwnerID)
}

// NestingPackages returns the packages enclosing e from outermost to
// innermost. With stopAtNamespaceRoot the walk ends at the first package
// flagged as a namespace root, which is included.
func (d *ModelDelegate) NestingPackages(e elements.Element, stopAtNamespaceRoot bool) []elements.Namespace {
	var out []elements.Namespace
	seen := map[string]bool{e.AsElement().ID: true}
	owner, ok := d.Package(e)
	for ok {
		id := owner.AsElement().ID
		if seen[id] {
			break
		}
		seen[id] = true
		out = append(out, owner)
		if stopAtNamespaceRoot && owner.AsPackage().IsNamespaceRoot {
			break
		}
		owner, ok = d.Package(owner)
	}
	slices.Reverse(out)
	return out
}

// NamespaceName joins the names of the nesting packages of e, stopping at a
// namespace root. The separator defaults to ".".
func (d *ModelDelegate) NamespaceName(e elements.Element, separator ...string) string {
	sep := separatorOf(separator)
	pkgs := d.NestingPackages(e, true)
	names := make([]string, 0, len(pkgs))
	for _, p := range pkgs {
		names = append(names, p.AsNamed().Name)
	}
	return strings.Join(names, sep)
}

// QualifiedName returns the namespace name of e followed by its own name.
func (d *ModelDelegate) QualifiedName(e elements.Element, separator ...string) string {
	sep := separatorOf(separator)
	name := elements.Name(e)
	if ns := d.NamespaceName(e, sep); ns != "" {
		return ns + sep + name
	}
	return name
}

func separatorOf(separator []string) string {
	if len(separator) > 0 {
		return separator[0]
	}
	return DefaultSeparator
}
