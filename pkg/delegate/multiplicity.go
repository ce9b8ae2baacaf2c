// SPDX-License-Identifier: MPL-2.0

package delegate

import (
	"strconv"
	"strings"

	"github.com/invowk/umlgraph/pkg/elements"
)

// multiplicityOf returns the element carrying the bounds of e. For an
// operation that is its return parameter.
func (d *ModelDelegate) multiplicityOf(e elements.Element) (elements.MultiplicityElement, bool) {
	switch x := e.(type) {
	case *elements.Operation:
		p, ok := d.ReturnParameter(x)
		if !ok {
			return nil, false
		}
		return p, true
	case elements.MultiplicityElement:
		return x, true
	default:
		return nil, false
	}
}

// Lower returns the declared lower bound of e, if any.
func (d *ModelDelegate) Lower(e elements.Element) (int, bool) {
	m, ok := d.multiplicityOf(e)
	if !ok {
		return 0, false
	}
	switch v := m.AsMultiplicity().LowerValue.(type) {
	case *elements.LiteralInteger:
		return v.Value, true
	case *elements.LiteralString:
		n, err := strconv.Atoi(strings.TrimSpace(v.Value))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// Upper returns the declared upper bound of e, if any.
func (d *ModelDelegate) Upper(e elements.Element) (elements.UnlimitedNatural, bool) {
	m, ok := d.multiplicityOf(e)
	if !ok {
		return elements.UnlimitedNatural{}, false
	}
	switch v := m.AsMultiplicity().UpperValue.(type) {
	case *elements.LiteralString:
		u, err := elements.ParseUnlimitedNatural(v.Value)
		if err != nil {
			return elements.UnlimitedNatural{}, false
		}
		return u, true
	case *elements.LiteralInteger:
		return elements.NewUnlimitedNatural(v.Value), true
	case *elements.LiteralUnlimitedNatural:
		return v.Value, true
	default:
		return elements.UnlimitedNatural{}, false
	}
}

// LowerBound returns the lower bound of e, 1 when none is declared.
func (d *ModelDelegate) LowerBound(e elements.Element) int {
	if n, ok := d.Lower(e); ok {
		return n
	}
	return 1
}

// UpperBound returns the upper bound of e, exactly one when none is declared.
func (d *ModelDelegate) UpperBound(e elements.Element) elements.UnlimitedNatural {
	if u, ok := d.Upper(e); ok {
		return u
	}
	return elements.NewUnlimitedNatural(1)
}

// IsMultivalued reports whether the declared upper bound of e is unlimited or
// greater than one. No declared upper bound means single-valued.
func (d *ModelDelegate) IsMultivalued(e elements.Element) bool {
	u, ok := d.Upper(e)
	if !ok {
		return false
	}
	n, finite := u.Value()
	return !finite || n > 1
}

// IsOptional reports whether the lower bound of e is 0.
func (d *ModelDelegate) IsOptional(e elements.Element) bool {
	return d.LowerBound(e) == 0
}

// IsOptionalAndSinglevalued reports a 0..1 multiplicity.
func (d *ModelDelegate) IsOptionalAndSinglevalued(e elements.Element) bool {
	return d.LowerBound(e) == 0 && isExactlyOne(d.UpperBound(e))
}

// IsRequiredAndSinglevalued reports a 1..1 multiplicity.
func (d *ModelDelegate) IsRequiredAndSinglevalued(e elements.Element) bool {
	return d.LowerBound(e) == 1 && isExactlyOne(d.UpperBound(e))
}

func isExactlyOne(u elements.UnlimitedNatural) bool {
	n, finite := u.Value()
	return finite && n == 1
}
