// SPDX-License-Identifier: MPL-2.0

package profile

import (
	"slices"
	"testing"

	"github.com/invowk/umlgraph/pkg/elements"
	"github.com/invowk/umlgraph/pkg/factory"
	"github.com/invowk/umlgraph/pkg/primitives"
)

type fixture struct {
	f         *factory.ElementFactory
	web       *elements.Profile
	entity    *elements.Stereotype
	aggregate *elements.Stereotype
	app       *elements.Model
	domain    *elements.Package
	other     *elements.Package
	customer  *elements.Class
	plain     *elements.Class
	bare      *elements.Class
	service   *elements.Interface
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	fx := &fixture{f: factory.New(nil)}
	f := fx.f

	profiles, _ := factory.NewModel(f.Delegate(), "Profiles")
	fx.web = f.AddProfile(profiles, "web", "Web")
	fx.entity = f.AddStereotype(fx.web, "entity", "Entity", elements.KindClass)
	table := f.AddProperty(fx.entity, "entity.table", "table", primitives.StringID)
	f.SetDefault(table, "t")
	fx.aggregate = f.AddStereotype(fx.web, "aggregate", "Aggregate", elements.KindClass, elements.KindInterface)
	f.AddGeneralization(fx.aggregate, fx.entity)
	root := f.AddProperty(fx.aggregate, "aggregate.root", "root", primitives.BooleanID)
	f.SetDefault(root, false)
	f.AddEnumeration(fx.web, "colors", "Colors")

	fx.app, _ = factory.NewModel(f.Delegate(), "App")
	fx.domain = f.AddPackage(fx.app, "domain", "domain")
	fx.domain.AppliedProfiles = []string{"web"}
	fx.other = f.AddPackage(fx.app, "other", "other")

	fx.customer = f.AddClass(fx.domain, "customer", "Customer")
	f.ApplyStereotype(fx.customer, fx.aggregate, map[string]any{"table": "customers"})
	fx.plain = f.AddClass(fx.domain, "plain", "Plain")
	f.ApplyStereotype(fx.plain, fx.entity, nil)
	fx.bare = f.AddClass(fx.domain, "bare", "Bare")
	fx.service = f.AddInterface(fx.domain, "service", "Service")
	f.ApplyStereotype(fx.service, fx.entity, nil)

	if err := f.Err(); err != nil {
		t.Fatalf("fixture: %v", err)
	}
	return fx
}

func TestStereotypes(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	got := elements.IDs(Stereotypes(fx.web))
	if !slices.Equal(got, []string{"entity", "aggregate"}) {
		t.Errorf("Stereotypes() = %v", got)
	}
	if Stereotypes(nil) != nil {
		t.Error("Stereotypes(nil) should be nil")
	}
}

func TestHasStereotypeID(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	d := fx.f.Delegate()

	tests := []struct {
		name string
		e    elements.Element
		id   string
		want bool
	}{
		{"direct", fx.customer, "aggregate", true},
		{"through stereotype parent", fx.customer, "entity", true},
		{"general does not imply specific", fx.plain, "aggregate", false},
		{"not applied", fx.bare, "entity", false},
		{"nil element", nil, "entity", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := HasStereotypeID(d, tt.e, tt.id); got != tt.want {
				t.Errorf("HasStereotypeID() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMetaClasses(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	if got := MetaClassesExtendedBy(fx.entity); !slices.Equal(got, []elements.ElementType{elements.KindClass}) {
		t.Errorf("MetaClassesExtendedBy(entity) = %v", got)
	}
	want := []elements.ElementType{elements.KindClass, elements.KindInterface}
	if got := AllMetaClassesExtendedBy(fx.f.Delegate(), fx.entity); !slices.Equal(got, want) {
		t.Errorf("AllMetaClassesExtendedBy(entity) = %v, want %v", got, want)
	}
}

func TestFilters(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	d := fx.f.Delegate()
	list := fx.domain.PackagedElements

	if got := elements.IDs(FilterByStereotypeID(d, list, "entity")); !slices.Equal(got, []string{"customer", "plain", "service"}) {
		t.Errorf("FilterByStereotypeID(entity) = %v", got)
	}
	if got := elements.IDs(FilterByStereotypeID(d, list, "entity", elements.KindInterface)); !slices.Equal(got, []string{"service"}) {
		t.Errorf("FilterByStereotypeID(entity, interface) = %v", got)
	}

	app := []elements.PackageableElement{fx.domain, fx.other, fx.customer}
	if got := elements.IDs(FilterByProfileID(app, "web")); !slices.Equal(got, []string{"domain"}) {
		t.Errorf("FilterByProfileID() = %v", got)
	}
	if !HasProfileID(fx.domain, "web") || HasProfileID(fx.other, "web") || HasProfileID(nil, "web") {
		t.Error("HasProfileID mismatch")
	}
}

func TestCapabilities(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	caps := NewCapabilities(fx.f.Delegate(), fx.web)

	if got := elements.IDs(caps.StereotypesFor(elements.KindClass)); !slices.Equal(got, []string{"entity", "aggregate"}) {
		t.Errorf("StereotypesFor(class) = %v", got)
	}
	if got := elements.IDs(caps.StereotypesFor(elements.KindInterface)); !slices.Equal(got, []string{"entity", "aggregate"}) {
		t.Errorf("StereotypesFor(interface) = %v", got)
	}
	if _, ok := caps.MetaAttributes(elements.KindOperation, "entity"); ok {
		t.Error("entity does not extend operations")
	}
	attrs, ok := caps.MetaAttributes(elements.KindClass, "aggregate")
	if !ok || !slices.Equal(elements.IDs(attrs), []string{"entity.table", "aggregate.root"}) {
		t.Errorf("MetaAttributes(class, aggregate) = %v, %v", elements.IDs(attrs), ok)
	}

	tests := []struct {
		name   string
		e      elements.Element
		st     string
		attr   string
		want   any
		wantOK bool
	}{
		{"materialized value", fx.customer, "aggregate", "table", "customers", true},
		{"materialized default", fx.customer, "aggregate", "root", false, true},
		{"inherited meta-attribute through parent stereotype", fx.customer, "entity", "table", "customers", true},
		{"default when nothing materialized", fx.plain, "entity", "table", "t", true},
		{"meta-attribute of another stereotype", fx.plain, "entity", "root", nil, false},
		{"stereotype not applied", fx.bare, "entity", "table", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := caps.Value(tt.e, tt.st, tt.attr)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Value() = %v, %v, want %v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}

	if got := elements.IDs(caps.PackagedElementsOf(fx.domain, "aggregate")); !slices.Equal(got, []string{"customer"}) {
		t.Errorf("PackagedElementsOf() = %v", got)
	}
	if got := elements.IDs(caps.PackagesOf(fx.app, "web")); !slices.Equal(got, []string{"domain"}) {
		t.Errorf("PackagesOf() = %v", got)
	}
	if got := elements.IDs(caps.OwnedAttributesOf(fx.customer, "entity")); len(got) != 0 {
		t.Errorf("OwnedAttributesOf() = %v", got)
	}
	if st, ok := caps.Stereotype("entity"); !ok || st != fx.entity {
		t.Error("Stereotype(entity) should be indexed")
	}
}
