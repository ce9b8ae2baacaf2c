// SPDX-License-Identifier: MPL-2.0

package delegate

import "github.com/invowk/umlgraph/pkg/elements"

// PackagedElementsWhere returns the live direct packaged elements of pkg that
// satisfy pred.
func (d *ModelDelegate) PackagedElementsWhere(pkg elements.Namespace, pred func(elements.PackageableElement) bool) []elements.PackageableElement {
	var out []elements.PackageableElement
	for _, pe := range pkg.AsPackage().PackagedElements {
		if d.live(pe) && pred(pe) {
			out = append(out, pe)
		}
	}
	return out
}

// AllPackagedElementsWhere is PackagedElementsWhere applied recursively to
// nested packages, depth-first.
func (d *ModelDelegate) AllPackagedElementsWhere(pkg elements.Namespace, pred func(elements.PackageableElement) bool) []elements.PackageableElement {
	var out []elements.PackageableElement
	d.collectPackaged(pkg, pred, &out)
	return out
}

func (d *ModelDelegate) collectPackaged(pkg elements.Namespace, pred func(elements.PackageableElement) bool, out *[]elements.PackageableElement) {
	for _, pe := range pkg.AsPackage().PackagedElements {
		if !d.live(pe) {
			continue
		}
		if pred(pe) {
			*out = append(*out, pe)
		}
		if nested, ok := pe.(elements.Namespace); ok {
			d.collectPackaged(nested, pred, out)
		}
	}
}

// NestedPackages returns the packages directly owned by pkg.
func (d *ModelDelegate) NestedPackages(pkg elements.Namespace) []elements.Namespace {
	return filterAs[elements.Namespace](d.PackagedElementsWhere(pkg, func(pe elements.PackageableElement) bool {
		return pe.AsElement().Kind.IsPackage()
	}))
}

// Types returns the types directly owned by pkg. Associations are excluded.
func (d *ModelDelegate) Types(pkg elements.Namespace) []elements.Classifier {
	return filterAs[elements.Classifier](d.PackagedElementsWhere(pkg, isNonAssociationType))
}

// AllTypes returns the types owned by pkg and its nested packages.
func (d *ModelDelegate) AllTypes(pkg elements.Namespace) []elements.Classifier {
	return filterAs[elements.Classifier](d.AllPackagedElementsWhere(pkg, isNonAssociationType))
}

// Classes returns the classes (stereotypes included) directly owned by pkg.
func (d *ModelDelegate) Classes(pkg elements.Namespace) []elements.BehavioredClassifier {
	return filterAs[elements.BehavioredClassifier](d.PackagedElementsWhere(pkg, isKind(elements.ElementType.IsClass)))
}

// AllClasses returns the classes owned by pkg and its nested packages.
func (d *ModelDelegate) AllClasses(pkg elements.Namespace) []elements.BehavioredClassifier {
	return filterAs[elements.BehavioredClassifier](d.AllPackagedElementsWhere(pkg, isKind(elements.ElementType.IsClass)))
}

// Interfaces returns the interfaces directly owned by pkg.
func (d *ModelDelegate) Interfaces(pkg elements.Namespace) []*elements.Interface {
	return filterAs[*elements.Interface](d.PackagedElementsWhere(pkg, isExactly(elements.KindInterface)))
}

// AllInterfaces returns the interfaces owned by pkg and its nested packages.
func (d *ModelDelegate) AllInterfaces(pkg elements.Namespace) []*elements.Interface {
	return filterAs[*elements.Interface](d.AllPackagedElementsWhere(pkg, isExactly(elements.KindInterface)))
}

// DataTypes returns the data types (primitive types and enumerations
// included) directly owned by pkg.
func (d *ModelDelegate) DataTypes(pkg elements.Namespace) []elements.MemberedClassifier {
	return filterAs[elements.MemberedClassifier](d.PackagedElementsWhere(pkg, isKind(elements.ElementType.IsDataType)))
}

// AllDataTypes returns the data types owned by pkg and its nested packages.
func (d *ModelDelegate) AllDataTypes(pkg elements.Namespace) []elements.MemberedClassifier {
	return filterAs[elements.MemberedClassifier](d.AllPackagedElementsWhere(pkg, isKind(elements.ElementType.IsDataType)))
}

// Enumerations returns the enumerations directly owned by pkg.
func (d *ModelDelegate) Enumerations(pkg elements.Namespace) []*elements.Enumeration {
	return filterAs[*elements.Enumeration](d.PackagedElementsWhere(pkg, isExactly(elements.KindEnumeration)))
}

// AllEnumerations returns the enumerations owned by pkg and its nested packages.
func (d *ModelDelegate) AllEnumerations(pkg elements.Namespace) []*elements.Enumeration {
	return filterAs[*elements.Enumeration](d.AllPackagedElementsWhere(pkg, isExactly(elements.KindEnumeration)))
}

func isNonAssociationType(pe elements.PackageableElement) bool {
	kind := pe.AsElement().Kind
	return kind.IsType() && !kind.IsAssociation()
}

func isKind(pred func(elements.ElementType) bool) func(elements.PackageableElement) bool {
	return func(pe elements.PackageableElement) bool { return pred(pe.AsElement().Kind) }
}

func isExactly(kind elements.ElementType) func(elements.PackageableElement) bool {
	return func(pe elements.PackageableElement) bool { return pe.AsElement().Kind == kind }
}

func filterAs[T any](list []elements.PackageableElement) []T {
	out := make([]T, 0, len(list))
	for _, pe := range list {
		if t, ok := pe.(T); ok {
			out = append(out, t)
		}
	}
	return out
}
