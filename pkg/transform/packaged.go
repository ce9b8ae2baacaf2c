// SPDX-License-Identifier: MPL-2.0

package transform

import (
	"fmt"

	"github.com/invowk/umlgraph/pkg/elements"
)

type (
	// ElementFunc transforms one packaged element and returns the element
	// that takes its place, which is pe itself when nothing is replaced.
	ElementFunc func(pe elements.PackageableElement) (elements.PackageableElement, error)

	// PackagedElementTransform applies an ElementFunc to a package and then,
	// depth first, to every element packaged in it. Nested packages are
	// visited after they are transformed.
	PackagedElementTransform struct {
		fn ElementFunc
	}
)

// NewPackagedElementTransform returns a transform applying fn.
func NewPackagedElementTransform(fn ElementFunc) *PackagedElementTransform {
	return &PackagedElementTransform{fn: fn}
}

// Transform applies the function to pkg and its contents. The root package
// is passed to the function but cannot be replaced.
func (t *PackagedElementTransform) Transform(pkg elements.Namespace) error {
	if pkg == nil {
		return nil
	}
	if _, err := t.fn(pkg); err != nil {
		return err
	}
	return t.transformContents(pkg)
}

func (t *PackagedElementTransform) transformContents(pkg elements.Namespace) error {
	list := pkg.AsPackage().PackagedElements
	for i, pe := range list {
		out, err := t.fn(pe)
		if err != nil {
			return fmt.Errorf("transform %s: %w", pe.AsElement().ID, err)
		}
		if out != nil && out != pe {
			list[i] = out
		}
		if ns, ok := list[i].(elements.Namespace); ok {
			if err := t.transformContents(ns); err != nil {
				return err
			}
		}
	}
	return nil
}
