// SPDX-License-Identifier: MPL-2.0

// Package transform rewrites element graphs in place.
//
// DependencySort reorders the packaged elements of every package so that
// types come after the sibling types they depend on. PackagedElementTransform
// applies a function to a package and everything packaged in it, and
// ElementTypeTransform uses it to rebuild elements of one kind as another.
package transform

import "github.com/invowk/umlgraph/pkg/elements"

// PackageTransform rewrites the tree rooted at a package.
type PackageTransform interface {
	Transform(pkg elements.Namespace) error
}
