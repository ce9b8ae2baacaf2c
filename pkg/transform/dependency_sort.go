// SPDX-License-Identifier: MPL-2.0

package transform

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/invowk/umlgraph/internal/dag"
	"github.com/invowk/umlgraph/pkg/delegate"
	"github.com/invowk/umlgraph/pkg/elementmap"
	"github.com/invowk/umlgraph/pkg/elements"
)

// ErrDependencyCycle is the sentinel of CycleError.
var ErrDependencyCycle = errors.New("dependency cycle")

type (
	// DependencySort orders the packaged elements of a package, and of every
	// package nested in it, so that dependencies come before dependents.
	// Only dependencies between siblings of the same package are considered.
	DependencySort struct {
		delegate *delegate.ModelDelegate
		logger   *log.Logger
		kinds    DependencyKind
		policy   CyclePolicy
	}

	// SortOption configures a DependencySort.
	SortOption func(*DependencySort)

	// CycleError reports sibling types that depend on each other.
	CycleError struct {
		// PackageID is the package whose elements could not be ordered.
		PackageID string
		// Cycle lists the elements that could not be ordered, in document
		// order.
		Cycle []string
		// Components lists each group of mutually dependent elements.
		Components [][]string
	}
)

// Error implements the error interface.
func (e *CycleError) Error() string {
	groups := make([]string, 0, len(e.Components))
	for _, c := range e.Components {
		groups = append(groups, strings.Join(c, " <-> "))
	}
	if len(groups) == 0 {
		groups = append(groups, strings.Join(e.Cycle, ", "))
	}
	return fmt.Sprintf("dependency cycle in package %s: %s", e.PackageID, strings.Join(groups, "; "))
}

// Unwrap returns ErrDependencyCycle.
func (e *CycleError) Unwrap() error { return ErrDependencyCycle }

// WithDependencyKinds selects the relationships that create dependencies.
// The default is DependencyAll.
func WithDependencyKinds(kinds DependencyKind) SortOption {
	return func(s *DependencySort) { s.kinds = kinds }
}

// WithCyclePolicy sets what happens when siblings depend on each other.
// The default is CycleKeepOrder.
func WithCyclePolicy(p CyclePolicy) SortOption {
	return func(s *DependencySort) {
		if p != "" {
			s.policy = p
		}
	}
}

// WithSortLogger sets the logger.
func WithSortLogger(logger *log.Logger) SortOption {
	return func(s *DependencySort) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewDependencySort returns a DependencySort over the graph behind d.
func NewDependencySort(d *delegate.ModelDelegate, opts ...SortOption) *DependencySort {
	s := &DependencySort{
		delegate: d,
		logger:   d.Map().Logger(),
		kinds:    DependencyAll,
		policy:   CycleKeepOrder,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Transform sorts pkg and its nested packages. With CycleFail, packages
// with a cycle are left as they are and their errors are joined; the other
// packages are still sorted.
func (s *DependencySort) Transform(pkg elements.Namespace) error {
	if pkg == nil {
		return nil
	}
	if ok, errs := s.kinds.IsValid(); !ok {
		return errors.Join(errs...)
	}
	var errs []error
	s.sortRecursive(pkg, &errs)
	return errors.Join(errs...)
}

func (s *DependencySort) sortRecursive(pkg elements.Namespace, errs *[]error) {
	if err := s.sortPackage(pkg); err != nil {
		*errs = append(*errs, err)
	}
	for _, pe := range pkg.AsPackage().PackagedElements {
		if ns, ok := pe.(elements.Namespace); ok {
			s.sortRecursive(ns, errs)
		}
	}
}

func (s *DependencySort) sortPackage(pkg elements.Namespace) error {
	core := pkg.AsPackage()
	if len(core.PackagedElements) == 0 {
		return nil
	}

	g := dag.New()
	byID := make(map[string][]elements.PackageableElement, len(core.PackagedElements))
	for _, pe := range core.PackagedElements {
		id := pe.AsElement().ID
		g.AddNode(id)
		byID[id] = append(byID[id], pe)
	}
	forEachDependency(core.PackagedElements, s.kinds, func(dependent, dependency string) {
		g.AddEdge(dependency, dependent)
	})
	if g.EdgeCount() == 0 {
		return nil
	}

	order, err := g.TopologicalSort()
	var cycle *dag.CycleError
	switch {
	case errors.As(err, &cycle):
		cerr := &CycleError{
			PackageID:  pkg.AsElement().ID,
			Cycle:      cycle.Cycle,
			Components: cycleComponents(core.PackagedElements, s.kinds),
		}
		if s.policy == CycleFail {
			s.report(elementmap.SeverityError, cerr)
			return cerr
		}
		s.logger.Warn("Dependency cycle, keeping document order for the elements involved",
			"package", pkg.AsElement().ID, "components", cerr.Components)
		s.report(elementmap.SeverityWarning, cerr)
		order = append(slices.Clone(cycle.Sorted), cycle.Cycle...)
	case err != nil:
		return fmt.Errorf("sort package %s: %w", pkg.AsElement().ID, err)
	}

	sorted := make([]elements.PackageableElement, 0, len(core.PackagedElements))
	for _, id := range order {
		sorted = append(sorted, byID[id]...)
	}
	core.PackagedElements = sorted
	return nil
}

func (s *DependencySort) report(sev elementmap.Severity, err *CycleError) {
	s.delegate.Map().Report(elementmap.Diagnostic{
		Severity:  sev,
		Code:      elementmap.CodeDependencyCycle,
		Message:   err.Error(),
		ElementID: err.PackageID,
		Cause:     err,
	})
}

// forEachDependency calls fn for every distinct dependency between the
// sibling types in list, in document order. Self dependencies are skipped.
func forEachDependency(list []elements.PackageableElement, kinds DependencyKind, fn func(dependent, dependency string)) {
	types := make(map[string]bool, len(list))
	for _, pe := range list {
		if elements.KindOf(pe).IsType() {
			types[pe.AsElement().ID] = true
		}
	}
	for _, pe := range list {
		id := pe.AsElement().ID
		if !types[id] {
			continue
		}
		seen := map[string]bool{}
		for _, dep := range typeDependencies(pe, kinds) {
			if dep == id || !types[dep] || seen[dep] {
				continue
			}
			seen[dep] = true
			fn(id, dep)
		}
	}
}

// typeDependencies returns the ids e refers to through the selected
// relationships, in the order generalizations, interface realizations,
// attributes, operation parameters.
func typeDependencies(e elements.PackageableElement, kinds DependencyKind) []string {
	var ids []string
	if c, ok := e.(elements.Classifier); ok && kinds.Has(DependencyGeneralizations) {
		for _, g := range c.AsClassifier().Generalizations {
			ids = append(ids, g.GeneralID)
		}
	}
	if b, ok := e.(elements.BehavioredClassifier); ok && kinds.Has(DependencyInterfaceRealizations) {
		for _, ir := range b.AsBehaviored().InterfaceRealizations {
			ids = append(ids, ir.ContractID)
		}
	}
	if m, ok := e.(elements.MemberedClassifier); ok {
		if kinds.Has(DependencyAttributes) {
			for _, p := range m.AsMembered().OwnedAttributes {
				ids = append(ids, p.TypeID)
			}
		}
		if kinds.Has(DependencyOperationParameters) {
			for _, op := range m.AsMembered().OwnedOperations {
				for _, p := range op.OwnedParameters {
					ids = append(ids, p.TypeID)
				}
			}
		}
	}
	return ids
}
