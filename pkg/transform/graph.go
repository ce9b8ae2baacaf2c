// SPDX-License-Identifier: MPL-2.0

package transform

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"

	"github.com/invowk/umlgraph/pkg/elements"
)

// DependencyGraph returns the dependencies between the sibling types packaged
// directly in pkg. Vertices are element ids labeled with element names. An
// edge from A to B means B depends on A, so A is sorted first.
func DependencyGraph(pkg elements.Namespace, kinds DependencyKind) (graph.Graph[string, string], error) {
	return dependencyGraph(pkg.AsPackage().PackagedElements, kinds)
}

func dependencyGraph(list []elements.PackageableElement, kinds DependencyKind) (graph.Graph[string, string], error) {
	g := graph.New(graph.StringHash, graph.Directed())
	for _, pe := range list {
		if !elements.KindOf(pe).IsType() {
			continue
		}
		id := pe.AsElement().ID
		label := elements.Name(pe)
		if label == "" {
			label = id
		}
		err := g.AddVertex(id, graph.VertexAttribute("label", label))
		if err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
			return nil, fmt.Errorf("add vertex %s: %w", id, err)
		}
	}

	var addErr error
	forEachDependency(list, kinds, func(dependent, dependency string) {
		if addErr != nil {
			return
		}
		if err := g.AddEdge(dependency, dependent); err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
			addErr = fmt.Errorf("add edge %s -> %s: %w", dependency, dependent, err)
		}
	})
	if addErr != nil {
		return nil, addErr
	}
	return g, nil
}

// cycleComponents returns the strongly connected components of the sibling
// graph that hold more than one element. Members are in document order, and
// so are the components by their first member.
func cycleComponents(list []elements.PackageableElement, kinds DependencyKind) [][]string {
	g, err := dependencyGraph(list, kinds)
	if err != nil {
		return nil
	}
	sccs, err := graph.StronglyConnectedComponents(g)
	if err != nil {
		return nil
	}

	position := make(map[string]int, len(list))
	for i, pe := range list {
		if _, ok := position[pe.AsElement().ID]; !ok {
			position[pe.AsElement().ID] = i
		}
	}
	byPosition := func(a, b string) int { return position[a] - position[b] }

	var out [][]string
	for _, scc := range sccs {
		if len(scc) < 2 {
			continue
		}
		scc = slices.Clone(scc)
		slices.SortFunc(scc, byPosition)
		out = append(out, scc)
	}
	slices.SortFunc(out, func(a, b []string) int { return byPosition(a[0], b[0]) })
	return out
}

// WriteDOT writes g in the DOT language.
func WriteDOT(w io.Writer, g graph.Graph[string, string]) error {
	if err := draw.DOT(g, w); err != nil {
		return fmt.Errorf("write dot: %w", err)
	}
	return nil
}
