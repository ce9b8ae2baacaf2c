// SPDX-License-Identifier: MPL-2.0

// Package dag provides the topological ordering used by the dependency sort.
// It orders the packaged elements of one package so that every element comes
// after the elements it depends on.
package dag

import (
	"fmt"
	"slices"
	"strings"
)

type (
	// CycleError indicates that the graph contains a cycle, preventing a
	// complete topological ordering.
	CycleError struct {
		// Cycle contains the nodes that could not be ordered, in insertion
		// order. They are the members of a cycle and the nodes that depend on
		// one.
		Cycle []string
		// Sorted is the partial order of the nodes that could be ordered.
		Sorted []string
	}

	// Graph is a directed graph for topological sorting.
	// Nodes are identified by string keys. An edge from A to B means A must
	// come before B.
	Graph struct {
		// adjacency maps each node to its outgoing neighbors, in the order the
		// edges were added.
		adjacency map[string][]string
		// edges deduplicates adjacency entries.
		edges map[[2]string]bool
		// nodes tracks all nodes in insertion order for deterministic output.
		nodes []string
		// index maps a node to its insertion position.
		index map[string]int
	}
)

// Error implements the error interface.
func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		adjacency: make(map[string][]string),
		edges:     make(map[[2]string]bool),
		index:     make(map[string]int),
	}
}

// AddNode adds a node to the graph. If the node already exists, this is a no-op.
func (g *Graph) AddNode(name string) {
	if _, ok := g.index[name]; ok {
		return
	}
	g.index[name] = len(g.nodes)
	g.nodes = append(g.nodes, name)
}

// AddEdge adds a directed edge from -> to, meaning "from" must come before
// "to". Both nodes are implicitly added if they don't exist. A repeated edge
// is ignored.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	key := [2]string{from, to}
	if g.edges[key] {
		return
	}
	g.edges[key] = true
	g.adjacency[from] = append(g.adjacency[from], to)
}

// Nodes returns the nodes in insertion order.
func (g *Graph) Nodes() []string { return slices.Clone(g.nodes) }

// Successors returns the nodes that must come after node.
func (g *Graph) Successors(node string) []string { return slices.Clone(g.adjacency[node]) }

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// TopologicalSort returns an order in which every node follows its
// predecessors, using Kahn's algorithm. Among the nodes that are ready at any
// step, the one added first is emitted first, so unrelated nodes keep their
// insertion order.
// Returns a *CycleError carrying the partial order if the graph contains a
// cycle.
func (g *Graph) TopologicalSort() ([]string, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	inDegree := make(map[string]int, len(g.nodes))
	for _, neighbors := range g.adjacency {
		for _, neighbor := range neighbors {
			inDegree[neighbor]++
		}
	}

	// ready holds insertion positions, kept sorted
	var ready []int
	for i, node := range g.nodes {
		if inDegree[node] == 0 {
			ready = append(ready, i)
		}
	}

	result := make([]string, 0, len(g.nodes))
	for len(ready) > 0 {
		node := g.nodes[ready[0]]
		ready = ready[1:]
		result = append(result, node)

		for _, neighbor := range g.adjacency[node] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				i := g.index[neighbor]
				pos, _ := slices.BinarySearch(ready, i)
				ready = slices.Insert(ready, pos, i)
			}
		}
	}

	if len(result) != len(g.nodes) {
		var blocked []string
		for _, node := range g.nodes {
			if inDegree[node] > 0 {
				blocked = append(blocked, node)
			}
		}
		return nil, &CycleError{Cycle: blocked, Sorted: result}
	}

	return result, nil
}
