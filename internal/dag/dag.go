// Package dag provides the directed graph used to check entity relationships
// for cycles. Traversal is iterative so very large models cannot exhaust the
// goroutine stack.
package dag

import (
	"slices"
	"sort"
)

// Graph is a directed graph keyed by entity name.
type Graph struct {
	nodes map[string]struct{}
	edges map[string][]string // from -> to
}

// NewGraph creates a new empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]struct{}),
		edges: make(map[string][]string),
	}
}

// AddNode adds a node to the graph. Adding an existing node is a no-op.
func (g *Graph) AddNode(id string) {
	if _, exists := g.nodes[id]; !exists {
		g.nodes[id] = struct{}{}
		g.edges[id] = []string{}
	}
}

// AddEdge adds a directed edge, adding either endpoint that is not yet a
// node. Self-loops are allowed and count as cycles.
func (g *Graph) AddEdge(fromID, toID string) {
	g.AddNode(fromID)
	g.AddNode(toID)

	if !slices.Contains(g.edges[fromID], toID) {
		g.edges[fromID] = append(g.edges[fromID], toID)
		sort.Strings(g.edges[fromID])
	}
}

// Nodes returns all node IDs in sorted order.
func (g *Graph) Nodes() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

type color uint8

const (
	white color = iota // unvisited
	gray               // on the current path
	black              // finished
)

type frame struct {
	id   string
	next int
}

// HasCycle returns true if the graph contains a cycle, along with one cycle
// path that starts and ends on the same node. Roots are visited in sorted
// order so the reported path is deterministic.
func (g *Graph) HasCycle() (bool, []string) {
	colors := make(map[string]color, len(g.nodes))

	for _, root := range g.Nodes() {
		if colors[root] != white {
			continue
		}

		stack := []frame{{id: root}}
		colors[root] = gray

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			children := g.edges[top.id]

			if top.next >= len(children) {
				colors[top.id] = black
				stack = stack[:len(stack)-1]
				continue
			}

			child := children[top.next]
			top.next++

			switch colors[child] {
			case white:
				colors[child] = gray
				stack = append(stack, frame{id: child})
			case gray:
				return true, cyclePath(stack, child)
			}
		}
	}

	return false, nil
}

// cyclePath extracts the gray path from the back-edge target to the top of the stack.
func cyclePath(stack []frame, target string) []string {
	start := 0
	for i, f := range stack {
		if f.id == target {
			start = i
			break
		}
	}
	path := make([]string, 0, len(stack)-start+1)
	for _, f := range stack[start:] {
		path = append(path, f.id)
	}
	return append(path, target)
}
