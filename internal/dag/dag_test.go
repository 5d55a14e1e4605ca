package dag

import (
	"fmt"
	"testing"
)

func TestGraph_AddNodeAndEdge(t *testing.T) {
	g := NewGraph()

	g.AddNode("Order")
	g.AddNode("Order")
	g.AddEdge("Order", "Customer")
	g.AddEdge("Customer", "Region")
	// duplicate edges collapse
	g.AddEdge("Order", "Customer")

	if got := fmt.Sprint(g.Nodes()); got != "[Customer Order Region]" {
		t.Errorf("expected edge endpoints to become nodes, got %v", got)
	}
	if got := fmt.Sprint(g.edges["Order"]); got != "[Customer]" {
		t.Errorf("expected a single Order edge, got %v", got)
	}
	if len(g.edges["Region"]) != 0 {
		t.Errorf("expected Region to have no edges, got %v", g.edges["Region"])
	}
}

func TestGraph_EdgesSorted(t *testing.T) {
	g := NewGraph()
	g.AddEdge("a", "c")
	g.AddEdge("a", "b")

	if got := fmt.Sprint(g.edges["a"]); got != "[b c]" {
		t.Fatalf("expected [b c], got %v", got)
	}
	if got := fmt.Sprint(g.Nodes()); got != "[a b c]" {
		t.Errorf("expected sorted nodes, got %v", got)
	}
}

func TestGraph_HasCycle(t *testing.T) {
	tests := []struct {
		name      string
		nodes     []string
		edges     [][2]string
		wantCycle bool
	}{
		{
			name:  "empty",
			nodes: nil,
		},
		{
			name:  "chain",
			nodes: []string{"a", "b", "c"},
			edges: [][2]string{{"a", "b"}, {"b", "c"}},
		},
		{
			name:  "diamond",
			nodes: []string{"a", "b", "c", "d"},
			edges: [][2]string{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}},
		},
		{
			name:  "cross edge into finished subtree",
			nodes: []string{"a", "b", "c"},
			edges: [][2]string{{"b", "a"}, {"c", "a"}, {"c", "b"}},
		},
		{
			name:      "self loop",
			nodes:     []string{"a"},
			edges:     [][2]string{{"a", "a"}},
			wantCycle: true,
		},
		{
			name:      "two node cycle",
			nodes:     []string{"a", "b"},
			edges:     [][2]string{{"a", "b"}, {"b", "a"}},
			wantCycle: true,
		},
		{
			name:      "cycle off the root",
			nodes:     []string{"a", "b", "c", "d"},
			edges:     [][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}, {"d", "b"}},
			wantCycle: true,
		},
		{
			name:      "disconnected components one cyclic",
			nodes:     []string{"a", "b", "x", "y"},
			edges:     [][2]string{{"a", "b"}, {"x", "y"}, {"y", "x"}},
			wantCycle: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGraph()
			for _, n := range tt.nodes {
				g.AddNode(n)
			}
			for _, e := range tt.edges {
				g.AddEdge(e[0], e[1])
			}

			hasCycle, path := g.HasCycle()
			if hasCycle != tt.wantCycle {
				t.Fatalf("HasCycle() = %v, want %v (path %v)", hasCycle, tt.wantCycle, path)
			}
			if !hasCycle {
				if path != nil {
					t.Errorf("expected nil path, got %v", path)
				}
				return
			}
			if len(path) < 2 || path[0] != path[len(path)-1] {
				t.Errorf("cycle path should start and end on the same node, got %v", path)
			}
			for i := 0; i+1 < len(path); i++ {
				found := false
				for _, c := range g.edges[path[i]] {
					if c == path[i+1] {
						found = true
					}
				}
				if !found {
					t.Errorf("path step %s -> %s is not an edge", path[i], path[i+1])
				}
			}
		})
	}
}

func TestGraph_HasCycle_Deterministic(t *testing.T) {
	build := func() *Graph {
		g := NewGraph()
		for _, n := range []string{"d", "c", "b", "a"} {
			g.AddNode(n)
		}
		g.AddEdge("a", "b")
		g.AddEdge("b", "a")
		g.AddEdge("c", "d")
		g.AddEdge("d", "c")
		return g
	}

	_, first := build().HasCycle()
	for i := 0; i < 20; i++ {
		_, again := build().HasCycle()
		if fmt.Sprint(first) != fmt.Sprint(again) {
			t.Fatalf("cycle path changed between runs: %v vs %v", first, again)
		}
	}
	if fmt.Sprint(first) != "[a b a]" {
		t.Errorf("expected [a b a], got %v", first)
	}
}

func TestGraph_HasCycle_DeepChain(t *testing.T) {
	g := NewGraph()
	const n = 50000
	for i := 0; i < n; i++ {
		g.AddNode(fmt.Sprintf("n%06d", i))
	}
	for i := 0; i+1 < n; i++ {
		g.AddEdge(fmt.Sprintf("n%06d", i), fmt.Sprintf("n%06d", i+1))
	}

	if hasCycle, _ := g.HasCycle(); hasCycle {
		t.Fatal("long chain must not report a cycle")
	}

	g.AddEdge(fmt.Sprintf("n%06d", n-1), "n000000")
	if hasCycle, path := g.HasCycle(); !hasCycle || len(path) != n+1 {
		t.Fatalf("expected cycle through all nodes, got %v with %d steps", hasCycle, len(path))
	}
}
