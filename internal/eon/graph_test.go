package eon

import "testing"

func TestGraphAddEdgeUndirected(t *testing.T) {
	g := NewGraph()
	g.AddNode("A")
	g.AddNode("B")
	g.AddEdge("A", "B", 10)

	if !g.HasEdge("A", "B") || !g.HasEdge("B", "A") {
		t.Fatal("expected edge to be mirrored on both endpoints")
	}
}

func TestGraphAddEdgeUnknownEndpointIsNoop(t *testing.T) {
	g := NewGraph()
	g.AddNode("A")
	g.AddEdge("A", "ghost", 1)

	if g.HasEdge("A", "ghost") {
		t.Fatal("expected no-op for unknown endpoint")
	}
	if len(g.Nodes["A"].Edges) != 0 {
		t.Fatal("expected no edge recorded")
	}
}

func TestGraphNodeIDsSorted(t *testing.T) {
	g := NewGraph()
	for _, id := range []string{"C", "A", "B"} {
		g.AddNode(id)
	}
	got := g.NodeIDs()
	want := []string{"A", "B", "C"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("NodeIDs() = %v, want %v", got, want)
		}
	}
}

func TestGraphAddEdgeUpdatesExistingCost(t *testing.T) {
	g := NewGraph()
	g.AddNode("A")
	g.AddNode("B")
	g.AddEdge("A", "B", 5)
	g.AddEdge("A", "B", 7)

	for _, e := range g.Nodes["A"].Edges {
		if e.To == "B" && e.Cost != 7 {
			t.Fatalf("expected updated cost 7, got %v", e.Cost)
		}
	}
}
