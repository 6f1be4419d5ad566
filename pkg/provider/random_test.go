package provider

import (
	"context"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	ferrors "github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
)

func within(p r3.Vec, b Bounds) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

func TestRandomGraph(t *testing.T) {
	b := Bounds{Min: r3.Vec{X: 0, Y: 0, Z: 0}, Max: r3.Vec{X: 1, Y: 2, Z: 3}}
	r := Random{Nodes: 20, Edges: 80, Bounds: b, Seed: 7}

	g, err := r.Graph(context.Background())
	if err != nil {
		t.Fatalf("Graph() error = %v", err)
	}
	if g.NodeCount() != 20 {
		t.Errorf("NodeCount() = %d, want 20", g.NodeCount())
	}
	if g.EdgeCount() == 0 || g.EdgeCount() > 80 {
		t.Errorf("EdgeCount() = %d, want 1..80", g.EdgeCount())
	}

	for i, n := range g.Nodes() {
		if !within(n.Position(), b) {
			t.Errorf("node %s at %v outside bounds", n.ID(), n.Position())
		}
		if want := []string{"0", "1", "2"}; i < len(want) && n.Label() != want[i] {
			t.Errorf("node %d label = %q, want %q", i, n.Label(), want[i])
		}
	}

	pairs := make(map[[2]graph.ID]bool)
	for _, e := range g.Edges() {
		src, dst := e.Source().ID(), e.Target().ID()
		if src == dst {
			t.Errorf("self-loop on %s", src)
		}
		if pairs[[2]graph.ID{src, dst}] {
			t.Errorf("duplicate edge %s -> %s", src, dst)
		}
		pairs[[2]graph.ID{src, dst}] = true
	}
}

func TestRandomDeterministic(t *testing.T) {
	ctx := context.Background()
	positions := func(seed uint64, edges int) ([]r3.Vec, []string) {
		g, err := Random{Nodes: 10, Edges: edges, Seed: seed}.Graph(ctx)
		if err != nil {
			t.Fatal(err)
		}
		var pos []r3.Vec
		for _, n := range g.Nodes() {
			pos = append(pos, n.Position())
		}
		var es []string
		for _, e := range g.Edges() {
			es = append(es, e.ID()+":"+e.Source().ID()+">"+e.Target().ID())
		}
		return pos, es
	}

	p1, e1 := positions(42, 15)
	p2, e2 := positions(42, 15)
	for i := range p1 {
		if p1[i] != p2[i] {
			t.Fatalf("node %d: %v != %v for the same seed", i, p1[i], p2[i])
		}
	}
	if len(e1) != len(e2) {
		t.Fatalf("edge counts differ: %d vs %d", len(e1), len(e2))
	}
	for i := range e1 {
		if e1[i] != e2[i] {
			t.Errorf("edge %d: %s != %s", i, e1[i], e2[i])
		}
	}

	// Changing the edge count does not move nodes.
	p3, _ := positions(42, 3)
	for i := range p1 {
		if p1[i] != p3[i] {
			t.Errorf("node %d moved when edge count changed", i)
		}
	}

	p4, _ := positions(43, 15)
	if p1[0] == p4[0] {
		t.Error("different seeds produced the same first node")
	}
}

func TestRandomValidate(t *testing.T) {
	tests := []struct {
		name string
		r    Random
	}{
		{"NegativeNodes", Random{Nodes: -1}},
		{"NegativeEdges", Random{Nodes: 3, Edges: -1}},
		{"EdgesWithOneNode", Random{Nodes: 1, Edges: 1}},
		{"InvertedBounds", Random{Nodes: 2, Bounds: Bounds{Min: r3.Vec{X: 1}, Max: r3.Vec{X: 0}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.r.Graph(context.Background()); !ferrors.Is(err, ferrors.ErrCodeInvalidInput) {
				t.Errorf("Graph() error = %v, want INVALID_INPUT", err)
			}
		})
	}

	g, err := Random{}.Graph(context.Background())
	if err != nil || g.NodeCount() != 0 {
		t.Errorf("empty Random: %v nodes, err %v", g.NodeCount(), err)
	}
}

func TestRandomCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (Random{Nodes: 5, Edges: 5}).Graph(ctx); err == nil {
		t.Error("Graph() with cancelled context: want error")
	}
}

func TestRandomCustomIDs(t *testing.T) {
	g, err := Random{Nodes: 3, Edges: 1, IDs: graph.NewSequence("id")}.Graph(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []graph.ID{"id0", "id1", "id2"} {
		if !g.HasNode(id) {
			t.Errorf("missing node %s", id)
		}
	}
	if !g.HasEdge("id3") {
		t.Errorf("edge ids = %v, want id3", g.Edges()[0].ID())
	}
}
