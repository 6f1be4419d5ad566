package provider

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	ferrors "github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
)

func TestScatterPlace(t *testing.T) {
	g := graph.New()
	var ids []graph.ID
	for _, id := range []graph.ID{"a", "b", "c", "d", "e", "f", "g", "h"} {
		_ = g.AddNode(graph.NewNode(id, "", r3.Vec{}))
		ids = append(ids, id)
	}
	b := Bounds{Min: r3.Vec{X: -1, Y: -1, Z: -1}, Max: r3.Vec{X: 1, Y: 1, Z: 1}}

	if err := (Scatter{Bounds: b, Seed: 3}).Place(g, append(ids, "missing")); err != nil {
		t.Fatalf("Place() error = %v", err)
	}

	seen := make(map[r3.Vec]graph.ID)
	for _, n := range g.Nodes() {
		p := n.Position()
		if !within(p, b) {
			t.Errorf("%s at %v outside bounds", n.ID(), p)
		}
		if other, dup := seen[p]; dup {
			t.Errorf("%s and %s share position %v", n.ID(), other, p)
		}
		seen[p] = n.ID()
	}

	// Same seed, same spots.
	g2 := graph.New()
	for _, id := range ids {
		_ = g2.AddNode(graph.NewNode(id, "", r3.Vec{}))
	}
	_ = (Scatter{Bounds: b, Seed: 3}).Place(g2, ids)
	for _, id := range ids {
		n1, _ := g.Node(id)
		n2, _ := g2.Node(id)
		if n1.Position() != n2.Position() {
			t.Errorf("%s: %v != %v", id, n1.Position(), n2.Position())
		}
	}
}

func TestScatterPlanar(t *testing.T) {
	g := graph.New()
	_ = g.AddNode(graph.NewNode("a", "", r3.Vec{}))
	_ = g.AddNode(graph.NewNode("b", "", r3.Vec{}))
	if err := (Scatter{Planar: true}).Place(g, []graph.ID{"a", "b"}); err != nil {
		t.Fatal(err)
	}
	for _, n := range g.Nodes() {
		if n.Position().Z != 0 {
			t.Errorf("%s: z = %v, want 0", n.ID(), n.Position().Z)
		}
		if n.Position() == (r3.Vec{}) {
			t.Errorf("%s was not moved", n.ID())
		}
	}
}

func TestFileProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	src := `{"nodes":[{"id":"a","x":1,"y":1},{"id":"b"},{"id":"c"}],"edges":[{"from":"a","to":"b"},{"from":"b","to":"c"}]}`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	g, err := File{Path: path, IDs: graph.NewSequence("edge-")}.Graph(context.Background())
	if err != nil {
		t.Fatalf("Graph() error = %v", err)
	}
	if g.NodeCount() != 3 || g.EdgeCount() != 2 {
		t.Fatalf("counts = %d nodes, %d edges", g.NodeCount(), g.EdgeCount())
	}
	if !g.HasEdge("edge-0") {
		t.Error("edge-0 missing")
	}

	a, _ := g.Node("a")
	if a.Position() != (r3.Vec{X: 1, Y: 1}) {
		t.Errorf("placed node moved to %v", a.Position())
	}
	b, _ := g.Node("b")
	c, _ := g.Node("c")
	if b.Position() == c.Position() {
		t.Errorf("unplaced nodes share position %v", b.Position())
	}
}

func TestFileProviderErrors(t *testing.T) {
	ctx := context.Background()
	if _, err := (File{Path: filepath.Join(t.TempDir(), "nope.toml")}).Graph(ctx); !ferrors.Is(err, ferrors.ErrCodeFileNotFound) {
		t.Errorf("missing file: error = %v, want FILE_NOT_FOUND", err)
	}
	if _, err := (Inline{}).Graph(ctx); !ferrors.Is(err, ferrors.ErrCodeInvalidInput) {
		t.Errorf("nil document: error = %v, want INVALID_INPUT", err)
	}
}
