package provider

import (
	"context"
	"math/rand/v2"
	"strconv"

	ferrors "github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
)

// Random generates a graph with uniformly placed nodes and random edges.
//
// Edges are drawn Edges times. A draw never produces a self-loop, and a draw
// that repeats an existing (source, target) pair is dropped, so the result
// may hold fewer than Edges edges. The same Seed always yields the same graph.
type Random struct {
	Nodes  int
	Edges  int
	Bounds Bounds // zero value means DefaultBounds
	Seed   uint64
	IDs    graph.IDGenerator // nil uses "n" and "e" prefixed sequences
}

// Validate checks the generator settings.
func (r Random) Validate() error {
	if r.Nodes < 0 || r.Edges < 0 {
		return ferrors.New(ferrors.ErrCodeInvalidInput, "node and edge counts must not be negative (nodes %d, edges %d)", r.Nodes, r.Edges)
	}
	if r.Edges > 0 && r.Nodes < 2 {
		return ferrors.New(ferrors.ErrCodeInvalidInput, "edges need at least two nodes, got %d", r.Nodes)
	}
	return r.bounds().Validate()
}

func (r Random) bounds() Bounds {
	if r.Bounds.isZero() {
		return DefaultBounds
	}
	return r.Bounds
}

// Graph generates the graph.
func (r Random) Graph(ctx context.Context) (*graph.Graph, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	nodeIDs, edgeIDs := r.IDs, r.IDs
	if r.IDs == nil {
		nodeIDs, edgeIDs = graph.NewSequence("n"), graph.NewSequence("e")
	}

	// Node and edge draws use separate streams so that changing the edge
	// count leaves node positions untouched.
	nodeRand := rand.New(rand.NewPCG(r.Seed, 0))
	edgeRand := rand.New(rand.NewPCG(r.Seed, 10000))

	g := graph.New()
	b := r.bounds()
	nodes := make([]*graph.SimpleNode, r.Nodes)
	for i := range nodes {
		pos := b.lerp(nodeRand.Float64(), nodeRand.Float64(), nodeRand.Float64())
		nodes[i] = graph.NewNode(nodeIDs.Next(), strconv.Itoa(i), pos)
		if err := g.AddNode(nodes[i]); err != nil {
			return nil, err
		}
	}

	seen := make(map[[2]int]bool, r.Edges)
	for i := 0; i < r.Edges; i++ {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		src := edgeRand.IntN(r.Nodes)
		dst := edgeRand.IntN(r.Nodes)
		for dst == src {
			dst = edgeRand.IntN(r.Nodes)
		}
		if seen[[2]int{src, dst}] {
			continue
		}
		seen[[2]int{src, dst}] = true
		if err := g.AddEdge(graph.NewEdge(edgeIDs.Next(), nodes[src], nodes[dst])); err != nil {
			return nil, err
		}
	}
	return g, nil
}
