package graph

import (
	"slices"

	"gonum.org/v1/gonum/spatial/r3"

	ferrors "github.com/matzehuels/forcegraph/pkg/errors"
)

// Graph is a set of nodes and a list of edges between them.
//
// Graph maintains referential consistency: every edge's endpoints are always
// members of the node set. [Graph.AddEdge] inserts missing endpoints and
// [Graph.RemoveNode] removes every incident edge. Membership is by ID, so
// adding an element whose ID is already present is a no-op.
//
// Iteration order is insertion order. The zero value is not usable; use [New].
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	nodes     map[ID]Node
	nodeOrder []ID
	edges     []Edge
	edgeIndex map[ID]Edge
	revision  uint64
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:     make(map[ID]Node),
		edgeIndex: make(map[ID]Edge),
	}
}

// =============================================================================
// Nodes
// =============================================================================

// AddNode adds n to the graph. Adding a node whose ID is already present is
// a no-op. Returns an INVALID_INPUT error for a nil node or an invalid ID.
func (g *Graph) AddNode(n Node) error {
	if n == nil {
		return ferrors.New(ferrors.ErrCodeInvalidInput, "node must not be nil")
	}
	if err := ferrors.ValidateID("node", n.ID()); err != nil {
		return err
	}
	if _, exists := g.nodes[n.ID()]; exists {
		return nil
	}
	g.nodes[n.ID()] = n
	g.nodeOrder = append(g.nodeOrder, n.ID())
	g.revision++
	return nil
}

// RemoveNode removes n and every edge incident to it.
// It reports false if n was not part of the graph.
func (g *Graph) RemoveNode(n Node) bool {
	if n == nil {
		return false
	}
	id := n.ID()
	if _, ok := g.nodes[id]; !ok {
		return false
	}
	delete(g.nodes, id)
	g.nodeOrder = slices.DeleteFunc(g.nodeOrder, func(o ID) bool { return o == id })
	g.edges = slices.DeleteFunc(g.edges, func(e Edge) bool {
		if touches(e, id) {
			delete(g.edgeIndex, e.ID())
			return true
		}
		return false
	})
	g.revision++
	return true
}

// Node returns the node with the given ID.
func (g *Graph) Node(id ID) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// HasNode reports whether a node with the given ID is in the graph.
func (g *Graph) HasNode(id ID) bool {
	_, ok := g.nodes[id]
	return ok
}

// Nodes returns the nodes in insertion order. The slice is a copy.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodeOrder))
	for i, id := range g.nodeOrder {
		out[i] = g.nodes[id]
	}
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodeOrder) }

// =============================================================================
// Edges
// =============================================================================

// AddEdge adds e to the graph after adding both of its endpoints.
// Adding an edge whose ID is already present is a no-op.
func (g *Graph) AddEdge(e Edge) error {
	if e == nil {
		return ferrors.New(ferrors.ErrCodeInvalidInput, "edge must not be nil")
	}
	if err := ferrors.ValidateID("edge", e.ID()); err != nil {
		return err
	}
	if _, exists := g.edgeIndex[e.ID()]; exists {
		return nil
	}
	if e.Source() == nil || e.Target() == nil {
		return ferrors.New(ferrors.ErrCodeInvalidInput, "edge %q has a nil endpoint", e.ID())
	}
	if err := g.AddNode(e.Source()); err != nil {
		return err
	}
	if err := g.AddNode(e.Target()); err != nil {
		return err
	}
	g.edges = append(g.edges, e)
	g.edgeIndex[e.ID()] = e
	g.revision++
	return nil
}

// RemoveEdge removes e. It reports false if e was not part of the graph.
func (g *Graph) RemoveEdge(e Edge) bool {
	if e == nil {
		return false
	}
	id := e.ID()
	if _, ok := g.edgeIndex[id]; !ok {
		return false
	}
	delete(g.edgeIndex, id)
	g.edges = slices.DeleteFunc(g.edges, func(o Edge) bool { return o.ID() == id })
	g.revision++
	return true
}

// Edge returns the edge with the given ID.
func (g *Graph) Edge(id ID) (Edge, bool) {
	e, ok := g.edgeIndex[id]
	return e, ok
}

// HasEdge reports whether an edge with the given ID is in the graph.
func (g *Graph) HasEdge(id ID) bool {
	_, ok := g.edgeIndex[id]
	return ok
}

// Edges returns the edges in insertion order. The slice is a copy.
func (g *Graph) Edges() []Edge {
	return slices.Clone(g.edges)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// EdgesIncidentTo returns the edges whose source or target is n.
func (g *Graph) EdgesIncidentTo(n Node) []Edge {
	if n == nil {
		return nil
	}
	var out []Edge
	for _, e := range g.edges {
		if touches(e, n.ID()) {
			out = append(out, e)
		}
	}
	return out
}

// Revision is incremented by every structural change (node or edge added or
// removed). Position changes do not count. Layout engines use it to detect a
// topology change after they captured the graph.
func (g *Graph) Revision() uint64 { return g.revision }

func touches(e Edge, id ID) bool {
	return e.Source().ID() == id || e.Target().ID() == id
}

// =============================================================================
// Snapshots
// =============================================================================

// ApplyPositions writes a position snapshot, as produced by a layout engine,
// into the graph's nodes. Ids in the snapshot that are not in the graph are
// ignored. It returns the ids of the nodes whose position actually changed,
// in node insertion order.
func ApplyPositions(g *Graph, snapshot map[ID]r3.Vec) []ID {
	var changed []ID
	for _, id := range g.nodeOrder {
		pos, ok := snapshot[id]
		if !ok {
			continue
		}
		n := g.nodes[id]
		if n.Position() == pos {
			continue
		}
		n.SetPosition(pos)
		changed = append(changed, id)
	}
	return changed
}
