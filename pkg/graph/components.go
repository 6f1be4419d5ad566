package graph

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Components returns the connected components of g, ignoring edge direction.
// Each component lists node ids in graph insertion order, and components are
// ordered by their first node. Self-loops and parallel edges do not affect
// the result.
//
// Disconnected components matter to force layouts: without a centering force
// they drift apart indefinitely.
func Components(g *Graph) [][]ID {
	if g.NodeCount() == 0 {
		return nil
	}

	index := make(map[ID]int64, g.NodeCount())
	ug := simple.NewUndirectedGraph()
	for i, id := range g.nodeOrder {
		index[id] = int64(i)
		ug.AddNode(simple.Node(i))
	}

	for _, e := range g.edges {
		from, to := index[e.Source().ID()], index[e.Target().ID()]
		if from == to || ug.HasEdgeBetween(from, to) {
			continue
		}
		ug.SetEdge(ug.NewEdge(ug.Node(from), ug.Node(to)))
	}

	raw := topo.ConnectedComponents(ug)
	out := make([][]ID, 0, len(raw))
	for _, comp := range raw {
		ids := make([]int64, len(comp))
		for i, n := range comp {
			ids[i] = n.ID()
		}
		slices.Sort(ids)
		names := make([]ID, len(ids))
		for i, idx := range ids {
			names[i] = g.nodeOrder[idx]
		}
		out = append(out, names)
	}
	slices.SortFunc(out, func(a, b []ID) int {
		return cmp.Compare(index[a[0]], index[b[0]])
	})
	return out
}
