// Package graph provides the graph model that force layouts operate on.
//
// A [Graph] holds nodes and edges expressed through two small capability
// interfaces, [Node] and [Edge]. Any type with a stable id, a mutable 3D
// position and a label can be laid out; [SimpleNode] and [SimpleEdge] are the
// stock implementations.
//
// # Consistency
//
// The graph keeps every edge's endpoints in its node set:
//
//	g := graph.New()
//	a := graph.NewNode("a", "", r3.Vec{})
//	b := graph.NewNode("b", "", r3.Vec{X: 1})
//	_ = g.AddEdge(graph.NewEdge("ab", a, b)) // adds a and b as well
//	g.RemoveNode(a)                         // removes "ab" too
//
// Structural changes bump [Graph.Revision], which layout engines use to
// notice that the topology moved underneath them.
//
// # Documents
//
// [Document] is the on-disk and over-the-wire form of an input graph, in JSON
// or TOML:
//
//	doc, _ := graph.ReadDocumentFile("graph.toml")
//	g, unplaced, _ := doc.Build(graph.NewSequence("e"))
//
// Nodes without coordinates are returned as unplaced so a provider can
// scatter them before a simulation starts.
//
// # Identifiers
//
// Edge ids that a document omits come from an explicit [IDGenerator]. Use
// [NewSequence] for readable, deterministic ids and [UUIDGenerator] when ids
// must be globally unique.
package graph
