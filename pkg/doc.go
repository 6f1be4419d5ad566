// Package pkg provides the libraries behind forcegraph, a force-directed
// graph layout engine.
//
// # Overview
//
// forcegraph positions the nodes of a graph by treating edges as springs and
// nodes as mutually repelling charged particles, then integrating the system
// until its kinetic energy falls below a threshold.
//
//  1. [graph] - node/edge capabilities, the Graph container and documents
//  2. [layout/force] - the spring/repulsion simulator
//  3. [provider] - graph sources: files, inline documents, random graphs
//  4. [presenter] - drives a simulator, converts to view units, handles drags
//  5. [session], [config], [errors], [observability] - supporting services
//
// # Data Flow
//
//	graph document / random generator
//	         ↓
//	    [provider] (build graph, scatter unplaced nodes)
//	         ↓
//	    [layout/force] (Calculate per step)
//	         ↓
//	    [presenter] (frames, view positions, interaction)
//	         ↓
//	    CLI table / terminal view / HTTP session
//
// # Quick Start
//
//	g, _ := provider.Random{Nodes: 50, Edges: 80, Seed: 1}.Graph(ctx)
//	sim, _ := force.New(g, force.DefaultParams())
//	res, _ := presenter.New(sim).Run(ctx, 0.016, 20000)
//	positions := sim.ApplyCalculation()
//
// [graph]: github.com/matzehuels/forcegraph/pkg/graph
// [layout/force]: github.com/matzehuels/forcegraph/pkg/layout/force
// [provider]: github.com/matzehuels/forcegraph/pkg/provider
// [presenter]: github.com/matzehuels/forcegraph/pkg/presenter
// [session]: github.com/matzehuels/forcegraph/pkg/session
// [config]: github.com/matzehuels/forcegraph/pkg/config
// [errors]: github.com/matzehuels/forcegraph/pkg/errors
// [observability]: github.com/matzehuels/forcegraph/pkg/observability
package pkg
