// Package force implements a force-directed layout simulation.
//
// A [Simulator] wraps a [graph.Graph] and advances a spring-mass-charge model
// one explicit Euler step at a time. Each node is represented by a [Point]
// and each edge by a [Spring]; both are created on first use and cached for
// the lifetime of the simulator.
//
// # Step
//
// [Simulator.Calculate] runs, in this order:
//
//  1. Repulsion between every unordered pair of points
//  2. Spring attraction along every edge
//  3. A centering pull on every unpinned point
//  4. Velocity integration with damping
//  5. Position integration
//  6. Kinetic energy and the convergence test
//
// The repulsion falloff is selected with [WithLaw]. [LawLinear] divides by the
// distance and is the default; [LawInverseSquare] divides by its square.
//
// # Usage
//
//	sim, err := force.New(g, force.DefaultParams())
//	if err != nil {
//	    return err
//	}
//	for !sim.WithinThreshold() {
//	    sim.Calculate(0.016)
//	}
//	positions := sim.ApplyCalculation()
//
// A simulator never writes into the graph's nodes; callers apply the snapshot
// with [graph.ApplyPositions] when they want to.
//
// # Interaction
//
// [Simulator.PinNode] freezes a point in place and [Simulator.UpdatePositionInteracted]
// moves it without touching its velocity. Together they implement dragging.
//
// # Variants
//
// [NewPlanar] builds a 2D simulator: points start on the z = 0 plane and
// every force has its z component removed.
//
// A Simulator is not safe for concurrent use.
package force
