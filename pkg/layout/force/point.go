package force

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/forcegraph/pkg/graph"
)

// Point is the simulation state of one node.
type Point struct {
	node graph.Node

	Position     r3.Vec
	Velocity     r3.Vec
	Acceleration r3.Vec
	Mass         float64
	Pinned       bool
}

func newPoint(n graph.Node, planar bool) *Point {
	return &Point{node: n, Position: initialPosition(n, planar), Mass: 1}
}

// initialPosition is where n starts in the simulation.
func initialPosition(n graph.Node, planar bool) r3.Vec {
	pos := n.Position()
	if planar {
		pos.Z = 0
	}
	return pos
}

// Node returns the node this point simulates.
func (p *Point) Node() graph.Node { return p.node }

// ID returns the id of the underlying node.
func (p *Point) ID() graph.ID { return p.node.ID() }

// ApplyForce adds f/Mass to the acceleration. A non-positive mass is treated
// as unit mass.
func (p *Point) ApplyForce(f r3.Vec) {
	p.Acceleration = r3.Add(p.Acceleration, r3.Scale(1/p.mass(), f))
}

// KineticEnergy returns 0.5*m*|v|², with the same unit-mass fallback as
// ApplyForce.
func (p *Point) KineticEnergy() float64 {
	speed := r3.Norm(p.Velocity)
	return 0.5 * p.mass() * speed * speed
}

func (p *Point) mass() float64 {
	if p.Mass <= 0 {
		return 1
	}
	return p.Mass
}

// Spring is the simulation state of one edge.
type Spring struct {
	edge graph.Edge

	Point1 *Point
	Point2 *Point
	Length float64 // rest length
	K      float64 // stiffness
}

// Edge returns the edge this spring simulates.
func (s *Spring) Edge() graph.Edge { return s.edge }

// unit returns v scaled to length one, or the zero vector for a zero v.
func unit(v r3.Vec) r3.Vec {
	n := r3.Norm(v)
	if n == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/n, v)
}
