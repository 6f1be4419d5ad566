package force

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	ferrors "github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
)

const (
	// distanceEpsilon keeps repulsion finite for coincident points.
	distanceEpsilon = 0.1
	// centeringFactor scales the pull toward the origin.
	centeringFactor = 0.4
	// positionScale converts integrated velocity into position change.
	positionScale = 0.01
)

// Simulator runs a force-directed layout over a graph.
type Simulator struct {
	g       *graph.Graph
	params  Params
	planar  bool
	law     Law
	lenient bool

	points  map[graph.ID]*Point
	springs map[graph.ID]*Spring

	revision        uint64
	energy          float64
	withinThreshold bool
	steps           int
	err             error
}

// Option configures a [Simulator].
type Option func(*Simulator)

// WithLaw selects the repulsion falloff. The default is [LawLinear].
func WithLaw(l Law) Option {
	return func(s *Simulator) { s.law = l }
}

// WithLenientLookup makes lookups of nodes and edges that are not part of the
// graph create points and springs for them instead of failing.
func WithLenientLookup() Option {
	return func(s *Simulator) { s.lenient = true }
}

// New creates a 3D simulator for g.
func New(g *graph.Graph, p Params, opts ...Option) (*Simulator, error) {
	return newSimulator(g, p, false, opts)
}

// NewPlanar creates a simulator that keeps every point on the z = 0 plane.
func NewPlanar(g *graph.Graph, p Params, opts ...Option) (*Simulator, error) {
	return newSimulator(g, p, true, opts)
}

func newSimulator(g *graph.Graph, p Params, planar bool, opts []Option) (*Simulator, error) {
	if g == nil {
		return nil, ferrors.New(ferrors.ErrCodeInvalidInput, "graph must not be nil")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	s := &Simulator{
		g:        g,
		params:   p,
		planar:   planar,
		points:   make(map[graph.ID]*Point, g.NodeCount()),
		springs:  make(map[graph.ID]*Spring, g.EdgeCount()),
		revision: g.Revision(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.law != LawLinear && s.law != LawInverseSquare {
		return nil, ferrors.New(ferrors.ErrCodeInvalidConfig, "unknown repulsion law %d", s.law)
	}
	return s, nil
}

// =============================================================================
// Accessors
// =============================================================================

// Graph returns the simulated graph.
func (s *Simulator) Graph() *graph.Graph { return s.g }

// Params returns the current parameters.
func (s *Simulator) Params() Params { return s.params }

// SetParams replaces the parameters. Springs that already exist keep their
// stiffness.
func (s *Simulator) SetParams(p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.params = p
	return nil
}

// Planar reports whether this is a 2D simulator.
func (s *Simulator) Planar() bool { return s.planar }

// Law returns the repulsion falloff in use.
func (s *Simulator) Law() Law { return s.law }

// Energy returns the total kinetic energy after the last step.
func (s *Simulator) Energy() float64 { return s.energy }

// WithinThreshold reports whether the energy after the last step was below
// the threshold. It is false before the first step.
func (s *Simulator) WithinThreshold() bool { return s.withinThreshold }

// Steps returns the number of completed steps.
func (s *Simulator) Steps() int { return s.steps }

// Err returns the reason the last Calculate call did nothing, or nil.
func (s *Simulator) Err() error { return s.err }

// =============================================================================
// Lookup
// =============================================================================

// GetPoint returns the point for n, creating it from the node's current
// position on first use.
func (s *Simulator) GetPoint(n graph.Node) (*Point, error) {
	if n == nil {
		return nil, ferrors.New(ferrors.ErrCodeInvalidInput, "node must not be nil")
	}
	if p, ok := s.points[n.ID()]; ok {
		return p, nil
	}
	if !s.lenient && !s.g.HasNode(n.ID()) {
		return nil, ferrors.New(ferrors.ErrCodeNodeNotFound, "node %q is not part of the graph", n.ID())
	}
	p := newPoint(n, s.planar)
	s.points[n.ID()] = p
	return p, nil
}

// GetSpring returns the spring for e. A new spring takes the current
// stiffness and the distance between the endpoints' node positions as rest length.
func (s *Simulator) GetSpring(e graph.Edge) (*Spring, error) {
	if e == nil {
		return nil, ferrors.New(ferrors.ErrCodeInvalidInput, "edge must not be nil")
	}
	if sp, ok := s.springs[e.ID()]; ok {
		return sp, nil
	}
	if !s.lenient && !s.g.HasEdge(e.ID()) {
		return nil, ferrors.New(ferrors.ErrCodeEdgeNotFound, "edge %q is not part of the graph", e.ID())
	}
	p1, err := s.GetPoint(e.Source())
	if err != nil {
		return nil, err
	}
	p2, err := s.GetPoint(e.Target())
	if err != nil {
		return nil, err
	}
	sp := &Spring{
		edge:   e,
		Point1: p1,
		Point2: p2,
		Length: r3.Norm(r3.Sub(initialPosition(e.Target(), s.planar), initialPosition(e.Source(), s.planar))),
		K:      s.params.Stiffness,
	}
	s.springs[e.ID()] = sp
	return sp, nil
}

// SetRestLength overrides the rest length of the spring for e.
func (s *Simulator) SetRestLength(e graph.Edge, length float64) error {
	if err := ferrors.ValidateRange("rest length", length, 0, math.MaxFloat64, false); err != nil {
		return err
	}
	sp, err := s.GetSpring(e)
	if err != nil {
		return err
	}
	sp.Length = length
	return nil
}

// =============================================================================
// Interaction
// =============================================================================

// PinNode pins or releases the point for n. Pinning discards the point's
// velocity and acceleration so it stays exactly where it is.
func (s *Simulator) PinNode(n graph.Node, pinned bool) error {
	p, err := s.GetPoint(n)
	if err != nil {
		return err
	}
	p.Pinned = pinned
	if pinned {
		p.Velocity = r3.Vec{}
		p.Acceleration = r3.Vec{}
	}
	return nil
}

// UpdatePositionInteracted moves the point for n to pos. Velocity and
// acceleration are left alone. In a planar simulator z is dropped.
func (s *Simulator) UpdatePositionInteracted(n graph.Node, pos r3.Vec) error {
	p, err := s.GetPoint(n)
	if err != nil {
		return err
	}
	if s.planar {
		pos.Z = 0
	}
	p.Position = pos
	return nil
}

// =============================================================================
// Step
// =============================================================================

// Calculate advances the simulation by dt.
//
// It does nothing if dt is negative or not finite, or if the graph's topology
// changed since the simulator was created; [Simulator.Err] reports why.
func (s *Simulator) Calculate(dt float64) {
	if s.g.Revision() != s.revision {
		s.err = ferrors.New(ferrors.ErrCodeGraphChanged,
			"graph changed after the simulation started (revision %d, now %d)", s.revision, s.g.Revision())
		return
	}
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
		s.err = ferrors.New(ferrors.ErrCodeInvalidInput, "time step must be a finite non-negative number, got %v", dt)
		return
	}
	s.err = nil

	points, springs, err := s.materialize()
	if err != nil {
		s.err = err
		return
	}

	s.applyRepulsion(points)
	s.applySprings(springs)
	s.applyCentering(points)
	s.integrate(points, dt)

	s.energy = totalEnergy(points)
	s.withinThreshold = s.energy < s.params.Threshold
	s.steps++
}

// ApplyCalculation returns the current position of every node's point, keyed
// by node id. The graph's nodes are not modified.
func (s *Simulator) ApplyCalculation() map[graph.ID]r3.Vec {
	out := make(map[graph.ID]r3.Vec, s.g.NodeCount())
	for _, n := range s.g.Nodes() {
		p, err := s.GetPoint(n)
		if err != nil {
			continue
		}
		out[n.ID()] = p.Position
	}
	return out
}

func (s *Simulator) materialize() ([]*Point, []*Spring, error) {
	nodes := s.g.Nodes()
	points := make([]*Point, 0, len(nodes))
	for _, n := range nodes {
		p, err := s.GetPoint(n)
		if err != nil {
			return nil, nil, err
		}
		points = append(points, p)
	}
	edges := s.g.Edges()
	springs := make([]*Spring, 0, len(edges))
	for _, e := range edges {
		sp, err := s.GetSpring(e)
		if err != nil {
			return nil, nil, err
		}
		springs = append(springs, sp)
	}
	return points, springs, nil
}

func (s *Simulator) direction(v r3.Vec) r3.Vec {
	d := unit(v)
	if s.planar {
		d.Z = 0
	}
	return d
}

func (s *Simulator) repulsionMagnitude(distance float64) float64 {
	if s.law == LawInverseSquare {
		return s.params.Repulsion / (distance * distance)
	}
	return s.params.Repulsion / distance
}

func (s *Simulator) applyRepulsion(points []*Point) {
	for i, p1 := range points {
		for _, p2 := range points[i+1:] {
			if p1.Pinned && p2.Pinned {
				continue
			}
			d := r3.Sub(p1.Position, p2.Position)
			distance := r3.Norm(d) + distanceEpsilon
			dir := s.direction(d)
			mag := s.repulsionMagnitude(distance)

			switch {
			case p1.Pinned:
				p2.ApplyForce(r3.Scale(-mag, dir))
			case p2.Pinned:
				p1.ApplyForce(r3.Scale(mag, dir))
			default:
				p1.ApplyForce(r3.Scale(2*mag, dir))
				p2.ApplyForce(r3.Scale(-2*mag, dir))
			}
		}
	}
}

func (s *Simulator) applySprings(springs []*Spring) {
	for _, sp := range springs {
		p1, p2 := sp.Point1, sp.Point2
		if p1.Pinned && p2.Pinned {
			continue
		}
		d := r3.Sub(p2.Position, p1.Position)
		displacement := sp.Length - r3.Norm(d)
		f := r3.Scale(sp.K*displacement, s.direction(d))

		switch {
		case p1.Pinned:
			p2.ApplyForce(f)
		case p2.Pinned:
			p1.ApplyForce(r3.Scale(-1, f))
		default:
			p1.ApplyForce(r3.Scale(-0.5, f))
			p2.ApplyForce(r3.Scale(0.5, f))
		}
	}
}

func (s *Simulator) applyCentering(points []*Point) {
	for _, p := range points {
		if p.Pinned {
			continue
		}
		dir := s.direction(r3.Scale(-1, p.Position))
		displacement := r3.Norm(p.Position)
		p.ApplyForce(r3.Scale(s.params.Stiffness*displacement*centeringFactor, dir))
	}
}

func (s *Simulator) integrate(points []*Point, dt float64) {
	for _, p := range points {
		p.Velocity = r3.Scale(s.params.Damping, r3.Add(p.Velocity, r3.Scale(dt, p.Acceleration)))
		p.Acceleration = r3.Vec{}
		p.Position = r3.Add(p.Position, r3.Scale(dt*positionScale, p.Velocity))
	}
}

func totalEnergy(points []*Point) float64 {
	var e float64
	for _, p := range points {
		e += p.KineticEnergy()
	}
	return e
}
