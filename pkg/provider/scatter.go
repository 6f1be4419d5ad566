package provider

import (
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/matzehuels/forcegraph/pkg/graph"
)

// scatterStep is the noise-space distance between consecutive nodes.
// An irrational step keeps samples off the noise lattice.
const scatterStep = 0.7548776662

// Scatter places nodes using seeded OpenSimplex noise. Consecutive nodes land
// at distinct, deterministic positions inside Bounds.
type Scatter struct {
	Bounds Bounds // zero value means DefaultBounds
	Seed   int64
	Planar bool // keep z at zero
}

// Place sets the position of every listed node. Ids that are not in g are
// skipped.
func (s Scatter) Place(g *graph.Graph, ids []graph.ID) error {
	if len(ids) == 0 {
		return nil
	}
	b := s.Bounds
	if b.isZero() {
		b = DefaultBounds
	}
	if err := b.Validate(); err != nil {
		return err
	}

	noise := opensimplex.NewNormalized(s.Seed)
	for i, id := range ids {
		n, ok := g.Node(id)
		if !ok {
			continue
		}
		t := float64(i+1) * scatterStep
		pos := b.lerp(
			noise.Eval2(t, 0),
			noise.Eval2(t, 31.4159),
			noise.Eval2(t, 71.8281),
		)
		if s.Planar {
			pos.Z = 0
		}
		n.SetPosition(pos)
	}
	return nil
}
