package force

import (
	"math"
	"strings"

	ferrors "github.com/matzehuels/forcegraph/pkg/errors"
)

// Params tunes the simulation.
type Params struct {
	Stiffness float64 // spring constant for new springs, also scales centering
	Repulsion float64 // pairwise repulsion strength
	Damping   float64 // velocity multiplier per step, in (0, 1]
	Threshold float64 // kinetic energy below which the layout counts as converged
}

// DefaultParams returns parameters that settle small graphs within a few
// hundred steps at 60 ticks per second.
func DefaultParams() Params {
	return Params{
		Stiffness: 81.76,
		Repulsion: 4000,
		Damping:   0.5,
		Threshold: 0.01,
	}
}

// Validate reports an INVALID_CONFIG error for out-of-range or non-finite
// parameters.
func (p Params) Validate() error {
	checks := []struct {
		name   string
		v      float64
		lo, hi float64
		open   bool
	}{
		{"stiffness", p.Stiffness, 0, maxParam, false},
		{"repulsion", p.Repulsion, 0, maxParam, false},
		{"damping", p.Damping, 0, 1, true},
		{"threshold", p.Threshold, 0, maxParam, true},
	}
	for _, c := range checks {
		if err := ferrors.ValidateRange(c.name, c.v, c.lo, c.hi, c.open); err != nil {
			return err
		}
	}
	return nil
}

const maxParam = math.MaxFloat64

// Law selects how repulsion falls off with distance.
type Law int

const (
	// LawLinear divides the repulsion strength by the distance.
	LawLinear Law = iota
	// LawInverseSquare divides the repulsion strength by the squared distance.
	LawInverseSquare
)

func (l Law) String() string {
	switch l {
	case LawLinear:
		return "linear"
	case LawInverseSquare:
		return "inverse-square"
	default:
		return "unknown"
	}
}

// ParseLaw parses "linear" or "inverse-square".
func ParseLaw(s string) (Law, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "linear":
		return LawLinear, nil
	case "inverse-square", "inverse_square", "inversesquare":
		return LawInverseSquare, nil
	default:
		return LawLinear, ferrors.New(ferrors.ErrCodeInvalidConfig, "unknown repulsion law %q (want linear or inverse-square)", s)
	}
}
