package graph

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator hands out identifiers for nodes and edges. Generators are
// passed explicitly to whatever builds a graph; there is no package-level
// counter.
type IDGenerator interface {
	Next() ID
}

// Sequence generates prefix0, prefix1, ... It is safe for concurrent use.
type Sequence struct {
	prefix string
	next   atomic.Uint64
}

// NewSequence returns a generator starting at zero.
func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

// Next returns the next id in the sequence.
func (s *Sequence) Next() ID {
	n := s.next.Add(1) - 1
	return s.prefix + strconv.FormatUint(n, 10)
}

// UUIDGenerator generates random (version 4) UUID strings.
type UUIDGenerator struct{}

// Next returns a new UUID string.
func (UUIDGenerator) Next() ID {
	return uuid.NewString()
}
