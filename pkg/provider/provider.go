// Package provider supplies graphs for layout.
//
// A [Provider] produces a fresh [graph.Graph] on every call. [Random] builds a
// seeded random graph, [File] loads a JSON or TOML graph document, and
// [Inline] builds one from a document already in memory. Nodes that a
// document leaves without coordinates are spread out with [Scatter] so that
// no two of them start on the same spot.
package provider

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	ferrors "github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
)

// Provider produces a graph to lay out.
type Provider interface {
	Graph(ctx context.Context) (*graph.Graph, error)
}

// Bounds is an axis-aligned box.
type Bounds struct {
	Min, Max r3.Vec
}

// DefaultBounds is the box used when none is given.
var DefaultBounds = Bounds{
	Min: r3.Vec{X: -10, Y: -10, Z: -10},
	Max: r3.Vec{X: 10, Y: 10, Z: 10},
}

// Validate reports an INVALID_INPUT error if Min exceeds Max on any axis.
func (b Bounds) Validate() error {
	if b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z {
		return ferrors.New(ferrors.ErrCodeInvalidInput, "bounds min %v exceeds max %v", b.Min, b.Max)
	}
	return nil
}

func (b Bounds) isZero() bool { return b == Bounds{} }

// lerp maps t in [0,1] per axis into the box.
func (b Bounds) lerp(tx, ty, tz float64) r3.Vec {
	return r3.Vec{
		X: b.Min.X + tx*(b.Max.X-b.Min.X),
		Y: b.Min.Y + ty*(b.Max.Y-b.Min.Y),
		Z: b.Min.Z + tz*(b.Max.Z-b.Min.Z),
	}
}

// =============================================================================
// Documents
// =============================================================================

// File loads a graph document from disk. The format follows the extension.
type File struct {
	Path    string
	IDs     graph.IDGenerator // edge ids for edges without one; nil uses a sequence
	Scatter Scatter           // placement of nodes without coordinates
}

// Graph reads and builds the document.
func (f File) Graph(ctx context.Context) (*graph.Graph, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := graph.ReadDocumentFile(f.Path)
	if err != nil {
		return nil, err
	}
	return Inline{Document: doc, IDs: f.IDs, Scatter: f.Scatter}.Graph(ctx)
}

// Inline builds a graph from a document that is already decoded.
type Inline struct {
	Document *graph.Document
	IDs      graph.IDGenerator
	Scatter  Scatter
}

// Graph builds the document and scatters its unplaced nodes.
func (in Inline) Graph(ctx context.Context) (*graph.Graph, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if in.Document == nil {
		return nil, ferrors.New(ferrors.ErrCodeInvalidInput, "no graph document")
	}
	g, unplaced, err := in.Document.Build(in.IDs)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}
	if err := in.Scatter.Place(g, unplaced); err != nil {
		return nil, err
	}
	return g, nil
}
