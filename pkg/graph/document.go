package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gonum.org/v1/gonum/spatial/r3"

	ferrors "github.com/matzehuels/forcegraph/pkg/errors"
)

// =============================================================================
// Wire Format
// =============================================================================

// Format names a document encoding.
type Format string

// Supported document formats.
const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// Document is the serialization format for input graphs. It is what graph
// providers read from disk or receive over HTTP before building a [Graph].
//
//	{
//	  "nodes": [{"id": "a", "x": 0, "y": 0}, {"id": "b", "label": "B"}],
//	  "edges": [{"from": "a", "to": "b"}]
//	}
//
// Node coordinates are optional. A node without any coordinate is reported
// as unplaced by [Document.Build] so the caller can scatter it before a
// simulation starts.
type Document struct {
	Nodes []DocumentNode `json:"nodes" toml:"nodes"`
	Edges []DocumentEdge `json:"edges" toml:"edges"`
}

// DocumentNode is a node entry in a [Document].
type DocumentNode struct {
	ID    string   `json:"id" toml:"id"`
	Label string   `json:"label,omitempty" toml:"label,omitempty"`
	X     *float64 `json:"x,omitempty" toml:"x,omitempty"`
	Y     *float64 `json:"y,omitempty" toml:"y,omitempty"`
	Z     *float64 `json:"z,omitempty" toml:"z,omitempty"`
}

// DocumentEdge is an edge entry in a [Document]. The ID is optional.
type DocumentEdge struct {
	ID        string            `json:"id,omitempty" toml:"id,omitempty"`
	From      string            `json:"from" toml:"from"`
	To        string            `json:"to" toml:"to"`
	Thickness float64           `json:"thickness,omitempty" toml:"thickness,omitempty"`
	Attrs     map[string]string `json:"attrs,omitempty" toml:"attrs,omitempty"`
}

func (n DocumentNode) placed() bool {
	return n.X != nil || n.Y != nil || n.Z != nil
}

func (n DocumentNode) position() r3.Vec {
	var p r3.Vec
	if n.X != nil {
		p.X = *n.X
	}
	if n.Y != nil {
		p.Y = *n.Y
	}
	if n.Z != nil {
		p.Z = *n.Z
	}
	return p
}

// =============================================================================
// Document → Graph
// =============================================================================

// Build creates a graph from the document.
//
// Edges without an ID receive one from gen (a "e"-prefixed [Sequence] when
// gen is nil), skipping ids that the document already uses. Duplicate node
// ids and edges that reference undeclared nodes are rejected with an
// INVALID_INPUT error.
//
// The second return value lists the ids of nodes that carry no coordinates,
// in document order.
func (d *Document) Build(gen IDGenerator) (*Graph, []ID, error) {
	if gen == nil {
		gen = NewSequence("e")
	}

	g := New()
	var unplaced []ID
	nodes := make(map[ID]*SimpleNode, len(d.Nodes))
	for i, dn := range d.Nodes {
		if err := ferrors.ValidateID("node", dn.ID); err != nil {
			return nil, nil, fmt.Errorf("node %d: %w", i, err)
		}
		if _, dup := nodes[dn.ID]; dup {
			return nil, nil, ferrors.New(ferrors.ErrCodeInvalidInput, "duplicate node id %q", dn.ID)
		}
		n := NewNode(dn.ID, dn.Label, dn.position())
		nodes[dn.ID] = n
		if err := g.AddNode(n); err != nil {
			return nil, nil, fmt.Errorf("add node %s: %w", dn.ID, err)
		}
		if !dn.placed() {
			unplaced = append(unplaced, dn.ID)
		}
	}

	used := make(map[ID]bool, len(d.Edges))
	for _, de := range d.Edges {
		if de.ID != "" {
			used[de.ID] = true
		}
	}

	for i, de := range d.Edges {
		src, ok := nodes[de.From]
		if !ok {
			return nil, nil, ferrors.New(ferrors.ErrCodeInvalidInput, "edge %d: unknown source node %q", i, de.From)
		}
		dst, ok := nodes[de.To]
		if !ok {
			return nil, nil, ferrors.New(ferrors.ErrCodeInvalidInput, "edge %d: unknown target node %q", i, de.To)
		}

		id := de.ID
		if id == "" {
			for id = gen.Next(); used[id]; id = gen.Next() {
			}
			used[id] = true
		}

		e := NewEdgeWithAttrs(id, src, dst, de.Attrs)
		if de.Thickness > 0 {
			e.Thickness = de.Thickness
		}
		if err := g.AddEdge(e); err != nil {
			return nil, nil, fmt.Errorf("add edge %s→%s: %w", de.From, de.To, err)
		}
	}

	return g, unplaced, nil
}

// FromGraph converts a graph to its document form. Every node is written
// with all three coordinates. Attributes and thickness are carried over for
// [SimpleEdge] values.
func FromGraph(g *Graph) Document {
	doc := Document{
		Nodes: make([]DocumentNode, 0, g.NodeCount()),
		Edges: make([]DocumentEdge, 0, g.EdgeCount()),
	}
	for _, n := range g.Nodes() {
		p := n.Position()
		x, y, z := p.X, p.Y, p.Z
		dn := DocumentNode{ID: n.ID(), X: &x, Y: &y, Z: &z}
		if n.Label() != n.ID() {
			dn.Label = n.Label()
		}
		doc.Nodes = append(doc.Nodes, dn)
	}
	for _, e := range g.Edges() {
		de := DocumentEdge{ID: e.ID(), From: e.Source().ID(), To: e.Target().ID()}
		if se, ok := e.(*SimpleEdge); ok {
			if se.Thickness != DefaultThickness {
				de.Thickness = se.Thickness
			}
			de.Attrs = se.Attrs
		}
		doc.Edges = append(doc.Edges, de)
	}
	return doc
}

// =============================================================================
// Reading and Writing
// =============================================================================

// FormatFromPath infers the document format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", ferrors.New(ferrors.ErrCodeInvalidFormat, "unsupported graph file extension %q (want .json or .toml)", filepath.Ext(path))
	}
}

// ReadDocumentFile reads a document, choosing the format from the extension.
func ReadDocumentFile(path string) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ferrors.Wrap(ferrors.ErrCodeFileNotFound, err, "graph file %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := ReadDocument(f, format)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return doc, nil
}

// ReadDocument decodes a document in the given format. TOML documents with
// keys that do not map onto the document schema are rejected.
func ReadDocument(r io.Reader, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, ferrors.Wrap(ferrors.ErrCodeInvalidFormat, err, "decode json")
		}
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&doc)
		if err != nil {
			return nil, ferrors.Wrap(ferrors.ErrCodeInvalidFormat, err, "decode toml")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, ferrors.New(ferrors.ErrCodeInvalidFormat, "unknown toml key %q", undecoded[0].String())
		}
	default:
		return nil, ferrors.New(ferrors.ErrCodeInvalidFormat, "unsupported format %q", format)
	}
	return &doc, nil
}

// WriteDocument encodes doc in the given format. JSON output is indented.
func WriteDocument(w io.Writer, doc Document, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(doc); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	default:
		return ferrors.New(ferrors.ErrCodeInvalidFormat, "unsupported format %q", format)
	}
	return nil
}

// WriteDocumentFile writes doc to path, choosing the format from the extension.
func WriteDocumentFile(doc Document, path string) (err error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return WriteDocument(f, doc, format)
}
