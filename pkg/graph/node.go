package graph

import (
	"maps"

	"gonum.org/v1/gonum/spatial/r3"
)

// ID identifies a node or an edge. IDs are compared by value; two elements
// with the same ID are the same element as far as a [Graph] is concerned.
type ID = string

// Node is the capability set a graph vertex must provide. Any type that has a
// stable id, a mutable 3D position and a display label can take part in a
// layout; no concrete base type is required.
type Node interface {
	ID() ID
	Position() r3.Vec
	SetPosition(r3.Vec)
	Label() string
}

// Edge is the capability set a graph edge must provide. An edge refers to its
// endpoints; it does not own them.
type Edge interface {
	ID() ID
	Source() Node
	Target() Node
}

// =============================================================================
// SimpleNode
// =============================================================================

// SimpleNode is the stock [Node] implementation.
//
// Instead of firing a change event, SimpleNode counts position writes. A
// presenter that wants to know whether a node moved compares [SimpleNode.Revision]
// values or uses the id list returned by [ApplyPositions].
type SimpleNode struct {
	id       ID
	label    string
	pos      r3.Vec
	revision uint64
}

// NewNode creates a node at pos. An empty label defaults to the id.
func NewNode(id ID, label string, pos r3.Vec) *SimpleNode {
	if label == "" {
		label = id
	}
	return &SimpleNode{id: id, label: label, pos: pos}
}

func (n *SimpleNode) ID() ID            { return n.id }
func (n *SimpleNode) Label() string     { return n.label }
func (n *SimpleNode) Position() r3.Vec  { return n.pos }
func (n *SimpleNode) SetLabel(l string) { n.label = l }

// SetPosition moves the node and bumps its revision.
func (n *SimpleNode) SetPosition(p r3.Vec) {
	n.pos = p
	n.revision++
}

// Revision returns the number of SetPosition calls made on the node.
func (n *SimpleNode) Revision() uint64 { return n.revision }

// =============================================================================
// SimpleEdge
// =============================================================================

// DefaultThickness is the display thickness of a new [SimpleEdge].
const DefaultThickness = 1.0

// SimpleEdge is the stock [Edge] implementation.
type SimpleEdge struct {
	id     ID
	source Node
	target Node

	Attrs     map[string]string // Optional attributes, may be nil
	Thickness float64           // Display thickness
}

// NewEdge creates an edge from source to target with the default thickness.
func NewEdge(id ID, source, target Node) *SimpleEdge {
	return &SimpleEdge{id: id, source: source, target: target, Thickness: DefaultThickness}
}

// NewEdgeWithAttrs creates an edge carrying a copy of attrs.
func NewEdgeWithAttrs(id ID, source, target Node, attrs map[string]string) *SimpleEdge {
	e := NewEdge(id, source, target)
	if attrs != nil {
		e.Attrs = maps.Clone(attrs)
	}
	return e
}

func (e *SimpleEdge) ID() ID       { return e.id }
func (e *SimpleEdge) Source() Node { return e.source }
func (e *SimpleEdge) Target() Node { return e.target }
