// Package graph provides a small labelled directed graph keyed by node
// identity. Nodes remember their creation order so callers can enumerate
// them chronologically.
package graph

import (
	"errors"
	"maps"

	"github.com/google/uuid"
)

// ErrNodeNotFound indicates an edge endpoint does not exist.
var ErrNodeNotFound = errors.New("graph: node not found")

// NodeID identifies a node.
type NodeID string

// Node is a typed vertex carrying string attributes.
type Node struct {
	ID    NodeID
	Kind  string
	Seq   int
	Attrs map[string]string
}

// Edge is a directed, labelled relation between two nodes.
type Edge struct {
	From  NodeID
	To    NodeID
	Label string
}

// Graph is an in-memory directed multigraph. It is not safe for
// concurrent use.
type Graph struct {
	nodes map[NodeID]*Node
	order []NodeID
	out   map[NodeID][]Edge
	in    map[NodeID][]Edge
	edges int
}

// New returns an empty graph.
func New() *Graph {
	g := &Graph{}
	g.Reset()
	return g
}

// AddNode inserts a node of the given kind and returns its identity.
// The attribute map is copied.
func (g *Graph) AddNode(kind string, attrs map[string]string) NodeID {
	id := NodeID(uuid.NewString())
	g.nodes[id] = &Node{
		ID:    id,
		Kind:  kind,
		Seq:   len(g.order),
		Attrs: maps.Clone(attrs),
	}
	g.order = append(g.order, id)
	return id
}

// AddEdge inserts a directed edge. Both endpoints must exist.
func (g *Graph) AddEdge(from, to NodeID, label string) error {
	if _, ok := g.nodes[from]; !ok {
		return ErrNodeNotFound
	}
	if _, ok := g.nodes[to]; !ok {
		return ErrNodeNotFound
	}
	e := Edge{From: from, To: to, Label: label}
	g.out[from] = append(g.out[from], e)
	g.in[to] = append(g.in[to], e)
	g.edges++
	return nil
}

// Node returns a copy of the node with the given identity.
func (g *Graph) Node(id NodeID) (Node, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	return copyNode(n), true
}

// Nodes returns the nodes of the given kind in creation order. An empty
// kind selects every node.
func (g *Graph) Nodes(kind string) []Node {
	var out []Node
	for _, id := range g.order {
		n := g.nodes[id]
		if kind != "" && n.Kind != kind {
			continue
		}
		out = append(out, copyNode(n))
	}
	return out
}

// Out returns the edges leaving id, in insertion order.
func (g *Graph) Out(id NodeID) []Edge {
	return append([]Edge(nil), g.out[id]...)
}

// In returns the edges entering id, in insertion order.
func (g *Graph) In(id NodeID) []Edge {
	return append([]Edge(nil), g.in[id]...)
}

// Neighbors returns the targets of edges leaving id that carry label.
func (g *Graph) Neighbors(id NodeID, label string) []NodeID {
	var out []NodeID
	for _, e := range g.out[id] {
		if e.Label == label {
			out = append(out, e.To)
		}
	}
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.order) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return g.edges }

// Reset removes every node and edge.
func (g *Graph) Reset() {
	g.nodes = make(map[NodeID]*Node)
	g.order = nil
	g.out = make(map[NodeID][]Edge)
	g.in = make(map[NodeID][]Edge)
	g.edges = 0
}

func copyNode(n *Node) Node {
	c := *n
	c.Attrs = maps.Clone(n.Attrs)
	return c
}
