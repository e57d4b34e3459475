// Package graph builds bounded entity neighbourhoods from event memberships.
package graph

import (
	"fmt"
	"time"
)

// NodeKind tags a node.
type NodeKind string

// Node kinds.
const (
	KindEntity NodeKind = "entity"
	KindEvent  NodeKind = "event"
)

// EdgeKind tags an edge by the kinds of its endpoints.
type EdgeKind string

// Edge kinds.
const (
	EdgeMembership   EdgeKind = "entity-event"
	EdgeCooccurrence EdgeKind = "entity-entity"
)

// Membership is one entity appearing in one event.
type Membership struct {
	EventID  int64
	EntityID int64
}

// Node is a vertex in a neighbourhood.
type Node struct {
	id         string
	kind       NodeKind
	refID      int64
	label      string
	subtype    string
	occurredAt time.Time
}

// EntityNodeID returns the node id of an entity.
func EntityNodeID(id int64) string { return fmt.Sprintf("entity:%d", id) }

// EventNodeID returns the node id of an event.
func EventNodeID(id int64) string { return fmt.Sprintf("event:%d", id) }

// ID returns the node id, unique across kinds.
func (n Node) ID() string { return n.id }

// Kind returns whether the node is an entity or an event.
func (n Node) Kind() NodeKind { return n.kind }

// RefID returns the entity or event id.
func (n Node) RefID() int64 { return n.refID }

// Label returns the entity name or event title.
func (n Node) Label() string { return n.label }

// Subtype returns the entity type or event type.
func (n Node) Subtype() string { return n.subtype }

// OccurredAt returns the event time; zero for entity nodes.
func (n Node) OccurredAt() time.Time { return n.occurredAt }

// Edge connects two nodes.
type Edge struct {
	source string
	target string
	kind   EdgeKind
	weight int
}

// Source returns the source node id.
func (e Edge) Source() string { return e.source }

// Target returns the target node id.
func (e Edge) Target() string { return e.target }

// Kind returns the edge kind.
func (e Edge) Kind() EdgeKind { return e.kind }

// Weight returns 1 for membership edges and the shared-event count for co-occurrence edges.
func (e Edge) Weight() int { return e.weight }

// Neighborhood is the two-hop view around a seed entity.
type Neighborhood struct {
	seedID int64
	nodes  []Node
	edges  []Edge
}

// SeedID returns the entity the neighbourhood was built around.
func (n Neighborhood) SeedID() int64 { return n.seedID }

// Nodes returns entity nodes by id, then event nodes by id.
func (n Neighborhood) Nodes() []Node {
	out := make([]Node, len(n.nodes))
	copy(out, n.nodes)
	return out
}

// Edges returns membership edges, then co-occurrence edges.
func (n Neighborhood) Edges() []Edge {
	out := make([]Edge, len(n.edges))
	copy(out, n.edges)
	return out
}

// CountNodes returns the number of nodes of the given kind.
func (n Neighborhood) CountNodes(kind NodeKind) int {
	c := 0
	for _, node := range n.nodes {
		if node.kind == kind {
			c++
		}
	}
	return c
}

// CountEdges returns the number of edges of the given kind.
func (n Neighborhood) CountEdges(kind EdgeKind) int {
	c := 0
	for _, e := range n.edges {
		if e.kind == kind {
			c++
		}
	}
	return c
}

// Weight returns the co-occurrence weight between two entities, zero if none.
func (n Neighborhood) Weight(a, b int64) int {
	if a > b {
		a, b = b, a
	}
	src, dst := EntityNodeID(a), EntityNodeID(b)
	for _, e := range n.edges {
		if e.kind == EdgeCooccurrence && e.source == src && e.target == dst {
			return e.weight
		}
	}
	return 0
}
