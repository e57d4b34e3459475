package jsonapi

import (
	"strconv"
	"time"

	"github.com/aoidb/aoi/domain/entity"
	"github.com/aoidb/aoi/domain/event"
	"github.com/aoidb/aoi/domain/graph"
)

// Resource type names.
const (
	TypeEntity   = "entity"
	TypeEvent    = "event"
	TypeRelation = "relation"
	TypeGraph    = "graph"
)

// EntityAttributes represents entity attributes in JSON:API format.
type EntityAttributes struct {
	Type         string         `json:"type"`
	Name         string         `json:"name"`
	CanonicalKey string         `json:"canonical_key"`
	Attrs        map[string]any `json:"attrs"`
}

// LinkedEntityAttributes adds the link reason and score to an entity.
type LinkedEntityAttributes struct {
	EntityAttributes
	Reason string   `json:"reason"`
	Score  *float64 `json:"score,omitempty"`
}

// EventAttributes represents event attributes in JSON:API format.
type EventAttributes struct {
	SourceID     *int64     `json:"source_id,omitempty"`
	Title        string     `json:"title"`
	Body         string     `json:"body,omitempty"`
	BodyKind     string     `json:"body_kind"`
	EventType    string     `json:"event_type"`
	OccurredAt   *time.Time `json:"occurred_at,omitempty"`
	DetectedAt   time.Time  `json:"detected_at"`
	Jurisdiction string     `json:"jurisdiction,omitempty"`
	Lat          *float64   `json:"lat,omitempty"`
	Lon          *float64   `json:"lon,omitempty"`
	Confidence   float64    `json:"confidence"`
	Severity     string     `json:"severity,omitempty"`
}

// RelationAttributes represents relation attributes in JSON:API format.
type RelationAttributes struct {
	SrcEntityID int64     `json:"src_entity_id"`
	DstEntityID int64     `json:"dst_entity_id"`
	Relation    string    `json:"relation"`
	FirstSeen   time.Time `json:"first_seen"`
	LastSeen    time.Time `json:"last_seen"`
	Weight      *float64  `json:"weight,omitempty"`
}

// GraphNode is one node of a neighbourhood.
type GraphNode struct {
	ID         string     `json:"id"`
	Kind       string     `json:"kind"`
	RefID      int64      `json:"ref_id"`
	Label      string     `json:"label"`
	Subtype    string     `json:"subtype"`
	OccurredAt *time.Time `json:"occurred_at,omitempty"`
}

// GraphEdge is one edge of a neighbourhood.
type GraphEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Kind   string `json:"kind"`
	Weight int    `json:"weight"`
}

// GraphAttributes holds the nodes and edges of a neighbourhood.
type GraphAttributes struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// Serializer converts domain values to JSON:API resources.
type Serializer struct{}

// NewSerializer creates a new Serializer.
func NewSerializer() *Serializer {
	return &Serializer{}
}

func id(n int64) string {
	return strconv.FormatInt(n, 10)
}

func entityAttributes(e entity.Entity) EntityAttributes {
	attrs := e.Attrs()
	if attrs == nil {
		attrs = map[string]any{}
	}
	return EntityAttributes{
		Type:         string(e.Type()),
		Name:         e.Name(),
		CanonicalKey: e.CanonicalKey(),
		Attrs:        attrs,
	}
}

// EntityResource converts an entity to a JSON:API resource.
func (s *Serializer) EntityResource(e entity.Entity) *Resource {
	return NewResource(TypeEntity, id(e.ID()), entityAttributes(e))
}

// EntityResources converts multiple entities to JSON:API resources.
func (s *Serializer) EntityResources(entities []entity.Entity) []*Resource {
	resources := make([]*Resource, len(entities))
	for i, e := range entities {
		resources[i] = s.EntityResource(e)
	}
	return resources
}

// LinkedEntityResources converts event links to entity resources carrying
// the link reason and score.
func (s *Serializer) LinkedEntityResources(linked []entity.LinkedEntity) []*Resource {
	resources := make([]*Resource, len(linked))
	for i, l := range linked {
		attrs := LinkedEntityAttributes{
			EntityAttributes: entityAttributes(l.Entity()),
			Reason:           l.Reason(),
		}
		if score, ok := l.Score(); ok {
			attrs.Score = &score
		}
		resources[i] = NewResource(TypeEntity, id(l.Entity().ID()), attrs)
	}
	return resources
}

// EventResource converts an event to a JSON:API resource.
func (s *Serializer) EventResource(e event.Event) *Resource {
	attrs := EventAttributes{
		Title:        e.Title(),
		Body:         e.Body().Text(),
		BodyKind:     e.Body().Kind().String(),
		EventType:    string(e.Type()),
		DetectedAt:   e.DetectedAt(),
		Jurisdiction: e.Jurisdiction(),
		Confidence:   e.Confidence(),
		Severity:     e.Severity(),
	}
	if sourceID := e.SourceID(); sourceID != 0 {
		attrs.SourceID = &sourceID
	}
	if occurred := e.OccurredAt(); !occurred.IsZero() {
		attrs.OccurredAt = &occurred
	}
	if lat, lon, ok := e.Location(); ok {
		attrs.Lat = &lat
		attrs.Lon = &lon
	}
	return NewResource(TypeEvent, id(e.ID()), attrs)
}

// EventResources converts multiple events to JSON:API resources.
func (s *Serializer) EventResources(events []event.Event) []*Resource {
	resources := make([]*Resource, len(events))
	for i, e := range events {
		resources[i] = s.EventResource(e)
	}
	return resources
}

// RelationResource converts a relation to a JSON:API resource. Relations
// have a composite key, rendered as src:dst:label.
func (s *Serializer) RelationResource(r entity.Relation) *Resource {
	attrs := RelationAttributes{
		SrcEntityID: r.SrcID(),
		DstEntityID: r.DstID(),
		Relation:    r.Label(),
		FirstSeen:   r.FirstSeen(),
		LastSeen:    r.LastSeen(),
	}
	if w, ok := r.Weight(); ok {
		attrs.Weight = &w
	}
	res := NewResource(TypeRelation, id(r.SrcID())+":"+id(r.DstID())+":"+r.Label(), attrs)
	res.Relationships = Relationships{
		"src": {Data: ResourceIdentifier{Type: TypeEntity, ID: id(r.SrcID())}},
		"dst": {Data: ResourceIdentifier{Type: TypeEntity, ID: id(r.DstID())}},
	}
	return res
}

// RelationResources converts multiple relations to JSON:API resources.
func (s *Serializer) RelationResources(relations []entity.Relation) []*Resource {
	resources := make([]*Resource, len(relations))
	for i, r := range relations {
		resources[i] = s.RelationResource(r)
	}
	return resources
}

// GraphResource converts a neighbourhood to a single graph resource keyed
// by its seed node.
func (s *Serializer) GraphResource(n graph.Neighborhood) *Resource {
	attrs := GraphAttributes{
		Nodes: make([]GraphNode, 0, len(n.Nodes())),
		Edges: make([]GraphEdge, 0, len(n.Edges())),
	}
	for _, node := range n.Nodes() {
		gn := GraphNode{
			ID:      node.ID(),
			Kind:    string(node.Kind()),
			RefID:   node.RefID(),
			Label:   node.Label(),
			Subtype: node.Subtype(),
		}
		if t := node.OccurredAt(); !t.IsZero() {
			gn.OccurredAt = &t
		}
		attrs.Nodes = append(attrs.Nodes, gn)
	}
	for _, edge := range n.Edges() {
		attrs.Edges = append(attrs.Edges, GraphEdge{
			Source: edge.Source(),
			Target: edge.Target(),
			Kind:   string(edge.Kind()),
			Weight: edge.Weight(),
		})
	}
	return NewResource(TypeGraph, graph.EntityNodeID(n.SeedID()), attrs)
}
