package entity

import "time"

// Relation labels.
const (
	LabelEmployedBy = "EMPLOYED_BY"
)

// Triple is a relation expressed over typed entity names, before resolution
// to ids.
type Triple struct {
	Src     string
	SrcType Type
	Dst     string
	DstType Type
	Label   string
}

// SrcKey returns the mention key of the source endpoint.
func (t Triple) SrcKey() string { return MentionKey(t.SrcType, t.Src) }

// DstKey returns the mention key of the destination endpoint.
func (t Triple) DstKey() string { return MentionKey(t.DstType, t.Dst) }

// Relation is a directed, typed edge between two entities.
type Relation struct {
	srcID     int64
	dstID     int64
	label     string
	firstSeen time.Time
	lastSeen  time.Time
	weight    *float64
}

// ReconstructRelation recreates a relation from persistence.
func ReconstructRelation(srcID, dstID int64, label string, firstSeen, lastSeen time.Time, weight *float64) Relation {
	return Relation{
		srcID:     srcID,
		dstID:     dstID,
		label:     label,
		firstSeen: firstSeen,
		lastSeen:  lastSeen,
		weight:    weight,
	}
}

// SrcID returns the source entity.
func (r Relation) SrcID() int64 { return r.srcID }

// DstID returns the destination entity.
func (r Relation) DstID() int64 { return r.dstID }

// Label returns the relation label.
func (r Relation) Label() string { return r.label }

// FirstSeen returns when the relation was first observed.
func (r Relation) FirstSeen() time.Time { return r.firstSeen }

// LastSeen returns when the relation was most recently observed.
func (r Relation) LastSeen() time.Time { return r.lastSeen }

// Weight returns the optional edge weight.
func (r Relation) Weight() (float64, bool) {
	if r.weight == nil {
		return 0, false
	}
	return *r.weight, true
}
