// Package entity models the knowledge graph: deduplicated real-world
// referents, their links to events, and directed relations between them.
package entity

import (
	"strings"
)

// Type classifies an entity. The set is open; these are the known values.
type Type string

// Entity types.
const (
	TypePerson    Type = "Person"
	TypeOrg       Type = "Org"
	TypeLocation  Type = "Location"
	TypeMMSI      Type = "MMSI"
	TypeIMO       Type = "IMO"
	TypeVessel    Type = "Vessel"
	TypeAircraft  Type = "Aircraft"
	TypeAsset     Type = "Asset"
	TypeEventType Type = "EventType"
)

// Attribute keys written by enrichment.
const (
	AttrLat          = "lat"
	AttrLon          = "lon"
	AttrJurisdiction = "jurisdiction"
)

// CanonicalKey returns the cross-event identity of a name: trimmed and lowercased.
func CanonicalKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Entity is a persisted, deduplicated referent.
type Entity struct {
	id           int64
	typ          Type
	name         string
	canonicalKey string
	attrs        map[string]any
}

// NewEntity creates an entity that has not been persisted yet.
func NewEntity(typ Type, name string, attrs map[string]any) Entity {
	return Entity{
		typ:          typ,
		name:         strings.TrimSpace(name),
		canonicalKey: CanonicalKey(name),
		attrs:        copyAttrs(attrs),
	}
}

// ReconstructEntity recreates an entity from persistence.
func ReconstructEntity(id int64, typ Type, name, canonicalKey string, attrs map[string]any) Entity {
	return Entity{
		id:           id,
		typ:          typ,
		name:         name,
		canonicalKey: canonicalKey,
		attrs:        copyAttrs(attrs),
	}
}

// ID returns the entity identifier.
func (e Entity) ID() int64 { return e.id }

// Type returns the entity type.
func (e Entity) Type() Type { return e.typ }

// Name returns the first-seen surface form.
func (e Entity) Name() string { return e.name }

// CanonicalKey returns the normalized identity used for merging.
func (e Entity) CanonicalKey() string { return e.canonicalKey }

// Attrs returns a copy of the attribute map.
func (e Entity) Attrs() map[string]any { return copyAttrs(e.attrs) }

// Attr returns a single attribute.
func (e Entity) Attr(key string) (any, bool) {
	v, ok := e.attrs[key]
	return v, ok
}

// WithID returns a copy with the given identifier.
func (e Entity) WithID(id int64) Entity {
	e.id = id
	return e
}

// FillAttrs returns a copy where every key of attrs that is absent from the
// entity has been added. Existing values are never overwritten. The second
// result reports whether anything was added.
func (e Entity) FillAttrs(attrs map[string]any) (Entity, bool) {
	merged, changed := fillMissing(e.attrs, attrs)
	e.attrs = merged
	return e, changed
}

func copyAttrs(attrs map[string]any) map[string]any {
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}

func fillMissing(dst, src map[string]any) (map[string]any, bool) {
	out := copyAttrs(dst)
	changed := false
	for k, v := range src {
		if _, ok := out[k]; ok {
			continue
		}
		out[k] = v
		changed = true
	}
	return out, changed
}
