package entity

import "strings"

// Provenance names the extraction method that produced a mention.
type Provenance string

// Provenances.
const (
	ProvenanceNER   Provenance = "ner"
	ProvenanceRegex Provenance = "regex"
)

// Default confidences per provenance.
const (
	ConfidenceNER   = 0.8
	ConfidenceRegex = 0.9
)

// Mention is a candidate entity extracted from a single event's text.
// It is an immutable value; the With methods return copies.
type Mention struct {
	typ        Type
	name       string
	provenance Provenance
	confidence float64
	attrs      map[string]any
}

// NewMention creates a mention without attributes.
func NewMention(typ Type, name string, provenance Provenance, confidence float64) Mention {
	return Mention{
		typ:        typ,
		name:       strings.TrimSpace(name),
		provenance: provenance,
		confidence: confidence,
		attrs:      map[string]any{},
	}
}

// Type returns the mention type.
func (m Mention) Type() Type { return m.typ }

// Name returns the surface form.
func (m Mention) Name() string { return m.name }

// Provenance returns how the mention was found.
func (m Mention) Provenance() Provenance { return m.provenance }

// Confidence returns the extraction confidence.
func (m Mention) Confidence() float64 { return m.confidence }

// Attrs returns a copy of the attribute map.
func (m Mention) Attrs() map[string]any { return copyAttrs(m.attrs) }

// Attr returns a single attribute.
func (m Mention) Attr(key string) (any, bool) {
	v, ok := m.attrs[key]
	return v, ok
}

// Key returns the per-batch identity (type, lowercase name).
func (m Mention) Key() string {
	return MentionKey(m.typ, m.name)
}

// MentionKey is the per-batch identity of a typed name.
func MentionKey(typ Type, name string) string {
	return string(typ) + "\x00" + strings.ToLower(name)
}

// FillAttrs returns a copy with every absent key of attrs added.
func (m Mention) FillAttrs(attrs map[string]any) Mention {
	m.attrs, _ = fillMissing(m.attrs, attrs)
	return m
}
