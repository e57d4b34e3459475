// Package event models the normalized incident records produced by ingest
// adapters and consumed by the fusion pipeline.
package event

import (
	"strings"
	"time"
)

// Type classifies an incident.
type Type string

// Event types.
const (
	TypeWeather    Type = "Weather"
	TypeDisaster   Type = "Disaster"
	TypeWildfire   Type = "Wildfire"
	TypeEarthquake Type = "Earthquake"
	TypeMaritime   Type = "Maritime"
	TypeAviation   Type = "Aviation"
	TypeGovLE      Type = "GovLE"
	TypeCyber      Type = "Cyber"
	TypeOther      Type = "Other"
)

var knownTypes = []Type{
	TypeWeather, TypeDisaster, TypeWildfire, TypeEarthquake,
	TypeMaritime, TypeAviation, TypeGovLE, TypeCyber, TypeOther,
}

// ParseType resolves a type name case-insensitively. Unknown names map to TypeOther.
func ParseType(s string) Type {
	for _, t := range knownTypes {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t
		}
	}
	return TypeOther
}

// Event is an immutable incident record.
type Event struct {
	id           int64
	sourceID     int64
	title        string
	body         Body
	eventType    Type
	occurredAt   time.Time
	detectedAt   time.Time
	jurisdiction string
	lat          *float64
	lon          *float64
	confidence   float64
	severity     string
	raw          []byte
}

// NewEvent creates an event that has not been persisted yet.
func NewEvent(title string, body Body, eventType Type, occurredAt time.Time) Event {
	return Event{
		title:      title,
		body:       body,
		eventType:  eventType,
		occurredAt: occurredAt,
		detectedAt: time.Now().UTC(),
	}
}

// ReconstructEvent recreates an event from persistence.
func ReconstructEvent(
	id, sourceID int64,
	title string,
	body Body,
	eventType Type,
	occurredAt, detectedAt time.Time,
	jurisdiction string,
	lat, lon *float64,
	confidence float64,
	severity string,
	raw []byte,
) Event {
	return Event{
		id:           id,
		sourceID:     sourceID,
		title:        title,
		body:         body,
		eventType:    eventType,
		occurredAt:   occurredAt,
		detectedAt:   detectedAt,
		jurisdiction: jurisdiction,
		lat:          lat,
		lon:          lon,
		confidence:   confidence,
		severity:     severity,
		raw:          raw,
	}
}

// ID returns the event identifier, zero when not persisted.
func (e Event) ID() int64 { return e.id }

// SourceID returns the producing source, zero when unknown.
func (e Event) SourceID() int64 { return e.sourceID }

// Title returns the headline.
func (e Event) Title() string { return e.title }

// Body returns the typed body text.
func (e Event) Body() Body { return e.body }

// Type returns the incident classification.
func (e Event) Type() Type { return e.eventType }

// OccurredAt returns when the incident happened.
func (e Event) OccurredAt() time.Time { return e.occurredAt }

// DetectedAt returns when the incident was ingested.
func (e Event) DetectedAt() time.Time { return e.detectedAt }

// Jurisdiction returns the jurisdiction code, e.g. AU-NSW.
func (e Event) Jurisdiction() string { return e.jurisdiction }

// Location returns the point of the incident if known.
func (e Event) Location() (lat, lon float64, ok bool) {
	if e.lat == nil || e.lon == nil {
		return 0, 0, false
	}
	return *e.lat, *e.lon, true
}

// Confidence returns the source confidence in [0, 1].
func (e Event) Confidence() float64 { return e.confidence }

// Severity returns the free-form severity label.
func (e Event) Severity() string { return e.severity }

// Raw returns a copy of the original JSON payload.
func (e Event) Raw() []byte {
	if e.raw == nil {
		return nil
	}
	out := make([]byte, len(e.raw))
	copy(out, e.raw)
	return out
}

// WithID returns a copy with the given identifier.
func (e Event) WithID(id int64) Event {
	e.id = id
	return e
}

// WithSourceID returns a copy attributed to the given source.
func (e Event) WithSourceID(id int64) Event {
	e.sourceID = id
	return e
}

// WithJurisdiction returns a copy with the jurisdiction set.
func (e Event) WithJurisdiction(code string) Event {
	e.jurisdiction = code
	return e
}

// WithLocation returns a copy located at the given point.
func (e Event) WithLocation(lat, lon float64) Event {
	e.lat = &lat
	e.lon = &lon
	return e
}

// WithConfidence returns a copy with the given confidence.
func (e Event) WithConfidence(c float64) Event {
	e.confidence = c
	return e
}

// WithSeverity returns a copy with the given severity.
func (e Event) WithSeverity(s string) Event {
	e.severity = s
	return e
}

// WithDetectedAt returns a copy with the ingest time overridden.
func (e Event) WithDetectedAt(t time.Time) Event {
	e.detectedAt = t
	return e
}

// WithRaw returns a copy carrying the original payload. The body is
// re-derived from the payload, falling back to the current body text.
func (e Event) WithRaw(raw []byte) Event {
	e.raw = append([]byte(nil), raw...)
	e.body = BodyFromRaw(raw, e.body.fallbackText())
	return e
}
