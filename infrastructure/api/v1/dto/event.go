// Package dto holds request bodies accepted by the v1 API.
package dto

import (
	"encoding/json"
	"time"
)

// EventCreateRequest is the body of POST /api/v1/events. It is also the
// line format read by the ingest command.
type EventCreateRequest struct {
	Source       string          `json:"source,omitempty"`
	SourceURL    string          `json:"source_url,omitempty"`
	SourceKind   string          `json:"source_kind,omitempty"`
	Title        string          `json:"title"`
	Body         string          `json:"body,omitempty"`
	EventType    string          `json:"event_type,omitempty"`
	OccurredAt   *time.Time      `json:"occurred_at,omitempty"`
	Jurisdiction string          `json:"jurisdiction,omitempty"`
	Lat          *float64        `json:"lat,omitempty"`
	Lon          *float64        `json:"lon,omitempty"`
	Confidence   float64         `json:"confidence,omitempty"`
	Severity     string          `json:"severity,omitempty"`
	Raw          json.RawMessage `json:"raw,omitempty"`
}
