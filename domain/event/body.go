package event

import (
	"strings"

	"github.com/tidwall/gjson"
)

// BodyKind records where an event's body text came from.
type BodyKind int

// Body kinds, in precedence order.
const (
	BodyNone BodyKind = iota
	BodySummary
	BodyDescription
	BodyText
)

// String returns the kind name.
func (k BodyKind) String() string {
	switch k {
	case BodySummary:
		return "summary"
	case BodyDescription:
		return "description"
	case BodyText:
		return "text"
	default:
		return "none"
	}
}

// Body is the free-text part of an event, resolved once at the ingest
// boundary so downstream code never inspects raw payloads.
type Body struct {
	kind BodyKind
	text string
}

// NoBody returns an empty body.
func NoBody() Body { return Body{} }

// TextBody returns a body supplied directly by the adapter.
func TextBody(text string) Body { return NewBody(BodyText, text) }

// NewBody builds a body of the given kind. Blank text yields NoBody.
func NewBody(kind BodyKind, text string) Body {
	text = strings.TrimSpace(text)
	if text == "" {
		return NoBody()
	}
	return Body{kind: kind, text: text}
}

// Kind returns where the text came from.
func (b Body) Kind() BodyKind { return b.kind }

// Text returns the body text, empty for BodyNone.
func (b Body) Text() string { return b.text }

// IsEmpty reports whether there is no body text.
func (b Body) IsEmpty() bool { return b.kind == BodyNone }

func (b Body) fallbackText() string {
	if b.kind == BodyText {
		return b.text
	}
	return ""
}

// BodyFromRaw resolves a body from a JSON payload. A non-empty "summary"
// wins over "description"; otherwise fallback is used as plain text.
// Invalid JSON is treated as a payload with neither field.
func BodyFromRaw(raw []byte, fallback string) Body {
	if len(raw) > 0 && gjson.ValidBytes(raw) {
		if b := fieldBody(raw, "summary", BodySummary); !b.IsEmpty() {
			return b
		}
		if b := fieldBody(raw, "description", BodyDescription); !b.IsEmpty() {
			return b
		}
	}
	return TextBody(fallback)
}

func fieldBody(raw []byte, field string, kind BodyKind) Body {
	r := gjson.GetBytes(raw, field)
	switch r.Type {
	case gjson.String, gjson.Number:
		return NewBody(kind, r.String())
	default:
		return NoBody()
	}
}
