package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBodyFromRaw_Precedence(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		fallback string
		kind     BodyKind
		text     string
	}{
		{name: "summary wins", raw: `{"summary":"s","description":"d"}`, fallback: "f", kind: BodySummary, text: "s"},
		{name: "description when no summary", raw: `{"description":"d"}`, fallback: "f", kind: BodyDescription, text: "d"},
		{name: "blank summary skipped", raw: `{"summary":"  ","description":"d"}`, kind: BodyDescription, text: "d"},
		{name: "fallback text", raw: `{"other":1}`, fallback: " f ", kind: BodyText, text: "f"},
		{name: "invalid json uses fallback", raw: `{not json`, fallback: "f", kind: BodyText, text: "f"},
		{name: "object summary ignored", raw: `{"summary":{"x":1}}`, kind: BodyNone},
		{name: "numeric description", raw: `{"description":42}`, kind: BodyDescription, text: "42"},
		{name: "nothing at all", raw: ``, kind: BodyNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := BodyFromRaw([]byte(tt.raw), tt.fallback)
			assert.Equal(t, tt.kind, b.Kind())
			assert.Equal(t, tt.text, b.Text())
		})
	}
}

func TestEvent_WithRawRederivesBody(t *testing.T) {
	e := NewEvent("Storm", TextBody("adapter text"), TypeWeather, fixedTime)

	assert.Equal(t, BodyText, e.Body().Kind())

	e = e.WithRaw([]byte(`{"summary":"Severe storm warning"}`))
	assert.Equal(t, BodySummary, e.Body().Kind())
	assert.Equal(t, "Severe storm warning", e.Body().Text())

	e = e.WithRaw([]byte(`{}`))
	assert.True(t, e.Body().IsEmpty(), "summary bodies do not survive a payload without one")
}

func TestParseType(t *testing.T) {
	assert.Equal(t, TypeCyber, ParseType("cyber"))
	assert.Equal(t, TypeGovLE, ParseType(" GOVLE "))
	assert.Equal(t, TypeOther, ParseType("volcano"))
}
