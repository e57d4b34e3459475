package fusion

import (
	"context"
	"strings"

	"github.com/aoidb/aoi/domain/entity"
)

// Recognition is one span tagged by a named-entity recognizer.
type Recognition struct {
	Label string
	Text  string
	// Score is the recognizer's confidence, zero when it does not report one.
	Score float64
}

// Recognizer tags named entities in text. Implementations are loaded once
// at startup and must be safe for concurrent use.
type Recognizer interface {
	Recognize(ctx context.Context, text string) ([]Recognition, error)
}

// RecognizerFunc adapts a function to the Recognizer interface.
type RecognizerFunc func(ctx context.Context, text string) ([]Recognition, error)

// Recognize calls f.
func (f RecognizerFunc) Recognize(ctx context.Context, text string) ([]Recognition, error) {
	return f(ctx, text)
}

// TypeForLabel maps a recognizer label to an entity type. Only person,
// organization, and location labels are retained.
func TypeForLabel(label string) (entity.Type, bool) {
	label = strings.ToUpper(strings.TrimSpace(label))
	label = strings.TrimPrefix(strings.TrimPrefix(label, "B-"), "I-")
	switch label {
	case "PER", "PERSON":
		return entity.TypePerson, true
	case "ORG", "ORGANIZATION", "ORGANISATION":
		return entity.TypeOrg, true
	case "GPE", "LOC", "LOCATION":
		return entity.TypeLocation, true
	default:
		return "", false
	}
}
