package fusion

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/aoidb/aoi/domain/entity"
)

// ErrNoRecognizer is returned when an Extractor is built without a recognizer.
var ErrNoRecognizer = errors.New("no named-entity recognizer configured")

var identifierPatterns = []struct {
	typ entity.Type
	re  *regexp.Regexp
}{
	{typ: entity.TypeMMSI, re: regexp.MustCompile(`(?i)mmsi:(\d+)`)},
	{typ: entity.TypeIMO, re: regexp.MustCompile(`(?i)imo:(\d+)`)},
}

// Extractor finds candidate entities in normalized text.
type Extractor struct {
	recognizer Recognizer
}

// NewExtractor creates an extractor backed by the given recognizer.
func NewExtractor(recognizer Recognizer) (*Extractor, error) {
	if recognizer == nil {
		return nil, ErrNoRecognizer
	}
	return &Extractor{recognizer: recognizer}, nil
}

// Extract returns recognizer mentions followed by identifier mentions.
// Results are not deduplicated. Text without matches yields an empty slice;
// only a failing recognizer produces an error.
func (x *Extractor) Extract(ctx context.Context, text string) ([]entity.Mention, error) {
	mentions := []entity.Mention{}
	if text == "" {
		return mentions, nil
	}

	recognized, err := x.recognizer.Recognize(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("recognize entities: %w", err)
	}
	for _, r := range recognized {
		typ, ok := TypeForLabel(r.Label)
		if !ok {
			continue
		}
		score := r.Score
		if score <= 0 {
			score = entity.ConfidenceNER
		}
		m := entity.NewMention(typ, r.Text, entity.ProvenanceNER, score)
		if m.Name() == "" {
			continue
		}
		mentions = append(mentions, m)
	}

	return append(mentions, ExtractIdentifiers(text)...), nil
}

// ExtractIdentifiers returns every mmsi:<digits> and imo:<digits> occurrence
// as an MMSI or IMO mention. Repeated identifiers are all returned.
func ExtractIdentifiers(text string) []entity.Mention {
	var mentions []entity.Mention
	for _, p := range identifierPatterns {
		for _, match := range p.re.FindAllStringSubmatch(text, -1) {
			mentions = append(mentions, entity.NewMention(p.typ, match[1], entity.ProvenanceRegex, entity.ConfidenceRegex))
		}
	}
	return mentions
}
