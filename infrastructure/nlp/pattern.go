package nlp

import (
	"context"
	"regexp"

	"github.com/aoidb/aoi/domain/fusion"
)

var employmentSentence = regexp.MustCompile(
	`(?i)^(?P<person>.+?)\s+works\s+(?:at|for)\s+(?P<org>.+?)\s+in\s+(?P<loc>.+?)(?:[.].*)?$`,
)

// PatternRecognizer tags the sentence shape "<person> works at|for <org> in
// <location>". It needs no model, so it suits lightweight deployments and
// tests.
type PatternRecognizer struct{}

// NewPatternRecognizer creates a PatternRecognizer.
func NewPatternRecognizer() PatternRecognizer {
	return PatternRecognizer{}
}

// Recognize returns a PERSON, ORG, and GPE span when text matches.
func (PatternRecognizer) Recognize(_ context.Context, text string) ([]fusion.Recognition, error) {
	match := employmentSentence.FindStringSubmatch(text)
	if match == nil {
		return nil, nil
	}
	labels := map[string]string{"person": "PERSON", "org": "ORG", "loc": "GPE"}
	var out []fusion.Recognition
	for i, name := range employmentSentence.SubexpNames() {
		label, ok := labels[name]
		if !ok || match[i] == "" {
			continue
		}
		out = append(out, fusion.Recognition{Label: label, Text: match[i]})
	}
	return out, nil
}
