package nlp

import (
	"context"
	"fmt"

	"github.com/jdkato/prose/v2"

	"github.com/aoidb/aoi/domain/fusion"
)

// ProseRecognizer tags entities with prose's averaged-perceptron model,
// which ships inside the library. It labels PERSON and GPE only.
type ProseRecognizer struct{}

// NewProseRecognizer creates a ProseRecognizer.
func NewProseRecognizer() ProseRecognizer {
	return ProseRecognizer{}
}

// Recognize runs prose's tokenizer, tagger, and entity chunker over text.
func (ProseRecognizer) Recognize(_ context.Context, text string) ([]fusion.Recognition, error) {
	doc, err := prose.NewDocument(text, prose.WithSegmentation(false))
	if err != nil {
		return nil, fmt.Errorf("prose document: %w", err)
	}
	ents := doc.Entities()
	out := make([]fusion.Recognition, 0, len(ents))
	for _, e := range ents {
		out = append(out, fusion.Recognition{Label: e.Label, Text: e.Text})
	}
	return out, nil
}
