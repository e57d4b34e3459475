package fusion

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aoidb/aoi/domain/entity"
	"github.com/aoidb/aoi/domain/event"
)

// employmentRecognizer tags "<person> works at <org> in <location>" the way
// a statistical model would for that sentence.
var employmentRecognizer = RecognizerFunc(func(_ context.Context, text string) ([]Recognition, error) {
	if !strings.Contains(text, "John Smith") {
		return nil, nil
	}
	return []Recognition{
		{Label: "PERSON", Text: "John Smith"},
		{Label: "ORG", Text: "ACME Corp"},
		{Label: "DATE", Text: "today"},
		{Label: "GPE", Text: "Sydney"},
	}, nil
})

func names(mentions []entity.Mention) []string {
	out := make([]string, len(mentions))
	for i, m := range mentions {
		out[i] = string(m.Type()) + ":" + m.Name()
	}
	return out
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "Title body", NormalizeText(" Title ", " body "))
	assert.Equal(t, "Title", NormalizeText("Title", ""))
	assert.Equal(t, "body", NormalizeText("", "body"))
	assert.Equal(t, "", NormalizeText("", "  "))
}

func TestNormalize_PrefersSummary(t *testing.T) {
	e := event.NewEvent("Storm", event.TextBody("ignored"), event.TypeWeather, time.Now()).
		WithRaw([]byte(`{"summary":"Hail in Sydney","description":"d"}`))

	assert.Equal(t, "Storm Hail in Sydney", Normalize(e))
}

func TestExtractor_RequiresRecognizer(t *testing.T) {
	_, err := NewExtractor(nil)
	assert.ErrorIs(t, err, ErrNoRecognizer)
}

func TestExtractor_EmploymentSentence(t *testing.T) {
	x, err := NewExtractor(employmentRecognizer)
	require.NoError(t, err)

	mentions, err := x.Extract(context.Background(), "John Smith works at ACME Corp in Sydney.")
	require.NoError(t, err)

	assert.Equal(t, []string{"Person:John Smith", "Org:ACME Corp", "Location:Sydney"}, names(mentions))
	for _, m := range mentions {
		assert.Equal(t, entity.ProvenanceNER, m.Provenance())
		assert.Equal(t, entity.ConfidenceNER, m.Confidence())
	}
}

func TestExtractor_Identifiers(t *testing.T) {
	x, err := NewExtractor(RecognizerFunc(func(context.Context, string) ([]Recognition, error) { return nil, nil }))
	require.NoError(t, err)

	mentions, err := x.Extract(context.Background(), "imo:9876543 vessel with MMSI:123456789 and mmsi:123456789")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"MMSI:123456789", "MMSI:123456789", "IMO:9876543"}, names(mentions))
	for _, m := range mentions {
		assert.Equal(t, entity.ProvenanceRegex, m.Provenance())
		assert.Equal(t, entity.ConfidenceRegex, m.Confidence())
	}
}

func TestExtractor_EmptyTextNeverCallsRecognizer(t *testing.T) {
	x, err := NewExtractor(RecognizerFunc(func(context.Context, string) ([]Recognition, error) {
		return nil, errors.New("must not be called")
	}))
	require.NoError(t, err)

	mentions, err := x.Extract(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, mentions)
}

func TestExtractor_RecognizerScoreIsKept(t *testing.T) {
	x, err := NewExtractor(RecognizerFunc(func(context.Context, string) ([]Recognition, error) {
		return []Recognition{{Label: "B-PER", Text: "Alice", Score: 0.97}, {Label: "ORG", Text: "   "}}, nil
	}))
	require.NoError(t, err)

	mentions, err := x.Extract(context.Background(), "Alice")
	require.NoError(t, err)
	require.Len(t, mentions, 1)
	assert.Equal(t, entity.TypePerson, mentions[0].Type())
	assert.Equal(t, 0.97, mentions[0].Confidence())
}

func TestTypeForLabel(t *testing.T) {
	for label, want := range map[string]entity.Type{
		"PERSON": entity.TypePerson, "per": entity.TypePerson, "I-PER": entity.TypePerson,
		"ORG": entity.TypeOrg, "GPE": entity.TypeLocation, "LOC": entity.TypeLocation,
	} {
		got, ok := TypeForLabel(label)
		assert.True(t, ok, label)
		assert.Equal(t, want, got, label)
	}
	for _, label := range []string{"MISC", "DATE", "O", ""} {
		_, ok := TypeForLabel(label)
		assert.False(t, ok, label)
	}
}

func TestEnricher_Gazetteer(t *testing.T) {
	manual := entity.NewMention(entity.TypeLocation, "Melbourne", entity.ProvenanceNER, entity.ConfidenceNER).
		FillAttrs(map[string]any{entity.AttrJurisdiction: "manual"})
	in := []entity.Mention{
		entity.NewMention(entity.TypeLocation, "Sydney", entity.ProvenanceNER, entity.ConfidenceNER),
		entity.NewMention(entity.TypeLocation, "Nowhereville", entity.ProvenanceNER, entity.ConfidenceNER),
		entity.NewMention(entity.TypeOrg, "Sydney", entity.ProvenanceNER, entity.ConfidenceNER),
		manual,
	}

	out := NewEnricher(DefaultGazetteer()).Enrich(in)
	require.Len(t, out, 4)

	lat, _ := out[0].Attr(entity.AttrLat)
	lon, _ := out[0].Attr(entity.AttrLon)
	jur, _ := out[0].Attr(entity.AttrJurisdiction)
	assert.InDelta(t, -33.8688, lat, 1e-6)
	assert.InDelta(t, 151.2093, lon, 1e-6)
	assert.Equal(t, "AU-NSW", jur)

	assert.Empty(t, out[1].Attrs(), "gazetteer miss leaves the mention untouched")
	assert.Empty(t, out[2].Attrs(), "only locations are enriched")

	jur, _ = out[3].Attr(entity.AttrJurisdiction)
	assert.Equal(t, "manual", jur, "enrichment fills gaps only")
	_, hasLat := out[3].Attr(entity.AttrLat)
	assert.True(t, hasLat)

	assert.Empty(t, in[0].Attrs(), "input slice is not mutated")
}

func TestStaticGazetteer_CaseInsensitive(t *testing.T) {
	p, ok := DefaultGazetteer().Lookup(" sydney ")
	require.True(t, ok)
	assert.Equal(t, "AU-NSW", p.Jurisdiction)
}

func TestDeduplicate(t *testing.T) {
	enriched := entity.NewMention(entity.TypeOrg, "ACME Corp", entity.ProvenanceNER, 0.8).
		FillAttrs(map[string]any{"k": "first"})
	in := []entity.Mention{
		enriched,
		entity.NewMention(entity.TypePerson, "Alice", entity.ProvenanceNER, 0.8),
		entity.NewMention(entity.TypeOrg, "acme corp", entity.ProvenanceRegex, 0.9),
		entity.NewMention(entity.TypePerson, "ALICE", entity.ProvenanceNER, 0.8),
		entity.NewMention(entity.TypeLocation, "Alice", entity.ProvenanceNER, 0.8),
	}

	out := Deduplicate(in)

	assert.Equal(t, []string{"Org:ACME Corp", "Person:Alice", "Location:Alice"}, names(out))
	v, _ := out[0].Attr("k")
	assert.Equal(t, "first", v)

	keys := map[string]bool{}
	for _, m := range out {
		assert.False(t, keys[m.Key()], "duplicate key %q", m.Key())
		keys[m.Key()] = true
	}
}

func TestExtractRelations(t *testing.T) {
	person := entity.NewMention(entity.TypePerson, "John Smith", entity.ProvenanceNER, 0.8)
	person2 := entity.NewMention(entity.TypePerson, "Jane Doe", entity.ProvenanceNER, 0.8)
	org := entity.NewMention(entity.TypeOrg, "ACME Corp", entity.ProvenanceNER, 0.8)
	org2 := entity.NewMention(entity.TypeOrg, "Globex", entity.ProvenanceNER, 0.8)

	tests := []struct {
		name     string
		text     string
		mentions []entity.Mention
		want     []entity.Triple
	}{
		{
			name:     "works at",
			text:     "John Smith works at ACME Corp",
			mentions: []entity.Mention{person, org},
			want:     []entity.Triple{employs("John Smith", "ACME Corp")},
		},
		{
			name:     "works for is case insensitive and takes first of each type",
			text:     "Jane WORKS FOR Globex",
			mentions: []entity.Mention{org2, person2, person, org},
			want:     []entity.Triple{employs("Jane Doe", "Globex")},
		},
		{name: "no phrase", text: "John Smith visited ACME Corp", mentions: []entity.Mention{person, org}},
		{name: "no org", text: "John Smith works at home", mentions: []entity.Mention{person}},
		{name: "no person", text: "someone works at ACME Corp", mentions: []entity.Mention{org}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractRelations(tt.text, tt.mentions))
		})
	}
}

func TestPipeline_EmploymentScenario(t *testing.T) {
	x, err := NewExtractor(employmentRecognizer)
	require.NoError(t, err)
	p := NewPipeline(x, NewEnricher(DefaultGazetteer()))

	e := event.NewEvent("John Smith works at ACME Corp in Sydney.", event.NoBody(), event.TypeOther, time.Now())
	res, err := p.Run(context.Background(), e)
	require.NoError(t, err)

	assert.Equal(t, []string{"Person:John Smith", "Org:ACME Corp", "Location:Sydney"}, names(res.Mentions))
	assert.Equal(t, []entity.Triple{employs("John Smith", "ACME Corp")}, res.Triples)
	jur, _ := res.Mentions[2].Attr(entity.AttrJurisdiction)
	assert.Equal(t, "AU-NSW", jur)
}

func TestPipeline_RecognizerFailure(t *testing.T) {
	boom := errors.New("model crashed")
	x, err := NewExtractor(RecognizerFunc(func(context.Context, string) ([]Recognition, error) { return nil, boom }))
	require.NoError(t, err)

	_, err = NewPipeline(x, NewEnricher(DefaultGazetteer())).
		Run(context.Background(), event.NewEvent("text", event.NoBody(), event.TypeOther, time.Now()))
	assert.ErrorIs(t, err, boom)
}

func employs(person, org string) entity.Triple {
	return entity.Triple{
		Src:     person,
		SrcType: entity.TypePerson,
		Dst:     org,
		DstType: entity.TypeOrg,
		Label:   entity.LabelEmployedBy,
	}
}
