package fusion

import (
	"strings"

	"github.com/aoidb/aoi/domain/entity"
)

var employmentPhrases = []string{"works for", "works at"}

// ExtractRelations derives relation triples from text and its deduplicated
// mentions. When the text mentions employment, the first Person is linked to
// the first Org in list order. It has no side effects.
func ExtractRelations(text string, mentions []entity.Mention) []entity.Triple {
	lower := strings.ToLower(text)
	employment := false
	for _, phrase := range employmentPhrases {
		if strings.Contains(lower, phrase) {
			employment = true
			break
		}
	}
	if !employment {
		return nil
	}

	person, okPerson := first(mentions, entity.TypePerson)
	org, okOrg := first(mentions, entity.TypeOrg)
	if !okPerson || !okOrg {
		return nil
	}
	return []entity.Triple{{
		Src:     person.Name(),
		SrcType: person.Type(),
		Dst:     org.Name(),
		DstType: org.Type(),
		Label:   entity.LabelEmployedBy,
	}}
}

func first(mentions []entity.Mention, typ entity.Type) (entity.Mention, bool) {
	for _, m := range mentions {
		if m.Type() == typ {
			return m, true
		}
	}
	return entity.Mention{}, false
}
