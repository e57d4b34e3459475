package fusion

import (
	"github.com/aoidb/aoi/domain/entity"
)

// Enricher attaches coordinates and jurisdiction to location mentions.
type Enricher struct {
	gazetteer Gazetteer
}

// NewEnricher creates an enricher backed by gazetteer.
func NewEnricher(gazetteer Gazetteer) Enricher {
	return Enricher{gazetteer: gazetteer}
}

// Enrich returns a new slice in which every Location mention found in the
// gazetteer carries lat, lon, and jurisdiction. Attributes already present
// on a mention are kept. Misses are returned unchanged.
func (e Enricher) Enrich(mentions []entity.Mention) []entity.Mention {
	out := make([]entity.Mention, len(mentions))
	for i, m := range mentions {
		out[i] = m
		if m.Type() != entity.TypeLocation || e.gazetteer == nil {
			continue
		}
		place, ok := e.gazetteer.Lookup(m.Name())
		if !ok {
			continue
		}
		out[i] = m.FillAttrs(map[string]any{
			entity.AttrLat:          place.Lat,
			entity.AttrLon:          place.Lon,
			entity.AttrJurisdiction: place.Jurisdiction,
		})
	}
	return out
}
