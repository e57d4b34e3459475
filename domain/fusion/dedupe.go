package fusion

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/aoidb/aoi/domain/entity"
)

// Deduplicate keeps the first mention of every (type, lowercase name) key,
// preserving order and the first mention's attributes.
func Deduplicate(mentions []entity.Mention) []entity.Mention {
	seen := mapset.NewThreadUnsafeSetWithSize[string](len(mentions))
	out := make([]entity.Mention, 0, len(mentions))
	for _, m := range mentions {
		if seen.Add(m.Key()) {
			out = append(out, m)
		}
	}
	return out
}
