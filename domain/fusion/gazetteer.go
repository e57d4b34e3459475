package fusion

import (
	"github.com/aoidb/aoi/domain/entity"
)

// Place is a resolved geographic point with its jurisdiction code.
type Place struct {
	Lat          float64
	Lon          float64
	Jurisdiction string
}

// Gazetteer resolves a location name to a place.
type Gazetteer interface {
	Lookup(name string) (Place, bool)
}

// StaticGazetteer is an in-process name table. Lookups ignore case and
// surrounding whitespace.
type StaticGazetteer struct {
	places map[string]Place
}

// NewStaticGazetteer creates a gazetteer from a name table.
func NewStaticGazetteer(places map[string]Place) StaticGazetteer {
	g := StaticGazetteer{places: make(map[string]Place, len(places))}
	for name, p := range places {
		g.places[entity.CanonicalKey(name)] = p
	}
	return g
}

// DefaultGazetteer returns the built-in table of Australian capitals.
func DefaultGazetteer() StaticGazetteer {
	return NewStaticGazetteer(map[string]Place{
		"Sydney":    {Lat: -33.8688, Lon: 151.2093, Jurisdiction: "AU-NSW"},
		"Melbourne": {Lat: -37.8136, Lon: 144.9631, Jurisdiction: "AU-VIC"},
		"Brisbane":  {Lat: -27.4698, Lon: 153.0251, Jurisdiction: "AU-QLD"},
		"Perth":     {Lat: -31.9523, Lon: 115.8613, Jurisdiction: "AU-WA"},
		"Adelaide":  {Lat: -34.9285, Lon: 138.6007, Jurisdiction: "AU-SA"},
		"Hobart":    {Lat: -42.8821, Lon: 147.3272, Jurisdiction: "AU-TAS"},
		"Darwin":    {Lat: -12.4634, Lon: 130.8456, Jurisdiction: "AU-NT"},
		"Canberra":  {Lat: -35.2809, Lon: 149.1300, Jurisdiction: "AU-ACT"},
	})
}

// Lookup returns the place registered under name.
func (g StaticGazetteer) Lookup(name string) (Place, bool) {
	p, ok := g.places[entity.CanonicalKey(name)]
	return p, ok
}
