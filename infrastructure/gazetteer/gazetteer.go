// Package gazetteer loads place tables from YAML files.
package gazetteer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aoidb/aoi/domain/fusion"
)

type file struct {
	Places []place `yaml:"places"`
}

type place struct {
	Name         string   `yaml:"name"`
	Aliases      []string `yaml:"aliases"`
	Lat          *float64 `yaml:"lat"`
	Lon          *float64 `yaml:"lon"`
	Jurisdiction string   `yaml:"jurisdiction"`
}

// Load reads a gazetteer file of the form
//
//	places:
//	  - name: Sydney
//	    aliases: [Sydney NSW]
//	    lat: -33.8688
//	    lon: 151.2093
//	    jurisdiction: AU-NSW
func Load(path string) (fusion.StaticGazetteer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fusion.StaticGazetteer{}, fmt.Errorf("read gazetteer: %w", err)
	}
	return Parse(data)
}

// Parse decodes a gazetteer document.
func Parse(data []byte) (fusion.StaticGazetteer, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fusion.StaticGazetteer{}, fmt.Errorf("parse gazetteer: %w", err)
	}

	table := make(map[string]fusion.Place, len(f.Places))
	for i, p := range f.Places {
		if p.Name == "" {
			return fusion.StaticGazetteer{}, fmt.Errorf("place %d: missing name", i)
		}
		if p.Lat == nil || p.Lon == nil {
			return fusion.StaticGazetteer{}, fmt.Errorf("place %q: missing coordinates", p.Name)
		}
		if *p.Lat < -90 || *p.Lat > 90 || *p.Lon < -180 || *p.Lon > 180 {
			return fusion.StaticGazetteer{}, fmt.Errorf("place %q: coordinates out of range", p.Name)
		}
		resolved := fusion.Place{Lat: *p.Lat, Lon: *p.Lon, Jurisdiction: p.Jurisdiction}
		table[p.Name] = resolved
		for _, alias := range p.Aliases {
			table[alias] = resolved
		}
	}
	return fusion.NewStaticGazetteer(table), nil
}
