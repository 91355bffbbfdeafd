package domain

import "strings"

// GazetteerEntry maps a lower-cased place name to approximate coordinates.
type GazetteerEntry struct {
	Name string
	Lat  float64
	Lon  float64
}

// defaultGazetteer is the curated last-resort coordinate table. It is an
// ordered list, not a map: when several tokens of a location name match,
// list position decides which entry wins.
var defaultGazetteer = []GazetteerEntry{
	{Name: "manhattan", Lat: 40.7589, Lon: -73.9851},
	{Name: "nyc", Lat: 40.7128, Lon: -74.0060},
	{Name: "new york", Lat: 40.7128, Lon: -74.0060},
	{Name: "los angeles", Lat: 34.0522, Lon: -118.2437},
	{Name: "dallas", Lat: 32.7767, Lon: -96.7970},
	{Name: "chicago", Lat: 41.8781, Lon: -87.6298},
	{Name: "miami", Lat: 25.7617, Lon: -80.1918},
	{Name: "kakinada", Lat: 16.9891, Lon: 82.2475},
	{Name: "andhra pradesh", Lat: 15.9129, Lon: 79.7400},
	{Name: "andrapradesh", Lat: 15.9129, Lon: 79.7400},
	{Name: "india", Lat: 20.5937, Lon: 78.9629},
}

// Gazetteer is the static place name → coordinates table consulted when
// geocoding fails. It is immutable after construction.
type Gazetteer struct {
	entries []GazetteerEntry
}

// NewGazetteer creates a gazetteer over the given ordered entries. Pass nil
// to use the default table.
func NewGazetteer(entries []GazetteerEntry) *Gazetteer {
	if entries == nil {
		entries = defaultGazetteer
	}
	return &Gazetteer{entries: entries}
}

// Lookup resolves a location name to coordinates. The lower-cased full name
// is matched exactly first; otherwise the name is split on commas and
// whitespace and each token is tested left to right, first hit wins. Lookup
// reports false when nothing matches and never fails.
func (g *Gazetteer) Lookup(locationName string) (GazetteerEntry, bool) {
	lower := strings.ToLower(locationName)

	for _, e := range g.entries {
		if e.Name == lower {
			return e, true
		}
	}

	tokens := strings.FieldsFunc(lower, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	for _, token := range tokens {
		for _, e := range g.entries {
			if e.Name == token {
				return e, true
			}
		}
	}

	return GazetteerEntry{}, false
}
