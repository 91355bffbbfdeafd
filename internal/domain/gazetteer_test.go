package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGazetteer_ExactMatch(t *testing.T) {
	g := NewGazetteer(nil)

	entry, ok := g.Lookup("Manhattan")
	require.True(t, ok)
	assert.Equal(t, 40.7589, entry.Lat)
	assert.Equal(t, -73.9851, entry.Lon)

	entry, ok = g.Lookup("ANDHRA PRADESH")
	require.True(t, ok)
	assert.Equal(t, 15.9129, entry.Lat)
	assert.Equal(t, 79.7400, entry.Lon)
}

func TestGazetteer_TokenMatch(t *testing.T) {
	g := NewGazetteer(nil)

	tests := []struct {
		name         string
		locationName string
		wantName     string
	}{
		{
			name:         "token after comma",
			locationName: "Lower East Side, Manhattan",
			wantName:     "manhattan",
		},
		{
			name:         "first matching token wins left to right",
			locationName: "Chicago Miami corridor",
			wantName:     "chicago",
		},
		{
			name:         "whitespace separated",
			locationName: "Kakinada\tport area",
			wantName:     "kakinada",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, ok := g.Lookup(tt.locationName)
			require.True(t, ok)
			assert.Equal(t, tt.wantName, entry.Name)
		})
	}
}

func TestGazetteer_ExactMatchBeatsTokenMatch(t *testing.T) {
	// "new york" exact-matches before tokenization would test "new" and "york"
	// individually (neither of which is a table key).
	g := NewGazetteer(nil)

	entry, ok := g.Lookup("New York")
	require.True(t, ok)
	assert.Equal(t, "new york", entry.Name)
	assert.Equal(t, 40.7128, entry.Lat)
	assert.Equal(t, -74.0060, entry.Lon)
}

func TestGazetteer_NoMatch(t *testing.T) {
	g := NewGazetteer(nil)

	for _, name := range []string{"Atlantis", "Unknown Location", "", "nowhere, special"} {
		_, ok := g.Lookup(name)
		assert.False(t, ok, "location: %q", name)
	}
}

func TestGazetteer_CustomEntries(t *testing.T) {
	g := NewGazetteer([]GazetteerEntry{
		{Name: "springfield", Lat: 39.7817, Lon: -89.6501},
	})

	entry, ok := g.Lookup("Springfield")
	require.True(t, ok)
	assert.Equal(t, 39.7817, entry.Lat)

	_, ok = g.Lookup("Manhattan")
	assert.False(t, ok, "default table should not leak into custom gazetteers")
}
