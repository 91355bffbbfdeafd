package domain

import (
	"context"
	"errors"
	"time"
)

// ErrDescriptionRequired is returned when a resolution request carries no
// description text. It is the only validation error callers see.
var ErrDescriptionRequired = errors.New("description required")

// Confidence values for resolution paths without a provider-reported score.
const (
	DefaultConfidence    = 0.5 // geocoded, but the provider reported no score
	GazetteerConfidence  = 0.3 // coordinates came from the static gazetteer
	DegenerateConfidence = 0.1 // nothing matched; coordinates are (0, 0)
)

// ResolutionResult is the outcome of resolving an incident description to
// coordinates. Every field is assigned on every resolution path; callers
// never see a partial result.
type ResolutionResult struct {
	LocationName string    `json:"location_name"`
	Lat          float64   `json:"lat"`
	Lon          float64   `json:"lon"`
	DisplayName  string    `json:"display_name"`
	Confidence   float64   `json:"confidence"`
	Fallback     bool      `json:"fallback"`
	Error        string    `json:"error,omitempty"`
	ResolvedAt   time.Time `json:"resolved_at"`
}

// GeocodingResult is the first candidate returned by a geocoding provider.
type GeocodingResult struct {
	Lat         float64
	Lon         float64
	DisplayName string
	Confidence  float64
}

// Geocoder turns a free-text place name into coordinates. An error covers
// transport failures, provider errors, and an empty candidate list alike;
// the caller decides how to degrade.
type Geocoder interface {
	Geocode(ctx context.Context, locationName string) (GeocodingResult, error)
}
