// Package resolver orchestrates the location resolution pipeline: cache
// lookup, location name extraction, and a chain of coordinate strategies
// that always produces a result.
package resolver

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/couchcryptid/location-resolution-service/internal/cache"
	"github.com/couchcryptid/location-resolution-service/internal/domain"
	"github.com/couchcryptid/location-resolution-service/internal/observability"
	"github.com/jonboulle/clockwork"
)

// cacheKeyPrefix namespaces resolution entries in the shared cache. The raw
// description is the rest of the key; two descriptions that differ only in
// casing or punctuation are distinct entries.
const cacheKeyPrefix = "geocode:"

// resultTTL bounds how long a resolution is served from cache.
const resultTTL = time.Hour

// degenerateError is the Error field of a result whose coordinates are the
// (0, 0) placeholder.
const degenerateError = "No coordinates available for this location"

// Extractor produces a candidate location name from a description. Extractors
// are tried in order; an error moves on to the next one.
type Extractor interface {
	Name() string
	ExtractLocation(ctx context.Context, description string) (string, error)
}

// Publisher emits a resolution event to downstream consumers. Publishing is
// best effort; failures never affect the resolution result.
type Publisher interface {
	Publish(ctx context.Context, result domain.ResolutionResult) error
}

// query carries state through the coordinate strategy chain.
type query struct {
	locationName string
	// upstreamErr is the geocoding failure that pushed resolution into the
	// fallback strategies, preserved on the result for operators.
	upstreamErr string
}

// coordinateStrategy attempts to produce coordinates for a query. It reports
// false to pass the query to the next strategy in the chain.
type coordinateStrategy interface {
	Name() string
	Attempt(ctx context.Context, q *query) (domain.ResolutionResult, bool)
}

// Resolver resolves free-text disaster descriptions to coordinates. Every
// well-formed request succeeds; the strategy chain ends in an unconditional
// placeholder.
type Resolver struct {
	store      cache.Store
	extractors []Extractor
	strategies []coordinateStrategy
	publisher  Publisher
	metrics    *observability.Metrics
	logger     *slog.Logger
	clock      clockwork.Clock
}

// New wires a resolver from its collaborators. Extractors run in the given
// order; publisher may be nil. Pass a nil clock to use the real one.
func New(store cache.Store, extractors []Extractor, geocoder domain.Geocoder, gazetteer *domain.Gazetteer, publisher Publisher, metrics *observability.Metrics, logger *slog.Logger, clock clockwork.Clock) *Resolver {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Resolver{
		store:      store,
		extractors: extractors,
		strategies: []coordinateStrategy{
			&geocodeStrategy{geocoder: geocoder, logger: logger},
			&gazetteerStrategy{gazetteer: gazetteer, logger: logger},
			&degenerateStrategy{},
		},
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		clock:     clock,
	}
}

// ResolveLocation resolves a description to coordinates. The only error it
// returns is domain.ErrDescriptionRequired; every other failure degrades to a
// lower-confidence result. A started resolution runs to completion even if
// the caller goes away, so the cache and downstream consumers still see it.
func (r *Resolver) ResolveLocation(ctx context.Context, description string) (domain.ResolutionResult, error) {
	if description == "" {
		r.metrics.ResolveRequests.WithLabelValues("invalid").Inc()
		return domain.ResolutionResult{}, domain.ErrDescriptionRequired
	}

	ctx = context.WithoutCancel(ctx)

	key := cacheKeyPrefix + description
	if result, ok := r.cachedResult(ctx, key); ok {
		r.metrics.CacheLookups.WithLabelValues("hit").Inc()
		r.metrics.ResolveRequests.WithLabelValues("cache_hit").Inc()
		r.logger.Debug("resolution served from cache", "location", result.LocationName)
		return result, nil
	}
	r.metrics.CacheLookups.WithLabelValues("miss").Inc()

	q := &query{locationName: r.extractLocation(ctx, description)}

	var result domain.ResolutionResult
	for _, s := range r.strategies {
		if res, ok := s.Attempt(ctx, q); ok {
			result = res
			r.metrics.ResolveRequests.WithLabelValues(s.Name()).Inc()
			break
		}
	}
	result.ResolvedAt = r.clock.Now().UTC()

	r.storeResult(ctx, key, result)
	r.publishResult(ctx, result)

	return result, nil
}

// cachedResult loads and decodes a prior resolution. A corrupt entry reads as
// a miss and gets overwritten by the fresh result.
func (r *Resolver) cachedResult(ctx context.Context, key string) (domain.ResolutionResult, bool) {
	raw, ok := r.store.Get(ctx, key)
	if !ok {
		return domain.ResolutionResult{}, false
	}
	var result domain.ResolutionResult
	if err := json.Unmarshal(raw, &result); err != nil {
		r.logger.Warn("discarding corrupt cache entry", "key", key, "error", err)
		return domain.ResolutionResult{}, false
	}
	return result, true
}

// extractLocation runs the extractor chain. The keyword extractor never
// fails, so the chain always yields a candidate; UnknownLocation covers the
// pathological case of an empty chain.
func (r *Resolver) extractLocation(ctx context.Context, description string) string {
	for _, e := range r.extractors {
		name, err := e.ExtractLocation(ctx, description)
		if err != nil {
			r.metrics.ExtractAttempts.WithLabelValues(e.Name(), "error").Inc()
			r.logger.Warn("location extraction failed", "strategy", e.Name(), "error", err)
			continue
		}
		r.metrics.ExtractAttempts.WithLabelValues(e.Name(), "success").Inc()
		r.logger.Debug("location extracted", "strategy", e.Name(), "location", name)
		return name
	}
	return domain.UnknownLocation
}

func (r *Resolver) storeResult(ctx context.Context, key string, result domain.ResolutionResult) {
	data, err := json.Marshal(result)
	if err != nil {
		r.logger.Warn("serialize resolution for cache", "error", err)
		return
	}
	if err := r.store.Set(ctx, key, data, resultTTL); err != nil {
		r.logger.Warn("cache resolution result", "key", key, "error", err)
	}
}

func (r *Resolver) publishResult(ctx context.Context, result domain.ResolutionResult) {
	if r.publisher == nil {
		return
	}
	if err := r.publisher.Publish(ctx, result); err != nil {
		r.metrics.PublishFailures.Inc()
		r.logger.Warn("publish resolution event", "location", result.LocationName, "error", err)
	}
}

// geocodeStrategy asks the live geocoding provider. Any failure, including
// "no candidates", passes the query on with the error recorded.
type geocodeStrategy struct {
	geocoder domain.Geocoder
	logger   *slog.Logger
}

func (s *geocodeStrategy) Name() string { return "geocoded" }

func (s *geocodeStrategy) Attempt(ctx context.Context, q *query) (domain.ResolutionResult, bool) {
	geo, err := s.geocoder.Geocode(ctx, q.locationName)
	if err != nil {
		q.upstreamErr = err.Error()
		s.logger.Warn("geocoding failed", "location", q.locationName, "error", err)
		return domain.ResolutionResult{}, false
	}
	return domain.ResolutionResult{
		LocationName: q.locationName,
		Lat:          geo.Lat,
		Lon:          geo.Lon,
		DisplayName:  geo.DisplayName,
		Confidence:   geo.Confidence,
	}, true
}

// gazetteerStrategy consults the static coordinate table. Its results carry
// the upstream geocoding error so operators can see why the fallback fired.
type gazetteerStrategy struct {
	gazetteer *domain.Gazetteer
	logger    *slog.Logger
}

func (s *gazetteerStrategy) Name() string { return "gazetteer" }

func (s *gazetteerStrategy) Attempt(_ context.Context, q *query) (domain.ResolutionResult, bool) {
	entry, ok := s.gazetteer.Lookup(q.locationName)
	if !ok {
		return domain.ResolutionResult{}, false
	}
	s.logger.Info("using gazetteer coordinates", "location", q.locationName, "lat", entry.Lat, "lon", entry.Lon)
	return domain.ResolutionResult{
		LocationName: q.locationName,
		Lat:          entry.Lat,
		Lon:          entry.Lon,
		DisplayName:  q.locationName,
		Confidence:   domain.GazetteerConfidence,
		Fallback:     true,
		Error:        q.upstreamErr,
	}, true
}

// degenerateStrategy terminates the chain with (0, 0) coordinates so that
// resolution never fails outright.
type degenerateStrategy struct{}

func (s *degenerateStrategy) Name() string { return "degenerate" }

func (s *degenerateStrategy) Attempt(_ context.Context, q *query) (domain.ResolutionResult, bool) {
	return domain.ResolutionResult{
		LocationName: q.locationName,
		Lat:          0,
		Lon:          0,
		DisplayName:  q.locationName,
		Confidence:   domain.DegenerateConfidence,
		Fallback:     true,
		Error:        degenerateError,
	}, true
}
