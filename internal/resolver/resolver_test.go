package resolver

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/location-resolution-service/internal/cache"
	"github.com/couchcryptid/location-resolution-service/internal/domain"
	"github.com/couchcryptid/location-resolution-service/internal/observability"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGeocoder struct {
	result domain.GeocodingResult
	err    error
	calls  int
}

func (g *stubGeocoder) Geocode(_ context.Context, _ string) (domain.GeocodingResult, error) {
	g.calls++
	return g.result, g.err
}

type stubExtractor struct {
	name     string
	location string
	err      error
	calls    int
}

func (e *stubExtractor) Name() string { return e.name }

func (e *stubExtractor) ExtractLocation(_ context.Context, _ string) (string, error) {
	e.calls++
	return e.location, e.err
}

type stubPublisher struct {
	err       error
	published []domain.ResolutionResult
}

func (p *stubPublisher) Publish(_ context.Context, result domain.ResolutionResult) error {
	p.published = append(p.published, result)
	return p.err
}

type fixture struct {
	resolver  *Resolver
	store     *cache.Memory
	geocoder  *stubGeocoder
	extractor *stubExtractor
	publisher *stubPublisher
	clock     *clockwork.FakeClock
}

func newFixture(t *testing.T, opts ...func(*fixture)) *fixture {
	t.Helper()
	f := &fixture{
		geocoder:  &stubGeocoder{},
		extractor: &stubExtractor{name: "keyword", location: "Manhattan"},
		publisher: &stubPublisher{},
		clock:     clockwork.NewFakeClockAt(time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.store = cache.NewMemory(f.clock)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.resolver = New(
		f.store,
		[]Extractor{f.extractor},
		f.geocoder,
		domain.NewGazetteer(nil),
		f.publisher,
		observability.NewMetricsForTesting(),
		logger,
		f.clock,
	)
	return f
}

func TestResolveLocation_EmptyDescriptionIsRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.resolver.ResolveLocation(context.Background(), "")
	require.ErrorIs(t, err, domain.ErrDescriptionRequired)

	assert.Zero(t, f.extractor.calls)
	assert.Zero(t, f.geocoder.calls)
	assert.Empty(t, f.publisher.published)
}

func TestResolveLocation_GeocodeSuccess(t *testing.T) {
	f := newFixture(t, func(f *fixture) {
		f.geocoder.result = domain.GeocodingResult{
			Lat:         40.7589,
			Lon:         -73.9851,
			DisplayName: "Manhattan, New York",
			Confidence:  0.77,
		}
	})

	result, err := f.resolver.ResolveLocation(context.Background(), "Heavy flooding in Manhattan")
	require.NoError(t, err)

	assert.Equal(t, "Manhattan", result.LocationName)
	assert.Equal(t, 40.7589, result.Lat)
	assert.Equal(t, -73.9851, result.Lon)
	assert.Equal(t, "Manhattan, New York", result.DisplayName)
	assert.Equal(t, 0.77, result.Confidence)
	assert.False(t, result.Fallback)
	assert.Empty(t, result.Error)
	assert.Equal(t, f.clock.Now().UTC(), result.ResolvedAt)
}

func TestResolveLocation_CacheHitSkipsPipeline(t *testing.T) {
	f := newFixture(t, func(f *fixture) {
		f.geocoder.result = domain.GeocodingResult{Lat: 40.7589, Lon: -73.9851, Confidence: 0.77}
	})

	first, err := f.resolver.ResolveLocation(context.Background(), "Heavy flooding in Manhattan")
	require.NoError(t, err)

	second, err := f.resolver.ResolveLocation(context.Background(), "Heavy flooding in Manhattan")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.extractor.calls)
	assert.Equal(t, 1, f.geocoder.calls)
	// Cached responses are not republished.
	assert.Len(t, f.publisher.published, 1)
}

func TestResolveLocation_CacheKeyIsTheRawDescription(t *testing.T) {
	f := newFixture(t, func(f *fixture) {
		f.geocoder.result = domain.GeocodingResult{Lat: 40.7589, Lon: -73.9851, Confidence: 0.77}
	})

	_, err := f.resolver.ResolveLocation(context.Background(), "Flooding in Manhattan")
	require.NoError(t, err)
	_, err = f.resolver.ResolveLocation(context.Background(), "flooding in manhattan")
	require.NoError(t, err)

	// Different casing means a different cache entry and a second pipeline run.
	assert.Equal(t, 2, f.geocoder.calls)
}

func TestResolveLocation_ExpiredEntryRerunsPipeline(t *testing.T) {
	f := newFixture(t, func(f *fixture) {
		f.geocoder.result = domain.GeocodingResult{Lat: 40.7589, Lon: -73.9851, Confidence: 0.77}
	})

	_, err := f.resolver.ResolveLocation(context.Background(), "Heavy flooding in Manhattan")
	require.NoError(t, err)

	f.clock.Advance(time.Hour + time.Second)

	_, err = f.resolver.ResolveLocation(context.Background(), "Heavy flooding in Manhattan")
	require.NoError(t, err)
	assert.Equal(t, 2, f.geocoder.calls)
}

func TestResolveLocation_GazetteerFallback(t *testing.T) {
	f := newFixture(t, func(f *fixture) {
		f.geocoder.err = errors.New("nominatim API error: status 503")
	})

	result, err := f.resolver.ResolveLocation(context.Background(), "Heavy flooding in Manhattan")
	require.NoError(t, err)

	assert.Equal(t, "Manhattan", result.LocationName)
	assert.Equal(t, 40.7589, result.Lat)
	assert.Equal(t, -73.9851, result.Lon)
	assert.Equal(t, "Manhattan", result.DisplayName)
	assert.Equal(t, domain.GazetteerConfidence, result.Confidence)
	assert.True(t, result.Fallback)
	assert.Equal(t, "nominatim API error: status 503", result.Error)
}

func TestResolveLocation_DegeneratePlaceholder(t *testing.T) {
	f := newFixture(t, func(f *fixture) {
		f.extractor.location = "Atlantis"
		f.geocoder.err = errors.New("location not found in geocoding service")
	})

	result, err := f.resolver.ResolveLocation(context.Background(), "Strange waves near Atlantis")
	require.NoError(t, err)

	assert.Equal(t, "Atlantis", result.LocationName)
	assert.Zero(t, result.Lat)
	assert.Zero(t, result.Lon)
	assert.Equal(t, "Atlantis", result.DisplayName)
	assert.Equal(t, domain.DegenerateConfidence, result.Confidence)
	assert.True(t, result.Fallback)
	assert.Equal(t, "No coordinates available for this location", result.Error)
}

func TestResolveLocation_DegenerateResultIsCachedToo(t *testing.T) {
	f := newFixture(t, func(f *fixture) {
		f.extractor.location = "Atlantis"
		f.geocoder.err = errors.New("boom")
	})

	_, err := f.resolver.ResolveLocation(context.Background(), "Strange waves near Atlantis")
	require.NoError(t, err)
	_, err = f.resolver.ResolveLocation(context.Background(), "Strange waves near Atlantis")
	require.NoError(t, err)

	// The placeholder is served from cache; the provider is not retried
	// until the entry expires.
	assert.Equal(t, 1, f.geocoder.calls)
}

func TestResolveLocation_ExtractorChainFallsThrough(t *testing.T) {
	failing := &stubExtractor{name: "semantic", err: errors.New("gemini API error: status 429")}
	f := newFixture(t, func(f *fixture) {
		f.geocoder.result = domain.GeocodingResult{Lat: 32.7767, Lon: -96.7970, Confidence: 0.6}
		f.extractor.location = "Dallas"
	})
	f.resolver.extractors = []Extractor{failing, f.extractor}

	result, err := f.resolver.ResolveLocation(context.Background(), "Tornado touchdown in Dallas suburbs")
	require.NoError(t, err)

	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, f.extractor.calls)
	assert.Equal(t, "Dallas", result.LocationName)
}

func TestResolveLocation_NoExtractorsYieldsUnknownLocation(t *testing.T) {
	f := newFixture(t, func(f *fixture) {
		f.geocoder.err = errors.New("boom")
	})
	f.resolver.extractors = nil

	result, err := f.resolver.ResolveLocation(context.Background(), "something happened somewhere")
	require.NoError(t, err)
	assert.Equal(t, domain.UnknownLocation, result.LocationName)
}

func TestResolveLocation_PublishFailureDoesNotAffectResult(t *testing.T) {
	f := newFixture(t, func(f *fixture) {
		f.geocoder.result = domain.GeocodingResult{Lat: 40.7589, Lon: -73.9851, Confidence: 0.77}
		f.publisher.err = errors.New("kafka: broker unreachable")
	})

	result, err := f.resolver.ResolveLocation(context.Background(), "Heavy flooding in Manhattan")
	require.NoError(t, err)
	assert.Equal(t, 40.7589, result.Lat)
	assert.Len(t, f.publisher.published, 1)
}

func TestResolveLocation_NilPublisherIsFine(t *testing.T) {
	f := newFixture(t, func(f *fixture) {
		f.geocoder.result = domain.GeocodingResult{Lat: 40.7589, Lon: -73.9851, Confidence: 0.77}
	})
	f.resolver.publisher = nil

	_, err := f.resolver.ResolveLocation(context.Background(), "Heavy flooding in Manhattan")
	require.NoError(t, err)
}

func TestResolveLocation_CorruptCacheEntryIsAMiss(t *testing.T) {
	f := newFixture(t, func(f *fixture) {
		f.geocoder.result = domain.GeocodingResult{Lat: 40.7589, Lon: -73.9851, Confidence: 0.77}
	})

	require.NoError(t, f.store.Set(context.Background(), "geocode:Heavy flooding in Manhattan", []byte("{not json"), time.Hour))

	result, err := f.resolver.ResolveLocation(context.Background(), "Heavy flooding in Manhattan")
	require.NoError(t, err)
	assert.Equal(t, 1, f.geocoder.calls)
	assert.Equal(t, 40.7589, result.Lat)
}

func TestResolveLocation_RunsToCompletionAfterCallerCancels(t *testing.T) {
	f := newFixture(t, func(f *fixture) {
		f.geocoder.result = domain.GeocodingResult{Lat: 40.7589, Lon: -73.9851, Confidence: 0.77}
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := f.resolver.ResolveLocation(ctx, "Heavy flooding in Manhattan")
	require.NoError(t, err)
	assert.Equal(t, 40.7589, result.Lat)

	// The result was still cached and published.
	_, ok := f.store.Get(context.Background(), "geocode:Heavy flooding in Manhattan")
	assert.True(t, ok)
	assert.Len(t, f.publisher.published, 1)
}
