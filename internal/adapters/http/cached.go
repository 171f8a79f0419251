package http

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jwoopark/trailhead/internal/core/domain"
	"github.com/jwoopark/trailhead/internal/core/ports"
	"github.com/jwoopark/trailhead/internal/pkg/metrics"
)

// Cache TTLs in seconds, mirroring the Cache-Control headers. Trail
// relations are near-static, places shift with opening hours, weather goes
// stale fastest.
const (
	coursesTTL   = 3600
	placesTTL    = 1200
	weatherTTL   = 600
	elevationTTL = 3600
)

// The caching decorators below keep the core usecases pure: they wrap the
// service interfaces at the presentation boundary and fall through to the
// inner service on any cache error. A cache outage degrades latency, never
// correctness.

// CachedCourses is a read-through cache around a CourseBuilder.
type CachedCourses struct {
	inner CourseBuilder
	cache ports.CacheService
}

// NewCachedCourses wraps inner with a Valkey read-through.
func NewCachedCourses(inner CourseBuilder, cache ports.CacheService) *CachedCourses {
	return &CachedCourses{inner: inner, cache: cache}
}

func (s *CachedCourses) BuildCourses(ctx context.Context, bbox domain.BoundingBox, maxCandidates int) ([]domain.Course, error) {
	key := fmt.Sprintf("courses:%s:%s:%s:%s:%d",
		coord(bbox.South), coord(bbox.West), coord(bbox.North), coord(bbox.East), maxCandidates)

	var cached []domain.Course
	if lookup(ctx, s.cache, key, &cached) {
		return cached, nil
	}

	courses, err := s.inner.BuildCourses(ctx, bbox, maxCandidates)
	if err != nil {
		return nil, err
	}
	store(ctx, s.cache, key, courses, coursesTTL)
	return courses, nil
}

// CachedPlaces is a read-through cache around a PlaceFinder.
type CachedPlaces struct {
	inner PlaceFinder
	cache ports.CacheService
}

// NewCachedPlaces wraps inner with a Valkey read-through.
func NewCachedPlaces(inner PlaceFinder, cache ports.CacheService) *CachedPlaces {
	return &CachedPlaces{inner: inner, cache: cache}
}

func (s *CachedPlaces) PlacesNear(ctx context.Context, lat, lon float64, radiusMeters int) ([]domain.Place, error) {
	key := fmt.Sprintf("places:%s:%s:%d", coord(lat), coord(lon), radiusMeters)

	var cached []domain.Place
	if lookup(ctx, s.cache, key, &cached) {
		return cached, nil
	}

	places, err := s.inner.PlacesNear(ctx, lat, lon, radiusMeters)
	if err != nil {
		return nil, err
	}
	store(ctx, s.cache, key, places, placesTTL)
	return places, nil
}

// CachedElevation is a read-through cache around a Profiler. Terrain does
// not move, so entries are keyed by a digest of the path.
type CachedElevation struct {
	inner Profiler
	cache ports.CacheService
}

// NewCachedElevation wraps inner with a Valkey read-through.
func NewCachedElevation(inner Profiler, cache ports.CacheService) *CachedElevation {
	return &CachedElevation{inner: inner, cache: cache}
}

func (s *CachedElevation) Profile(ctx context.Context, coords []domain.GeoPoint) ([]domain.ElevationPoint, error) {
	raw, err := json.Marshal(coords)
	if err != nil {
		return s.inner.Profile(ctx, coords)
	}
	digest := sha256.Sum256(raw)
	key := "elevation:" + hex.EncodeToString(digest[:16])

	var cached []domain.ElevationPoint
	if lookup(ctx, s.cache, key, &cached) {
		return cached, nil
	}

	profile, err := s.inner.Profile(ctx, coords)
	if err != nil {
		return nil, err
	}
	store(ctx, s.cache, key, profile, elevationTTL)
	return profile, nil
}

// CachedWeather is a read-through cache around a WeatherJudge.
type CachedWeather struct {
	inner WeatherJudge
	cache ports.CacheService
}

// NewCachedWeather wraps inner with a Valkey read-through.
func NewCachedWeather(inner WeatherJudge, cache ports.CacheService) *CachedWeather {
	return &CachedWeather{inner: inner, cache: cache}
}

type cachedWeatherEntry struct {
	Observation *domain.WeatherObservation `json:"observation"`
	Judgment    domain.WeatherJudgment     `json:"judgment"`
}

func (s *CachedWeather) CurrentJudgment(ctx context.Context, lat, lon float64) (*domain.WeatherObservation, domain.WeatherJudgment, error) {
	// Observations barely differ across a few hundred meters, so the key
	// rounds to ~1km cells to raise the hit rate.
	key := fmt.Sprintf("weather:%.2f:%.2f", lat, lon)

	var cached cachedWeatherEntry
	if lookup(ctx, s.cache, key, &cached) && cached.Observation != nil {
		return cached.Observation, cached.Judgment, nil
	}

	obs, judgment, err := s.inner.CurrentJudgment(ctx, lat, lon)
	if err != nil {
		return nil, domain.WeatherJudgment{}, err
	}
	store(ctx, s.cache, key, cachedWeatherEntry{Observation: obs, Judgment: judgment}, weatherTTL)
	return obs, judgment, nil
}

// lookup fetches and decodes a cache entry, reporting a usable hit.
func lookup(ctx context.Context, cache ports.CacheService, key string, out interface{}) bool {
	if cache == nil {
		return false
	}
	raw, err := cache.Get(ctx, key)
	if err != nil || len(raw) == 0 {
		metrics.CacheMisses.WithLabelValues(operation(key)).Inc()
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		slog.Warn("cache entry corrupt", "key", key, "error", err)
		metrics.CacheMisses.WithLabelValues(operation(key)).Inc()
		return false
	}
	metrics.CacheHits.WithLabelValues(operation(key)).Inc()
	return true
}

// store encodes and writes a cache entry, logging but swallowing failures.
func store(ctx context.Context, cache ports.CacheService, key string, value interface{}, ttlSeconds int) {
	if cache == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := cache.Set(ctx, key, raw, ttlSeconds); err != nil {
		slog.Warn("cache write failed", "key", key, "error", err)
	}
}

func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', 5, 64)
}

// operation extracts the key namespace ("courses", "places", "weather") for
// the cache metrics label.
func operation(key string) string {
	for i := 0; i < len(key); i++ {
		if key[i] == ':' {
			return key[:i]
		}
	}
	return key
}
