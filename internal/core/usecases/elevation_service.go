package usecases

import (
	"context"
	"fmt"
	"math"

	"github.com/jwoopark/trailhead/internal/core/domain"
	"github.com/jwoopark/trailhead/internal/core/ports"
	"github.com/jwoopark/trailhead/internal/pkg/geospatial"
)

// ElevationService derives cumulative-distance elevation profiles for a
// course's coordinates.
type ElevationService struct {
	source ports.ElevationSource
}

// NewElevationService creates a new ElevationService.
func NewElevationService(source ports.ElevationSource) *ElevationService {
	return &ElevationService{source: source}
}

// Profile resamples coords below the provider's vertex ceiling, requests
// elevation along the line, and returns (cumulative km, elevation m) pairs.
// Fewer than two returned samples yield an empty profile, not an error.
// Cumulative distance is computed over the points the provider actually
// returned, not the original input spacing.
func (s *ElevationService) Profile(ctx context.Context, coords []domain.GeoPoint) ([]domain.ElevationPoint, error) {
	if len(coords) < 2 {
		return nil, fmt.Errorf("%w: at least two coordinates required", domain.ErrInvalidInput)
	}

	sampled := downsample(coords, s.source.MaxVertices())
	samples, err := s.source.LineElevations(ctx, sampled)
	if err != nil {
		return nil, fmt.Errorf("fetch line elevations: %w", err)
	}
	if len(samples) < 2 {
		return []domain.ElevationPoint{}, nil
	}

	profile := make([]domain.ElevationPoint, 0, len(samples))
	profile = append(profile, domain.ElevationPoint{DistanceKm: 0, ElevationM: samples[0].ElevationM})

	var distKm float64
	for i := 1; i < len(samples); i++ {
		prev, cur := samples[i-1], samples[i]
		distKm += geospatial.Haversine(prev.Lat, prev.Lon, cur.Lat, cur.Lon) / 1000.0
		profile = append(profile, domain.ElevationPoint{
			DistanceKm: round4(distKm),
			ElevationM: cur.ElevationM,
		})
	}
	return profile, nil
}

// downsample keeps every Nth point with N = ceil(count/maxPoints); the final
// original point is always included even when the stride skips past it.
func downsample(coords []domain.GeoPoint, maxPoints int) []domain.GeoPoint {
	n := len(coords)
	if maxPoints <= 0 || n <= maxPoints {
		return coords
	}

	stride := (n + maxPoints - 1) / maxPoints
	sampled := make([]domain.GeoPoint, 0, n/stride+2)
	for i := 0; i < n; i += stride {
		sampled = append(sampled, coords[i])
	}
	if last := coords[n-1]; sampled[len(sampled)-1] != last {
		sampled = append(sampled, last)
	}
	return sampled
}

// ClimbStats summarizes a profile: min/max elevation and total ascent and
// descent from the positive/negative deltas between consecutive points.
// Derived on demand, never stored on the profile.
type ClimbStats struct {
	MinM     float64 `json:"min_m"`
	MaxM     float64 `json:"max_m"`
	AscentM  float64 `json:"ascent_m"`
	DescentM float64 `json:"descent_m"`
	Points   int     `json:"points"`
}

// ClimbStatsFor computes ClimbStats over a profile. An empty profile yields
// zero stats.
func ClimbStatsFor(profile []domain.ElevationPoint) ClimbStats {
	if len(profile) == 0 {
		return ClimbStats{}
	}

	stats := ClimbStats{
		MinM:   profile[0].ElevationM,
		MaxM:   profile[0].ElevationM,
		Points: len(profile),
	}
	for i, p := range profile {
		stats.MinM = math.Min(stats.MinM, p.ElevationM)
		stats.MaxM = math.Max(stats.MaxM, p.ElevationM)
		if i == 0 {
			continue
		}
		delta := p.ElevationM - profile[i-1].ElevationM
		if delta > 0 {
			stats.AscentM += delta
		} else {
			stats.DescentM -= delta
		}
	}
	stats.AscentM = round1(stats.AscentM)
	stats.DescentM = round1(stats.DescentM)
	return stats
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
