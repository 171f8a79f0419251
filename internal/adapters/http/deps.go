package http

import (
	"context"

	"github.com/jwoopark/trailhead/internal/core/domain"
	"github.com/jwoopark/trailhead/internal/core/ports"
	"github.com/jwoopark/trailhead/internal/core/usecases"
)

// CourseBuilder is the course discovery surface handlers call. Satisfied by
// usecases.CourseService and by the caching decorator around it.
type CourseBuilder interface {
	BuildCourses(ctx context.Context, bbox domain.BoundingBox, maxCandidates int) ([]domain.Course, error)
}

// PlaceFinder ranks points of interest around a location.
type PlaceFinder interface {
	PlacesNear(ctx context.Context, lat, lon float64, radiusMeters int) ([]domain.Place, error)
}

// Profiler builds elevation profiles along a path.
type Profiler interface {
	Profile(ctx context.Context, coords []domain.GeoPoint) ([]domain.ElevationPoint, error)
}

// WeatherJudge reads current conditions and scores outdoor suitability.
type WeatherJudge interface {
	CurrentJudgment(ctx context.Context, lat, lon float64) (*domain.WeatherObservation, domain.WeatherJudgment, error)
}

// Dependencies holds all services needed by HTTP handlers. Caching wraps
// the services here, never inside the core.
type Dependencies struct {
	Courses   CourseBuilder
	Places    PlaceFinder
	Elevation Profiler
	Weather   WeatherJudge
	Cache     ports.CacheService
	Pinger    Pinger

	// MaxCandidates bounds course discovery when the request does not
	// narrow it further.
	MaxCandidates int
}

// Pinger is the connectivity probe the readiness check uses.
type Pinger interface {
	Ping(ctx context.Context) error
}

var (
	_ CourseBuilder = (*usecases.CourseService)(nil)
	_ PlaceFinder   = (*usecases.PlaceService)(nil)
	_ Profiler      = (*usecases.ElevationService)(nil)
	_ WeatherJudge  = (*usecases.WeatherService)(nil)
)
