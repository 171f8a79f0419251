package ports

import (
	"context"

	"github.com/jwoopark/trailhead/internal/core/domain"
)

// TrailSource fetches raw hiking/foot route relations from a map-data
// provider.
type TrailSource interface {
	RelationsInBox(ctx context.Context, bbox domain.BoundingBox) ([]domain.Relation, error)
}

// PlaceSource fetches raw point-of-interest nodes (cafes, bars, pubs) around
// a point.
type PlaceSource interface {
	NodesNear(ctx context.Context, lat, lon float64, radiusMeters int) ([]domain.PlaceNode, error)
}

// ElevationSource returns elevation-augmented geometry for an ordered list
// of vertices, subject to a maximum vertex count.
type ElevationSource interface {
	LineElevations(ctx context.Context, points []domain.GeoPoint) ([]domain.ElevationSample, error)
	MaxVertices() int
}

// WeatherSource returns the current weather observation at a point.
type WeatherSource interface {
	Current(ctx context.Context, lat, lon float64) (*domain.WeatherObservation, error)
}
