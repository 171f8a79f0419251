package geospatial

import (
	"math"

	"github.com/jwoopark/trailhead/internal/core/domain"
)

const (
	earthRadiusM = 6371000.0
	// Rough degrees-per-kilometre at mid latitudes.
	kmPerDegree = 111.0
)

// Haversine calculates the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusM * math.Asin(math.Sqrt(a))
}

// BBoxFromCenter returns the bounding box around a center point with the
// given radius in kilometres, using the 1° ≈ 111 km approximation on both
// axes.
func BBoxFromCenter(lat, lon, radiusKm float64) domain.BoundingBox {
	d := radiusKm / kmPerDegree
	return domain.BoundingBox{
		South: lat - d,
		West:  lon - d,
		North: lat + d,
		East:  lon + d,
	}
}

// PolylineLengthKm sums the haversine distances between consecutive points.
// Fewer than two points yield zero.
func PolylineLengthKm(points []domain.GeoPoint) float64 {
	if len(points) < 2 {
		return 0
	}
	var meters float64
	for i := 1; i < len(points); i++ {
		meters += Haversine(points[i-1].Lat, points[i-1].Lon, points[i].Lat, points[i].Lon)
	}
	return meters / 1000.0
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
