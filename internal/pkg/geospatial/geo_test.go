package geospatial

import (
	"math"
	"testing"

	"github.com/jwoopark/trailhead/internal/core/domain"
)

func TestBBoxFromCenter(t *testing.T) {
	cases := []struct {
		name     string
		lat, lon float64
		radiusKm float64
	}{
		{"seoul", 37.5665, 126.9780, 12.0},
		{"equator", 0, 0, 5.0},
		{"small radius", 43.26, -2.93, 0.5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bbox := BBoxFromCenter(tc.lat, tc.lon, tc.radiusKm)

			if bbox.South >= bbox.North {
				t.Errorf("south %f must be < north %f", bbox.South, bbox.North)
			}
			if bbox.West >= bbox.East {
				t.Errorf("west %f must be < east %f", bbox.West, bbox.East)
			}

			wantSpan := 2 * tc.radiusKm / 111.0
			if got := bbox.North - bbox.South; math.Abs(got-wantSpan) > 1e-9 {
				t.Errorf("lat span = %f, want %f", got, wantSpan)
			}
			if got := bbox.East - bbox.West; math.Abs(got-wantSpan) > 1e-9 {
				t.Errorf("lon span = %f, want %f", got, wantSpan)
			}
		})
	}
}

func TestHaversineIdentity(t *testing.T) {
	pts := []domain.GeoPoint{
		{Lat: 0, Lon: 0},
		{Lat: 37.5665, Lon: 126.9780},
		{Lat: -45.1, Lon: 170.2},
	}
	for _, p := range pts {
		if d := Haversine(p.Lat, p.Lon, p.Lat, p.Lon); d != 0 {
			t.Errorf("Haversine(p, p) = %f, want 0", d)
		}
	}
}

func TestHaversineSymmetry(t *testing.T) {
	a := domain.GeoPoint{Lat: 37.5665, Lon: 126.9780}
	b := domain.GeoPoint{Lat: 37.4840, Lon: 127.0350}

	ab := Haversine(a.Lat, a.Lon, b.Lat, b.Lon)
	ba := Haversine(b.Lat, b.Lon, a.Lat, a.Lon)
	if math.Abs(ab-ba) > 1e-9 {
		t.Errorf("asymmetric: ab=%f ba=%f", ab, ba)
	}
	if ab <= 0 {
		t.Errorf("distance between distinct points must be positive, got %f", ab)
	}
}

func TestHaversineKnownDistance(t *testing.T) {
	// 0.009° of latitude is very close to 1 km.
	d := Haversine(37.5, 127.0, 37.509, 127.0)
	if math.Abs(d-1000.75) > 0.5 {
		t.Errorf("got %f m, want ~1000.75 m", d)
	}
}

func TestPolylineLengthKm(t *testing.T) {
	if got := PolylineLengthKm(nil); got != 0 {
		t.Errorf("empty polyline length = %f, want 0", got)
	}
	if got := PolylineLengthKm([]domain.GeoPoint{{Lat: 37.5, Lon: 127.0}}); got != 0 {
		t.Errorf("single point length = %f, want 0", got)
	}

	line := []domain.GeoPoint{
		{Lat: 37.5, Lon: 127.0},
		{Lat: 37.509, Lon: 127.0},
		{Lat: 37.518, Lon: 127.0},
	}
	got := PolylineLengthKm(line)
	if math.Abs(got-2.0015) > 0.001 {
		t.Errorf("length = %f km, want ~2.0015 km", got)
	}
}
