package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	handler "github.com/jwoopark/trailhead/internal/adapters/http"
	"github.com/jwoopark/trailhead/internal/core/domain"
	"github.com/jwoopark/trailhead/internal/core/usecases"
)

// ---- Mock sources ----

type mockTrailSource struct {
	relationsFn func(ctx context.Context, bbox domain.BoundingBox) ([]domain.Relation, error)
}

func (m *mockTrailSource) RelationsInBox(ctx context.Context, bbox domain.BoundingBox) ([]domain.Relation, error) {
	if m.relationsFn != nil {
		return m.relationsFn(ctx, bbox)
	}
	return nil, nil
}

type mockPlaceSource struct {
	nodesFn func(ctx context.Context, lat, lon float64, radiusMeters int) ([]domain.PlaceNode, error)
}

func (m *mockPlaceSource) NodesNear(ctx context.Context, lat, lon float64, radiusMeters int) ([]domain.PlaceNode, error) {
	if m.nodesFn != nil {
		return m.nodesFn(ctx, lat, lon, radiusMeters)
	}
	return nil, nil
}

type mockElevationSource struct {
	lineFn func(ctx context.Context, points []domain.GeoPoint) ([]domain.ElevationSample, error)
}

func (m *mockElevationSource) LineElevations(ctx context.Context, points []domain.GeoPoint) ([]domain.ElevationSample, error) {
	if m.lineFn != nil {
		return m.lineFn(ctx, points)
	}
	return nil, nil
}

func (m *mockElevationSource) MaxVertices() int { return 1800 }

type mockWeatherSource struct {
	currentFn func(ctx context.Context, lat, lon float64) (*domain.WeatherObservation, error)
}

func (m *mockWeatherSource) Current(ctx context.Context, lat, lon float64) (*domain.WeatherObservation, error) {
	if m.currentFn != nil {
		return m.currentFn(ctx, lat, lon)
	}
	return &domain.WeatherObservation{Temp: 20, FeelsLike: 20, Humidity: 50}, nil
}

// memCache is an in-memory ports.CacheService for decorator tests.
type memCache struct {
	entries map[string][]byte
	sets    int
}

func newMemCache() *memCache { return &memCache{entries: map[string][]byte{}} }

func (c *memCache) Get(ctx context.Context, key string) ([]byte, error) {
	v, ok := c.entries[key]
	if !ok {
		return nil, fmt.Errorf("miss")
	}
	return v, nil
}

func (c *memCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	c.entries[key] = value
	c.sets++
	return nil
}

func (c *memCache) Delete(ctx context.Context, key string) error {
	delete(c.entries, key)
	return nil
}

// ---- Test helpers ----

func setupApp(deps *handler.Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	handler.SetupRoutes(app, deps)
	return app
}

func makeDeps(opts ...func(*handler.Dependencies)) *handler.Dependencies {
	d := &handler.Dependencies{
		Courses:       usecases.NewCourseService(&mockTrailSource{}),
		Places:        usecases.NewPlaceService(&mockPlaceSource{}),
		Elevation:     usecases.NewElevationService(&mockElevationSource{}),
		Weather:       usecases.NewWeatherService(&mockWeatherSource{}),
		MaxCandidates: usecases.DefaultMaxCandidates,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// loopRelation is a named 2km out-and-back relation used across tests.
func loopRelation(name string) domain.Relation {
	pts := []domain.GeoPoint{
		{Lat: 37.500, Lon: 127.000},
		{Lat: 37.509, Lon: 127.000},
		{Lat: 37.518, Lon: 127.000},
	}
	return domain.Relation{
		ID:   1,
		Tags: map[string]string{"name": name, "sac_scale": "hiking"},
		Members: []domain.RelationMember{
			{Points: pts},
		},
	}
}

// ---- Course handler tests ----

func TestCourses_Success(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Courses = usecases.NewCourseService(&mockTrailSource{
			relationsFn: func(ctx context.Context, bbox domain.BoundingBox) ([]domain.Relation, error) {
				return []domain.Relation{loopRelation("Namsan Loop")}, nil
			},
		})
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/courses?lat=37.51&lon=127.0&radius_km=5", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Data       []domain.Course `json:"data"`
		Pagination struct {
			Total int `json:"total"`
		} `json:"pagination"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if result.Pagination.Total != 1 {
		t.Errorf("expected total 1, got %d", result.Pagination.Total)
	}
	if len(result.Data) != 1 || result.Data[0].Name != "Namsan Loop" {
		t.Errorf("unexpected data: %+v", result.Data)
	}
}

func TestCourses_MissingParams(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/courses", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	var apiErr struct {
		Status int    `json:"status"`
		Code   string `json:"code"`
	}
	json.NewDecoder(resp.Body).Decode(&apiErr)
	if apiErr.Code != "bad_request" {
		t.Errorf("expected bad_request error, got %s", apiErr.Code)
	}
}

func TestCourses_BadRadius(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/courses?lat=37.51&lon=127.0&radius_km=50", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCourses_BadDifficulty(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/courses?lat=37.51&lon=127.0&difficulty=extreme", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCourses_DifficultyFilter(t *testing.T) {
	hard := loopRelation("Ridge Scramble")
	hard.ID = 2
	hard.Tags["sac_scale"] = "alpine_hiking"

	deps := makeDeps(func(d *handler.Dependencies) {
		d.Courses = usecases.NewCourseService(&mockTrailSource{
			relationsFn: func(ctx context.Context, bbox domain.BoundingBox) ([]domain.Relation, error) {
				return []domain.Relation{loopRelation("Namsan Loop"), hard}, nil
			},
		})
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/courses?lat=37.51&lon=127.0&difficulty=hard", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Data []domain.Course `json:"data"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if len(result.Data) != 1 || result.Data[0].Name != "Ridge Scramble" {
		t.Errorf("difficulty filter failed: %+v", result.Data)
	}
}

func TestCourses_Pagination(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Courses = usecases.NewCourseService(&mockTrailSource{
			relationsFn: func(ctx context.Context, bbox domain.BoundingBox) ([]domain.Relation, error) {
				rels := make([]domain.Relation, 5)
				for i := range rels {
					rels[i] = loopRelation(fmt.Sprintf("Trail %d", i))
					rels[i].ID = int64(i + 1)
				}
				return rels, nil
			},
		})
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/courses?lat=37.51&lon=127.0&offset=2&limit=2", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Data       []domain.Course `json:"data"`
		Pagination struct {
			Offset int `json:"offset"`
			Limit  int `json:"limit"`
			Total  int `json:"total"`
		} `json:"pagination"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if result.Pagination.Total != 5 {
		t.Errorf("expected total 5, got %d", result.Pagination.Total)
	}
	if len(result.Data) != 2 {
		t.Errorf("expected 2 courses in page, got %d", len(result.Data))
	}
	if result.Pagination.Offset != 2 {
		t.Errorf("expected offset 2, got %d", result.Pagination.Offset)
	}
	if resp.Header.Get("Link") == "" {
		t.Error("expected RFC 8288 Link headers")
	}
}

func TestCourses_UpstreamExhausted(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Courses = usecases.NewCourseService(&mockTrailSource{
			relationsFn: func(ctx context.Context, bbox domain.BoundingBox) ([]domain.Relation, error) {
				return nil, fmt.Errorf("%w: all endpoints exhausted", domain.ErrSourceUnavailable)
			},
		})
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/courses?lat=37.51&lon=127.0", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 502 {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}

	var apiErr struct {
		Code string `json:"code"`
	}
	json.NewDecoder(resp.Body).Decode(&apiErr)
	if apiErr.Code != "upstream_unavailable" {
		t.Errorf("expected upstream_unavailable, got %s", apiErr.Code)
	}
}

// ---- Place handler tests ----

func placeNode(id int64, lat, lon float64, tags map[string]string) domain.PlaceNode {
	return domain.PlaceNode{
		ID:          id,
		Location:    domain.GeoPoint{Lat: lat, Lon: lon},
		HasLocation: true,
		Tags:        tags,
	}
}

func TestPlaces_Success(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Places = usecases.NewPlaceService(&mockPlaceSource{
			nodesFn: func(ctx context.Context, lat, lon float64, radiusMeters int) ([]domain.PlaceNode, error) {
				return []domain.PlaceNode{
					placeNode(1, 37.5101, 127.0001, map[string]string{"amenity": "cafe", "name": "Drip Stop"}),
					placeNode(2, 37.5102, 127.0002, map[string]string{"amenity": "pub", "name": "The Keg"}),
				}, nil
			},
		})
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/places?lat=37.51&lon=127.0&radius=800", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var places []domain.Place
	json.NewDecoder(resp.Body).Decode(&places)
	if len(places) != 2 {
		t.Errorf("expected 2 places, got %d", len(places))
	}
}

func TestPlaces_CategoryFilter(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Places = usecases.NewPlaceService(&mockPlaceSource{
			nodesFn: func(ctx context.Context, lat, lon float64, radiusMeters int) ([]domain.PlaceNode, error) {
				return []domain.PlaceNode{
					placeNode(1, 37.5101, 127.0001, map[string]string{"amenity": "cafe", "name": "Drip Stop"}),
					placeNode(2, 37.5102, 127.0002, map[string]string{"amenity": "pub", "name": "The Keg"}),
				}, nil
			},
		})
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/places?lat=37.51&lon=127.0&category=coffee", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var places []domain.Place
	json.NewDecoder(resp.Body).Decode(&places)
	if len(places) != 1 || places[0].Category != domain.CategoryCoffee {
		t.Errorf("category filter failed: %+v", places)
	}
}

func TestPlaces_BadCategory(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/places?lat=37.51&lon=127.0&category=tea", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestPlaces_EmptyResultIsArray(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/places?lat=37.51&lon=127.0", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var raw json.RawMessage
	json.NewDecoder(resp.Body).Decode(&raw)
	if string(raw) != "[]" {
		t.Errorf("expected empty JSON array, got %s", raw)
	}
}

// ---- Elevation handler tests ----

func TestElevationProfile_Success(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Elevation = usecases.NewElevationService(&mockElevationSource{
			lineFn: func(ctx context.Context, points []domain.GeoPoint) ([]domain.ElevationSample, error) {
				samples := make([]domain.ElevationSample, len(points))
				for i, p := range points {
					samples[i] = domain.ElevationSample{Lat: p.Lat, Lon: p.Lon, ElevationM: 100 + float64(i)*10}
				}
				return samples, nil
			},
		})
	})
	app := setupApp(deps)

	body := `{"coords":[{"lat":37.50,"lon":127.00},{"lat":37.509,"lon":127.00},{"lat":37.518,"lon":127.00}]}`
	req := httptest.NewRequest("POST", "/v1/elevation/profile", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Profile []domain.ElevationPoint `json:"profile"`
		Stats   struct {
			AscentM float64 `json:"ascent_m"`
			Points  int     `json:"points"`
		} `json:"stats"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if len(result.Profile) != 3 {
		t.Fatalf("expected 3 profile points, got %d", len(result.Profile))
	}
	if result.Profile[0].DistanceKm != 0 {
		t.Errorf("profile must start at 0 km, got %v", result.Profile[0].DistanceKm)
	}
	if result.Stats.AscentM != 20 || result.Stats.Points != 3 {
		t.Errorf("unexpected stats: %+v", result.Stats)
	}
}

func TestElevationProfile_TooFewCoords(t *testing.T) {
	app := setupApp(makeDeps())

	body := `{"coords":[{"lat":37.50,"lon":127.00}]}`
	req := httptest.NewRequest("POST", "/v1/elevation/profile", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestElevationProfile_BadBody(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("POST", "/v1/elevation/profile", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

// ---- Weather handler tests ----

func TestWeather_Success(t *testing.T) {
	rain := 0.4
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Weather = usecases.NewWeatherService(&mockWeatherSource{
			currentFn: func(ctx context.Context, lat, lon float64) (*domain.WeatherObservation, error) {
				return &domain.WeatherObservation{
					Temp: 18, FeelsLike: 18, Humidity: 60, WindSpeed: 3,
					Rain1h: &rain, Description: "light rain",
				}, nil
			},
		})
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/weather?lat=37.51&lon=127.0", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Observation domain.WeatherObservation `json:"observation"`
		Judgment    domain.WeatherJudgment    `json:"judgment"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if result.Observation.Temp != 18 {
		t.Errorf("observation temp = %v", result.Observation.Temp)
	}
	if result.Judgment.Level == "" || result.Judgment.PrecipMMH != 0.4 {
		t.Errorf("unexpected judgment: %+v", result.Judgment)
	}
}

func TestWeather_MissingParams(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/weather", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

// ---- Health tests ----

func TestHealth(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/health", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestReady_NoCacheConfigured(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/ready", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200 when cache is optional, got %d", resp.StatusCode)
	}
}

// ---- GraphQL tests ----

func TestGraphQL_Courses(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Courses = usecases.NewCourseService(&mockTrailSource{
			relationsFn: func(ctx context.Context, bbox domain.BoundingBox) ([]domain.Relation, error) {
				return []domain.Relation{loopRelation("Namsan Loop")}, nil
			},
		})
	})
	app := setupApp(deps)

	body := `{"query":"{ courses(lat: 37.51, lon: 127.0) { name distance_km difficulty } }"}`
	req := httptest.NewRequest("POST", "/graphql", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Data struct {
			Courses []struct {
				Name string `json:"name"`
			} `json:"courses"`
		} `json:"data"`
		Errors []interface{} `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if len(result.Errors) > 0 {
		t.Fatalf("graphql errors: %v", result.Errors)
	}
	if len(result.Data.Courses) != 1 || result.Data.Courses[0].Name != "Namsan Loop" {
		t.Errorf("unexpected graphql data: %+v", result.Data)
	}
}

func TestGraphQL_Outdoor(t *testing.T) {
	app := setupApp(makeDeps())

	body := `{"query":"{ outdoor(lat: 37.51, lon: 127.0) { level score } }"}`
	req := httptest.NewRequest("POST", "/graphql", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Data struct {
			Outdoor struct {
				Level string `json:"level"`
				Score int    `json:"score"`
			} `json:"outdoor"`
		} `json:"data"`
		Errors []interface{} `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if len(result.Errors) > 0 {
		t.Fatalf("graphql errors: %v", result.Errors)
	}
	if result.Data.Outdoor.Level != domain.LevelGood || result.Data.Outdoor.Score != 100 {
		t.Errorf("unexpected outdoor judgment: %+v", result.Data.Outdoor)
	}
}

// ---- Cache decorator tests ----

func TestCachedCourses_ReadThrough(t *testing.T) {
	calls := 0
	inner := usecases.NewCourseService(&mockTrailSource{
		relationsFn: func(ctx context.Context, bbox domain.BoundingBox) ([]domain.Relation, error) {
			calls++
			return []domain.Relation{loopRelation("Namsan Loop")}, nil
		},
	})
	cache := newMemCache()
	cached := handler.NewCachedCourses(inner, cache)

	bbox := domain.BoundingBox{South: 37.4, West: 126.9, North: 37.6, East: 127.1}
	first, err := cached.BuildCourses(context.Background(), bbox, 50)
	if err != nil {
		t.Fatal(err)
	}
	second, err := cached.BuildCourses(context.Background(), bbox, 50)
	if err != nil {
		t.Fatal(err)
	}

	if calls != 1 {
		t.Errorf("inner service called %d times, want 1", calls)
	}
	if cache.sets != 1 {
		t.Errorf("cache written %d times, want 1", cache.sets)
	}
	if len(first) != 1 || len(second) != 1 || first[0].CourseID != second[0].CourseID {
		t.Errorf("cached result differs: %+v vs %+v", first, second)
	}
}

func TestCachedCourses_DifferentBoxesMiss(t *testing.T) {
	calls := 0
	inner := usecases.NewCourseService(&mockTrailSource{
		relationsFn: func(ctx context.Context, bbox domain.BoundingBox) ([]domain.Relation, error) {
			calls++
			return nil, nil
		},
	})
	cached := handler.NewCachedCourses(inner, newMemCache())

	_, _ = cached.BuildCourses(context.Background(), domain.BoundingBox{South: 37.4, West: 126.9, North: 37.6, East: 127.1}, 50)
	_, _ = cached.BuildCourses(context.Background(), domain.BoundingBox{South: 38.4, West: 126.9, North: 38.6, East: 127.1}, 50)

	if calls != 2 {
		t.Errorf("inner service called %d times, want 2 (distinct keys)", calls)
	}
}

func TestCachedWeather_ReadThrough(t *testing.T) {
	calls := 0
	inner := usecases.NewWeatherService(&mockWeatherSource{
		currentFn: func(ctx context.Context, lat, lon float64) (*domain.WeatherObservation, error) {
			calls++
			return &domain.WeatherObservation{Temp: 20, FeelsLike: 20, Humidity: 50}, nil
		},
	})
	cached := handler.NewCachedWeather(inner, newMemCache())

	_, first, err := cached.CurrentJudgment(context.Background(), 37.51, 127.0)
	if err != nil {
		t.Fatal(err)
	}
	// 37.512 rounds into the same ~1km cell as 37.51
	_, second, err := cached.CurrentJudgment(context.Background(), 37.512, 127.001)
	if err != nil {
		t.Fatal(err)
	}

	if calls != 1 {
		t.Errorf("inner service called %d times, want 1", calls)
	}
	if first.Score != second.Score || first.Level != second.Level {
		t.Errorf("cached judgment differs: %+v vs %+v", first, second)
	}
}

func TestCachedElevation_ErrorNotCached(t *testing.T) {
	calls := 0
	inner := usecases.NewElevationService(&mockElevationSource{
		lineFn: func(ctx context.Context, points []domain.GeoPoint) ([]domain.ElevationSample, error) {
			calls++
			return nil, fmt.Errorf("%w: elevation down", domain.ErrSourceUnavailable)
		},
	})
	cached := handler.NewCachedElevation(inner, newMemCache())

	coords := []domain.GeoPoint{{Lat: 37.50, Lon: 127.00}, {Lat: 37.51, Lon: 127.00}}
	if _, err := cached.Profile(context.Background(), coords); err == nil {
		t.Fatal("expected error")
	}
	if _, err := cached.Profile(context.Background(), coords); err == nil {
		t.Fatal("expected error")
	}
	if calls != 2 {
		t.Errorf("failures must not be cached, inner called %d times", calls)
	}
}
