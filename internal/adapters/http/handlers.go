package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jwoopark/trailhead/internal/core/domain"
	"github.com/jwoopark/trailhead/internal/core/usecases"
	"github.com/jwoopark/trailhead/internal/pkg/geospatial"
)

const (
	defaultRadiusKm     = 5.0
	maxRadiusKm         = 20.0
	defaultPlaceRadiusM = 800
	maxPlaceRadiusM     = 5000
)

func validCoord(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// CoursesHandler discovers trekking courses around a point.
func CoursesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Query("lat") == "" || c.Query("lon") == "" {
			return errBadRequest(c, "lat and lon are required")
		}
		lat := c.QueryFloat("lat", 0)
		lon := c.QueryFloat("lon", 0)
		if !validCoord(lat, lon) {
			return errBadRequest(c, "lat must be in [-90,90] and lon in [-180,180]")
		}

		radiusKm := c.QueryFloat("radius_km", defaultRadiusKm)
		if radiusKm <= 0 || radiusKm > maxRadiusKm {
			return errBadRequest(c, "radius_km must be between 0 and 20")
		}

		difficulty := c.Query("difficulty")
		switch difficulty {
		case "", domain.DifficultyEasy, domain.DifficultyModerate, domain.DifficultyHard:
		default:
			return errBadRequest(c, "difficulty must be easy, moderate, or hard")
		}

		maxCandidates := c.QueryInt("max_candidates", deps.MaxCandidates)
		if maxCandidates <= 0 || maxCandidates > 200 {
			maxCandidates = deps.MaxCandidates
		}

		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 20)
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 || limit > 100 {
			limit = 20
		}

		bbox := geospatial.BBoxFromCenter(lat, lon, radiusKm)
		courses, err := deps.Courses.BuildCourses(c.UserContext(), bbox, maxCandidates)
		if err != nil {
			return serviceError(c, err)
		}

		if difficulty != "" {
			filtered := courses[:0]
			for _, course := range courses {
				if course.Difficulty == difficulty {
					filtered = append(filtered, course)
				}
			}
			courses = filtered
		}

		page, pg := paginate(courses, offset, limit)
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: page, Pagination: pg})
	}
}

// PlacesHandler ranks cafes and drinking spots near a point.
func PlacesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Query("lat") == "" || c.Query("lon") == "" {
			return errBadRequest(c, "lat and lon are required")
		}
		lat := c.QueryFloat("lat", 0)
		lon := c.QueryFloat("lon", 0)
		if !validCoord(lat, lon) {
			return errBadRequest(c, "lat must be in [-90,90] and lon in [-180,180]")
		}

		radius := c.QueryInt("radius", defaultPlaceRadiusM)
		if radius <= 0 || radius > maxPlaceRadiusM {
			return errBadRequest(c, "radius must be between 1 and 5000 meters")
		}

		category := c.Query("category")
		switch category {
		case "", domain.CategoryCoffee, domain.CategoryAlcohol:
		default:
			return errBadRequest(c, "category must be coffee or alcohol")
		}

		places, err := deps.Places.PlacesNear(c.UserContext(), lat, lon, radius)
		if err != nil {
			return serviceError(c, err)
		}

		if category != "" {
			filtered := places[:0]
			for _, p := range places {
				if p.Category == category {
					filtered = append(filtered, p)
				}
			}
			places = filtered
		}

		if places == nil {
			places = []domain.Place{}
		}
		return c.JSON(places)
	}
}

type profileRequest struct {
	Coords []domain.GeoPoint `json:"coords"`
}

type profileResponse struct {
	Profile []domain.ElevationPoint `json:"profile"`
	Stats   usecases.ClimbStats     `json:"stats"`
}

// ElevationProfileHandler builds an elevation profile for a submitted path.
func ElevationProfileHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req profileRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if len(req.Coords) < 2 {
			return errBadRequest(c, "coords must contain at least 2 points")
		}
		if len(req.Coords) > 10000 {
			return errBadRequest(c, "coords too long (max 10000 points)")
		}
		for _, p := range req.Coords {
			if !validCoord(p.Lat, p.Lon) {
				return errBadRequest(c, "coords contain an out-of-range point")
			}
		}

		profile, err := deps.Elevation.Profile(c.UserContext(), req.Coords)
		if err != nil {
			return serviceError(c, err)
		}

		return c.JSON(profileResponse{
			Profile: profile,
			Stats:   usecases.ClimbStatsFor(profile),
		})
	}
}

type weatherResponse struct {
	Observation *domain.WeatherObservation `json:"observation"`
	Judgment    domain.WeatherJudgment     `json:"judgment"`
}

// WeatherHandler reports current conditions and outdoor suitability.
func WeatherHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Query("lat") == "" || c.Query("lon") == "" {
			return errBadRequest(c, "lat and lon are required")
		}
		lat := c.QueryFloat("lat", 0)
		lon := c.QueryFloat("lon", 0)
		if !validCoord(lat, lon) {
			return errBadRequest(c, "lat must be in [-90,90] and lon in [-180,180]")
		}

		obs, judgment, err := deps.Weather.CurrentJudgment(c.UserContext(), lat, lon)
		if err != nil {
			return serviceError(c, err)
		}

		return c.JSON(weatherResponse{Observation: obs, Judgment: judgment})
	}
}
