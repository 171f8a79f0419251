package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/jwoopark/trailhead/internal/core/domain"
	"github.com/jwoopark/trailhead/internal/pkg/geospatial"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	courseType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Course",
		Fields: graphql.Fields{
			"course_id":   &graphql.Field{Type: graphql.String},
			"name":        &graphql.Field{Type: graphql.String},
			"distance_km": &graphql.Field{Type: graphql.Float},
			"difficulty":  &graphql.Field{Type: graphql.String},
			"score":       &graphql.Field{Type: graphql.Float},
			"members":     &graphql.Field{Type: graphql.Int},
			"start":       &graphql.Field{Type: geoPointType},
			"end":         &graphql.Field{Type: geoPointType},
		},
	})

	placeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Place",
		Fields: graphql.Fields{
			"name":           &graphql.Field{Type: graphql.String},
			"category":       &graphql.Field{Type: graphql.String},
			"location":       &graphql.Field{Type: geoPointType},
			"distance_m":     &graphql.Field{Type: graphql.Int},
			"quality_score":  &graphql.Field{Type: graphql.Int},
			"combined_score": &graphql.Field{Type: graphql.Float},
			"opening_hours":  &graphql.Field{Type: graphql.String},
			"website":        &graphql.Field{Type: graphql.String},
		},
	})

	judgmentType := graphql.NewObject(graphql.ObjectConfig{
		Name: "OutdoorJudgment",
		Fields: graphql.Fields{
			"level":       &graphql.Field{Type: graphql.String},
			"score":       &graphql.Field{Type: graphql.Int},
			"precip_mm_h": &graphql.Field{Type: graphql.Float},
			"reasons":     &graphql.Field{Type: graphql.NewList(graphql.String)},
			"temp":        &graphql.Field{Type: graphql.Float},
			"feels_like":  &graphql.Field{Type: graphql.Float},
			"wind_speed":  &graphql.Field{Type: graphql.Float},
			"humidity":    &graphql.Field{Type: graphql.Float},
			"description": &graphql.Field{Type: graphql.String},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"courses": &graphql.Field{
				Type:        graphql.NewList(courseType),
				Description: "Trekking courses around a point, best first",
				Args: graphql.FieldConfigArgument{
					"lat":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius_km": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 5.0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					lat := p.Args["lat"].(float64)
					lon := p.Args["lon"].(float64)
					radiusKm := p.Args["radius_km"].(float64)
					bbox := geospatial.BBoxFromCenter(lat, lon, radiusKm)
					return deps.Courses.BuildCourses(p.Context, bbox, deps.MaxCandidates)
				},
			},
			"placesNear": &graphql.Field{
				Type:        graphql.NewList(placeType),
				Description: "Ranked cafes and drinking spots near a point",
				Args: graphql.FieldConfigArgument{
					"lat":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: defaultPlaceRadiusM},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					lat := p.Args["lat"].(float64)
					lon := p.Args["lon"].(float64)
					radius := p.Args["radius"].(int)
					return deps.Places.PlacesNear(p.Context, lat, lon, radius)
				},
			},
			"outdoor": &graphql.Field{
				Type:        judgmentType,
				Description: "Current weather with an outdoor suitability judgment",
				Args: graphql.FieldConfigArgument{
					"lat": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					lat := p.Args["lat"].(float64)
					lon := p.Args["lon"].(float64)
					obs, judgment, err := deps.Weather.CurrentJudgment(p.Context, lat, lon)
					if err != nil {
						return nil, err
					}
					// Flatten observation and judgment for a single object
					return map[string]interface{}{
						"level":       judgment.Level,
						"score":       judgment.Score,
						"precip_mm_h": judgment.PrecipMMH,
						"reasons":     judgment.Reasons,
						"temp":        obs.Temp,
						"feels_like":  obs.FeelsLike,
						"wind_speed":  obs.WindSpeed,
						"humidity":    obs.Humidity,
						"description": obs.Description,
					}, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}

// Ensure domain types resolve for graphql-go via struct tags
var _ = domain.Course{}
var _ = domain.Place{}
