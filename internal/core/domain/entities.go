package domain

// Relation is a raw OpenStreetMap route relation: a tag mapping plus an
// ordered list of member geometry fragments.
type Relation struct {
	ID      int64             `json:"id"`
	Tags    map[string]string `json:"tags,omitempty"`
	Members []RelationMember  `json:"members,omitempty"`
}

// RelationMember is one geometry fragment contributing to a relation.
// Points may be empty or degenerate; the assembler decides what counts.
type RelationMember struct {
	Role   string     `json:"role,omitempty"`
	Points []GeoPoint `json:"points,omitempty"`
}

// Name returns the relation's name tag, or "" when untagged.
func (r Relation) Name() string {
	return r.Tags["name"]
}

// Difficulty levels for a course.
const (
	DifficultyEasy     = "easy"
	DifficultyModerate = "moderate"
	DifficultyHard     = "hard"
)

// Course is a deduplicated, scored trekking course candidate assembled from
// a route relation.
type Course struct {
	CourseID   string     `json:"course_id"`
	Name       string     `json:"name"`
	DistanceKm float64    `json:"distance_km"`
	Difficulty string     `json:"difficulty"`
	Score      float64    `json:"score"`
	Coords     []GeoPoint `json:"coords"`
	Start      GeoPoint   `json:"start"`
	End        GeoPoint   `json:"end"`
	Members    int        `json:"members"`
}

// Place categories.
const (
	CategoryCoffee  = "coffee"
	CategoryAlcohol = "alcohol"
)

// PlaceNode is a raw point-of-interest node as returned by the map-data
// source: coordinates (when present) plus its tag mapping.
type PlaceNode struct {
	ID          int64             `json:"id"`
	Location    GeoPoint          `json:"location"`
	HasLocation bool              `json:"has_location"`
	Tags        map[string]string `json:"tags,omitempty"`
}

// Place is a ranked point of interest near a course endpoint.
type Place struct {
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	Location      GeoPoint `json:"location"`
	DistanceM     int      `json:"distance_m"`
	QualityScore  int      `json:"quality_score"`
	CombinedScore float64  `json:"combined_score"`
	OpeningHours  string   `json:"opening_hours,omitempty"`
	Website       string   `json:"website,omitempty"`
}

// ElevationSample is one elevation-augmented vertex returned by the
// elevation provider.
type ElevationSample struct {
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	ElevationM float64 `json:"elevation_m"`
}

// ElevationPoint is one entry of a course's elevation profile.
type ElevationPoint struct {
	DistanceKm float64 `json:"dist_km"`
	ElevationM float64 `json:"elev_m"`
}

// WeatherObservation is a current-conditions reading from the weather
// provider. Precipitation fields are nil when the provider omitted them.
type WeatherObservation struct {
	Temp        float64  `json:"temp"`
	FeelsLike   float64  `json:"feels_like"`
	Humidity    float64  `json:"humidity"`
	WindSpeed   float64  `json:"wind_speed"` // m/s
	Rain1h      *float64 `json:"rain_1h,omitempty"`
	Rain3h      *float64 `json:"rain_3h,omitempty"`
	Snow1h      *float64 `json:"snow_1h,omitempty"`
	Snow3h      *float64 `json:"snow_3h,omitempty"`
	Description string   `json:"description,omitempty"`
}

// Outdoor suitability levels.
const (
	LevelGood    = "good"
	LevelCaution = "caution"
	LevelBad     = "bad"
)

// WeatherJudgment is the outdoor-suitability verdict for an observation.
type WeatherJudgment struct {
	Level     string   `json:"level"`
	Score     int      `json:"score"` // 0-100
	PrecipMMH float64  `json:"precip_mm_h"`
	Reasons   []string `json:"reasons"`
}
