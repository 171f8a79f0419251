package overpass

// Response is the JSON body returned by an Overpass interpreter endpoint.
type Response struct {
	Elements []Element `json:"elements"`
}

// Element is one relation, way, or node in an Overpass response.
type Element struct {
	Type    string            `json:"type"`
	ID      int64             `json:"id"`
	Lat     *float64          `json:"lat,omitempty"`
	Lon     *float64          `json:"lon,omitempty"`
	Tags    map[string]string `json:"tags,omitempty"`
	Members []Member          `json:"members,omitempty"`
}

// Member is a relation member with its resolved geometry (out body geom).
type Member struct {
	Type     string      `json:"type"`
	Ref      int64       `json:"ref"`
	Role     string      `json:"role,omitempty"`
	Geometry []GeomPoint `json:"geometry,omitempty"`
}

// GeomPoint is one vertex of a member geometry. Pointers distinguish a
// missing coordinate from zero.
type GeomPoint struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}
