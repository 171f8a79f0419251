package usecases

import (
	"context"
	"fmt"
	"sort"

	"github.com/jwoopark/trailhead/internal/core/domain"
	"github.com/jwoopark/trailhead/internal/core/ports"
	"github.com/jwoopark/trailhead/internal/pkg/geospatial"
)

// Combined-score weights: proximity dominates, metadata quality breaks ties.
const (
	proximityWeight = 0.6
	qualityWeight   = 0.4
	maxQuality      = 5
)

// PlaceService ranks points of interest near a point by a composite of
// proximity and metadata quality.
type PlaceService struct {
	places ports.PlaceSource
}

// NewPlaceService creates a new PlaceService.
func NewPlaceService(places ports.PlaceSource) *PlaceService {
	return &PlaceService{places: places}
}

// PlacesNear returns cafes, bars, and pubs within radiusMeters of the given
// point, sorted by combined score descending. Nodes missing a name or
// coordinates are excluded, not errors.
func (s *PlaceService) PlacesNear(ctx context.Context, lat, lon float64, radiusMeters int) ([]domain.Place, error) {
	nodes, err := s.places.NodesNear(ctx, lat, lon, radiusMeters)
	if err != nil {
		return nil, fmt.Errorf("fetch place nodes: %w", err)
	}

	places := make([]domain.Place, 0, len(nodes))
	for _, node := range nodes {
		p, ok := placeFromNode(node, lat, lon, radiusMeters)
		if !ok {
			continue
		}
		places = append(places, p)
	}

	sort.SliceStable(places, func(i, j int) bool {
		return places[i].CombinedScore > places[j].CombinedScore
	})
	return places, nil
}

// placeFromNode validates and scores a single node. ok is false when the
// node lacks a name or coordinates.
func placeFromNode(node domain.PlaceNode, originLat, originLon float64, radiusMeters int) (domain.Place, bool) {
	name := node.Tags["name"]
	if name == "" || !node.HasLocation {
		return domain.Place{}, false
	}

	category := domain.CategoryAlcohol
	if node.Tags["amenity"] == "cafe" {
		category = domain.CategoryCoffee
	}

	distM := int(geospatial.Haversine(originLat, originLon, node.Location.Lat, node.Location.Lon))
	quality := qualityScore(node.Tags)

	// A place exactly at the radius boundary scores zero on the distance
	// term; the radius is the query's hard cutoff, not re-enforced here.
	denom := radiusMeters
	if denom < 1 {
		denom = 1
	}
	distScore := 1 - float64(distM)/float64(denom)
	combined := round3(proximityWeight*distScore + qualityWeight*float64(quality)/maxQuality)

	website := node.Tags["website"]
	if website == "" {
		website = node.Tags["contact:website"]
	}

	return domain.Place{
		Name:          name,
		Category:      category,
		Location:      node.Location,
		DistanceM:     distM,
		QualityScore:  quality,
		CombinedScore: combined,
		OpeningHours:  node.Tags["opening_hours"],
		Website:       website,
	}, true
}

// qualityScore grades metadata completeness: opening hours and a website
// weigh two points each, an address one, capped at five.
func qualityScore(tags map[string]string) int {
	q := 0
	if tags["opening_hours"] != "" {
		q += 2
	}
	if tags["website"] != "" || tags["contact:website"] != "" {
		q += 2
	}
	if tags["addr:street"] != "" || tags["addr:full"] != "" {
		q += 1
	}
	if q > maxQuality {
		q = maxQuality
	}
	return q
}
