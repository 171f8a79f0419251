package overpass

import (
	"context"
	"fmt"

	"github.com/jwoopark/trailhead/internal/core/domain"
)

// Trails implements ports.TrailSource over the Overpass interpreter pool.
type Trails struct {
	client *Client
}

// NewTrails creates a trail source backed by client.
func NewTrails(client *Client) *Trails {
	return &Trails{client: client}
}

// RelationsInBox fetches hiking and foot route relations with resolved
// member geometry inside bbox.
func (t *Trails) RelationsInBox(ctx context.Context, bbox domain.BoundingBox) ([]domain.Relation, error) {
	ql := trailsQuery(bbox)
	resp, err := t.client.Query(ctx, "trails", ql)
	if err != nil {
		return nil, err
	}

	var rels []domain.Relation
	for _, el := range resp.Elements {
		if el.Type != "relation" {
			continue
		}
		rels = append(rels, relationFromElement(el))
	}
	return rels, nil
}

// trailsQuery builds the Overpass QL for route relations in a bounding box.
// "out body geom" resolves each member's geometry inline.
func trailsQuery(bbox domain.BoundingBox) string {
	return fmt.Sprintf(`[out:json][timeout:60];
(
  relation["route"="hiking"](%[1]f,%[2]f,%[3]f,%[4]f);
  relation["route"="foot"](%[1]f,%[2]f,%[3]f,%[4]f);
);
out body geom;`, bbox.South, bbox.West, bbox.North, bbox.East)
}

// relationFromElement converts a wire relation into the domain shape. All
// members are carried over, keeping the raw member count; vertices missing a
// coordinate are dropped as malformed.
func relationFromElement(el Element) domain.Relation {
	rel := domain.Relation{
		ID:   el.ID,
		Tags: el.Tags,
	}
	for _, m := range el.Members {
		member := domain.RelationMember{Role: m.Role}
		for _, p := range m.Geometry {
			if p.Lat == nil || p.Lon == nil {
				continue
			}
			member.Points = append(member.Points, domain.GeoPoint{Lat: *p.Lat, Lon: *p.Lon})
		}
		rel.Members = append(rel.Members, member)
	}
	return rel
}
