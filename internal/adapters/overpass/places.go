package overpass

import (
	"context"
	"fmt"

	"github.com/jwoopark/trailhead/internal/core/domain"
)

// Places implements ports.PlaceSource over the Overpass interpreter pool.
type Places struct {
	client *Client
}

// NewPlaces creates a place source backed by client.
func NewPlaces(client *Client) *Places {
	return &Places{client: client}
}

// NodesNear fetches cafe, bar, and pub nodes within radiusMeters of a point.
func (p *Places) NodesNear(ctx context.Context, lat, lon float64, radiusMeters int) ([]domain.PlaceNode, error) {
	ql := placesQuery(lat, lon, radiusMeters)
	resp, err := p.client.Query(ctx, "places", ql)
	if err != nil {
		return nil, err
	}

	var nodes []domain.PlaceNode
	for _, el := range resp.Elements {
		if el.Type != "node" {
			continue
		}
		node := domain.PlaceNode{ID: el.ID, Tags: el.Tags}
		if el.Lat != nil && el.Lon != nil {
			node.Location = domain.GeoPoint{Lat: *el.Lat, Lon: *el.Lon}
			node.HasLocation = true
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// placesQuery builds the Overpass QL for amenity nodes around a point.
func placesQuery(lat, lon float64, radiusMeters int) string {
	return fmt.Sprintf(`[out:json][timeout:45];
(
  node(around:%[1]d,%[2]f,%[3]f)[amenity=cafe];
  node(around:%[1]d,%[2]f,%[3]f)[amenity=bar];
  node(around:%[1]d,%[2]f,%[3]f)[amenity=pub];
);
out body;`, radiusMeters, lat, lon)
}
