package geocode

import (
	"context"
	"fmt"

	"shipment-emissions-service/internal/domain"
	"shipment-emissions-service/internal/ports"
)

var _ ports.Geocoder = (*StaticGeocoder)(nil)

// StaticGeocoder resolves a fixed set of place names. It backs tests and
// offline runs where geocoding is disabled.
type StaticGeocoder struct {
	m map[string]domain.Coordinates
}

func NewStaticGeocoder(places map[string]domain.Coordinates) *StaticGeocoder {
	m := make(map[string]domain.Coordinates, len(places))
	for name, c := range places {
		m[domain.NormalizeKey(name)] = c
	}
	return &StaticGeocoder{m: m}
}

func (g *StaticGeocoder) Geocode(ctx context.Context, query string) (domain.Coordinates, error) {
	c, ok := g.m[domain.NormalizeKey(query)]
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", query, ports.ErrLocationNotFound)
	}
	return c, nil
}
