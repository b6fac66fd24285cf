package ports

import (
	"context"

	"shipment-emissions-service/internal/domain"
)

// ErrLocationNotFound is returned when a geocoder has no match for a query.
var ErrLocationNotFound = domain.ErrLocationNotFound

// Contract for resolving a free-text place name to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (domain.Coordinates, error)
}
