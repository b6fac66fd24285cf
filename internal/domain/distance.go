package domain

import (
	"fmt"
	"math"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance between two points in kilometres.
// Inputs are not validated; use Distance for request data.
func HaversineKm(a, b Coordinates) float64 {
	lat1 := degreesToRadians(a.Lat)
	lat2 := degreesToRadians(b.Lat)
	dLat := lat2 - lat1
	dLon := degreesToRadians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	// Rounding can push h marginally above 1 for near-antipodal points.
	h = math.Min(1, math.Max(0, h))

	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Distance validates both endpoints and returns the haversine distance in kilometres.
// Identical endpoints yield exactly zero.
func Distance(origin, destination Coordinates) (float64, error) {
	if err := origin.Validate(); err != nil {
		return 0, withField(err, "origin")
	}
	if err := destination.Validate(); err != nil {
		return 0, withField(err, "destination")
	}
	if origin == destination {
		return 0, nil
	}
	return HaversineKm(origin, destination), nil
}

func degreesToRadians(d float64) float64 {
	return d * math.Pi / 180
}

func withField(err error, field string) error {
	if ce, ok := err.(*InvalidCoordinateError); ok {
		out := *ce
		out.Field = field
		return &out
	}
	return fmt.Errorf("%s: %w", field, err)
}
