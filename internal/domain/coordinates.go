package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Immutable geographic coordinates in decimal degrees.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Validate reports an InvalidCoordinateError when latitude is outside [-90, 90]
// or longitude is outside [-180, 180].
func (c Coordinates) Validate() error {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) || c.Lat < -90 || c.Lat > 90 {
		return &InvalidCoordinateError{
			Lat:    c.Lat,
			Lon:    c.Lon,
			Reason: fmt.Sprintf("latitude %v out of range [-90, 90]", c.Lat),
		}
	}
	if math.IsNaN(c.Lon) || math.IsInf(c.Lon, 0) || c.Lon < -180 || c.Lon > 180 {
		return &InvalidCoordinateError{
			Lat:    c.Lat,
			Lon:    c.Lon,
			Reason: fmt.Sprintf("longitude %v out of range [-180, 180]", c.Lon),
		}
	}
	return nil
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lon)
}

// ParseCoordinates parses a "lat,lon" pair and validates its ranges.
func ParseCoordinates(s string) (Coordinates, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 2 {
		return Coordinates{}, &InvalidCoordinateError{
			Reason: fmt.Sprintf("%q is not a \"lat,lon\" pair", s),
		}
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Coordinates{}, &InvalidCoordinateError{Reason: fmt.Sprintf("latitude %q is not a number", parts[0])}
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Coordinates{}, &InvalidCoordinateError{Reason: fmt.Sprintf("longitude %q is not a number", parts[1])}
	}

	c := Coordinates{Lat: lat, Lon: lon}
	if err := c.Validate(); err != nil {
		return Coordinates{}, err
	}
	return c, nil
}
