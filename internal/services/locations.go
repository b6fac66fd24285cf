package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"shipment-emissions-service/internal/domain"
	"shipment-emissions-service/internal/platform/tracing"
	"shipment-emissions-service/internal/ports"
)

const decimalPattern = `[-+]?(\d+(\.\d*)?|\.\d+)([eE][-+]?\d+)?`

var coordinatePattern = regexp.MustCompile(`^\s*` + decimalPattern + `\s*,\s*` + decimalPattern + `\s*$`)

// LooksLikeCoordinates reports whether s is written as a "lat,lon" pair.
func LooksLikeCoordinates(s string) bool {
	return coordinatePattern.MatchString(s)
}

// ResolveLocation turns user input into coordinates. "lat,lon" pairs are
// parsed directly; anything else goes to the geocoder, which may be nil when
// geocoding is disabled. field names the input in errors.
func ResolveLocation(ctx context.Context, geocoder ports.Geocoder, field, input string) (domain.Coordinates, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return domain.Coordinates{}, &domain.InvalidCoordinateError{Field: field, Reason: "location is required"}
	}

	if LooksLikeCoordinates(input) {
		tracing.SetAttributes(ctx, attribute.String("location."+field+".kind", "coordinates"))
		c, err := domain.ParseCoordinates(input)
		if err != nil {
			var ce *domain.InvalidCoordinateError
			if errors.As(err, &ce) {
				ce.Field = field
			}
			return domain.Coordinates{}, err
		}
		return c, nil
	}

	if geocoder == nil {
		return domain.Coordinates{}, fmt.Errorf("resolve %s %q: %w: place names need geocoding enabled, use \"lat,lon\"",
			field, input, ports.ErrLocationNotFound)
	}
	tracing.SetAttributes(ctx, attribute.String("location."+field+".kind", "place"))
	c, err := geocoder.Geocode(ctx, input)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("resolve %s: %w", field, err)
	}
	return c, nil
}
