package domain

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is checks. Each typed error below matches exactly one of them.
var (
	ErrDataLoad              = errors.New("reference data load failed")
	ErrInvalidFactor         = errors.New("invalid emission factor")
	ErrInvalidCoordinate     = errors.New("invalid coordinate")
	ErrInvalidWeight         = errors.New("invalid shipment weight")
	ErrNoFeasibleVehicle     = errors.New("no feasible vehicle")
	ErrUnknownMaterial       = errors.New("unknown packaging material")
	ErrUnknownDisposalMethod = errors.New("unknown disposal method")
	ErrLocationNotFound      = errors.New("location not found")
)

// DataLoadError is fatal: a reference table is missing, unreadable, malformed
// or lacks a required column.
type DataLoadError struct {
	Table  string
	Source string
	Err    error
}

func (e *DataLoadError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("load reference table %s (%s): %v", e.Table, e.Source, e.Err)
	}
	return fmt.Sprintf("load reference table %s: %v", e.Table, e.Err)
}

func (e *DataLoadError) Unwrap() error        { return e.Err }
func (e *DataLoadError) Is(target error) bool { return target == ErrDataLoad }

// InvalidFactorError describes a reference row that was rejected during load.
// The row is skipped; loading continues.
type InvalidFactorError struct {
	Table  string
	Row    int
	Key    string
	Reason string
}

func (e *InvalidFactorError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s row %d (%s): %s", e.Table, e.Row, e.Key, e.Reason)
	}
	return fmt.Sprintf("%s row %d: %s", e.Table, e.Row, e.Reason)
}

func (e *InvalidFactorError) Is(target error) bool { return target == ErrInvalidFactor }

type InvalidCoordinateError struct {
	// Field is "origin", "destination" or empty when not tied to a request field.
	Field  string
	Lat    float64
	Lon    float64
	Reason string
}

func (e *InvalidCoordinateError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s coordinate: %s", e.Field, e.Reason)
	}
	return "invalid coordinate: " + e.Reason
}

func (e *InvalidCoordinateError) Is(target error) bool { return target == ErrInvalidCoordinate }

type InvalidWeightError struct {
	WeightKg float64
}

func (e *InvalidWeightError) Error() string {
	return fmt.Sprintf("invalid shipment weight %v kg: must be a positive number", e.WeightKg)
}

func (e *InvalidWeightError) Is(target error) bool { return target == ErrInvalidWeight }

// Constraint names the feasibility rule no vehicle could satisfy.
type Constraint string

const (
	ConstraintCapacity   Constraint = "capacity"
	ConstraintRange      Constraint = "range"
	ConstraintEmptyTable Constraint = "empty vehicle table"
)

type NoFeasibleVehicleError struct {
	DistanceKm float64
	WeightKg   float64
	Constraint Constraint
}

func (e *NoFeasibleVehicleError) Error() string {
	switch e.Constraint {
	case ConstraintCapacity:
		return fmt.Sprintf("no vehicle can carry %.2f kg", e.WeightKg)
	case ConstraintRange:
		return fmt.Sprintf("no vehicle able to carry %.2f kg can cover %.2f km", e.WeightKg, e.DistanceKm)
	default:
		return "no vehicles available"
	}
}

func (e *NoFeasibleVehicleError) Is(target error) bool { return target == ErrNoFeasibleVehicle }

type UnknownMaterialError struct {
	Material string
}

func (e *UnknownMaterialError) Error() string {
	return fmt.Sprintf("unknown packaging material %q", e.Material)
}

func (e *UnknownMaterialError) Is(target error) bool { return target == ErrUnknownMaterial }

type UnknownDisposalMethodError struct {
	Method string
}

func (e *UnknownDisposalMethodError) Error() string {
	return fmt.Sprintf("unknown disposal method %q", e.Method)
}

func (e *UnknownDisposalMethodError) Is(target error) bool { return target == ErrUnknownDisposalMethod }

// Code classifies err into a stable machine-readable kind for API responses,
// metrics labels and exit messages. Unrecognized errors map to "internal".
func Code(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidCoordinate):
		return "invalid_coordinate"
	case errors.Is(err, ErrInvalidWeight):
		return "invalid_weight"
	case errors.Is(err, ErrNoFeasibleVehicle):
		return "no_feasible_vehicle"
	case errors.Is(err, ErrUnknownMaterial):
		return "unknown_material"
	case errors.Is(err, ErrUnknownDisposalMethod):
		return "unknown_disposal_method"
	case errors.Is(err, ErrLocationNotFound):
		return "location_not_found"
	case errors.Is(err, ErrDataLoad):
		return "data_load"
	case errors.Is(err, ErrInvalidFactor):
		return "invalid_factor"
	default:
		return "internal"
	}
}

// IsRequestError reports whether err was caused by the caller's input rather than
// by the service, so it can be surfaced without being treated as a failure.
func IsRequestError(err error) bool {
	switch Code(err) {
	case "invalid_coordinate", "invalid_weight", "no_feasible_vehicle", "unknown_material", "unknown_disposal_method", "location_not_found":
		return true
	}
	return false
}
