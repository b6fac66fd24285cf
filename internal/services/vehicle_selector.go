package services

import (
	"strings"

	"shipment-emissions-service/internal/domain"
)

// SelectVehicle picks the feasible vehicle with the lowest transport emissions
// for one shipment leg.
//
// A vehicle is feasible when it can carry weightKg and its range, if limited,
// covers distanceKm (both bounds inclusive). Equal emissions prefer the
// smallest capacity, then the vehicle type in lexical order, so the choice
// does not depend on table order.
func SelectVehicle(distanceKm, weightKg float64, vehicles []domain.VehicleEmissionFactor) (domain.VehicleEmissionFactor, error) {
	noVehicle := &domain.NoFeasibleVehicleError{DistanceKm: distanceKm, WeightKg: weightKg}
	if len(vehicles) == 0 {
		noVehicle.Constraint = domain.ConstraintEmptyTable
		return domain.VehicleEmissionFactor{}, noVehicle
	}

	var (
		best     domain.VehicleEmissionFactor
		bestCo2e float64
		found    bool
		carriers int
	)
	for _, v := range vehicles {
		if !v.CanCarry(weightKg) {
			continue
		}
		carriers++
		if !v.CanReach(distanceKm) {
			continue
		}

		co2e := v.TransportCo2e(distanceKm, weightKg)
		if !found || betterVehicle(v, co2e, best, bestCo2e) {
			best, bestCo2e, found = v, co2e, true
		}
	}

	if !found {
		noVehicle.Constraint = domain.ConstraintRange
		if carriers == 0 {
			noVehicle.Constraint = domain.ConstraintCapacity
		}
		return domain.VehicleEmissionFactor{}, noVehicle
	}
	return best, nil
}

func betterVehicle(v domain.VehicleEmissionFactor, co2e float64, best domain.VehicleEmissionFactor, bestCo2e float64) bool {
	if co2e != bestCo2e {
		return co2e < bestCo2e
	}
	if v.MaxCapacityKg != best.MaxCapacityKg {
		return v.MaxCapacityKg < best.MaxCapacityKg
	}
	return strings.Compare(v.VehicleType, best.VehicleType) < 0
}
