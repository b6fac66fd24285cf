package services

import (
	"fmt"
	"math"
	"strings"

	"shipment-emissions-service/internal/domain"
)

// LookupPolicy names the fallbacks used when a request leaves the material
// or the disposal method empty.
type LookupPolicy struct {
	DefaultMaterial       string
	DefaultDisposalMethod string
}

// ComputeEmissions is a pure function of the request and the reference tables.
// Nothing is returned on error, so callers never see a partial result.
func ComputeEmissions(ref *domain.ReferenceData, req domain.ShipmentRequest, policy LookupPolicy) (*domain.EmissionsResult, error) {
	if ref == nil {
		return nil, fmt.Errorf("compute emissions: reference data is not loaded")
	}
	if math.IsNaN(req.WeightKg) || math.IsInf(req.WeightKg, 0) || req.WeightKg <= 0 {
		return nil, &domain.InvalidWeightError{WeightKg: req.WeightKg}
	}

	distanceKm, err := domain.Distance(req.Origin, req.Destination)
	if err != nil {
		return nil, fmt.Errorf("compute emissions: %w", err)
	}

	material, err := ref.Material(orDefault(req.Material, policy.DefaultMaterial))
	if err != nil {
		return nil, fmt.Errorf("compute emissions: %w", err)
	}

	waste, err := ref.WasteMethod(orDefault(req.DisposalMethod, policy.DefaultDisposalMethod))
	if err != nil {
		return nil, fmt.Errorf("compute emissions: %w", err)
	}

	vehicle, err := SelectVehicle(distanceKm, req.WeightKg, ref.Vehicles())
	if err != nil {
		return nil, fmt.Errorf("compute emissions: %w", err)
	}

	res := &domain.EmissionsResult{
		SelectedVehicle: vehicle.VehicleType,
		Material:        material.MaterialName,
		DisposalMethod:  waste.DisposalMethod,
		DistanceKm:      distanceKm,
		TransportCo2e:   vehicle.TransportCo2e(distanceKm, req.WeightKg),
		PackagingCo2e:   material.Co2ePerKg * req.WeightKg,
		WasteCo2e:       waste.Co2ePerKg * req.WeightKg,
	}
	res.TotalCo2e = res.TransportCo2e + res.PackagingCo2e + res.WasteCo2e
	return res, nil
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
