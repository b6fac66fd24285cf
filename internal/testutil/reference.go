// Package testutil provides fixtures shared across package tests.
//
// Reference mirrors data/reference/*.csv so tests do not depend on the
// working directory.
package testutil

import (
	"testing"

	"shipment-emissions-service/internal/domain"
)

var (
	London = domain.Coordinates{Lat: 51.5074, Lon: -0.1278}
	Paris  = domain.Coordinates{Lat: 48.8566, Lon: 2.3522}
)

func rangeKm(v float64) *float64 { return &v }

func Vehicles() []domain.VehicleEmissionFactor {
	return []domain.VehicleEmissionFactor{
		{VehicleType: "Cargo Bike", Co2ePerKmPerKg: 0.00003, MaxCapacityKg: 150, MaxRangeKm: rangeKm(50)},
		{VehicleType: "Electric Van", Co2ePerKmPerKg: 0.000585, MaxCapacityKg: 1000, MaxRangeKm: rangeKm(400)},
		{VehicleType: "Diesel Van Class I", Co2ePerKmPerKg: 0.00231, MaxCapacityKg: 1305},
		{VehicleType: "Diesel Van Class II", Co2ePerKmPerKg: 0.00187, MaxCapacityKg: 1740},
		{VehicleType: "Diesel Van Class III", Co2ePerKmPerKg: 0.00131, MaxCapacityKg: 3500},
		{VehicleType: "Rigid HGV", Co2ePerKmPerKg: 0.00098, MaxCapacityKg: 17000},
		{VehicleType: "Articulated HGV", Co2ePerKmPerKg: 0.00079, MaxCapacityKg: 44000},
	}
}

func Materials() []domain.MaterialFactor {
	return []domain.MaterialFactor{
		{MaterialName: "Cardboard", Co2ePerKg: 0.045, Aliases: []string{"board", "paper and board: board"}},
		{MaterialName: "Paper", Co2ePerKg: 0.052, Aliases: []string{"paper and board: paper"}},
		{MaterialName: "Mixed Paper", Co2ePerKg: 0.048, Aliases: []string{"mixed", "mixed materials", "paper and board: mixed"}},
		{MaterialName: "Plastic", Co2ePerKg: 0.31, Aliases: []string{"plastics", "plastics: average plastics"}},
		{MaterialName: "Plastic Film", Co2ePerKg: 0.29, Aliases: []string{"film", "plastics: average plastic film"}},
		{MaterialName: "Glass", Co2ePerKg: 0.085},
		{MaterialName: "Wood", Co2ePerKg: 0.012},
		{MaterialName: "Aluminium", Co2ePerKg: 0.92, Aliases: []string{"aluminum", "metal: aluminium cans and foil (excl. forming)"}},
	}
}

func WasteFactors() []domain.WasteFactor {
	return []domain.WasteFactor{
		{DisposalMethod: "Recycling", Co2ePerKg: 0.0016},
		{DisposalMethod: "Landfill", Co2ePerKg: 0.0089},
		{DisposalMethod: "Combustion", Co2ePerKg: 0.0214},
		{DisposalMethod: "Composting", Co2ePerKg: 0.0089},
	}
}

// Reference builds the bundled reference tables.
func Reference(t testing.TB) *domain.ReferenceData {
	t.Helper()
	ref, err := domain.NewReferenceData(Vehicles(), Materials(), WasteFactors())
	if err != nil {
		t.Fatalf("build reference data: %v", err)
	}
	return ref
}
