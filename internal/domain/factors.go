package domain

// Reference table names, shared by every source.
const (
	TableVehicleEmissions = "vehicle_emissions"
	TableVehicleSpecs     = "vehicle_specs"
	TableMaterials        = "materials"
	TableWasteDisposal    = "waste_disposal"
)

var ReferenceTables = []string{TableVehicleEmissions, TableVehicleSpecs, TableMaterials, TableWasteDisposal}

// Emission factor for a delivery vehicle joined with its capacity/range spec.
// Co2ePerKmPerKg is kg CO2e per kilometre per kilogram carried.
type VehicleEmissionFactor struct {
	VehicleType    string
	Co2ePerKmPerKg float64
	MaxCapacityKg  float64
	// MaxRangeKm is nil when the vehicle has no range limit.
	MaxRangeKm *float64
}

func (v VehicleEmissionFactor) CanCarry(weightKg float64) bool {
	return v.MaxCapacityKg >= weightKg
}

func (v VehicleEmissionFactor) CanReach(distanceKm float64) bool {
	return v.MaxRangeKm == nil || *v.MaxRangeKm >= distanceKm
}

// TransportCo2e returns the transport emissions in kg CO2e for one shipment leg.
func (v VehicleEmissionFactor) TransportCo2e(distanceKm, weightKg float64) float64 {
	return v.Co2ePerKmPerKg * distanceKm * weightKg
}

// Packaging material factor in kg CO2e per kg.
type MaterialFactor struct {
	MaterialName string
	Co2ePerKg    float64
	Aliases      []string
}

// Waste disposal factor in kg CO2e per kg.
type WasteFactor struct {
	DisposalMethod string
	Co2ePerKg      float64
}

// LoadReport lists the reference rows rejected during a load.
type LoadReport struct {
	Skipped []InvalidFactorError
}

func (r *LoadReport) Skip(table string, row int, key, reason string) {
	r.Skipped = append(r.Skipped, InvalidFactorError{Table: table, Row: row, Key: key, Reason: reason})
}

// SkippedIn counts skipped rows for one table.
func (r LoadReport) SkippedIn(table string) int {
	n := 0
	for _, s := range r.Skipped {
		if s.Table == table {
			n++
		}
	}
	return n
}
