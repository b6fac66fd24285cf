package domain

// ShipmentRequest is the per-call calculation input.
// Empty Material / DisposalMethod resolve to the caller's default policy.
type ShipmentRequest struct {
	Origin         Coordinates
	Destination    Coordinates
	WeightKg       float64
	Material       string
	DisposalMethod string
}

// EmissionsResult is the computed recommendation for one shipment.
// All figures are kg CO2e; TotalCo2e is always the sum of the three components.
type EmissionsResult struct {
	SelectedVehicle string
	Material        string
	DisposalMethod  string
	DistanceKm      float64
	TransportCo2e   float64
	PackagingCo2e   float64
	WasteCo2e       float64
	TotalCo2e       float64
}
