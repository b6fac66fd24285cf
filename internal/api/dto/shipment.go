package dto

import "shipment-emissions-service/internal/domain"

// CalculateRequest locations are "lat,lon" pairs or place names.
type CalculateRequest struct {
	Origin         string   `json:"origin"`
	Destination    string   `json:"destination"`
	WeightKg       *float64 `json:"weight"`
	Material       string   `json:"material,omitempty"`
	DisposalMethod string   `json:"disposal_method,omitempty"`
}

type Breakdown struct {
	Transport float64 `json:"transport"`
	Packaging float64 `json:"packaging"`
	Waste     float64 `json:"waste"`
}

type Recommendation struct {
	Vehicle   string    `json:"vehicle"`
	Material  string    `json:"material"`
	Co2e      float64   `json:"co2e"`
	Breakdown Breakdown `json:"breakdown"`
}

type CalculationResponse struct {
	Recommendation Recommendation `json:"recommendation"`
	DistanceKm     float64        `json:"distance_km"`
	DisposalMethod string         `json:"disposal_method"`
}

func NewCalculationResponse(res *domain.EmissionsResult) CalculationResponse {
	return CalculationResponse{
		Recommendation: Recommendation{
			Vehicle:  res.SelectedVehicle,
			Material: res.Material,
			Co2e:     res.TotalCo2e,
			Breakdown: Breakdown{
				Transport: res.TransportCo2e,
				Packaging: res.PackagingCo2e,
				Waste:     res.WasteCo2e,
			},
		},
		DistanceKm:     res.DistanceKm,
		DisposalMethod: res.DisposalMethod,
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
