package dto

import "shipment-emissions-service/internal/domain"

type VehicleResponse struct {
	VehicleType    string   `json:"vehicle_type"`
	Co2ePerKmPerKg float64  `json:"co2e_per_km_per_kg"`
	MaxCapacityKg  float64  `json:"max_capacity_kg"`
	MaxRangeKm     *float64 `json:"max_range_km"`
}

type MaterialResponse struct {
	Material  string   `json:"material"`
	Co2ePerKg float64  `json:"co2e_per_kg"`
	Aliases   []string `json:"aliases,omitempty"`
}

type DisposalMethodResponse struct {
	DisposalMethod string  `json:"disposal_method"`
	Co2ePerKg      float64 `json:"co2e_per_kg"`
}

type SkippedRowResponse struct {
	Table  string `json:"table"`
	Row    int    `json:"row"`
	Key    string `json:"key,omitempty"`
	Reason string `json:"reason"`
}

type ReferenceResponse struct {
	Vehicles        []VehicleResponse        `json:"vehicles"`
	Materials       []MaterialResponse       `json:"materials"`
	DisposalMethods []DisposalMethodResponse `json:"disposal_methods"`
	Defaults        DefaultsResponse         `json:"defaults"`
	Skipped         []SkippedRowResponse     `json:"skipped_rows"`
}

type DefaultsResponse struct {
	Material       string `json:"material"`
	DisposalMethod string `json:"disposal_method"`
}

func NewReferenceResponse(ref *domain.ReferenceData, report domain.LoadReport, defaults DefaultsResponse) ReferenceResponse {
	out := ReferenceResponse{
		Vehicles:        []VehicleResponse{},
		Materials:       []MaterialResponse{},
		DisposalMethods: []DisposalMethodResponse{},
		Defaults:        defaults,
		Skipped:         []SkippedRowResponse{},
	}
	for _, v := range ref.Vehicles() {
		out.Vehicles = append(out.Vehicles, VehicleResponse{
			VehicleType:    v.VehicleType,
			Co2ePerKmPerKg: v.Co2ePerKmPerKg,
			MaxCapacityKg:  v.MaxCapacityKg,
			MaxRangeKm:     v.MaxRangeKm,
		})
	}
	for _, m := range ref.Materials() {
		out.Materials = append(out.Materials, MaterialResponse{Material: m.MaterialName, Co2ePerKg: m.Co2ePerKg, Aliases: m.Aliases})
	}
	for _, w := range ref.WasteMethods() {
		out.DisposalMethods = append(out.DisposalMethods, DisposalMethodResponse{DisposalMethod: w.DisposalMethod, Co2ePerKg: w.Co2ePerKg})
	}
	for _, s := range report.Skipped {
		out.Skipped = append(out.Skipped, SkippedRowResponse{Table: s.Table, Row: s.Row, Key: s.Key, Reason: s.Reason})
	}
	return out
}
