package handlers

import (
	"net/http"

	"shipment-emissions-service/internal/api/dto"
	"shipment-emissions-service/internal/domain"
	"shipment-emissions-service/internal/ports"
	"shipment-emissions-service/internal/services"
)

type CalculateHandler struct {
	Calculator *services.Calculator
	// Geocoder resolves place names; nil accepts "lat,lon" only.
	Geocoder ports.Geocoder
}

// Calculate resolves both locations and returns the lowest-emission
// recommendation for one shipment.
func (h *CalculateHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.CalculateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.WeightKg == nil {
		writeJSON(w, r, http.StatusBadRequest, dto.ErrorResponse{
			Error: "weight is required",
			Code:  domain.Code(domain.ErrInvalidWeight),
		})
		return
	}

	ctx := r.Context()
	origin, err := services.ResolveLocation(ctx, h.Geocoder, "origin", req.Origin)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	destination, err := services.ResolveLocation(ctx, h.Geocoder, "destination", req.Destination)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	res, err := h.Calculator.Calculate(ctx, domain.ShipmentRequest{
		Origin:         origin,
		Destination:    destination,
		WeightKg:       *req.WeightKg,
		Material:       req.Material,
		DisposalMethod: req.DisposalMethod,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewCalculationResponse(res))
}
