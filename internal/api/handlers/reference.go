package handlers

import (
	"net/http"

	"shipment-emissions-service/internal/api/dto"
	"shipment-emissions-service/internal/domain"
	"shipment-emissions-service/internal/services"
)

type ReferenceHandler struct {
	Calculator *services.Calculator
	Report     domain.LoadReport
}

// List returns the loaded reference tables and the rows rejected at load.
func (h *ReferenceHandler) List(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	policy := h.Calculator.Policy()
	writeJSON(w, r, http.StatusOK, dto.NewReferenceResponse(h.Calculator.Reference(), h.Report, dto.DefaultsResponse{
		Material:       policy.DefaultMaterial,
		DisposalMethod: policy.DefaultDisposalMethod,
	}))
}
