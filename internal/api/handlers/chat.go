package handlers

import (
	"net/http"
	"strings"

	"shipment-emissions-service/internal/api/dto"
	"shipment-emissions-service/internal/chat"
)

type ChatHandler struct {
	Assistant *chat.Assistant
}

func (h *ChatHandler) Message(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.ChatRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	reply, err := h.Assistant.Handle(r.Context(), strings.TrimSpace(req.SessionID), req.Message)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ChatResponse{
		SessionID: reply.SessionID,
		Stage:     string(reply.Stage),
		Reply:     reply.Text,
	})
}
