package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"shipment-emissions-service/internal/api/handlers"
	"shipment-emissions-service/internal/chat"
	"shipment-emissions-service/internal/domain"
	"shipment-emissions-service/internal/platform/metrics"
	"shipment-emissions-service/internal/ports"
	"shipment-emissions-service/internal/services"
)

type Deps struct {
	Calculator *services.Calculator
	Geocoder   ports.Geocoder
	Assistant  *chat.Assistant
	Report     domain.LoadReport
	Logger     zerolog.Logger
	// Observer and Gatherer are optional; /metrics is only mounted with a Gatherer.
	Observer HTTPObserver
	Gatherer prometheus.Gatherer
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	calcHandler := &handlers.CalculateHandler{Calculator: d.Calculator, Geocoder: d.Geocoder}
	refHandler := &handlers.ReferenceHandler{Calculator: d.Calculator, Report: d.Report}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/calculate", calcHandler.Calculate)
	mux.HandleFunc("/reference", refHandler.List)
	if d.Assistant != nil {
		chatHandler := &handlers.ChatHandler{Assistant: d.Assistant}
		mux.HandleFunc("/chat", chatHandler.Message)
	}
	if d.Gatherer != nil {
		mux.Handle("/metrics", metrics.Handler(d.Gatherer))
	}

	return loggingMiddleware(d.Logger, d.Observer, mux)
}
