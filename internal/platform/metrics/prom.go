// Package metrics records service observations in Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shipment-emissions-service/internal/domain"
	"shipment-emissions-service/internal/ports"
)

var _ ports.MetricsSink = (*PromSink)(nil)

// PromSink implements ports.MetricsSink and also observes HTTP traffic.
type PromSink struct {
	calculations *prometheus.CounterVec
	calcLatency  prometheus.Histogram
	co2e         *prometheus.CounterVec
	geocodes     *prometheus.CounterVec
	geoLatency   prometheus.Histogram
	chat         *prometheus.CounterVec
	skipped      *prometheus.GaugeVec
	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
}

// NewPromSinkWithRegistry registers metrics on reg. A nil registerer defaults
// to the global one. Collectors that are already registered are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "emissions_calculations_total",
			Help: "Shipment emission calculations by outcome",
		}, []string{"outcome"}),
		calcLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "emissions_calculation_duration_seconds",
			Help:    "Time spent computing one shipment",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
		co2e: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "emissions_co2e_kg_total",
			Help: "Total kg CO2e recommended, by selected vehicle",
		}, []string{"vehicle"}),
		geocodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "emissions_geocode_requests_total",
			Help: "Geocoder lookups by outcome",
		}, []string{"outcome"}),
		geoLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "emissions_geocode_duration_seconds",
			Help:    "Geocoder lookup latency",
			Buckets: prometheus.DefBuckets,
		}),
		chat: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "emissions_chat_messages_total",
			Help: "Chat messages handled by conversation stage",
		}, []string{"stage"}),
		skipped: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "emissions_reference_rows_skipped",
			Help: "Reference rows rejected during the last load",
		}, []string{"source", "table"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "emissions_http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "emissions_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	var err error
	if s.calculations, err = register(reg, s.calculations); err != nil {
		return nil, err
	}
	if s.calcLatency, err = register(reg, s.calcLatency); err != nil {
		return nil, err
	}
	if s.co2e, err = register(reg, s.co2e); err != nil {
		return nil, err
	}
	if s.geocodes, err = register(reg, s.geocodes); err != nil {
		return nil, err
	}
	if s.geoLatency, err = register(reg, s.geoLatency); err != nil {
		return nil, err
	}
	if s.chat, err = register(reg, s.chat); err != nil {
		return nil, err
	}
	if s.skipped, err = register(reg, s.skipped); err != nil {
		return nil, err
	}
	if s.httpRequests, err = register(reg, s.httpRequests); err != nil {
		return nil, err
	}
	if s.httpLatency, err = register(reg, s.httpLatency); err != nil {
		return nil, err
	}
	return s, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (s *PromSink) RecordCalculation(result *domain.EmissionsResult, err error, dur time.Duration) {
	s.calculations.WithLabelValues(domain.Code(err)).Inc()
	s.calcLatency.Observe(dur.Seconds())
	if err == nil && result != nil {
		s.co2e.WithLabelValues(result.SelectedVehicle).Add(result.TotalCo2e)
	}
}

func (s *PromSink) RecordGeocode(outcome string, dur time.Duration) {
	s.geocodes.WithLabelValues(outcome).Inc()
	s.geoLatency.Observe(dur.Seconds())
}

func (s *PromSink) RecordChatMessage(stage string) {
	s.chat.WithLabelValues(stage).Inc()
}

// RecordReferenceLoad sets the skipped-row gauge for every table of the load.
func (s *PromSink) RecordReferenceLoad(source string, report domain.LoadReport) {
	for _, table := range domain.ReferenceTables {
		s.skipped.WithLabelValues(source, table).Set(float64(report.SkippedIn(table)))
	}
}

// ObserveHTTP records one served request. route should be the mux pattern,
// not the raw path, to keep label cardinality bounded.
func (s *PromSink) ObserveHTTP(method, route string, status int, dur time.Duration) {
	s.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	s.httpLatency.WithLabelValues(method, route).Observe(dur.Seconds())
}

// Handler exposes the gatherer in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// NopSink discards every observation.
type NopSink struct{}

func (NopSink) RecordCalculation(*domain.EmissionsResult, error, time.Duration) {}
func (NopSink) RecordGeocode(string, time.Duration)                            {}
func (NopSink) RecordChatMessage(string)                                       {}
func (NopSink) RecordReferenceLoad(string, domain.LoadReport)                  {}
