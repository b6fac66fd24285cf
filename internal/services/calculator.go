package services

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"shipment-emissions-service/internal/domain"
	"shipment-emissions-service/internal/platform/metrics"
	"shipment-emissions-service/internal/platform/obs"
	"shipment-emissions-service/internal/platform/tracing"
	"shipment-emissions-service/internal/ports"
)

// Calculator binds loaded reference data and a lookup policy for the
// HTTP, chat, CLI and MCP entry points. It holds no per-request state and is
// safe for concurrent use.
type Calculator struct {
	ref     *domain.ReferenceData
	policy  LookupPolicy
	metrics ports.MetricsSink
}

func NewCalculator(ref *domain.ReferenceData, policy LookupPolicy, sink ports.MetricsSink) *Calculator {
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Calculator{ref: ref, policy: policy, metrics: sink}
}

func (c *Calculator) Reference() *domain.ReferenceData { return c.ref }

func (c *Calculator) Policy() LookupPolicy { return c.policy }

func (c *Calculator) Calculate(ctx context.Context, req domain.ShipmentRequest) (res *domain.EmissionsResult, err error) {
	defer obs.Time(ctx, "calculate emissions")(&err)

	ctx, span := tracing.StartSpan(ctx, "emissions.calculate")
	defer span.End()
	span.SetAttributes(
		attribute.Float64("shipment.weight_kg", req.WeightKg),
		attribute.String("shipment.material", req.Material),
	)

	start := time.Now()
	res, err = ComputeEmissions(c.ref, req, c.policy)
	c.metrics.RecordCalculation(res, err, time.Since(start))
	if err != nil {
		tracing.RecordError(ctx, err)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("emissions.vehicle", res.SelectedVehicle),
		attribute.Float64("emissions.distance_km", res.DistanceKm),
		attribute.Float64("emissions.total_co2e", res.TotalCo2e),
	)
	return res, nil
}
