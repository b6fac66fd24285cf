package ports

import (
	"context"

	"shipment-emissions-service/internal/domain"
)

// Port: a boundary for loading the reference tables from a data source.
type ReferenceSource interface {
	// Load reads and validates every reference table.
	// Rejected rows are reported, not returned as errors; a *domain.DataLoadError
	// is returned only when a table cannot be used at all.
	Load(ctx context.Context) (*domain.ReferenceData, domain.LoadReport, error)
}
