package ports

import (
	"time"

	"shipment-emissions-service/internal/domain"
)

// MetricsSink receives observations from calculations, geocoding and chat.
// Implementations must be safe for concurrent use.
type MetricsSink interface {
	RecordCalculation(result *domain.EmissionsResult, err error, dur time.Duration)
	RecordGeocode(outcome string, dur time.Duration)
	RecordChatMessage(stage string)
	RecordReferenceLoad(source string, report domain.LoadReport)
}
