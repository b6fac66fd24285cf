// Package geocode resolves free-text place names to coordinates.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"

	"shipment-emissions-service/internal/domain"
	"shipment-emissions-service/internal/platform/metrics"
	"shipment-emissions-service/internal/platform/obs"
	"shipment-emissions-service/internal/platform/tracing"
	"shipment-emissions-service/internal/ports"
)

var _ ports.Geocoder = (*NominatimGeocoder)(nil)

const DefaultBaseURL = "https://nominatim.openstreetmap.org"

type NominatimOptions struct {
	BaseURL           string
	UserAgent         string
	RequestsPerSecond float64
	Timeout           time.Duration
	Metrics           ports.MetricsSink
}

// NominatimGeocoder queries the OpenStreetMap Nominatim search API.
// Requests share one limiter; the public instance allows one per second.
type NominatimGeocoder struct {
	baseURL     string
	userAgent   string
	client      *http.Client
	limiter     *rate.Limiter
	metrics     ports.MetricsSink
	maxAttempts int
	backoff     time.Duration
}

func NewNominatimGeocoder(opts NominatimOptions) (*NominatimGeocoder, error) {
	if strings.TrimSpace(opts.UserAgent) == "" {
		return nil, errors.New("new nominatim geocoder: user agent is required")
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NopSink{}
	}

	return &NominatimGeocoder{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		userAgent:   opts.UserAgent,
		client:      &http.Client{Timeout: opts.Timeout},
		limiter:     rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1),
		metrics:     opts.Metrics,
		maxAttempts: 3,
		backoff:     500 * time.Millisecond,
	}, nil
}

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode returns the best match for query, or ports.ErrLocationNotFound.
func (g *NominatimGeocoder) Geocode(ctx context.Context, query string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "nominatim.geocode")(&err)

	query = strings.TrimSpace(query)
	if query == "" {
		return domain.Coordinates{}, fmt.Errorf("geocode: %w: empty query", ports.ErrLocationNotFound)
	}

	ctx, span := tracing.StartSpan(ctx, "geocode.nominatim")
	defer span.End()
	span.SetAttributes(attribute.String("geocode.query", query))

	start := time.Now()
	coords, err := g.search(ctx, query)
	g.metrics.RecordGeocode(outcome(err), time.Since(start))
	if err != nil {
		tracing.RecordError(ctx, err)
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", query, err)
	}
	return coords, nil
}

func (g *NominatimGeocoder) search(ctx context.Context, query string) (domain.Coordinates, error) {
	endpoint := g.baseURL + "/search"

	resp, err := g.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := g.newRequest(ctx, http.MethodGet, endpoint)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("q", query)
		q.Set("format", "json")
		q.Set("limit", "1")
		q.Set("accept-language", "en")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return domain.Coordinates{}, fmt.Errorf("decode search response: %w", err)
	}
	if len(places) == 0 {
		return domain.Coordinates{}, ports.ErrLocationNotFound
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("invalid latitude %q: %w", places[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("invalid longitude %q: %w", places[0].Lon, err)
	}

	coords := domain.Coordinates{Lat: lat, Lon: lon}
	if err := coords.Validate(); err != nil {
		return domain.Coordinates{}, err
	}
	return coords, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ports.ErrLocationNotFound):
		return "not_found"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}
