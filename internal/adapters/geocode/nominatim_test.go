package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shipment-emissions-service/internal/domain"
	"shipment-emissions-service/internal/ports"
)

func newTestGeocoder(t *testing.T, h http.HandlerFunc) *NominatimGeocoder {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	g, err := NewNominatimGeocoder(NominatimOptions{
		BaseURL:           srv.URL,
		UserAgent:         "emissions-test/1.0",
		RequestsPerSecond: 1000,
	})
	require.NoError(t, err)
	g.backoff = time.Millisecond
	return g
}

func TestNominatimGeocode(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "London", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, "emissions-test/1.0", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"51.5074","lon":"-0.1278","display_name":"London, UK"}]`))
	})

	c, err := g.Geocode(context.Background(), " London ")
	require.NoError(t, err)
	assert.Equal(t, domain.Coordinates{Lat: 51.5074, Lon: -0.1278}, c)
}

func TestNominatimGeocodeNotFound(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := g.Geocode(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, ports.ErrLocationNotFound)

	_, err = g.Geocode(context.Background(), "   ")
	assert.ErrorIs(t, err, ports.ErrLocationNotFound)
}

func TestNominatimGeocodeRetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[{"lat":"48.8566","lon":"2.3522"}]`))
	})

	c, err := g.Geocode(context.Background(), "Paris")
	require.NoError(t, err)
	assert.Equal(t, 48.8566, c.Lat)
	assert.Equal(t, int32(3), calls.Load())
}

func TestNominatimGeocodeDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad request", http.StatusBadRequest)
	})

	_, err := g.Geocode(context.Background(), "Paris")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Code 400")
	assert.Equal(t, int32(1), calls.Load())
}

func TestNominatimGeocodeGivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := g.Geocode(context.Background(), "Paris")
	require.Error(t, err)
	assert.Equal(t, int32(g.maxAttempts), calls.Load())
}

func TestNominatimGeocodeRejectsBadPayload(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"lat":"north","lon":"2.35"}]`))
	})

	_, err := g.Geocode(context.Background(), "Paris")
	assert.ErrorContains(t, err, "invalid latitude")
}

func TestNominatimGeocodeCanceled(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Geocode(ctx, "Paris")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewNominatimGeocoderRequiresUserAgent(t *testing.T) {
	_, err := NewNominatimGeocoder(NominatimOptions{})
	assert.Error(t, err)
}

func TestStaticGeocoder(t *testing.T) {
	g := NewStaticGeocoder(map[string]domain.Coordinates{"London": {Lat: 51.5074, Lon: -0.1278}})

	c, err := g.Geocode(context.Background(), "  london")
	require.NoError(t, err)
	assert.Equal(t, 51.5074, c.Lat)

	_, err = g.Geocode(context.Background(), "Paris")
	assert.ErrorIs(t, err, ports.ErrLocationNotFound)
}
