package mcptools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shipment-emissions-service/internal/api/dto"
	"shipment-emissions-service/internal/services"
	"shipment-emissions-service/internal/testutil"
)

func newTestTools(t *testing.T) *Tools {
	t.Helper()
	return &Tools{
		Calculator: services.NewCalculator(testutil.Reference(t), services.LookupPolicy{
			DefaultMaterial:       "Cardboard",
			DefaultDisposalMethod: "Recycling",
		}, nil),
		Logger: zerolog.Nop(),
	}
}

func call(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func TestHandleCalculate(t *testing.T) {
	tools := newTestTools(t)

	res, err := tools.HandleCalculate(context.Background(), call("calculate_shipment_emissions", map[string]any{
		"origin":      "51.5074,-0.1278",
		"destination": "48.8566,2.3522",
		"weight_kg":   100,
	}))
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(t, res))

	var out dto.CalculationResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
	assert.Equal(t, "Electric Van", out.Recommendation.Vehicle)
	assert.Equal(t, "Cardboard", out.Recommendation.Material)
	assert.InEpsilon(t, 24.76, out.Recommendation.Co2e, 0.005)
}

func TestHandleCalculateErrors(t *testing.T) {
	tools := newTestTools(t)

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"place without geocoder", map[string]any{"origin": "London", "destination": "0,0", "weight_kg": 1}, "location not found"},
		{"unknown material", map[string]any{"origin": "0,0", "destination": "0,0", "weight_kg": 1, "material": "Unobtainium"}, "unknown packaging material"},
		{"bad weight type", map[string]any{"origin": "0,0", "destination": "0,0", "weight_kg": "heavy"}, "Invalid input format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tools.HandleCalculate(context.Background(), call("calculate_shipment_emissions", tt.args))
			require.NoError(t, err)
			assert.True(t, res.IsError)
			assert.Contains(t, resultText(t, res), tt.want)
		})
	}
}

func TestHandleGeoDistance(t *testing.T) {
	tools := newTestTools(t)

	res, err := tools.HandleGeoDistance(context.Background(), call("geo_distance", map[string]any{
		"from": map[string]any{"latitude": 51.5074, "longitude": -0.1278},
		"to":   map[string]any{"latitude": 48.8566, "longitude": 2.3522},
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	var out map[string]float64
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
	assert.InDelta(t, 343.56, out["distance_km"], 0.05)

	res, err = tools.HandleGeoDistance(context.Background(), call("geo_distance", map[string]any{
		"from": map[string]any{"latitude": 0, "longitude": 0},
		"to":   map[string]any{"latitude": 0, "longitude": 0},
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError, "null island is a valid point")

	res, err = tools.HandleGeoDistance(context.Background(), call("geo_distance", map[string]any{
		"from": map[string]any{"latitude": 91, "longitude": 0},
		"to":   map[string]any{"latitude": 0, "longitude": 0},
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = tools.HandleGeoDistance(context.Background(), call("geo_distance", map[string]any{
		"from": map[string]any{"latitude": 1},
	}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), "missing 'from'")
}

func TestHandleListReference(t *testing.T) {
	tools := newTestTools(t)

	res, err := tools.HandleListReference(context.Background(), call("list_reference_data", nil))
	require.NoError(t, err)

	var out dto.ReferenceResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
	assert.Len(t, out.Vehicles, 7)
	assert.Equal(t, "Recycling", out.Defaults.DisposalMethod)
}

func TestNewServerRegistersTools(t *testing.T) {
	srv := NewServer(newTestTools(t))
	require.NotNil(t, srv)

	resp := srv.HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	for _, name := range []string{"calculate_shipment_emissions", "geo_distance", "list_reference_data"} {
		assert.Contains(t, string(raw), `"name":"`+name+`"`)
	}
}
