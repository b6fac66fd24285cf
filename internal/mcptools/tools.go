// Package mcptools exposes the emissions engine as Model Context Protocol tools.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"shipment-emissions-service/internal/api/dto"
	"shipment-emissions-service/internal/domain"
	"shipment-emissions-service/internal/ports"
	"shipment-emissions-service/internal/services"
)

const (
	ServerName    = "shipment-emissions"
	ServerVersion = "1.0.0"
)

type Tools struct {
	Calculator *services.Calculator
	Geocoder   ports.Geocoder
	Report     domain.LoadReport
	Logger     zerolog.Logger
}

// NewServer returns an MCP server with every tool registered.
func NewServer(t *Tools) *mcpserver.MCPServer {
	srv := mcpserver.NewMCPServer(
		ServerName,
		ServerVersion,
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithRecovery(),
	)
	srv.AddTool(CalculateTool(), t.HandleCalculate)
	srv.AddTool(GeoDistanceTool(), t.HandleGeoDistance)
	srv.AddTool(ListReferenceTool(), t.HandleListReference)
	return srv
}

// Serve runs srv over stdin/stdout until the client disconnects.
func Serve(srv *mcpserver.MCPServer) error {
	return mcpserver.ServeStdio(srv)
}

func CalculateTool() mcp.Tool {
	return mcp.NewTool("calculate_shipment_emissions",
		mcp.WithDescription("Recommend the lowest-emission delivery vehicle for a shipment and report its CO2e breakdown in kg"),
		mcp.WithString("origin",
			mcp.Required(),
			mcp.Description("Origin as \"lat,lon\" or a place name"),
		),
		mcp.WithString("destination",
			mcp.Required(),
			mcp.Description("Destination as \"lat,lon\" or a place name"),
		),
		mcp.WithNumber("weight_kg",
			mcp.Required(),
			mcp.Description("Shipment weight in kilograms"),
		),
		mcp.WithString("material",
			mcp.Description("Packaging material; defaults to the configured material"),
		),
		mcp.WithString("disposal_method",
			mcp.Description("Packaging disposal method; defaults to the configured method"),
		),
	)
}

type calculateInput struct {
	Origin         string  `json:"origin"`
	Destination    string  `json:"destination"`
	WeightKg       float64 `json:"weight_kg"`
	Material       string  `json:"material"`
	DisposalMethod string  `json:"disposal_method"`
}

func (t *Tools) HandleCalculate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := t.Logger.With().Str("tool", "calculate_shipment_emissions").Logger()

	var input calculateInput
	if err := decodeArguments(req, &input); err != nil {
		logger.Error().Err(err).Msg("failed to parse input")
		return mcp.NewToolResultError("Invalid input format"), nil
	}

	origin, err := services.ResolveLocation(ctx, t.Geocoder, "origin", input.Origin)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	destination, err := services.ResolveLocation(ctx, t.Geocoder, "destination", input.Destination)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := t.Calculator.Calculate(ctx, domain.ShipmentRequest{
		Origin:         origin,
		Destination:    destination,
		WeightKg:       input.WeightKg,
		Material:       input.Material,
		DisposalMethod: input.DisposalMethod,
	})
	if err != nil {
		if !domain.IsRequestError(err) {
			logger.Error().Err(err).Msg("calculation failed")
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(dto.NewCalculationResponse(res))
}

func GeoDistanceTool() mcp.Tool {
	return mcp.NewTool("geo_distance",
		mcp.WithDescription("Great-circle distance in kilometres between two coordinates (haversine)"),
		mcp.WithObject("from",
			mcp.Required(),
			mcp.Description("The starting point as {latitude, longitude}"),
		),
		mcp.WithObject("to",
			mcp.Required(),
			mcp.Description("The ending point as {latitude, longitude}"),
		),
	)
}

type location struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (l location) coordinates(field string) (domain.Coordinates, error) {
	if l.Latitude == nil || l.Longitude == nil {
		return domain.Coordinates{}, fmt.Errorf("missing '%s' coordinates", field)
	}
	return domain.Coordinates{Lat: *l.Latitude, Lon: *l.Longitude}, nil
}

func (t *Tools) HandleGeoDistance(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input struct {
		From location `json:"from"`
		To   location `json:"to"`
	}
	if err := decodeArguments(req, &input); err != nil {
		return mcp.NewToolResultError("Invalid input format"), nil
	}

	from, err := input.From.coordinates("from")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	to, err := input.To.coordinates("to")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	km, err := domain.Distance(from, to)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]float64{"distance_km": km})
}

func ListReferenceTool() mcp.Tool {
	return mcp.NewTool("list_reference_data",
		mcp.WithDescription("List vehicles, packaging materials and disposal methods with their emission factors"),
	)
}

func (t *Tools) HandleListReference(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	policy := t.Calculator.Policy()
	return jsonResult(dto.NewReferenceResponse(t.Calculator.Reference(), t.Report, dto.DefaultsResponse{
		Material:       policy.DefaultMaterial,
		DisposalMethod: policy.DefaultDisposalMethod,
	}))
}

func decodeArguments(req mcp.CallToolRequest, v any) error {
	raw, err := json.Marshal(req.Params.Arguments)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError("Failed to generate result"), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
