// Package app assembles configuration, reference data and adapters into the
// services shared by the HTTP server, the CLI and the MCP server.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"shipment-emissions-service/internal/adapters/geocode"
	"shipment-emissions-service/internal/adapters/reference"
	"shipment-emissions-service/internal/adapters/repositories"
	"shipment-emissions-service/internal/config"
	"shipment-emissions-service/internal/domain"
	"shipment-emissions-service/internal/platform/db"
	"shipment-emissions-service/internal/platform/logging"
	"shipment-emissions-service/internal/platform/metrics"
	"shipment-emissions-service/internal/platform/tracing"
	"shipment-emissions-service/internal/ports"
	"shipment-emissions-service/internal/services"
)

const Version = "1.0.0"

type Options struct {
	// LogOutput defaults to stdout. The CLI logs to stderr to keep stdout clean.
	LogOutput io.Writer
	// Registerer defaults to the global Prometheus registry.
	Registerer prometheus.Registerer
}

type App struct {
	Config     *config.Config
	Logger     zerolog.Logger
	Reference  *domain.ReferenceData
	Report     domain.LoadReport
	Calculator *services.Calculator
	// Geocoder is nil when geocoding is disabled.
	Geocoder ports.Geocoder
	Metrics  *metrics.PromSink

	db            *sql.DB
	traceShutdown func(context.Context) error
}

// New loads the reference tables and wires every adapter. Reference data
// errors are fatal.
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	logger := logging.New(cfg.Logging, opts.LogOutput)
	a := &App{Config: cfg, Logger: logger}

	sink, err := metrics.NewPromSinkWithRegistry(opts.Registerer)
	if err != nil {
		return nil, fmt.Errorf("app: register metrics: %w", err)
	}
	a.Metrics = sink

	shutdown, err := tracing.Init(ctx, cfg.Tracing.Endpoint, cfg.Tracing.Environment, Version)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	a.traceShutdown = shutdown

	if cfg.Reference.Source == config.SourcePostgres {
		conn, err := db.Open(ctx, cfg.Database.URL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("app: %w", err)
		}
		a.db = conn
	}

	src, err := NewReferenceSource(cfg.Reference, a.db)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("app: %w", err)
	}
	if err := a.loadReference(ctx, src); err != nil {
		a.Close()
		return nil, err
	}

	a.Calculator = services.NewCalculator(a.Reference, services.LookupPolicy{
		DefaultMaterial:       cfg.Defaults.Material,
		DefaultDisposalMethod: cfg.Defaults.DisposalMethod,
	}, sink)
	if err := a.checkDefaults(); err != nil {
		a.Close()
		return nil, err
	}

	if cfg.Geocoder.IsEnabled() {
		g, err := geocode.NewNominatimGeocoder(geocode.NominatimOptions{
			BaseURL:           cfg.Geocoder.BaseURL,
			UserAgent:         cfg.Geocoder.UserAgent,
			RequestsPerSecond: cfg.Geocoder.RequestsPerSecond,
			Timeout:           cfg.Geocoder.Timeout,
			Metrics:           sink,
		})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("app: %w", err)
		}
		a.Geocoder = g
	}

	return a, nil
}

// NewReferenceSource picks the reference adapter for cfg. The file source
// reads an .xlsx workbook or a directory of CSV tables.
func NewReferenceSource(cfg config.ReferenceConfig, conn *sql.DB) (ports.ReferenceSource, error) {
	switch cfg.Source {
	case config.SourcePostgres:
		if conn == nil {
			return nil, errors.New("reference source postgres: database is not configured")
		}
		return repositories.NewPostgresReferenceRepository(conn), nil
	case config.SourceFile, "":
		if reference.IsWorkbook(cfg.Path) {
			return reference.NewXLSXSource(cfg.Path), nil
		}
		return reference.NewCSVSource(cfg.Path), nil
	default:
		return nil, fmt.Errorf("unknown reference source %q", cfg.Source)
	}
}

func (a *App) loadReference(ctx context.Context, src ports.ReferenceSource) error {
	log := logging.Component(a.Logger, "reference")

	ref, report, err := src.Load(ctx)
	if err != nil {
		return fmt.Errorf("app: load reference data: %w", err)
	}
	for _, s := range report.Skipped {
		log.Warn().
			Str("table", s.Table).
			Int("row", s.Row).
			Str("key", s.Key).
			Str("reason", s.Reason).
			Msg("skipped reference row")
	}
	a.Metrics.RecordReferenceLoad(a.Config.Reference.Source, report)
	log.Info().
		Str("source", a.Config.Reference.Source).
		Int("vehicles", len(ref.Vehicles())).
		Int("materials", len(ref.Materials())).
		Int("disposal_methods", len(ref.WasteMethods())).
		Int("skipped", len(report.Skipped)).
		Msg("reference data loaded")

	a.Reference = ref
	a.Report = report
	return nil
}

// checkDefaults fails startup when a configured default names nothing in the
// loaded tables.
func (a *App) checkDefaults() error {
	policy := a.Calculator.Policy()
	if _, err := a.Reference.Material(policy.DefaultMaterial); err != nil {
		return fmt.Errorf("app: defaults.material: %w", err)
	}
	if _, err := a.Reference.WasteMethod(policy.DefaultDisposalMethod); err != nil {
		return fmt.Errorf("app: defaults.disposal_method: %w", err)
	}
	return nil
}

func (a *App) Close() error {
	var errs []error
	if a.traceShutdown != nil {
		errs = append(errs, a.traceShutdown(context.Background()))
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}
