package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"shipment-emissions-service/internal/adapters/repositories"
	"shipment-emissions-service/internal/app"
	"shipment-emissions-service/internal/config"
	"shipment-emissions-service/internal/platform/db"
	"shipment-emissions-service/internal/platform/logging"
)

// dbtool creates the Postgres reference schema and seeds it from a CSV
// directory or .xlsx workbook, so the service can run with
// reference.source=postgres.
func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found (using environment variables)")
	}

	seedPath := flag.String("seed", config.Get("SEED_PATH", "data/reference"), "reference tables to seed from (CSV directory or .xlsx)")
	schemaOnly := flag.Bool("schema-only", false, "create tables without seeding")
	flag.Parse()

	if err := run(context.Background(), *seedPath, *schemaOnly); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, seedPath string, schemaOnly bool) error {
	log := logging.New(config.LoggingConfig{Level: "info", Format: "console"}, os.Stderr)

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		return errors.New("DATABASE_URL is required")
	}

	conn, err := db.Open(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	log.Info().Msg("initializing database schema")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	log.Info().Msg("schema ready")
	if schemaOnly {
		return nil
	}

	src, err := app.NewReferenceSource(config.ReferenceConfig{Source: config.SourceFile, Path: seedPath}, nil)
	if err != nil {
		return err
	}
	ref, report, err := src.Load(ctx)
	if err != nil {
		return fmt.Errorf("read seed tables: %w", err)
	}
	for _, s := range report.Skipped {
		log.Warn().Str("table", s.Table).Int("row", s.Row).Str("reason", s.Reason).Msg("skipped seed row")
	}

	log.Info().Str("seed", seedPath).Msg("seeding reference tables")
	if err := repositories.SeedReference(ctx, conn, ref); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	log.Info().
		Int("vehicles", len(ref.Vehicles())).
		Int("materials", len(ref.Materials())).
		Int("disposal_methods", len(ref.WasteMethods())).
		Msg("seeding complete")
	return nil
}
