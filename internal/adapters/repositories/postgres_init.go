package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"shipment-emissions-service/internal/domain"
)

// Initialize the Postgres reference schema. Factor columns stay nullable so
// bad rows are reported by the loader instead of rejected at insert time.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createVehicleEmissionsQuery := `
	CREATE TABLE IF NOT EXISTS vehicle_emissions (
		vehicle_type TEXT PRIMARY KEY,
		co2e_per_km_per_kg DOUBLE PRECISION
	);
	`

	createVehicleSpecsQuery := `
	CREATE TABLE IF NOT EXISTS vehicle_specs (
		vehicle_type TEXT PRIMARY KEY,
		max_capacity_kg DOUBLE PRECISION,
		max_range_km DOUBLE PRECISION
	);
	`

	createMaterialsQuery := `
	CREATE TABLE IF NOT EXISTS materials (
		material TEXT PRIMARY KEY,
		co2e_per_kg DOUBLE PRECISION,
		aliases TEXT NOT NULL DEFAULT ''
	);
	`

	createWasteDisposalQuery := `
	CREATE TABLE IF NOT EXISTS waste_disposal (
		disposal_method TEXT PRIMARY KEY,
		co2e_per_kg DOUBLE PRECISION
	);
	`

	statements := []string{
		createVehicleEmissionsQuery,
		createVehicleSpecsQuery,
		createMaterialsQuery,
		createWasteDisposalQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Upsert every row of ref into the reference tables in one transaction.
func SeedReference(ctx context.Context, db *sql.DB, ref *domain.ReferenceData) error {
	if db == nil {
		return errors.New("seed reference: DB is nil")
	}
	if ref == nil {
		return errors.New("seed reference: reference data is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed reference: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	emissionsStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO vehicle_emissions (vehicle_type, co2e_per_km_per_kg)
	VALUES ($1, $2)
	ON CONFLICT (vehicle_type) DO UPDATE SET co2e_per_km_per_kg = EXCLUDED.co2e_per_km_per_kg;
	`)
	if err != nil {
		return fmt.Errorf("seed reference: prepare vehicle_emissions insert: %w", err)
	}
	defer emissionsStmt.Close()

	specsStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO vehicle_specs (vehicle_type, max_capacity_kg, max_range_km)
	VALUES ($1, $2, $3)
	ON CONFLICT (vehicle_type) DO UPDATE
	SET max_capacity_kg = EXCLUDED.max_capacity_kg, max_range_km = EXCLUDED.max_range_km;
	`)
	if err != nil {
		return fmt.Errorf("seed reference: prepare vehicle_specs insert: %w", err)
	}
	defer specsStmt.Close()

	for _, v := range ref.Vehicles() {
		if _, err := emissionsStmt.ExecContext(ctx, v.VehicleType, v.Co2ePerKmPerKg); err != nil {
			return fmt.Errorf("seed reference: insert vehicle_emissions %q: %w", v.VehicleType, err)
		}
		var rng sql.NullFloat64
		if v.MaxRangeKm != nil {
			rng = sql.NullFloat64{Float64: *v.MaxRangeKm, Valid: true}
		}
		if _, err := specsStmt.ExecContext(ctx, v.VehicleType, v.MaxCapacityKg, rng); err != nil {
			return fmt.Errorf("seed reference: insert vehicle_specs %q: %w", v.VehicleType, err)
		}
	}

	for _, m := range ref.Materials() {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO materials (material, co2e_per_kg, aliases)
		VALUES ($1, $2, $3)
		ON CONFLICT (material) DO UPDATE SET co2e_per_kg = EXCLUDED.co2e_per_kg, aliases = EXCLUDED.aliases;
		`, m.MaterialName, m.Co2ePerKg, strings.Join(m.Aliases, "|")); err != nil {
			return fmt.Errorf("seed reference: insert material %q: %w", m.MaterialName, err)
		}
	}

	for _, w := range ref.WasteMethods() {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO waste_disposal (disposal_method, co2e_per_kg)
		VALUES ($1, $2)
		ON CONFLICT (disposal_method) DO UPDATE SET co2e_per_kg = EXCLUDED.co2e_per_kg;
		`, w.DisposalMethod, w.Co2ePerKg); err != nil {
			return fmt.Errorf("seed reference: insert disposal method %q: %w", w.DisposalMethod, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed reference: commit tx: %w", err)
	}

	return nil
}
