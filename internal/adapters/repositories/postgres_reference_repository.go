package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"shipment-emissions-service/internal/adapters/reference"
	"shipment-emissions-service/internal/domain"
	"shipment-emissions-service/internal/platform/obs"
	"shipment-emissions-service/internal/ports"
)

var _ ports.ReferenceSource = (*PostgresReferenceRepository)(nil)

// Postgres-backed implementation of the ReferenceSource port. Rows go through
// the same validation as the file sources.
type PostgresReferenceRepository struct{ DB *sql.DB }

func NewPostgresReferenceRepository(db *sql.DB) *PostgresReferenceRepository {
	return &PostgresReferenceRepository{DB: db}
}

var tableColumns = map[string][]string{
	domain.TableVehicleEmissions: {reference.ColVehicleType, reference.ColCo2ePerKmPerKg},
	domain.TableVehicleSpecs:     {reference.ColVehicleType, reference.ColMaxCapacityKg, reference.ColMaxRangeKm},
	domain.TableMaterials:        {reference.ColMaterial, reference.ColCo2ePerKg, reference.ColAliases},
	domain.TableWasteDisposal:    {reference.ColDisposalMethod, reference.ColCo2ePerKg},
}

func (s *PostgresReferenceRepository) Load(ctx context.Context) (_ *domain.ReferenceData, _ domain.LoadReport, err error) {
	defer obs.Time(ctx, "postgres.reference.Load")(&err)

	if s.DB == nil {
		return nil, domain.LoadReport{}, errors.New("postgres reference repository: DB is nil")
	}

	tables := make(map[string]*reference.Table, len(tableColumns))
	for _, name := range domain.ReferenceTables {
		t, err := s.queryTable(ctx, name, tableColumns[name])
		if err != nil {
			return nil, domain.LoadReport{}, &domain.DataLoadError{Table: name, Source: "postgres", Err: err}
		}
		tables[name] = t
	}
	return reference.Build(tables)
}

// queryTable reads every row as text; NULL becomes an empty cell.
func (s *PostgresReferenceRepository) queryTable(ctx context.Context, name string, cols []string) (*reference.Table, error) {
	query := fmt.Sprintf(`
	SELECT
		%s
	FROM %s
	ORDER BY %s;
	`, strings.Join(cols, ",\n\t\t"), name, cols[0])

	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s table: %w", name, err)
	}
	defer rows.Close()

	t := &reference.Table{Name: name, Source: "postgres", Header: cols, FirstLine: 1}
	for rows.Next() {
		cells := make([]sql.NullString, len(cols))
		dest := make([]any, len(cols))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", name, err)
		}
		row := make([]string, len(cols))
		for i, c := range cells {
			row[i] = c.String
		}
		t.Rows = append(t.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s row iteration: %w", name, err)
	}

	return t, nil
}
