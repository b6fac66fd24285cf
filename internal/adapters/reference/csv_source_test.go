package reference

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shipment-emissions-service/internal/domain"
)

func writeTables(t *testing.T, tables map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range tables {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name+".csv"), []byte(content), 0o644))
	}
	return dir
}

func validTables() map[string]string {
	return map[string]string{
		domain.TableVehicleEmissions: "vehicle_type,co2e_per_km_per_kg\nElectric Van,0.000585\nRigid HGV,0.00098\n",
		domain.TableVehicleSpecs:     "vehicle_type,max_capacity_kg,max_range_km\nElectric Van,1000,400\nRigid HGV,17000,\n",
		domain.TableMaterials:        "material,co2e_per_kg,aliases\nCardboard,0.045,board|paper and board: board\n",
		domain.TableWasteDisposal:    "disposal_method,co2e_per_kg\nRecycling,0.0016\n",
	}
}

func TestCSVSourceLoadsBundledData(t *testing.T) {
	ref, report, err := NewCSVSource(filepath.Join("..", "..", "..", "data", "reference")).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Skipped)

	assert.Len(t, ref.Vehicles(), 7)
	m, err := ref.Material("Cardboard")
	require.NoError(t, err)
	assert.Equal(t, 0.045, m.Co2ePerKg)
	w, err := ref.WasteMethod("Recycling")
	require.NoError(t, err)
	assert.Equal(t, 0.0016, w.Co2ePerKg)
}

func TestCSVSourceLoad(t *testing.T) {
	ref, report, err := NewCSVSource(writeTables(t, validTables())).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Skipped)

	vs := ref.Vehicles()
	require.Len(t, vs, 2)
	require.NotNil(t, vs[0].MaxRangeKm)
	assert.Equal(t, 400.0, *vs[0].MaxRangeKm)
	assert.Nil(t, vs[1].MaxRangeKm)

	m, err := ref.Material("board")
	require.NoError(t, err)
	assert.Equal(t, "Cardboard", m.MaterialName)
}

func TestCSVSourceHeaderVariants(t *testing.T) {
	tables := validTables()
	tables[domain.TableVehicleEmissions] = "\ufeffVehicle Type, CO2e per km per kg\nElectric Van,0.000585\n"
	tables[domain.TableVehicleSpecs] = "# fleet specs\nVehicle-Type,Max Capacity KG\nElectric Van,1000\n"

	ref, _, err := NewCSVSource(writeTables(t, tables)).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, ref.Vehicles(), 1)
	assert.Nil(t, ref.Vehicles()[0].MaxRangeKm)
}

func TestCSVSourceSkipsBadRows(t *testing.T) {
	tables := validTables()
	tables[domain.TableMaterials] = `material,co2e_per_kg
Cardboard,0.045
Lead,-1
Tin,
Zinc,lots
,0.2
cardboard,0.05
`
	tables[domain.TableVehicleEmissions] = "vehicle_type,co2e_per_km_per_kg\nElectric Van,0.000585\nRigid HGV,0.00098\nHovercraft,0.01\n"
	tables[domain.TableVehicleSpecs] = "vehicle_type,max_capacity_kg,max_range_km\nElectric Van,1000,400\nRigid HGV,0,\nBarge,9000,\n"

	ref, report, err := NewCSVSource(writeTables(t, tables)).Load(context.Background())
	require.NoError(t, err)

	assert.Len(t, ref.Materials(), 1)
	assert.Equal(t, 5, report.SkippedIn(domain.TableMaterials))
	// Rigid HGV (bad capacity) and Barge (no emission factor).
	assert.Equal(t, 2, report.SkippedIn(domain.TableVehicleSpecs))
	// Rigid HGV and Hovercraft lack a usable spec row.
	assert.Equal(t, 2, report.SkippedIn(domain.TableVehicleEmissions))
	require.Len(t, ref.Vehicles(), 1)
	assert.Equal(t, "Electric Van", ref.Vehicles()[0].VehicleType)

	first := report.Skipped[0]
	assert.Equal(t, domain.TableVehicleSpecs, first.Table)
	assert.Equal(t, "Rigid HGV", first.Key)
	assert.ErrorIs(t, &first, domain.ErrInvalidFactor)

	var lead *domain.InvalidFactorError
	for i := range report.Skipped {
		if report.Skipped[i].Key == "Lead" {
			lead = &report.Skipped[i]
		}
	}
	require.NotNil(t, lead)
	assert.Equal(t, 3, lead.Row)
	assert.Contains(t, lead.Reason, "negative")
}

func TestCSVSourceDataLoadErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m map[string]string)
		table  string
		want   string
	}{
		{"missing file", func(m map[string]string) { delete(m, domain.TableWasteDisposal) }, domain.TableWasteDisposal, "no such file"},
		{"missing column", func(m map[string]string) {
			m[domain.TableMaterials] = "material,factor\nCardboard,0.045\n"
		}, domain.TableMaterials, "co2e_per_kg"},
		{"empty file", func(m map[string]string) { m[domain.TableVehicleSpecs] = "" }, domain.TableVehicleSpecs, "empty"},
		{"malformed", func(m map[string]string) {
			m[domain.TableWasteDisposal] = "disposal_method,co2e_per_kg\n\"Recycling,0.0016\n"
		}, domain.TableWasteDisposal, "malformed"},
		{"no valid rows", func(m map[string]string) {
			m[domain.TableWasteDisposal] = "disposal_method,co2e_per_kg\nRecycling,-1\n"
		}, domain.TableWasteDisposal, "no valid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tables := validTables()
			tt.mutate(tables)

			_, _, err := NewCSVSource(writeTables(t, tables)).Load(context.Background())
			var dle *domain.DataLoadError
			require.ErrorAs(t, err, &dle)
			assert.Equal(t, tt.table, dle.Table)
			assert.ErrorIs(t, err, domain.ErrDataLoad)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
