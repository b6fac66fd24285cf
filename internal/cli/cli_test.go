package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shipment-emissions-service/internal/adapters/reference"
	"shipment-emissions-service/internal/api/dto"
	"shipment-emissions-service/internal/domain"
)

const referenceDir = "../../data/reference"

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("EMISSIONS_CONFIG", "")
	t.Setenv("EMISSIONS_GEOCODER__ENABLED", "false")
	t.Setenv("EMISSIONS_TRACING__ENDPOINT", "")
	t.Setenv("EMISSIONS_LOGGING__LEVEL", "")

	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--reference", referenceDir}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCalculateTable(t *testing.T) {
	out, _, err := run(t, "calculate", "--origin", "51.5074,-0.1278", "--destination", "48.8566,2.3522", "--weight", "100")
	require.NoError(t, err)

	assert.Contains(t, out, "Carbon Footprint Analysis")
	assert.Regexp(t, `Recommended Vehicle\s+Electric Van`, out)
	assert.Regexp(t, `Packaging Material\s+Cardboard`, out)
	assert.Regexp(t, `Disposal Method\s+Recycling`, out)
	assert.Regexp(t, `Distance \(km\)\s+343\.56`, out)
	assert.Regexp(t, `Total CO2e \(kg\)\s+24\.76`, out)
	assert.Regexp(t, `Transport Emissions\s+20\.10 kg CO2e`, out)
}

func TestCalculateJSON(t *testing.T) {
	out, _, err := run(t, "calculate", "--origin", "51.5074,-0.1278", "--destination", "48.8566,2.3522",
		"--weight", "100", "--material", "plastic", "--json")
	require.NoError(t, err)

	var resp dto.CalculationResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "Electric Van", resp.Recommendation.Vehicle)
	assert.Equal(t, "Plastic", resp.Recommendation.Material)
	assert.InDelta(t, 343.556, resp.DistanceKm, 0.01)
	assert.InDelta(t, resp.Recommendation.Co2e,
		resp.Recommendation.Breakdown.Transport+resp.Recommendation.Breakdown.Packaging+resp.Recommendation.Breakdown.Waste, 1e-9)
}

func TestCalculateErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		is   error
	}{
		{"zero weight", []string{"--origin", "0,0", "--destination", "1,1", "--weight", "0"}, domain.ErrInvalidWeight},
		{"bad latitude", []string{"--origin", "91,0", "--destination", "1,1", "--weight", "5"}, domain.ErrInvalidCoordinate},
		{"unknown material", []string{"--origin", "0,0", "--destination", "1,1", "--weight", "5", "--material", "Unobtainium"}, domain.ErrUnknownMaterial},
		{"too heavy", []string{"--origin", "0,0", "--destination", "1,1", "--weight", "1000000"}, domain.ErrNoFeasibleVehicle},
		{"place name without geocoder", []string{"--origin", "London", "--destination", "1,1", "--weight", "5"}, domain.ErrLocationNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(t, append([]string{"calculate"}, tt.args...)...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.is)
			assert.Empty(t, out)
		})
	}
}

func TestCalculateRequiresFlags(t *testing.T) {
	_, _, err := run(t, "calculate", "--origin", "0,0")
	assert.ErrorContains(t, err, "required flag")
}

func TestReferenceTable(t *testing.T) {
	out, _, err := run(t, "reference")
	require.NoError(t, err)

	assert.Regexp(t, `Articulated HGV\s+0\.00079\s+44000\s+unlimited`, out)
	assert.Regexp(t, `Cargo Bike\s+3e-05\s+150\s+50`, out)
	assert.Contains(t, out, "MATERIAL")
	assert.Contains(t, out, "DISPOSAL METHOD")
}

func TestReferenceJSON(t *testing.T) {
	out, _, err := run(t, "reference", "--json")
	require.NoError(t, err)

	var resp dto.ReferenceResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.NotEmpty(t, resp.Vehicles)
	assert.Equal(t, "Cardboard", resp.Defaults.Material)
}

func TestReferenceExportRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "factors.xlsx")
	out, _, err := run(t, "reference", "--export", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	ref, _, err := reference.NewXLSXSource(path).Load(t.Context())
	require.NoError(t, err)
	assert.NotEmpty(t, ref.Vehicles())

	// The exported workbook works as a --reference source.
	t.Setenv("EMISSIONS_CONFIG", "")
	var stdout bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--reference", path, "calculate", "--origin", "51.5074,-0.1278", "--destination", "48.8566,2.3522", "--weight", "100", "--json"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), `"vehicle": "Electric Van"`)
}

func TestMissingReferenceFails(t *testing.T) {
	t.Setenv("EMISSIONS_CONFIG", "")
	t.Setenv("EMISSIONS_GEOCODER__ENABLED", "false")
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--reference", filepath.Join(t.TempDir(), "none"), "reference"})
	err := cmd.Execute()
	assert.ErrorIs(t, err, domain.ErrDataLoad)
}

func TestLogLevelFallback(t *testing.T) {
	t.Setenv("EMISSIONS_LOGGING__LEVEL", "")
	withLevel := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(withLevel, []byte("logging:\n  level: info\n"), 0o644))
	withoutLevel := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(withoutLevel, []byte("server:\n  port: 9090\n"), 0o644))

	tests := []struct {
		name string
		opts rootOptions
		mode runMode
		want string
	}{
		{"file level kept for one-shot", rootOptions{configPath: withLevel}, oneShot, "info"},
		{"file level kept for server", rootOptions{configPath: withLevel}, longRunning, "info"},
		{"one-shot quiet by default", rootOptions{configPath: withoutLevel}, oneShot, "warn"},
		{"server keeps default level", rootOptions{configPath: withoutLevel}, longRunning, "info"},
		{"verbose wins", rootOptions{configPath: withLevel, verbose: true}, oneShot, "debug"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := tt.opts.loadConfig(tt.mode)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Logging.Level)
		})
	}

	t.Run("env level kept for one-shot", func(t *testing.T) {
		t.Setenv("EMISSIONS_LOGGING__LEVEL", "error")
		cfg, err := (&rootOptions{configPath: withoutLevel}).loadConfig(oneShot)
		require.NoError(t, err)
		assert.Equal(t, "error", cfg.Logging.Level)
	})
}
