package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shipment-emissions-service/internal/domain"
	"shipment-emissions-service/internal/testutil"
)

var defaultPolicy = LookupPolicy{DefaultMaterial: "Cardboard", DefaultDisposalMethod: "Recycling"}

func TestComputeEmissionsLondonToParis(t *testing.T) {
	ref := testutil.Reference(t)

	res, err := ComputeEmissions(ref, domain.ShipmentRequest{
		Origin:      testutil.London,
		Destination: testutil.Paris,
		WeightKg:    100,
		Material:    "Cardboard",
	}, defaultPolicy)
	require.NoError(t, err)

	assert.Equal(t, "Electric Van", res.SelectedVehicle)
	assert.Equal(t, "Cardboard", res.Material)
	assert.Equal(t, "Recycling", res.DisposalMethod)
	assert.InEpsilon(t, 344.0, res.DistanceKm, 0.005)
	assert.InEpsilon(t, 20.10, res.TransportCo2e, 0.005)
	assert.InEpsilon(t, 4.50, res.PackagingCo2e, 0.005)
	assert.InEpsilon(t, 0.16, res.WasteCo2e, 0.005)
	assert.InEpsilon(t, 24.76, res.TotalCo2e, 0.005)
}

func TestComputeEmissionsAdditive(t *testing.T) {
	ref := testutil.Reference(t)
	dests := []domain.Coordinates{
		testutil.Paris,
		{Lat: 51.52, Lon: -0.10},
		{Lat: 40.4168, Lon: -3.7038},
		{Lat: 52.52, Lon: 13.405},
	}
	for _, dest := range dests {
		for _, w := range []float64{1, 75, 900, 12000} {
			for _, m := range []string{"Cardboard", "Plastic", "Glass"} {
				res, err := ComputeEmissions(ref, domain.ShipmentRequest{
					Origin: testutil.London, Destination: dest, WeightKg: w, Material: m, DisposalMethod: "Landfill",
				}, defaultPolicy)
				if err != nil {
					continue
				}
				assert.Equal(t, res.TransportCo2e+res.PackagingCo2e+res.WasteCo2e, res.TotalCo2e)
			}
		}
	}
}

func TestComputeEmissionsZeroDistance(t *testing.T) {
	ref := testutil.Reference(t)

	res, err := ComputeEmissions(ref, domain.ShipmentRequest{
		Origin: testutil.London, Destination: testutil.London, WeightKg: 100, Material: "Cardboard",
	}, defaultPolicy)
	require.NoError(t, err)

	assert.Zero(t, res.DistanceKm)
	assert.Zero(t, res.TransportCo2e)
	assert.Equal(t, res.PackagingCo2e+res.WasteCo2e, res.TotalCo2e)
}

func TestComputeEmissionsDefaultsAndAliases(t *testing.T) {
	ref := testutil.Reference(t)

	res, err := ComputeEmissions(ref, domain.ShipmentRequest{
		Origin: testutil.London, Destination: testutil.Paris, WeightKg: 10,
	}, defaultPolicy)
	require.NoError(t, err)
	assert.Equal(t, "Cardboard", res.Material)
	assert.Equal(t, "Recycling", res.DisposalMethod)

	res, err = ComputeEmissions(ref, domain.ShipmentRequest{
		Origin: testutil.London, Destination: testutil.Paris, WeightKg: 10, Material: "plastics", DisposalMethod: "landfill",
	}, defaultPolicy)
	require.NoError(t, err)
	assert.Equal(t, "Plastic", res.Material)
	assert.Equal(t, "Landfill", res.DisposalMethod)
}

func TestComputeEmissionsErrors(t *testing.T) {
	ref := testutil.Reference(t)
	valid := domain.ShipmentRequest{Origin: testutil.London, Destination: testutil.Paris, WeightKg: 100}

	tests := []struct {
		name   string
		mutate func(r *domain.ShipmentRequest)
		policy LookupPolicy
		want   error
	}{
		{"unknown material", func(r *domain.ShipmentRequest) { r.Material = "Unobtainium" }, defaultPolicy, domain.ErrUnknownMaterial},
		{"unknown default material", func(r *domain.ShipmentRequest) {}, LookupPolicy{DefaultMaterial: "Nope", DefaultDisposalMethod: "Recycling"}, domain.ErrUnknownMaterial},
		{"unknown disposal", func(r *domain.ShipmentRequest) { r.DisposalMethod = "Incineration" }, defaultPolicy, domain.ErrUnknownDisposalMethod},
		{"zero weight", func(r *domain.ShipmentRequest) { r.WeightKg = 0 }, defaultPolicy, domain.ErrInvalidWeight},
		{"negative weight", func(r *domain.ShipmentRequest) { r.WeightKg = -3 }, defaultPolicy, domain.ErrInvalidWeight},
		{"NaN weight", func(r *domain.ShipmentRequest) { r.WeightKg = math.NaN() }, defaultPolicy, domain.ErrInvalidWeight},
		{"bad origin", func(r *domain.ShipmentRequest) { r.Origin.Lat = 91 }, defaultPolicy, domain.ErrInvalidCoordinate},
		{"bad destination", func(r *domain.ShipmentRequest) { r.Destination.Lon = -181 }, defaultPolicy, domain.ErrInvalidCoordinate},
		{"too heavy", func(r *domain.ShipmentRequest) { r.WeightKg = 50000 }, defaultPolicy, domain.ErrNoFeasibleVehicle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			res, err := ComputeEmissions(ref, req, tt.policy)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestComputeEmissionsCapacityConstraintReported(t *testing.T) {
	ref := testutil.Reference(t)

	_, err := ComputeEmissions(ref, domain.ShipmentRequest{
		Origin: testutil.London, Destination: testutil.Paris, WeightKg: 45000, Material: "Cardboard",
	}, defaultPolicy)

	var nf *domain.NoFeasibleVehicleError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, domain.ConstraintCapacity, nf.Constraint)
}
