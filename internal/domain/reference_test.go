package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReference(t *testing.T) *ReferenceData {
	t.Helper()
	rng := 400.0
	ref, err := NewReferenceData(
		[]VehicleEmissionFactor{
			{VehicleType: "Electric Van", Co2ePerKmPerKg: 0.000585, MaxCapacityKg: 1000, MaxRangeKm: &rng},
			{VehicleType: "Rigid HGV", Co2ePerKmPerKg: 0.00098, MaxCapacityKg: 17000},
		},
		[]MaterialFactor{
			{MaterialName: "Cardboard", Co2ePerKg: 0.045, Aliases: []string{"board", "Paper and board: board"}},
			{MaterialName: "Plastic", Co2ePerKg: 0.31, Aliases: []string{"cardboard", "plastics"}},
		},
		[]WasteFactor{{DisposalMethod: "Recycling", Co2ePerKg: 0.0016}},
	)
	require.NoError(t, err)
	return ref
}

func TestReferenceMaterialLookup(t *testing.T) {
	ref := testReference(t)

	for _, name := range []string{"Cardboard", "cardboard", "  CARDBOARD ", "board", "paper  and board: BOARD"} {
		m, err := ref.Material(name)
		require.NoError(t, err, name)
		assert.Equal(t, "Cardboard", m.MaterialName)
	}

	m, err := ref.Material("plastics")
	require.NoError(t, err)
	assert.Equal(t, "Plastic", m.MaterialName)
}

func TestReferenceAliasNeverShadowsPrimary(t *testing.T) {
	ref := testReference(t)

	// "cardboard" is listed as a Plastic alias but is a primary name.
	m, err := ref.Material("cardboard")
	require.NoError(t, err)
	assert.Equal(t, "Cardboard", m.MaterialName)
}

func TestReferenceUnknownNames(t *testing.T) {
	ref := testReference(t)

	_, err := ref.Material("Unobtainium")
	var me *UnknownMaterialError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "Unobtainium", me.Material)
	assert.ErrorIs(t, err, ErrUnknownMaterial)

	_, err = ref.WasteMethod("Incineration")
	assert.ErrorIs(t, err, ErrUnknownDisposalMethod)
}

func TestReferenceVehiclesAreCopies(t *testing.T) {
	ref := testReference(t)

	vs := ref.Vehicles()
	vs[0].Co2ePerKmPerKg = 99
	*vs[0].MaxRangeKm = 1

	again := ref.Vehicles()
	assert.Equal(t, 0.000585, again[0].Co2ePerKmPerKg)
	require.NotNil(t, again[0].MaxRangeKm)
	assert.Equal(t, 400.0, *again[0].MaxRangeKm)
}

func TestReferenceMaterialAliasesAreCopies(t *testing.T) {
	ref := testReference(t)

	ms := ref.Materials()
	require.NotEmpty(t, ms[0].Aliases)
	ms[0].Aliases[0] = "mutated"

	m, err := ref.Material("Cardboard")
	require.NoError(t, err)
	m.Aliases[1] = "mutated"

	again, err := ref.Material("Cardboard")
	require.NoError(t, err)
	assert.Equal(t, []string{"board", "Paper and board: board"}, again.Aliases)
	assert.Equal(t, []string{"board", "Paper and board: board"}, ref.Materials()[0].Aliases)
}

func TestNewReferenceDataRejectsDuplicatesAndEmptyTables(t *testing.T) {
	_, err := NewReferenceData(nil, []MaterialFactor{{MaterialName: "a"}}, []WasteFactor{{DisposalMethod: "b"}})
	assert.Error(t, err)

	_, err = NewReferenceData(
		[]VehicleEmissionFactor{{VehicleType: "Van", MaxCapacityKg: 1}, {VehicleType: "van", MaxCapacityKg: 2}},
		[]MaterialFactor{{MaterialName: "a"}},
		[]WasteFactor{{DisposalMethod: "b"}},
	)
	assert.ErrorContains(t, err, "duplicate vehicle")
}

func TestReferenceSortedListings(t *testing.T) {
	ref := testReference(t)

	ms := ref.Materials()
	require.Len(t, ms, 2)
	assert.Equal(t, "Cardboard", ms[0].MaterialName)
	assert.Equal(t, "Plastic", ms[1].MaterialName)

	ws := ref.WasteMethods()
	require.Len(t, ws, 1)
	assert.Equal(t, "Recycling", ws[0].DisposalMethod)
}
