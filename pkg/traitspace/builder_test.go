package traitspace

import (
	"bytes"
	"fmt"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/Laranguyen811/diagnostic-tool/pkg/validation"
)

func continuousBatch() []validation.Record {
	return []validation.Record{
		{"trait_1": 1.0, "trait_2": 4.0, "species_id": "s1", "abundance": 10.0},
		{"trait_1": 2.0, "trait_2": 4.0, "species_id": "s2", "abundance": 5.0},
		{"trait_1": 3.0, "trait_2": 4.0, "species_id": "s3", "abundance": 2.0},
	}
}

func TestBuild_AllContinuous(t *testing.T) {
	b := NewBuilder(zerolog.Nop())

	m, err := b.Build(continuousBatch(), 2)
	require.NoError(t, err)

	rows, cols := m.Dims()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 2, cols)
	assert.Equal(t, []string{"trait_1", "trait_2"}, m.Columns)
	assert.Equal(t, []string{"s1", "s2", "s3"}, m.SpeciesIDs)
	assert.Equal(t, []float64{10, 5, 2}, m.Abundances)

	// trait_1 is mean-centered and scaled by the population deviation
	assert.InDelta(t, -1.224744871391589, m.Data.At(0, 0), 1e-9)
	assert.InDelta(t, 0.0, m.Data.At(1, 0), 1e-9)
	assert.InDelta(t, 1.224744871391589, m.Data.At(2, 0), 1e-9)

	// trait_2 has zero variance and collapses to zeros
	for r := 0; r < rows; r++ {
		assert.Equal(t, 0.0, m.Data.At(r, 1))
	}
}

func TestBuild_WideContinuousBatch(t *testing.T) {
	records := make([]validation.Record, 3)
	for r := range records {
		rec := validation.Record{
			"species_id": fmt.Sprintf("s%d", r+1),
			"abundance":  1.0,
		}
		for i := 1; i <= 6; i++ {
			rec[TraitField(i)] = float64((r + 1) * i)
		}
		records[r] = rec
	}
	b := NewBuilder(zerolog.Nop())

	m, err := b.Build(records, 6)
	require.NoError(t, err)

	rows, cols := m.Dims()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 6, cols)
	for _, name := range m.Columns {
		assert.NotContains(t, name, "=")
	}
}

func TestBuild_StrayStringMakesColumnCategorical(t *testing.T) {
	records := []validation.Record{
		{"trait_1": "shrub", "species_id": "s1", "abundance": 1.0},
		{"trait_1": 2.0, "species_id": "s2", "abundance": 1.0},
		{"trait_1": "shrub", "species_id": "s3", "abundance": 1.0},
	}
	b := NewBuilder(zerolog.Nop())

	m, err := b.Build(records, 1)
	require.NoError(t, err)

	// the numeric 2.0 becomes the category label "2", sorted before "shrub"
	assert.Equal(t, []string{"trait_1=2", "trait_1=shrub"}, m.Columns)

	assert.Equal(t, []float64{0, 1}, mat.Row(nil, 0, m.Data))
	assert.Equal(t, []float64{1, 0}, mat.Row(nil, 1, m.Data))
	assert.Equal(t, []float64{0, 1}, mat.Row(nil, 2, m.Data))
}

func TestBuild_CategoricalBlockComesFirst(t *testing.T) {
	records := []validation.Record{
		{"trait_1": 1.0, "trait_2": "forest", "species_id": "s1", "abundance": 1.0},
		{"trait_1": 2.0, "trait_2": "meadow", "species_id": "s2", "abundance": 1.0},
	}
	b := NewBuilder(zerolog.Nop())

	m, err := b.Build(records, 2)
	require.NoError(t, err)

	// one-hot columns precede continuous ones regardless of trait index
	assert.Equal(t, []string{"trait_2=forest", "trait_2=meadow", "trait_1"}, m.Columns)
}

func TestBuild_Deterministic(t *testing.T) {
	records := []validation.Record{
		{"trait_1": "a", "trait_2": 0.3, "species_id": "s1", "abundance": 1.0},
		{"trait_1": "c", "trait_2": 0.7, "species_id": "s2", "abundance": 2.0},
		{"trait_1": "b", "trait_2": 0.5, "species_id": "s3", "abundance": 3.0},
	}
	b := NewBuilder(zerolog.Nop())

	first, err := b.Build(records, 2)
	require.NoError(t, err)
	second, err := b.Build(records, 2)
	require.NoError(t, err)

	assert.Equal(t, first.Columns, second.Columns)
	assert.True(t, mat.Equal(first.Data, second.Data))
}

func TestBuild_EmptyBatch(t *testing.T) {
	b := NewBuilder(zerolog.Nop())

	_, err := b.Build(nil, 3)
	assert.ErrorIs(t, err, ErrNoRecords)
}

func TestBuild_InvalidTraitCount(t *testing.T) {
	b := NewBuilder(zerolog.Nop())

	_, err := b.Build(continuousBatch(), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trait count must be positive")
}

func TestBuild_MissingFieldFailsBatch(t *testing.T) {
	records := []validation.Record{
		{"trait_1": 1.0, "species_id": "s1", "abundance": 1.0},
		{"species_id": "s2", "abundance": 1.0},
	}
	b := NewBuilder(zerolog.Nop())

	_, err := b.Build(records, 1)
	require.Error(t, err)

	var missing validation.MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, 1, missing.Index)
	assert.Equal(t, "trait_1", missing.Field)
}

func TestBuild_NegativeAbundanceRetained(t *testing.T) {
	records := []validation.Record{
		{"trait_1": 1.0, "species_id": "s1", "abundance": 3.0},
		{"trait_1": 2.0, "species_id": "s2", "abundance": -2.0},
	}

	var buf bytes.Buffer
	b := NewBuilder(zerolog.New(&buf))

	m, err := b.Build(records, 1)
	require.NoError(t, err)

	rows, _ := m.Dims()
	assert.Equal(t, 2, rows)
	assert.Equal(t, []float64{3, -2}, m.Abundances)
	assert.Contains(t, buf.String(), "negative abundance")
}

func TestBuild_NonFiniteTraitRejected(t *testing.T) {
	records := []validation.Record{
		{"trait_1": 1.0, "species_id": "s1", "abundance": 1.0},
		{"trait_1": math.NaN(), "species_id": "s2", "abundance": 1.0},
	}
	b := NewBuilder(zerolog.Nop())

	_, err := b.Build(records, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-finite")
}

func TestBuild_NonFiniteAbundanceRejected(t *testing.T) {
	records := []validation.Record{
		{"trait_1": 1.0, "species_id": "s1", "abundance": math.Inf(1)},
	}
	b := NewBuilder(zerolog.Nop())

	_, err := b.Build(records, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "abundance")
}

func TestBuild_NumericSpeciesID(t *testing.T) {
	records := []validation.Record{
		{"trait_1": 1.0, "species_id": 3.0, "abundance": 1.0},
		{"trait_1": 2.0, "species_id": 4, "abundance": 1.0},
	}
	b := NewBuilder(zerolog.Nop())

	m, err := b.Build(records, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "4"}, m.SpeciesIDs)
}

func TestSchema(t *testing.T) {
	schema := Schema(2)

	require.Len(t, schema, 4)
	assert.Contains(t, schema, "trait_1")
	assert.Contains(t, schema, "trait_2")
	assert.Contains(t, schema, "species_id")
	assert.Contains(t, schema, "abundance")
}

func TestClassify(t *testing.T) {
	records := []validation.Record{
		{"trait_1": 1.0, "trait_2": "a"},
		{"trait_1": 2.0, "trait_2": 3.0},
	}

	categorical := Classify(records, 2)
	assert.False(t, categorical["trait_1"])
	assert.True(t, categorical["trait_2"])
}

func TestMatrix_Rows(t *testing.T) {
	b := NewBuilder(zerolog.Nop())

	m, err := b.Build(continuousBatch(), 2)
	require.NoError(t, err)

	rows := m.Rows()
	require.Len(t, rows, 3)
	assert.InDelta(t, m.Data.At(0, 0), rows[0][0], 0)
	assert.InDelta(t, m.Data.At(2, 1), rows[2][1], 0)
}
