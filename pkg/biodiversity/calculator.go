package biodiversity

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/Laranguyen811/diagnostic-tool/pkg/formulas"
	"github.com/Laranguyen811/diagnostic-tool/pkg/geometry"
	"github.com/Laranguyen811/diagnostic-tool/pkg/logger"
	"github.com/Laranguyen811/diagnostic-tool/pkg/traitspace"
	"github.com/Laranguyen811/diagnostic-tool/pkg/validation"
)

// hullPrecision is the documented precision of the functional richness
// value: volumes are rounded to 10 decimal places so near-coplanar point
// sets collapse deterministically to exactly zero on every platform.
const hullPrecision = 10

var endemismSchema = validation.Schema{
	"presence":      validation.TypedRange(0, 1, validation.TypeInt, validation.TypeFloat, validation.TypeBool),
	"total_regions": validation.NumericRange(1, math.Inf(1)),
}

// Calculator hosts the aggregate metrics that tolerate partially invalid
// batches. Invalid records are skipped with a logged warning and counted;
// the skip count is returned alongside the metric value so callers can
// judge how much of the batch contributed.
type Calculator struct {
	log     zerolog.Logger
	builder *traitspace.Builder
}

// NewCalculator creates a Calculator emitting diagnostics through the
// given logger.
func NewCalculator(log zerolog.Logger) *Calculator {
	return &Calculator{
		log:     logger.Component(log, "biodiversity"),
		builder: traitspace.NewBuilder(log),
	}
}

// Endemism aggregates presence/absence observations into an endemism
// score: the sum over surviving records of presence ÷ total_regions. Each
// record needs a presence flag (0/1, boolean accepted) and a positive
// total_regions count. Invalid records are skipped with a warning; the
// second return is the skip count.
func (c *Calculator) Endemism(records []validation.Record) (float64, int, error) {
	report, valid := validation.Screen(records, endemismSchema, c.log)
	if len(valid) == 0 {
		return 0, report.Skipped, ErrNoValidRecords
	}

	total := 0.0
	for _, rec := range valid {
		presence, _ := validation.Float(rec["presence"])
		regions, _ := validation.Float(rec["total_regions"])
		total += presence / regions
	}
	return total, report.Skipped, nil
}

// FunctionalRichness measures trait-space coverage as the convex hull
// volume of the batch's species in encoded trait space. Records are
// screened first (invalid ones skipped with a warning and counted), the
// survivors are encoded into a trait matrix, and the hull volume of the
// matrix rows is computed and rounded to the documented precision.
//
// Two degenerate outcomes are defined results, not errors:
//   - species count ≤ encoded dimensionality: the points cannot span a
//     full-dimensional region, so the volume is 0.0 ("insufficient rank");
//   - hull construction failure on a rank-deficient configuration: 0.0.
//
// Both emit an informational diagnostic carrying the batch id.
func (c *Calculator) FunctionalRichness(records []validation.Record, traitCount int) (float64, int, error) {
	report, valid := validation.Screen(records, traitspace.Schema(traitCount), c.log)
	if len(valid) == 0 {
		return 0, report.Skipped, ErrNoValidRecords
	}

	m, err := c.builder.Build(valid, traitCount)
	if err != nil {
		return 0, report.Skipped, err
	}

	rows, cols := m.Dims()
	if rows <= cols {
		c.log.Info().
			Str("batch_id", report.BatchID).
			Int("species", rows).
			Int("dimensions", cols).
			Msg("insufficient rank: species count does not exceed trait-space dimensionality, volume is zero")
		return 0, report.Skipped, nil
	}

	volume, err := geometry.HullVolume(m.Rows())
	if err != nil {
		c.log.Info().
			Str("batch_id", report.BatchID).
			Err(err).
			Msg("degenerate hull geometry, volume is zero")
		return 0, report.Skipped, nil
	}

	return formulas.Round(volume, hullPrecision), report.Skipped, nil
}
