package traitspace

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/Laranguyen811/diagnostic-tool/pkg/formulas"
	"github.com/Laranguyen811/diagnostic-tool/pkg/logger"
	"github.com/Laranguyen811/diagnostic-tool/pkg/validation"
)

// ErrNoRecords is returned when a build is attempted over an empty batch:
// no columns can be derived without at least one record.
var ErrNoRecords = errors.New("traitspace: no records provided")

// TraitField returns the field name of the i-th trait column (1-based),
// "trait_1" through "trait_N".
func TraitField(i int) string {
	return fmt.Sprintf("trait_%d", i)
}

// Schema builds the validation schema for a batch with traitCount trait
// columns: every trait accepts a string (categorical) or numeric
// (continuous) value, species_id accepts a string or numeric identifier,
// and abundance must be numeric. Abundance non-negativity is a warning
// policy applied during Build, not a schema range, so a negative value
// never disqualifies a record.
func Schema(traitCount int) validation.Schema {
	schema := validation.Schema{
		"species_id": validation.Types(validation.TypeString, validation.TypeFloat, validation.TypeInt),
		"abundance":  validation.Numeric(),
	}
	for i := 1; i <= traitCount; i++ {
		schema[TraitField(i)] = validation.Types(validation.TypeString, validation.TypeFloat, validation.TypeInt)
	}
	return schema
}

// Classify determines the kind of each trait column over the whole batch:
// a column is categorical if ANY of its values is a string, otherwise
// continuous. The rule is batch-stable: one stray string in an otherwise
// numeric column makes the entire column categorical, and its numeric
// values become category labels.
func Classify(records []validation.Record, traitCount int) map[string]bool {
	categorical := make(map[string]bool, traitCount)
	for i := 1; i <= traitCount; i++ {
		field := TraitField(i)
		for _, rec := range records {
			if _, isString := rec[field].(string); isString {
				categorical[field] = true
				break
			}
		}
	}
	return categorical
}

// Builder encodes trait records into matrices. The logger carries the
// abundance diagnostics emitted while building.
type Builder struct {
	log zerolog.Logger
}

// NewBuilder creates a Builder that logs diagnostics through the given
// logger.
func NewBuilder(log zerolog.Logger) *Builder {
	return &Builder{log: logger.Component(log, "traitspace")}
}

// Build validates the records against Schema(traitCount) and encodes them.
//
// Encoding steps:
//  1. classify each trait column (categorical if any string value);
//  2. one-hot encode categorical columns: one binary column per distinct
//     label, labels sorted within each trait, traits in index order;
//  3. standardize continuous columns: subtract the batch mean and divide
//     by the batch population standard deviation; a zero-variance column
//     becomes all zeros;
//  4. concatenate the categorical block then the continuous block.
//
// A negative abundance logs a "negative abundance" warning and the record
// is kept: abundance annotates the matrix but plays no part in hull
// geometry, so dropping the record would silently shrink the measured
// trait space. Non-finite continuous values are a hard error.
func (b *Builder) Build(records []validation.Record, traitCount int) (*Matrix, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	if traitCount <= 0 {
		return nil, fmt.Errorf("traitspace: trait count must be positive, got %d", traitCount)
	}
	if err := validation.Records(records, Schema(traitCount)); err != nil {
		return nil, err
	}

	speciesIDs := make([]string, len(records))
	abundances := make([]float64, len(records))
	for i, rec := range records {
		speciesIDs[i] = label(rec["species_id"])
		ab, _ := validation.Float(rec["abundance"])
		if math.IsNaN(ab) || math.IsInf(ab, 0) {
			return nil, fmt.Errorf("traitspace: record %d: field %q: non-finite value %v", i, "abundance", ab)
		}
		if ab < 0 {
			b.log.Warn().
				Int("record", i).
				Float64("abundance", ab).
				Msg("negative abundance, record retained")
		}
		abundances[i] = ab
	}

	categorical := Classify(records, traitCount)

	var columns []string
	var blocks [][]float64

	// Categorical block: trait index order, sorted labels within a trait.
	for i := 1; i <= traitCount; i++ {
		field := TraitField(i)
		if !categorical[field] {
			continue
		}
		labels := make([]string, len(records))
		seen := make(map[string]struct{})
		for r, rec := range records {
			labels[r] = label(rec[field])
			seen[labels[r]] = struct{}{}
		}
		distinct := make([]string, 0, len(seen))
		for l := range seen {
			distinct = append(distinct, l)
		}
		sort.Strings(distinct)
		for _, l := range distinct {
			col := make([]float64, len(records))
			for r := range records {
				if labels[r] == l {
					col[r] = 1
				}
			}
			columns = append(columns, field+"="+l)
			blocks = append(blocks, col)
		}
	}

	// Continuous block: trait index order.
	for i := 1; i <= traitCount; i++ {
		field := TraitField(i)
		if categorical[field] {
			continue
		}
		col := make([]float64, len(records))
		for r, rec := range records {
			v, _ := validation.Float(rec[field])
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("traitspace: record %d: field %q: non-finite value %v", r, field, v)
			}
			col[r] = v
		}
		columns = append(columns, field)
		blocks = append(blocks, standardize(col))
	}

	data := mat.NewDense(len(records), len(blocks), nil)
	for j, col := range blocks {
		data.SetCol(j, col)
	}

	return &Matrix{
		Data:       data,
		Columns:    columns,
		SpeciesIDs: speciesIDs,
		Abundances: abundances,
	}, nil
}

// standardize mean-centers and unit-scales one column using the population
// standard deviation, so a single-row batch is well defined. Zero variance
// maps every entry to 0 rather than dividing by zero.
func standardize(col []float64) []float64 {
	mean := formulas.Mean(col)
	sd := formulas.PopStdDev(col)
	out := make([]float64, len(col))
	if sd == 0 {
		return out
	}
	for i, v := range col {
		out[i] = (v - mean) / sd
	}
	return out
}

// label renders a record value as a category label: strings pass through,
// numerics use their shortest exact decimal form so 3 and 3.0 share a
// label.
func label(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if n, ok := validation.Float(v); ok {
		return strconv.FormatFloat(n, 'g', -1, 64)
	}
	return fmt.Sprintf("%v", v)
}
