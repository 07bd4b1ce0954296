// Package biodiversity implements the ecological metric battery: habitat
// biodiversity units, species richness, diversity indices (Shannon-Wiener,
// Simpson), habitat condition, endemism, and convex-hull functional
// richness over encoded trait spaces.
//
// Scalar metrics validate their inputs and fail fast. Batch metrics live on
// Calculator: they screen records, skip invalid ones with a logged warning,
// and report the skip count alongside the value.
package biodiversity

import (
	"errors"
	"math"

	"github.com/Laranguyen811/diagnostic-tool/pkg/validation"
)

var (
	// ErrZeroArea rejects a zero-area habitat in strict mode.
	ErrZeroArea = errors.New("biodiversity: area must be greater than zero")
	// ErrNoIndividuals rejects an empty community in strict mode.
	ErrNoIndividuals = errors.New("biodiversity: total number of individuals must be greater than zero")
	// ErrZeroCount rejects zero-count species in strict mode.
	ErrZeroCount = errors.New("biodiversity: zero count species encountered in strict mode")
	// ErrNegativeCount rejects negative species counts.
	ErrNegativeCount = errors.New("biodiversity: species counts must be non-negative")
	// ErrInsufficientIndividuals rejects communities too small for the
	// Simpson index in strict mode.
	ErrInsufficientIndividuals = errors.New("biodiversity: at least two individuals are required")
	// ErrNoValidRecords is returned when screening leaves a batch metric
	// with nothing to aggregate.
	ErrNoValidRecords = errors.New("biodiversity: no valid records in batch")
)

var unitSchema = validation.Schema{
	"area":                   validation.NumericRange(0.01, math.Inf(1)),
	"distinctiveness":        validation.NumericRange(0, 1),
	"condition":              validation.NumericRange(0, 1),
	"strategic_significance": validation.NumericRange(0, 1),
	"connectivity":           validation.NumericRange(0, 1),
}

var richnessSchema = validation.Schema{
	"total_species": validation.NumericRange(0, math.Inf(1)),
	"area":          validation.NumericRange(0, math.Inf(1)),
}

// Units calculates the biodiversity units of a habitat parcel from its
// area, distinctiveness, condition, strategic significance, and
// connectivity. The four quality scores must lie in [0, 1] and the area
// must be at least 0.01 hectares; the result is their product.
func Units(rec validation.Record) (float64, error) {
	if err := validation.Check(0, rec, unitSchema); err != nil {
		return 0, err
	}
	area, _ := validation.Float(rec["area"])
	distinctiveness, _ := validation.Float(rec["distinctiveness"])
	condition, _ := validation.Float(rec["condition"])
	strategic, _ := validation.Float(rec["strategic_significance"])
	connectivity, _ := validation.Float(rec["connectivity"])

	return area * distinctiveness * condition * strategic * connectivity, nil
}

// SpeciesRichness calculates species per hectare from a record with
// total_species and area fields. A zero area is an error in strict mode
// and NaN otherwise.
func SpeciesRichness(rec validation.Record, strict bool) (float64, error) {
	if err := validation.Check(0, rec, richnessSchema); err != nil {
		return 0, err
	}
	totalSpecies, _ := validation.Float(rec["total_species"])
	area, _ := validation.Float(rec["area"])

	if area == 0 {
		if strict {
			return 0, ErrZeroArea
		}
		return math.NaN(), nil
	}
	return totalSpecies / area, nil
}

// ShannonWiener calculates one species' contribution −p·ln(p) to the
// Shannon-Wiener index, where p = ni/n. A non-positive community total is
// an error in strict mode and NaN otherwise; a zero proportion yields NaN.
func ShannonWiener(ni, n int, strict bool) (float64, error) {
	if n <= 0 {
		if strict {
			return 0, ErrNoIndividuals
		}
		return math.NaN(), nil
	}
	p := float64(ni) / float64(n)
	if p <= 0 {
		return math.NaN(), nil
	}
	return -p * math.Log(p), nil
}

// ShannonWienerBatch calculates the Shannon-Wiener index −Σ p·ln(p) over a
// community of per-species individual counts. The index is sensitive to
// rare species, so counts must be exact non-negative integers. Strict mode
// rejects zero-count species; otherwise they are excluded from the sum.
func ShannonWienerBatch(counts []int, strict bool) (float64, error) {
	n := 0
	for _, c := range counts {
		if c < 0 {
			return 0, ErrNegativeCount
		}
		n += c
	}
	if n <= 0 {
		if strict {
			return 0, ErrNoIndividuals
		}
		return math.NaN(), nil
	}

	index := 0.0
	for _, c := range counts {
		if c == 0 {
			if strict {
				return 0, ErrZeroCount
			}
			continue
		}
		p := float64(c) / float64(n)
		index -= p * math.Log(p)
	}
	return index, nil
}

// Simpson calculates Simpson's diversity index
// D = 1 − Σ nᵢ(nᵢ−1) / (N(N−1)) over per-species individual counts, the
// finite-sample form. Communities with fewer than two individuals are an
// error in strict mode and NaN otherwise.
func Simpson(counts []int, strict bool) (float64, error) {
	n := 0
	for _, c := range counts {
		if c < 0 {
			return 0, ErrNegativeCount
		}
		n += c
	}
	if n <= 1 {
		if strict {
			return 0, ErrInsufficientIndividuals
		}
		return math.NaN(), nil
	}

	pairs := 0.0
	for _, c := range counts {
		pairs += float64(c) * float64(c-1)
	}
	return 1 - pairs/(float64(n)*float64(n-1)), nil
}

// Habitat condition component weights.
const (
	weightVegetation = 0.25
	weightSoil       = 0.25
	weightWater      = 0.20
	weightInvasives  = 0.15 // applied to (1 − invasive presence)
	weightFauna      = 0.15
)

// HabitatCondition calculates the weighted habitat condition score from
// five component fractions, each in [0, 1]. Invasive species presence
// counts against the score, so its complement is weighted.
func HabitatCondition(vegetationCover, soilQuality, waterQuality, invasiveSpecies, faunaDiversity float64) (float64, error) {
	inputs := []struct {
		name  string
		value float64
	}{
		{"vegetation_cover", vegetationCover},
		{"soil_quality", soilQuality},
		{"water_quality", waterQuality},
		{"invasive_species", invasiveSpecies},
		{"fauna_diversity", faunaDiversity},
	}
	for _, in := range inputs {
		if err := validation.Range(in.value, 0, 1, in.name); err != nil {
			return 0, err
		}
	}

	return vegetationCover*weightVegetation +
		soilQuality*weightSoil +
		waterQuality*weightWater +
		(1-invasiveSpecies)*weightInvasives +
		faunaDiversity*weightFauna, nil
}
