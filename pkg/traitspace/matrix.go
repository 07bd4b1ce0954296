// Package traitspace converts batches of per-species trait records into the
// numeric feature matrix the functional-richness computation runs on.
// Categorical traits are one-hot encoded, continuous traits are
// mean-centered and unit-scaled, and the two blocks are concatenated
// categorical-first. The transform is a batch operation: the encoding
// vocabulary is whatever this batch exhibits, and identical input always
// produces a bit-identical matrix.
package traitspace

import (
	"gonum.org/v1/gonum/mat"
)

// Matrix is the encoded trait space built from a batch of trait records:
// one row per record (input order preserved), columns partitioned into the
// one-hot categorical block followed by the standardized continuous block.
type Matrix struct {
	Data       *mat.Dense
	Columns    []string
	SpeciesIDs []string
	Abundances []float64
}

// Dims returns the row and column counts of the encoded matrix.
func (m *Matrix) Dims() (rows, cols int) {
	return m.Data.Dims()
}

// Rows returns the matrix as one coordinate slice per record, the point-set
// form the hull computation consumes.
func (m *Matrix) Rows() [][]float64 {
	r, _ := m.Data.Dims()
	out := make([][]float64, r)
	for i := range out {
		out[i] = mat.Row(nil, i, m.Data)
	}
	return out
}
