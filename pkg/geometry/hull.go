// Package geometry computes convex hull volumes of finite point sets in
// general dimension, the geometric core of the functional-richness metric.
//
// Algorithm outline:
//   - dimension 1: span length (max − min);
//   - dimension 2: Andrew's monotone chain hull, shoelace area;
//   - dimension ≥3: incremental beneath-beyond construction; an initial
//     full-rank simplex is grown by greedy farthest-point selection, then
//     each remaining point beyond the current boundary replaces its
//     visible facets with the cone over their horizon ridges; the volume
//     is the sum of facet-cone volumes from an interior reference point.
//
// Point sets that cannot span a full-dimensional region (too few points,
// rank-deficient configurations) yield ErrDegenerate rather than a partial
// result; callers decide whether degeneracy is an error or a defined zero.
package geometry

import (
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrNoPoints is returned for an empty point set.
	ErrNoPoints = errors.New("geometry: no points provided")
	// ErrDimensionMismatch is returned when the points do not share one
	// positive dimension.
	ErrDimensionMismatch = errors.New("geometry: points must share a positive dimension")
	// ErrDegenerate is returned when the point set cannot span a
	// full-dimensional region: fewer than d+1 points, or every candidate
	// lies within tolerance of a lower-dimensional subspace.
	ErrDegenerate = errors.New("geometry: point set is degenerate")
)

// baseEpsilon is the visibility tolerance per unit coordinate magnitude.
// Signed distances within this band of a facet plane count as on-plane, so
// duplicate and barely-exterior points do not generate sliver facets.
const baseEpsilon = 1e-9

// HullVolume returns the volume of the convex hull of points: length in
// one dimension, area in two, hypervolume in three and above.
func HullVolume(points [][]float64) (float64, error) {
	if len(points) == 0 {
		return 0, ErrNoPoints
	}
	d := len(points[0])
	if d == 0 {
		return 0, ErrDimensionMismatch
	}
	for _, p := range points {
		if len(p) != d {
			return 0, ErrDimensionMismatch
		}
	}
	// A full-dimensional hull needs at least d+1 points.
	if len(points) <= d {
		return 0, ErrDegenerate
	}

	switch d {
	case 1:
		return span(points)
	case 2:
		return area(points)
	}
	return volumeND(points, d)
}

// span is the 1-dimensional hull: the length of the covered interval.
func span(points [][]float64) (float64, error) {
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p[0]
	}
	length := floats.Max(values) - floats.Min(values)
	if length == 0 {
		return 0, ErrDegenerate
	}
	return length, nil
}

// area computes the 2-dimensional hull area with Andrew's monotone chain
// and the shoelace formula.
func area(points [][]float64) (float64, error) {
	pts := make([][]float64, len(points))
	copy(pts, points)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i][0] != pts[j][0] {
			return pts[i][0] < pts[j][0]
		}
		return pts[i][1] < pts[j][1]
	})

	cross := func(o, a, b []float64) float64 {
		return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
	}

	var lower, upper [][]float64
	for _, p := range pts {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}
	for i := len(pts) - 1; i >= 0; i-- {
		p := pts[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	hull := append(lower[:len(lower)-1], upper[:len(upper)-1]...)
	if len(hull) < 3 {
		return 0, ErrDegenerate
	}

	total := 0.0
	for i := range hull {
		j := (i + 1) % len(hull)
		total += hull[i][0]*hull[j][1] - hull[j][0]*hull[i][1]
	}
	return math.Abs(total) / 2, nil
}

// facet is one boundary simplex of the hull under construction: d vertex
// indices, a unit outward normal, and the plane offset normal·x = offset.
type facet struct {
	verts  []int
	normal []float64
	offset float64
}

// volumeND runs the beneath-beyond construction for d >= 3.
func volumeND(points [][]float64, d int) (float64, error) {
	scale := 1.0
	for _, p := range points {
		for _, v := range p {
			if a := math.Abs(v); a > scale {
				scale = a
			}
		}
	}
	eps := baseEpsilon * scale

	simplex, err := initialSimplex(points, d, eps)
	if err != nil {
		return 0, err
	}

	// The centroid of the initial simplex stays strictly interior as the
	// hull only ever grows outward from it.
	interior := make([]float64, d)
	for _, vi := range simplex {
		floats.Add(interior, points[vi])
	}
	floats.Scale(1/float64(len(simplex)), interior)

	facets := make([]facet, 0, d+1)
	for omit := 0; omit <= d; omit++ {
		facets = append(facets, newFacet(points, without(simplex, omit), interior))
	}

	inSimplex := make(map[int]bool, d+1)
	for _, vi := range simplex {
		inSimplex[vi] = true
	}

	for pi, p := range points {
		if inSimplex[pi] {
			continue
		}
		var visible, hidden []facet
		for _, f := range facets {
			if floats.Dot(f.normal, p)-f.offset > eps {
				visible = append(visible, f)
			} else {
				hidden = append(hidden, f)
			}
		}
		if len(visible) == 0 {
			continue
		}

		// Horizon ridges appear in exactly one visible facet; each ridge
		// plus the new point forms a replacement facet.
		ridges := make(map[string][]int)
		counts := make(map[string]int)
		for _, f := range visible {
			for omit := 0; omit < d; omit++ {
				rv := without(f.verts, omit)
				k := ridgeKey(rv)
				counts[k]++
				ridges[k] = rv
			}
		}
		keys := make([]string, 0, len(counts))
		for k := range counts {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		next := hidden
		for _, k := range keys {
			if counts[k] != 1 {
				continue
			}
			fverts := append(append([]int(nil), ridges[k]...), pi)
			next = append(next, newFacet(points, fverts, interior))
		}
		facets = next
	}

	volume := 0.0
	for _, f := range facets {
		volume += coneVolume(points, f.verts, interior)
	}
	return volume, nil
}

// initialSimplex greedily selects d+1 affinely independent points: starting
// from the lexicographically smallest point, each step takes the candidate
// farthest from the affine span of the current selection. Failure to clear
// the tolerance at any step means the whole set is rank deficient.
func initialSimplex(points [][]float64, d int, eps float64) ([]int, error) {
	start := 0
	for i := 1; i < len(points); i++ {
		if lexLess(points[i], points[start]) {
			start = i
		}
	}

	verts := []int{start}
	used := map[int]bool{start: true}
	base := points[start]
	var basis [][]float64

	for len(verts) < d+1 {
		best, bestDist := -1, eps
		var bestRes []float64
		for i := range points {
			if used[i] {
				continue
			}
			r := make([]float64, d)
			floats.SubTo(r, points[i], base)
			for _, b := range basis {
				floats.AddScaled(r, -floats.Dot(r, b), b)
			}
			if dist := floats.Norm(r, 2); dist > bestDist {
				best, bestDist, bestRes = i, dist, r
			}
		}
		if best < 0 {
			return nil, ErrDegenerate
		}
		floats.Scale(1/bestDist, bestRes)
		basis = append(basis, bestRes)
		verts = append(verts, best)
		used[best] = true
	}
	return verts, nil
}

// newFacet builds the boundary simplex over the given vertices with its
// normal oriented away from the interior point and normalized to unit
// length, so visibility tests are plain signed distances.
func newFacet(points [][]float64, verts []int, interior []float64) facet {
	d := len(interior)
	base := points[verts[0]]
	edges := make([][]float64, d-1)
	for k := 1; k < d; k++ {
		e := make([]float64, d)
		floats.SubTo(e, points[verts[k]], base)
		edges[k-1] = e
	}

	normal := crossNormal(edges, d)
	offset := floats.Dot(normal, base)
	if floats.Dot(normal, interior) > offset {
		floats.Scale(-1, normal)
		offset = -offset
	}
	if n := floats.Norm(normal, 2); n > 0 {
		floats.Scale(1/n, normal)
		offset /= n
	}

	return facet{verts: append([]int(nil), verts...), normal: normal, offset: offset}
}

// crossNormal computes the generalized cross product of d-1 edge vectors in
// d dimensions: component j is the signed (d-1)-minor determinant with
// column j removed.
func crossNormal(edges [][]float64, d int) []float64 {
	normal := make([]float64, d)
	for j := 0; j < d; j++ {
		minor := make([]float64, (d-1)*(d-1))
		idx := 0
		for r := 0; r < d-1; r++ {
			for c := 0; c < d; c++ {
				if c == j {
					continue
				}
				minor[idx] = edges[r][c]
				idx++
			}
		}
		det := mat.Det(mat.NewDense(d-1, d-1, minor))
		if j%2 == 1 {
			det = -det
		}
		normal[j] = det
	}
	return normal
}

// coneVolume is the volume of the simplex spanned by a facet and the
// interior reference point: |det| / d! over the vertex-minus-interior
// matrix. The cones over all facets partition the hull.
func coneVolume(points [][]float64, verts []int, interior []float64) float64 {
	d := len(interior)
	m := mat.NewDense(d, d, nil)
	for r, vi := range verts {
		for c := 0; c < d; c++ {
			m.Set(r, c, points[vi][c]-interior[c])
		}
	}
	return math.Abs(mat.Det(m)) / factorial(d)
}

func factorial(n int) float64 {
	f := 1.0
	for i := 2; i <= n; i++ {
		f *= float64(i)
	}
	return f
}

func without(verts []int, omit int) []int {
	out := make([]int, 0, len(verts)-1)
	for i, v := range verts {
		if i == omit {
			continue
		}
		out = append(out, v)
	}
	return out
}

func ridgeKey(verts []int) string {
	s := append([]int(nil), verts...)
	sort.Ints(s)
	var b strings.Builder
	for i, v := range s {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(v))
	}
	return b.String()
}

func lexLess(a, b []float64) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
