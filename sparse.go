package glmpath

import "math"

// SparseColumn is one compressed-sparse-column of the design matrix,
// grounded on other_examples/baranylcn-dit__sparse.go's SparseVector
// (Indices/Values pair with a Dot helper), narrowed to a single column.
type SparseColumn struct {
	Indices []int     // row indices, strictly increasing
	Values  []float64  // nonzero values, parallel to Indices
}

// Nnz returns the number of stored nonzeros in the column.
func (c SparseColumn) Nnz() int { return len(c.Indices) }

// SparseDataView is a column-major CSC DataView (spec §3, §4.1): per-column
// mean/scale are precomputed once and every operation on column j acts on
// (X[:,j] - xm[j]) / xs[j] without ever materializing the dense centered
// column, via the centered-dot formula of spec §4.1.
type SparseDataView struct {
	cols         []SparseColumn
	n, p         int
	standardized bool
	xm, xs       []float64
}

// NewSparseDataView builds a DataView over a CSC matrix given as one
// SparseColumn per variable. xm/xs are precomputed by the caller (per
// spec §6, sparse entry points take xm/xs as inputs) when standardize is
// true; pass nil slices to have them computed here with 1/n moments.
func NewSparseDataView(cols []SparseColumn, n int, standardize bool, xm, xs []float64) *SparseDataView {
	p := len(cols)
	v := &SparseDataView{cols: cols, n: n, p: p, standardized: standardize}
	if xm != nil && xs != nil {
		v.xm, v.xs = xm, xs
		return v
	}
	v.xm = make([]float64, p)
	v.xs = make([]float64, p)
	for j, c := range cols {
		if !standardize {
			v.xm[j], v.xs[j] = 0, 1
			continue
		}
		var sum float64
		for _, val := range c.Values {
			sum += val
		}
		mean := sum / float64(n)
		var ss float64
		nz := 0
		for _, val := range c.Values {
			d := val - mean
			ss += d * d
			nz++
		}
		// zeros also contribute (val=0) via implicit entries.
		ss += float64(n-nz) * mean * mean
		scale := math.Sqrt(ss / float64(n))
		if scale < 1e-12 {
			scale = 1.0
		}
		v.xm[j], v.xs[j] = mean, scale
	}
	return v
}

func (v *SparseDataView) N() int              { return v.n }
func (v *SparseDataView) P() int              { return v.p }
func (v *SparseDataView) Standardized() bool  { return v.standardized }
func (v *SparseDataView) Mean(j int) float64  { return v.xm[j] }
func (v *SparseDataView) Scale(j int) float64 { return v.xs[j] }
func (v *SparseDataView) Dense() bool         { return false }

// Dot computes <X[:,j], vec> using the centered-dot formula of spec §4.1:
// dot_centered = sum_{i in nz} x_ij*v_i - xm[j]*sum_i v_i, then /xs[j].
func (v *SparseDataView) Dot(j int, vec []float64) float64 {
	c := v.cols[j]
	var raw float64
	for k, idx := range c.Indices {
		raw += c.Values[k] * vec[idx]
	}
	if !v.standardized {
		return raw
	}
	var total float64
	for _, x := range vec {
		total += x
	}
	return (raw - v.xm[j]*total) / v.xs[j]
}

// WxDot computes <X[:,j], w*vec>, centered the same way but with the mean
// term weighted by sum(w*vec) rather than sum(vec).
func (v *SparseDataView) WxDot(j int, vec, w []float64) float64 {
	c := v.cols[j]
	var raw float64
	for k, idx := range c.Indices {
		raw += c.Values[k] * vec[idx] * w[idx]
	}
	if !v.standardized {
		return raw
	}
	var total float64
	for i := range vec {
		total += vec[i] * w[i]
	}
	return (raw - v.xm[j]*total) / v.xs[j]
}

// AddScaled performs dst += c * X[:,j], honoring centering/scaling. Unlike
// the dense view this must touch every row when standardized (the -mean
// term is nonzero everywhere), but only the nonzero rows otherwise.
func (v *SparseDataView) AddScaled(dst []float64, j int, coef float64) {
	col := v.cols[j]
	if !v.standardized {
		for k, idx := range col.Indices {
			dst[idx] += coef * col.Values[k]
		}
		return
	}
	mean, scale := v.xm[j], v.xs[j]
	cc := coef / scale
	for i := range dst {
		dst[i] -= cc * mean
	}
	for k, idx := range col.Indices {
		dst[idx] += cc * col.Values[k]
	}
}

// ColumnDense materializes column j as a standardized dense vector.
func (v *SparseDataView) ColumnDense(j int) []float64 {
	out := make([]float64, v.n)
	col := v.cols[j]
	if !v.standardized {
		for k, idx := range col.Indices {
			out[idx] = col.Values[k]
		}
		return out
	}
	mean, scale := v.xm[j], v.xs[j]
	for i := range out {
		out[i] = -mean / scale
	}
	for k, idx := range col.Indices {
		out[idx] = (col.Values[k] - mean) / scale
	}
	return out
}

// WeightedSumSq returns sum_i w[i] * xcent[i,j]^2 (spec §4.2 denominator).
func (v *SparseDataView) WeightedSumSq(j int, w []float64) float64 {
	col := v.cols[j]
	if !v.standardized {
		var sum float64
		for k, idx := range col.Indices {
			sum += w[idx] * col.Values[k] * col.Values[k]
		}
		return sum
	}
	mean, scale := v.xm[j], v.xs[j]
	nz := make(map[int]bool, len(col.Indices))
	var sum float64
	for k, idx := range col.Indices {
		c := (col.Values[k] - mean) / scale
		sum += w[idx] * c * c
		nz[idx] = true
	}
	for i, wi := range w {
		if !nz[i] {
			c := -mean / scale
			sum += wi * c * c
		}
	}
	return sum
}
