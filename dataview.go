package glmpath

import (
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// parallelDotThreshold is the minimum vector length before Dot/WxDot splits
// work across goroutines (spec §5: parallelism is confined to vector-level
// reductions inside a single dot product, never across coordinates).
const parallelDotThreshold = 4096

// DataView is the uniform read interface over a dense or sparse design
// matrix (spec §4.1). Mode (standardized or raw) is fixed at construction;
// every column operation obeys it identically, never mixed within one
// solver call.
type DataView interface {
	N() int
	P() int

	// Dot returns <X[:,j], v>, centered/scaled if the view is standardized.
	Dot(j int, v []float64) float64

	// WxDot returns <X[:,j], w*v> (elementwise w*v), centered/scaled if
	// the view is standardized.
	WxDot(j int, v, w []float64) float64

	// AddScaled performs dst += c * X[:,j] (centered/scaled if standardized).
	AddScaled(dst []float64, j int, c float64)

	// WeightedSumSq returns sum_i w[i] * xcent[i,j]^2, the denominator d_j
	// of spec §4.2.
	WeightedSumSq(j int, w []float64) float64

	// Standardized reports whether column ops apply the xm/xs transform.
	Standardized() bool
	Mean(j int) float64
	Scale(j int) float64

	// Dense reports whether this view is backed by a dense matrix — used
	// by GradientAuto's covariance-mode heuristic (spec §4.3).
	Dense() bool

	// ColumnDense materializes column j as a standardized dense vector,
	// used by covariance-mode GradientState to build Gram columns
	// (spec §4.3(b)): cost O(n) or O(nnz_j), paid once per Gram column.
	ColumnDense(j int) []float64
}

// DenseDataView is a column-addressable dense DataView backed by *mat.Dense
// (grounded on the teacher's standardizeFeatures/predict use of mat.Dense).
type DenseDataView struct {
	x            *mat.Dense
	n, p         int
	standardized bool
	xm, xs       []float64
	workers      int
}

// SetWorkers overrides the goroutine count dotParallel/wdotParallel split
// across (spec §6, PathConfig.NJobs); n <= 0 means GOMAXPROCS.
func (v *DenseDataView) SetWorkers(n int) {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	v.workers = n
}

// NewDenseDataView builds a DataView over X. When standardize is true, the
// per-column mean/scale are computed using 1/n moments (spec §3 invariant),
// matching the teacher's standardizeFeatures but without centering X
// in-place — DataView column ops apply the transform virtually.
func NewDenseDataView(x *mat.Dense, standardize bool) *DenseDataView {
	n, p := x.Dims()
	v := &DenseDataView{x: x, n: n, p: p, standardized: standardize, workers: runtime.GOMAXPROCS(0)}
	v.xm = make([]float64, p)
	v.xs = make([]float64, p)
	for j := 0; j < p; j++ {
		col := mat.Col(nil, j, x)
		if standardize {
			mean := floats.Sum(col) / float64(n)
			var ss float64
			for _, c := range col {
				d := c - mean
				ss += d * d
			}
			scale := math.Sqrt(ss / float64(n))
			if scale < 1e-12 {
				scale = 1.0
			}
			v.xm[j] = mean
			v.xs[j] = scale
		} else {
			v.xm[j] = 0
			v.xs[j] = 1
		}
	}
	return v
}

func (v *DenseDataView) N() int               { return v.n }
func (v *DenseDataView) P() int               { return v.p }
func (v *DenseDataView) Standardized() bool   { return v.standardized }
func (v *DenseDataView) Mean(j int) float64   { return v.xm[j] }
func (v *DenseDataView) Scale(j int) float64  { return v.xs[j] }
func (v *DenseDataView) Dense() bool          { return true }

func (v *DenseDataView) rawCol(j int) []float64 {
	return mat.Col(nil, j, v.x)
}

func (v *DenseDataView) ColumnDense(j int) []float64 {
	col := v.rawCol(j)
	if !v.standardized {
		return col
	}
	out := make([]float64, len(col))
	mean, scale := v.xm[j], v.xs[j]
	for i, x := range col {
		out[i] = (x - mean) / scale
	}
	return out
}

func (v *DenseDataView) Dot(j int, vec []float64) float64 {
	col := v.rawCol(j)
	mean, scale := v.xm[j], v.xs[j]
	if !v.standardized {
		return dotParallel(col, vec, v.workers)
	}
	raw := dotParallel(col, vec, v.workers)
	return (raw - mean*floats.Sum(vec)) / scale
}

func (v *DenseDataView) WxDot(j int, vec, w []float64) float64 {
	col := v.rawCol(j)
	mean, scale := v.xm[j], v.xs[j]
	if !v.standardized {
		return wdotParallel(col, vec, w, v.workers)
	}
	raw := wdotParallel(col, vec, w, v.workers)
	wv := make([]float64, len(vec))
	floats.MulTo(wv, vec, w)
	return (raw - mean*floats.Sum(wv)) / scale
}

func (v *DenseDataView) AddScaled(dst []float64, j int, c float64) {
	col := v.rawCol(j)
	mean, scale := v.xm[j], v.xs[j]
	if !v.standardized {
		floats.AddScaled(dst, c, col)
		return
	}
	cc := c / scale
	for i, x := range col {
		dst[i] += cc * (x - mean)
	}
}

func (v *DenseDataView) WeightedSumSq(j int, w []float64) float64 {
	col := v.rawCol(j)
	mean, scale := v.xm[j], v.xs[j]
	var sum float64
	if !v.standardized {
		for i, x := range col {
			sum += w[i] * x * x
		}
		return sum
	}
	for i, x := range col {
		c := (x - mean) / scale
		sum += w[i] * c * c
	}
	return sum
}

// dotParallel computes <a,b> splitting the reduction across goroutines once
// the vectors are long enough to amortize the overhead (grounded on the
// teacher's worker-pool pattern and kshedden-statmodel's irlsXprodConcurrent
// chunked-moment accumulation).
func dotParallel(a, b []float64, workers int) float64 {
	n := len(a)
	if n < parallelDotThreshold {
		return floats.Dot(a, b)
	}
	if workers < 1 {
		workers = 1
	}
	chunk := (n + workers - 1) / workers
	partial := make([]float64, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo, hi := w*chunk, (w+1)*chunk
		if hi > n {
			hi = n
		}
		if lo >= hi {
			continue
		}
		wg.Add(1)
		go func(w, lo, hi int) {
			defer wg.Done()
			partial[w] = floats.Dot(a[lo:hi], b[lo:hi])
		}(w, lo, hi)
	}
	wg.Wait()
	return floats.Sum(partial)
}

func wdotParallel(a, b, w []float64, workers int) float64 {
	n := len(a)
	if n < parallelDotThreshold {
		var sum float64
		for i := range a {
			sum += a[i] * b[i] * w[i]
		}
		return sum
	}
	if workers < 1 {
		workers = 1
	}
	chunk := (n + workers - 1) / workers
	partial := make([]float64, workers)
	var wg sync.WaitGroup
	for wi := 0; wi < workers; wi++ {
		lo, hi := wi*chunk, (wi+1)*chunk
		if hi > n {
			hi = n
		}
		if lo >= hi {
			continue
		}
		wg.Add(1)
		go func(wi, lo, hi int) {
			defer wg.Done()
			var sum float64
			for i := lo; i < hi; i++ {
				sum += a[i] * b[i] * w[i]
			}
			partial[wi] = sum
		}(wi, lo, hi)
	}
	wg.Wait()
	return floats.Sum(partial)
}
