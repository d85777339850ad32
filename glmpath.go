package glmpath

import "gonum.org/v1/gonum/mat"

// FitGaussianDense is the dense Gaussian entry point (spec §6: "one per
// family x sparsity combination"), generalizing the teacher's top-level
// Fit(X, y, cfg) to the full elastic-net path contract.
func FitGaussianDense(x *mat.Dense, in FitInputs, cfg *PathConfig, params InternalParams) (*PathResult, error) {
	dv := NewDenseDataView(x, cfg.Standardize)
	dv.SetWorkers(cfg.NJobs)
	ps := &PathSolver{DV: dv, Family: GaussianFamily{}, Params: params}
	return ps.Fit(in, cfg)
}

// FitBinomialDense is the dense logistic entry point.
func FitBinomialDense(x *mat.Dense, in FitInputs, cfg *PathConfig, params InternalParams) (*PathResult, error) {
	dv := NewDenseDataView(x, cfg.Standardize)
	dv.SetWorkers(cfg.NJobs)
	ps := &PathSolver{DV: dv, Family: BinomialFamily{}, Params: params}
	return ps.Fit(in, cfg)
}

// FitPoissonDense is the dense Poisson entry point.
func FitPoissonDense(x *mat.Dense, in FitInputs, cfg *PathConfig, params InternalParams) (*PathResult, error) {
	dv := NewDenseDataView(x, cfg.Standardize)
	dv.SetWorkers(cfg.NJobs)
	ps := &PathSolver{DV: dv, Family: PoissonFamily{}, Params: params}
	return ps.Fit(in, cfg)
}

// FitGaussianSparse is the CSC-sparse Gaussian entry point. xm/xs may be
// nil to have them computed internally with 1/n moments (spec §3);
// callers that precomputed xm/xs upstream (spec §6) should pass them.
func FitGaussianSparse(cols []SparseColumn, n int, xm, xs []float64, in FitInputs, cfg *PathConfig, params InternalParams) (*PathResult, error) {
	dv := NewSparseDataView(cols, n, cfg.Standardize, xm, xs)
	ps := &PathSolver{DV: dv, Family: GaussianFamily{}, Params: params}
	return ps.Fit(in, cfg)
}

// FitBinomialSparse is the CSC-sparse logistic entry point.
func FitBinomialSparse(cols []SparseColumn, n int, xm, xs []float64, in FitInputs, cfg *PathConfig, params InternalParams) (*PathResult, error) {
	dv := NewSparseDataView(cols, n, cfg.Standardize, xm, xs)
	ps := &PathSolver{DV: dv, Family: BinomialFamily{}, Params: params}
	return ps.Fit(in, cfg)
}

// FitPoissonSparse is the CSC-sparse Poisson entry point.
func FitPoissonSparse(cols []SparseColumn, n int, xm, xs []float64, in FitInputs, cfg *PathConfig, params InternalParams) (*PathResult, error) {
	dv := NewSparseDataView(cols, n, cfg.Standardize, xm, xs)
	ps := &PathSolver{DV: dv, Family: PoissonFamily{}, Params: params}
	return ps.Fit(in, cfg)
}

// FitMultinomialDense is the dense grouped-lasso multinomial entry point
// (SPEC_FULL §3 supplemented feature). K is inferred from len(in.Y).
func FitMultinomialDense(x *mat.Dense, in MultinomialFitInputs, cfg *PathConfig, params InternalParams) (*MultinomialPathResult, error) {
	dv := NewDenseDataView(x, cfg.Standardize)
	dv.SetWorkers(cfg.NJobs)
	ps := &MultinomialPathSolver{DV: dv, K: len(in.Y), Params: params}
	return ps.Fit(in, cfg)
}

// FitMultinomialSparse is the CSC-sparse grouped-lasso multinomial entry
// point.
func FitMultinomialSparse(cols []SparseColumn, n int, xm, xs []float64, in MultinomialFitInputs, cfg *PathConfig, params InternalParams) (*MultinomialPathResult, error) {
	dv := NewSparseDataView(cols, n, cfg.Standardize, xm, xs)
	ps := &MultinomialPathSolver{DV: dv, K: len(in.Y), Params: params}
	return ps.Fit(in, cfg)
}

// NewDataView builds the dense DataView over X — exposed so code that
// drives PathSolver or MultinomialPathSolver directly, instead of through
// the Fit entry points, doesn't have to call the dataview.go constructor
// itself.
func NewDataView(x *mat.Dense, standardize bool) DataView {
	return NewDenseDataView(x, standardize)
}
