package glmpath

import (
	"fmt"
	"math"
)

// PathSolver drives PointSolver across a decreasing lambda grid with warm
// starts, producing the accumulated PathResult (spec §4.6). Its
// construction mirrors the three-phase split of original_source's
// sp_gaussian_cov.hpp policy (initialize_path / initialize_point /
// process_point_fit): buildLambdaGrid is the path-level phase, and each
// loop iteration of Fit is the point-level phase.
type PathSolver struct {
	DV     DataView
	Family FamilyModel
	Params InternalParams
}

// buildLambdaGrid implements spec §4.6: either sort the caller-supplied
// grid strictly decreasing, or compute lambda_max from the saturated
// null fit and lay out NLambda values log-spaced down to
// LambdaMinRatio*lambda_max.
func (ps *PathSolver) buildLambdaGrid(y, w []float64, offset []float64, alpha float64, vp []float64, excluded []bool, cfg *PathConfig) ([]float64, float64) {
	n, p := ps.DV.N(), ps.DV.P()

	if len(cfg.Lambda) > 0 {
		grid := append([]float64(nil), cfg.Lambda...)
		sortDescending(grid)
		uniq := grid[:1]
		for _, l := range grid[1:] {
			if l < uniq[len(uniq)-1] {
				uniq = append(uniq, l)
			}
		}
		return uniq, 0
	}

	nullEta := make([]float64, n)
	if offset != nil {
		copy(nullEta, offset)
	}
	nullMean := weightedMean(y, w)
	for i := range nullEta {
		nullEta[i] += nullMean
	}
	fit := ps.Family.PrepareWorking(y, nullEta, w, ps.Params)

	r := make([]float64, n)
	for i := range r {
		r[i] = fit.YWorking[i] - nullEta[i]
	}

	effAlpha := alpha
	if effAlpha < 1e-3 {
		effAlpha = 1e-3
	}

	lambdaMax := 0.0
	for j := 0; j < p; j++ {
		if excluded[j] || vp[j] <= 0 {
			continue
		}
		g := ps.DV.WxDot(j, r, fit.Weights)
		cand := math.Abs(g) / (effAlpha * vp[j])
		if cand > lambdaMax {
			lambdaMax = cand
		}
	}
	if lambdaMax <= 0 {
		lambdaMax = 1.0
	}

	ratio := cfg.LambdaMinRatio
	if ratio <= 0 {
		if n > p {
			ratio = 1e-4
		} else {
			ratio = 1e-2
		}
	}
	nlambda := cfg.NLambda
	if nlambda < 1 {
		nlambda = 100
	}
	lambdaMin := lambdaMax * ratio

	grid := make([]float64, nlambda)
	if nlambda == 1 {
		grid[0] = lambdaMax
		return grid, fit.NullDev
	}
	logMax, logMin := math.Log(lambdaMax), math.Log(lambdaMin)
	step := (logMax - logMin) / float64(nlambda-1)
	for m := 0; m < nlambda; m++ {
		grid[m] = math.Exp(logMax - step*float64(m))
	}
	return grid, fit.NullDev
}

func sortDescending(a []float64) {
	for i := 1; i < len(a); i++ {
		for j := i; j > 0 && a[j] > a[j-1]; j-- {
			a[j], a[j-1] = a[j-1], a[j]
		}
	}
}

// Fit runs the full path: lambda-grid construction, warm-started
// PointSolver calls, and the dfmax/pmax/fdev/devmax early stops of spec
// §4.6. It panics on input-shape errors (spec §7, fail-fast) and returns
// (*PathResult, error) for anything past validation, never a bare jerr.
func (ps *PathSolver) Fit(in FitInputs, cfg *PathConfig) (*PathResult, error) {
	n, p := ps.DV.N(), ps.DV.P()
	w, vp, box, excluded := ValidateAndNormalize(n, p, in)

	if code, bad := DetectZeroVariance(ps.DV, w, excluded, in.Alpha, ps.Params.Eps); bad {
		return nil, &FitError{Code: code}
	}

	grid, nullDevFromGrid := ps.buildLambdaGrid(in.Y, w, in.Offset, in.Alpha, vp, excluded, cfg)

	dfmax := cfg.DFMax
	if dfmax <= 0 {
		dfmax = p + 1
	}
	pmax := cfg.PMax
	if pmax <= 0 {
		pmax = minInt(2*dfmax, p)
	}
	maxit := cfg.MaxIt
	if maxit <= 0 {
		maxit = 100000
	}
	thresh := ps.Params
	if cfg.Thresh > 0 {
		thresh.Thresh = cfg.Thresh
	}

	// spec §4.5 numerical edge case: a zero bound on either side of a box
	// constraint disables the fractional-deviance early stop for this fit,
	// since a coefficient pinned at 0 can produce a spuriously flat step.
	fdev := ps.Params.FDev
	for _, b := range box {
		if b.Lo == 0 || b.Hi == 0 {
			fdev = 0
			break
		}
	}

	if cfg.Logger != nil {
		cfg.Logger.Printf("glmpath: fitting %s path, n=%d p=%d alpha=%.3g nlambda=%d", ps.Family.Name(), n, p, in.Alpha, len(grid))
	}

	ps2 := NewPointSolver(PointSolverSpec{
		DV:        ps.DV,
		Family:    ps.Family,
		Alpha:     in.Alpha,
		VP:        vp,
		Box:       box,
		Excluded:  excluded,
		Params:    thresh,
		MaxIt:     maxit,
		GradMode:  cfg.Gradient,
		Offset:    in.Offset,
		Intercept: cfg.Intercept,
	})

	result := NewPathResult(p)
	beta := make([]float64, p)
	intercept := 0.0
	if cfg.Intercept {
		intercept = weightedMean(in.Y, w)
	}
	var activeOrd []int
	prevRsq := 0.0
	var nullDev float64 = nullDevFromGrid

	for m, lambdaCur := range grid {
		lambdaPrev := 0.0
		if m > 0 {
			lambdaPrev = grid[m-1]
		}

		pr := ps2.Solve(in.Y, w, beta, intercept, lambdaPrev, lambdaCur, &activeOrd)
		intercept = pr.Intercept
		if m == 0 && pr.NullDev > 0 {
			nullDev = pr.NullDev
		}
		if pr.Code.Fatal() {
			return nil, &FitError{Code: pr.Code, Step: m + 1}
		}

		rsq := 1.0
		if nullDev > 0 {
			rsq = 1 - pr.CurDev/nullDev
		}

		nActive := countNonzero(beta)

		if cfg.OnProgress != nil {
			if !cfg.OnProgress(m, result) {
				result.Code = ErrUserAborted
				break
			}
		}

		stopBefore := nActive > dfmax || len(activeOrd) > pmax
		if stopBefore {
			if nActive > dfmax {
				result.Code = ErrDFMaxReached
			} else {
				result.Code = ErrPMaxReached
			}
			break
		}

		result.appendColumn(lambdaCur, intercept, beta, rsq, nActive, pr.NLP)
		result.ActiveOrder = append([]int(nil), activeOrd...)

		if pr.Code.NonFatal() {
			result.Code = pr.Code
			break
		}

		if m >= minLambdaForFDev(ps.Params.MnLam) && m > 0 {
			if rsq-prevRsq < fdev*rsq {
				break
			}
		}
		if rsq > 1-ps.Params.DevMax {
			break
		}
		prevRsq = rsq

		if (cfg.Verbose || ps.Params.ITrace > 0) && (m%maxInt(cfg.LogStep, 1) == 0) {
			fmt.Printf("lambda[%3d]=%.6f  rsq=%.4f  active=%d/%d  nlp=%d\n", m, lambdaCur, rsq, nActive, p, pr.NLP)
		}
	}

	if cfg.Logger != nil {
		cfg.Logger.Printf("glmpath: path complete, lmu=%d nlp=%d jerr=%s", result.Lmu, result.NLP, result.Code)
	}

	return result, nil
}

func minLambdaForFDev(mnLam int) int {
	if mnLam < 1 {
		return 1
	}
	return mnLam
}

func countNonzero(beta []float64) int {
	n := 0
	for _, b := range beta {
		if b != 0 {
			n++
		}
	}
	return n
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
