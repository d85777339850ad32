package glmpath

import "math"

// PointSolverSpec is the fixed (non-lambda-varying) configuration a
// PointSolver needs: the design matrix view, the family, and the penalty
// shape (spec §4.5).
type PointSolverSpec struct {
	DV       DataView
	Family   FamilyModel
	Alpha    float64
	VP       []float64 // per-coordinate penalty factor, sum(vp) == p
	Box      []Box
	Excluded []bool
	Params   InternalParams
	MaxIt    int // coordinate-descent full-pass cap per lambda
	GradMode GradientMode
	Offset   []float64 // may be nil
	Intercept bool     // fit an intercept term (spec §6 intr flag)
}

// PointResult is the outcome of one fixed-lambda solve.
type PointResult struct {
	Beta      []float64
	Intercept float64
	NLP       int
	Code      ErrorCode
	NullDev   float64
	CurDev    float64
}

// PointSolver runs coordinate descent to convergence at a single lambda
// (spec §4.5): for non-Gaussian families an IRLS outer loop wraps the
// inner Gaussian-like coordinate sweep; strong rules screen candidates and
// a KKT sweep is mandatory before declaring convergence.
type PointSolver struct {
	spec PointSolverSpec
}

// NewPointSolver builds a solver for one fit's fixed penalty shape; it is
// reused across every lambda in the path (only beta/lambda vary per call).
func NewPointSolver(spec PointSolverSpec) *PointSolver {
	return &PointSolver{spec: spec}
}

// Solve runs the point solve starting from beta (warm-started in place),
// at penalty lambdaCur, screening the strong-rule candidate set against
// the gradient at lambdaPrev (spec §4.5). lambdaPrev <= 0 is the sentinel
// for "no previous lambda" (the first point of the path), which disables
// the strong rule and screens every non-excluded coordinate.
//
// activeOrd accumulates first-entry order across the whole path call (spec
// §5's ordering guarantee for ia[]); newly-activated coordinates are
// appended to it here.
func (ps *PointSolver) Solve(y, w []float64, beta []float64, intercept float64, lambdaPrev, lambdaCur float64, activeOrd *[]int) PointResult {
	p := len(beta)
	active := make([]bool, p)
	onOrder := make(map[int]bool, len(*activeOrd))
	for _, j := range *activeOrd {
		onOrder[j] = true
	}
	for j, bj := range beta {
		if bj != 0 {
			active[j] = true
		}
	}

	var (
		code    ErrorCode
		nlpTot  int
		nullDev float64
		curDev  float64
	)

	maxOuter := ps.spec.Params.MxIt
	if ps.spec.Family.Gaussian() {
		maxOuter = 1
	}
	if maxOuter < 1 {
		maxOuter = 1
	}

	prevDev := math.Inf(1)
	for outer := 0; outer < maxOuter; outer++ {
		eta := ps.computeEta(beta, intercept)
		fit := ps.spec.Family.PrepareWorking(y, eta, w, ps.spec.Params)
		if outer == 0 {
			nullDev = fit.NullDev
		}
		curDev = fit.CurDev
		if fit.Saturated {
			code = ErrSaturation
			break
		}
		if fit.Overflow {
			code = ErrNumericalOverflow
			break
		}

		gs := ps.newGradientState(fit.YWorking, fit.Weights, beta)
		d := ps.computeDenominators(fit.Weights)

		candidates := ps.strongRuleScreen(gs, active, lambdaPrev, lambdaCur)

		nlp, innerCode := ps.innerLoop(gs, beta, active, activeOrd, onOrder, d, lambdaCur, fit.NullDev, candidates)
		nlpTot += nlp
		if innerCode != ErrNone {
			code = innerCode
			break
		}

		if ps.spec.Intercept {
			etaNoIntercept := ps.computeEta(beta, 0)
			resid := make([]float64, len(etaNoIntercept))
			for i := range resid {
				resid[i] = fit.YWorking[i] - etaNoIntercept[i]
			}
			intercept = weightedMean(resid, fit.Weights)
		}

		if ps.spec.Family.Gaussian() {
			// No reweighting follows, so report the deviance at the solved beta.
			curDev = ps.spec.Family.PrepareWorking(y, ps.computeEta(beta, intercept), w, ps.spec.Params).CurDev
			break
		}
		if math.Abs(prevDev-fit.CurDev) < ps.resolveThresh()*fit.NullDev {
			break
		}
		prevDev = fit.CurDev
	}

	return PointResult{Beta: beta, Intercept: intercept, NLP: nlpTot, Code: code, NullDev: nullDev, CurDev: curDev}
}

func (ps *PointSolver) computeEta(beta []float64, intercept float64) []float64 {
	n := ps.spec.DV.N()
	eta := make([]float64, n)
	if ps.spec.Offset != nil {
		copy(eta, ps.spec.Offset)
	}
	if intercept != 0 {
		for i := range eta {
			eta[i] += intercept
		}
	}
	for j, bj := range beta {
		if bj != 0 {
			ps.spec.DV.AddScaled(eta, j, bj)
		}
	}
	return eta
}

func (ps *PointSolver) resolveThresh() float64 {
	return ps.spec.Params.Thresh
}

func (ps *PointSolver) computeDenominators(w []float64) []float64 {
	p := ps.spec.DV.P()
	d := make([]float64, p)
	for j := 0; j < p; j++ {
		if ps.spec.Excluded[j] {
			continue
		}
		d[j] = ps.spec.DV.WeightedSumSq(j, w)
	}
	return d
}

func (ps *PointSolver) newGradientState(yWorking, w, beta []float64) GradientState {
	mode := ps.spec.GradMode
	if mode == GradientAuto {
		if ps.spec.Family.Gaussian() && ps.spec.DV.Dense() && ps.spec.DV.P() < CovThreshold {
			mode = GradientCovariance
		} else {
			mode = GradientNaive
		}
	}
	if mode == GradientCovariance && ps.spec.Family.Gaussian() {
		return NewCovarianceGradientState(ps.spec.DV, yWorking, w, beta)
	}
	return NewNaiveGradientState(ps.spec.DV, yWorking, w, beta)
}

// strongRuleScreen implements the Tibshirani et al. (2012) strong rule
// (spec §4.5): admit every non-excluded, non-active j with
// |g_j(beta_prev)| >= 2*lambdaCur - lambdaPrev as a candidate. When
// lambdaPrev <= 0 there is no previous solution to screen against, so
// every coordinate is a candidate.
func (ps *PointSolver) strongRuleScreen(gs GradientState, active []bool, lambdaPrev, lambdaCur float64) []int {
	p := len(active)
	var candidates []int
	threshold := 2*lambdaCur - lambdaPrev
	for j := 0; j < p; j++ {
		if ps.spec.Excluded[j] || active[j] {
			continue
		}
		if lambdaPrev <= 0 {
			candidates = append(candidates, j)
			continue
		}
		if math.Abs(gs.Gradient(j)) >= threshold {
			candidates = append(candidates, j)
		}
	}
	return candidates
}

// innerLoop runs full coordinate-descent passes over the active set until
// max_change < thresh*nullDev, then checks the strong-rule candidates and
// finally every remaining coordinate for KKT violations (spec §9: the KKT
// sweep is mandatory, not just the strong-rule candidates), re-entering the
// pass loop whenever a violation admits a new active coordinate.
func (ps *PointSolver) innerLoop(gs GradientState, beta []float64, active []bool, activeOrd *[]int, onOrder map[int]bool, d []float64, lambda, nullDev float64, candidates []int) (nlp int, code ErrorCode) {
	p := len(beta)
	thresh := ps.resolveThresh() * nullDev
	eps := ps.spec.Params.Eps

	admit := func(j int) {
		active[j] = true
		if !onOrder[j] {
			onOrder[j] = true
			*activeOrd = append(*activeOrd, j)
		}
	}

	for {
		for {
			maxChange := 0.0
			for j := 0; j < p; j++ {
				if !active[j] || ps.spec.Excluded[j] {
					continue
				}
				gj := gs.Gradient(j)
				newB, delta, zeroVar := CoordinateUpdate(beta[j], gj, d[j], lambda, ps.spec.Alpha, ps.spec.VP[j], ps.spec.Box[j])
				if zeroVar {
					return nlp, ZeroVarianceError(j)
				}
				if delta != 0 {
					beta[j] = newB
					gs.ApplyDelta(j, delta)
					change := d[j] * delta * delta
					if change > maxChange {
						maxChange = change
					}
				}
			}
			nlp++
			if nlp > ps.spec.MaxIt {
				return nlp, ErrMaxIterExceeded
			}
			if maxChange < thresh {
				break
			}
		}

		violated := false
		for _, j := range candidates {
			if active[j] {
				continue
			}
			gj := gs.Gradient(j)
			if math.Abs(gj) > lambda*ps.spec.Alpha*ps.spec.VP[j]+eps {
				admit(j)
				violated = true
			}
		}
		if violated {
			continue
		}

		for j := 0; j < p; j++ {
			if active[j] || ps.spec.Excluded[j] {
				continue
			}
			gj := gs.Gradient(j)
			if math.Abs(gj) > lambda*ps.spec.Alpha*ps.spec.VP[j]+eps {
				admit(j)
				violated = true
			}
		}
		if !violated {
			return nlp, ErrNone
		}
	}
}
