package glmpath

import (
	"fmt"
	"math"
)

// MultinomialFitInputs bundles the K-indicator-matrix response and shared
// options for the grouped-lasso multinomial pathway (spec §4.4, SPEC_FULL
// §3). Y[k] is the indicator column for class k (length n); Offset[k], if
// present, is that class's linear-predictor offset.
type MultinomialFitInputs struct {
	Y        [][]float64
	W        []float64
	Offset   [][]float64
	Alpha    float64
	VP       []float64
	Box      []Box // length p (nil means unconstrained (-Inf, +Inf)); spec §4.5
	Excluded []int
}

// MultinomialPathResult mirrors PathResult but every coefficient column is
// a p x K matrix (one vector per variable, spec §4.4's "(β_{j,1},...,β_{j,K})
// treated as a single vector") instead of a length-p vector.
type MultinomialPathResult struct {
	Lambda      []float64
	Intercept   [][]float64   // one length-K intercept vector per step
	Beta        [][][]float64 // step -> variable -> class
	Rsq         []float64
	NActive     []int
	NLPPerStep  []int
	ActiveOrder []int
	NLP         int
	Code        ErrorCode
	Lmu         int
}

// MultinomialPathSolver drives the grouped-lasso path. One IRLS reweighting
// is performed per lambda (rather than iterating to IRLS convergence
// before each coordinate-descent sweep, as the single-response families
// do) — a deliberate simplification documented in DESIGN.md: within one
// lambda step the softmax probabilities rarely move far from the warm
// start, and the next lambda's reweighting corrects any drift. An inner
// coordinate descent updates each variable's whole K-length coefficient
// vector at once via GroupSoftThreshold.
type MultinomialPathSolver struct {
	DV     DataView
	K      int
	Params InternalParams
}

func (ps *MultinomialPathSolver) computeEta(beta [][]float64, intercept []float64, offset [][]float64, k int) []float64 {
	n := ps.DV.N()
	eta := make([]float64, n)
	if offset != nil {
		copy(eta, offset[k])
	}
	if intercept != nil {
		for i := range eta {
			eta[i] += intercept[k]
		}
	}
	for j := 0; j < ps.DV.P(); j++ {
		bjk := beta[j][k]
		if bjk != 0 {
			ps.DV.AddScaled(eta, j, bjk)
		}
	}
	return eta
}

// Fit runs the grouped multinomial path (spec §4.4/§4.6, standardize and
// intercept handled the same way as the single-response families).
func (ps *MultinomialPathSolver) Fit(in MultinomialFitInputs, cfg *PathConfig) (*MultinomialPathResult, error) {
	n, p, k := ps.DV.N(), ps.DV.P(), ps.K
	if len(in.Y) != k {
		panic("glmpath: multinomial Y must have K columns")
	}
	for _, col := range in.Y {
		if len(col) != n {
			panic("glmpath: multinomial Y column length mismatch")
		}
	}

	w := in.W
	if w == nil {
		w = make([]float64, n)
		for i := range w {
			w[i] = 1.0 / float64(n)
		}
	}
	excluded := make([]bool, p)
	for _, j := range in.Excluded {
		excluded[j] = true
	}
	vp := make([]float64, p)
	if in.VP == nil {
		for j := range vp {
			vp[j] = 1
		}
	} else {
		copy(vp, in.VP)
	}
	for j := range vp {
		if excluded[j] {
			vp[j] = 0
		}
	}

	box := make([]Box, p)
	if in.Box == nil {
		for j := range box {
			box[j] = Box{Lo: math.Inf(-1), Hi: math.Inf(1)}
		}
	} else {
		if len(in.Box) != p {
			panic("glmpath: box length does not match X column count")
		}
		copy(box, in.Box)
	}
	for _, b := range box {
		if b.Lo > 0 || b.Hi < 0 {
			panic("glmpath: box constraint must satisfy lo <= 0 <= hi")
		}
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
		cfg.Logger.Printf("glmpath: fitting multinomial path, n=%d p=%d k=%d alpha=%.3g", n, p, k, in.Alpha)
	}

	family := MultinomialFamily{K: k}

	beta := make([][]float64, p)
	for j := range beta {
		beta[j] = make([]float64, k)
	}
	intercept := make([]float64, k)
	if cfg.Intercept {
		for c := 0; c < k; c++ {
			intercept[c] = weightedMean(in.Y[c], w)
		}
	}

	grid := ps.buildLambdaGrid(in, w, vp, excluded, cfg)

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
	thresh := ps.Params.Thresh
	if cfg.Thresh > 0 {
		thresh = cfg.Thresh
	}

	result := &MultinomialPathResult{}
	var activeOrd []int
	onOrder := map[int]bool{}
	prevRsq := 0.0
	var nullDev float64

	for m, lambdaCur := range grid {
		eta := make([][]float64, k)
		for c := 0; c < k; c++ {
			eta[c] = ps.computeEta(beta, intercept, in.Offset, c)
		}
		prob := Softmax(eta)

		yt := make([][]float64, k)
		wt := make([][]float64, k)
		var stepDev float64
		for c := 0; c < k; c++ {
			wf := family.PrepareWorkingClass(in.Y[c], eta[c], prob[c], w, ps.Params)
			yt[c], wt[c] = wf.YWorking, wf.Weights
			stepDev += wf.CurDev
		}
		if m == 0 {
			nullDev = stepDev
		}

		resid := make([][]float64, k)
		for c := 0; c < k; c++ {
			resid[c] = make([]float64, n)
			for i := 0; i < n; i++ {
				resid[c][i] = yt[c][i] - eta[c][i]
			}
		}

		nlp, code := ps.innerGroupLoop(resid, wt, beta, vp, excluded, &activeOrd, onOrder, lambdaCur, in.Alpha, thresh*stepDev, maxit)
		if code.Fatal() {
			return nil, &FitError{Code: code, Step: m + 1}
		}
		if code.NonFatal() {
			result.Code = code
		}

		if cfg.Intercept {
			for c := 0; c < k; c++ {
				var num, den float64
				for i := 0; i < n; i++ {
					num += wt[c][i] * resid[c][i]
					den += wt[c][i]
				}
				if den > 0 {
					intercept[c] += num / den
				}
			}
		}

		nActive := 0
		for _, bj := range beta {
			for _, v := range bj {
				if v != 0 {
					nActive++
					break
				}
			}
		}

		rsq := 1.0
		if nullDev > 0 {
			rsq = 1 - stepDev/nullDev
		}

		if nActive > dfmax || len(activeOrd) > pmax {
			break
		}

		result.Lambda = append(result.Lambda, lambdaCur)
		result.Intercept = append(result.Intercept, append([]float64(nil), intercept...))
		betaCopy := make([][]float64, p)
		for j := range beta {
			betaCopy[j] = append([]float64(nil), beta[j]...)
		}
		result.Beta = append(result.Beta, betaCopy)
		result.Rsq = append(result.Rsq, rsq)
		result.NActive = append(result.NActive, nActive)
		result.NLPPerStep = append(result.NLPPerStep, nlp)
		result.NLP += nlp
		result.Lmu = len(result.Lambda)
		result.ActiveOrder = append([]int(nil), activeOrd...)

		if code.NonFatal() {
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
			fmt.Printf("lambda[%3d]=%.6f  rsq=%.4f  active=%d/%d  nlp=%d\n", m, lambdaCur, rsq, nActive, p, nlp)
		}
	}

	if cfg.Logger != nil {
		cfg.Logger.Printf("glmpath: multinomial path complete, lmu=%d nlp=%d jerr=%s", result.Lmu, result.NLP, result.Code)
	}

	return result, nil
}

// buildLambdaGrid for the multinomial pathway uses the same log-spaced
// construction as the single-response families, with lambda_max taken as
// the largest per-class, per-variable gradient magnitude at beta=0 (spec
// §4.6 generalized across classes).
func (ps *MultinomialPathSolver) buildLambdaGrid(in MultinomialFitInputs, w, vp []float64, excluded []bool, cfg *PathConfig) []float64 {
	if len(cfg.Lambda) > 0 {
		grid := append([]float64(nil), cfg.Lambda...)
		sortDescending(grid)
		return grid
	}
	n, p, k := ps.DV.N(), ps.DV.P(), ps.K
	effAlpha := in.Alpha
	if effAlpha < 1e-3 {
		effAlpha = 1e-3
	}

	lambdaMax := 0.0
	for j := 0; j < p; j++ {
		if excluded[j] || vp[j] <= 0 {
			continue
		}
		var norm float64
		for c := 0; c < k; c++ {
			g := ps.DV.WxDot(j, in.Y[c], w)
			norm += g * g
		}
		norm = math.Sqrt(norm)
		cand := norm / (effAlpha * vp[j])
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
		return grid
	}
	logMax, logMin := math.Log(lambdaMax), math.Log(lambdaMin)
	step := (logMax - logMin) / float64(nlambda-1)
	for m := 0; m < nlambda; m++ {
		grid[m] = math.Exp(logMax - step*float64(m))
	}
	return grid
}

func (ps *MultinomialPathSolver) innerGroupLoop(resid, wt [][]float64, beta [][]float64, vp []float64, excluded []bool, activeOrd *[]int, onOrder map[int]bool, lambda, alpha, thresh float64, maxit int) (nlp int, code ErrorCode) {
	p := len(beta)
	k := len(resid)
	active := make([]bool, p)
	for j, bj := range beta {
		for _, v := range bj {
			if v != 0 {
				active[j] = true
				break
			}
		}
	}
	for j := range active {
		if active[j] && !onOrder[j] {
			onOrder[j] = true
			*activeOrd = append(*activeOrd, j)
		}
	}

	admit := func(j int) {
		active[j] = true
		if !onOrder[j] {
			onOrder[j] = true
			*activeOrd = append(*activeOrd, j)
		}
	}

	groupGradient := func(j int) []float64 {
		g := make([]float64, k)
		for c := 0; c < k; c++ {
			g[c] = ps.DV.WxDot(j, resid[c], wt[c])
		}
		return g
	}
	groupDenom := func(j int) float64 {
		var d float64
		for c := 0; c < k; c++ {
			d += ps.DV.WeightedSumSq(j, wt[c])
		}
		return d / float64(k)
	}

	for {
		for {
			maxChange := 0.0
			for j := 0; j < p; j++ {
				if !active[j] || excluded[j] {
					continue
				}
				g := groupGradient(j)
				d := groupDenom(j)
				newB, delta := GroupSoftThreshold(beta[j], g, d, lambda, alpha, vp[j])
				if delta > 0 {
					col := ps.DV.ColumnDense(j)
					for c := 0; c < k; c++ {
						dc := newB[c] - beta[j][c]
						if dc == 0 {
							continue
						}
						rc := resid[c]
						for i, cv := range col {
							rc[i] -= dc * cv
						}
					}
					beta[j] = newB
				}
				if delta > maxChange {
					maxChange = delta
				}
			}
			nlp++
			if nlp > maxit {
				return nlp, ErrMaxIterExceeded
			}
			if maxChange < thresh {
				break
			}
		}

		violated := false
		for j := 0; j < p; j++ {
			if active[j] || excluded[j] {
				continue
			}
			g := groupGradient(j)
			var norm float64
			for _, gv := range g {
				norm += gv * gv
			}
			norm = math.Sqrt(norm)
			if norm > lambda*alpha*vp[j]+ps.Params.Eps {
				admit(j)
				violated = true
			}
		}
		if !violated {
			return nlp, ErrNone
		}
	}
}
