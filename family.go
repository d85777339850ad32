package glmpath

import "math"

// WorkingFit is what FamilyModel.PrepareWorking returns: a local quadratic
// approximation of the loss around the current linear predictor (spec
// §4.4). For Gaussian there is no reweighting, so YWorking/Weights mirror
// the caller's y/w directly and NullDev/CurDev are plain sums of squares.
type WorkingFit struct {
	YWorking  []float64 // adjusted/working response ytilde
	Weights   []float64 // working weights wtilde
	NullDev   float64   // deviance of the intercept-only (or 0) model
	CurDev    float64   // deviance at the current eta
	Saturated bool      // too many observations clipped at the pmin boundary
	Overflow  bool      // Big exceeded (Poisson exp(eta))
}

// FamilyModel is the per-GLM-family capability of spec §4.4 and §9:
// prepare_working(beta_current) -> (ytilde, wtilde, null_dev, cur_dev).
type FamilyModel interface {
	// Name identifies the family for error messages and progress logs.
	Name() string

	// PrepareWorking computes the working response/weights at the given
	// linear predictor eta = X*beta + offset.
	PrepareWorking(y, eta, w []float64, params InternalParams) WorkingFit

	// Gaussian reports whether this family skips the IRLS outer loop
	// (spec §4.5: "for non-Gaussian: IRLS").
	Gaussian() bool
}

// GaussianFamily is squared-error loss: no reweighting, ytilde=y, wtilde=w.
type GaussianFamily struct{}

func (GaussianFamily) Name() string    { return "gaussian" }
func (GaussianFamily) Gaussian() bool  { return true }

func (GaussianFamily) PrepareWorking(y, eta, w []float64, params InternalParams) WorkingFit {
	n := len(y)
	ybar := weightedMean(y, w)
	var nullDev, curDev float64
	for i := 0; i < n; i++ {
		d0 := y[i] - ybar
		d1 := y[i] - eta[i]
		nullDev += w[i] * d0 * d0
		curDev += w[i] * d1 * d1
	}
	return WorkingFit{YWorking: y, Weights: w, NullDev: nullDev, CurDev: curDev}
}

// BinomialFamily is logistic-link binomial deviance (spec §4.4). ModifiedNewton
// selects the 1/4 upper-bound working weight in place of p(1-p), a common
// glmnet stabilization mode.
type BinomialFamily struct {
	ModifiedNewton bool
}

func (BinomialFamily) Name() string   { return "binomial" }
func (BinomialFamily) Gaussian() bool { return false }

func sigmoid(x float64) float64 { return 1 / (1 + math.Exp(-x)) }

func (f BinomialFamily) PrepareWorking(y, eta, w []float64, params InternalParams) WorkingFit {
	n := len(y)
	yt := make([]float64, n)
	wt := make([]float64, n)
	pmin := params.PMin
	pmax := 1 - pmin

	pbar := weightedMean(y, w)
	pbar = clipProb(pbar, pmin, pmax)
	var nullDev, curDev float64
	clipped := 0
	for i := 0; i < n; i++ {
		p := sigmoid(eta[i])
		if p <= pmin || p >= pmax {
			clipped++
		}
		p = clipProb(p, pmin, pmax)

		v := p * (1 - p)
		if f.ModifiedNewton {
			v = 0.25
		}
		wt[i] = w[i] * v
		if v > 0 {
			yt[i] = eta[i] + (y[i]-p)/v
		} else {
			yt[i] = eta[i]
		}

		curDev += w[i] * binomialDevTerm(y[i], p)
		nullDev += w[i] * binomialDevTerm(y[i], pbar)
	}
	saturated := float64(clipped) > 0.5*float64(n)
	return WorkingFit{YWorking: yt, Weights: wt, NullDev: nullDev, CurDev: curDev, Saturated: saturated}
}

func binomialDevTerm(y, p float64) float64 {
	var t float64
	if y > 0 {
		t += y * math.Log(y/p)
	}
	if y < 1 {
		t += (1 - y) * math.Log((1-y)/(1-p))
	}
	return 2 * t
}

func clipProb(p, lo, hi float64) float64 {
	if p < lo {
		return lo
	}
	if p > hi {
		return hi
	}
	return p
}

// PoissonFamily is log-link Poisson deviance (spec §4.4).
type PoissonFamily struct{}

func (PoissonFamily) Name() string   { return "poisson" }
func (PoissonFamily) Gaussian() bool { return false }

func (PoissonFamily) PrepareWorking(y, eta, w []float64, params InternalParams) WorkingFit {
	n := len(y)
	yt := make([]float64, n)
	wt := make([]float64, n)
	mbar := weightedMean(y, w)
	if mbar <= 0 {
		mbar = 1e-9
	}
	var nullDev, curDev float64
	overflow := false
	for i := 0; i < n; i++ {
		e := eta[i]
		if e > params.Exmx {
			e = params.Exmx
			overflow = true
		}
		mu := math.Exp(e)
		if mu > params.Big {
			mu = params.Big
			overflow = true
		}
		wt[i] = w[i] * mu
		if mu > 0 {
			yt[i] = eta[i] + (y[i]-mu)/mu
		} else {
			yt[i] = eta[i]
		}
		curDev += w[i] * poissonDevTerm(y[i], mu)
		nullDev += w[i] * poissonDevTerm(y[i], mbar)
	}
	return WorkingFit{YWorking: yt, Weights: wt, NullDev: nullDev, CurDev: curDev, Overflow: overflow}
}

func poissonDevTerm(y, mu float64) float64 {
	t := -(y - mu)
	if y > 0 {
		t += y * math.Log(y/mu)
	}
	return 2 * t
}

// MultinomialFamily is the grouped-lasso K-class family (spec §4.4,
// SPEC_FULL §3). Classes share the linear predictor matrix Eta (n x K);
// MultinomialPathSolver calls PrepareWorkingClass once per class with that
// class's column and applies the grouped penalty with GroupSoftThreshold.
//
// mp's first column is treated as equal to vp and scales the group-norm
// penalty uniformly across classes — the conservative reading of spec §9's
// open question, documented in DESIGN.md.
type MultinomialFamily struct {
	K int
}

func (MultinomialFamily) Name() string   { return "multinomial" }
func (MultinomialFamily) Gaussian() bool { return false }

// PrepareWorkingClass computes the working response/weight for a single
// class k given that class's softmax probability column and indicator column.
func (f MultinomialFamily) PrepareWorkingClass(yCol, etaCol, probCol, w []float64, params InternalParams) WorkingFit {
	n := len(yCol)
	yt := make([]float64, n)
	wt := make([]float64, n)
	pmin := params.PMin
	var curDev float64
	for i := 0; i < n; i++ {
		p := clipProb(probCol[i], pmin, 1-pmin)
		v := p * (1 - p)
		wt[i] = w[i] * v
		if v > 0 {
			yt[i] = etaCol[i] + (yCol[i]-p)/v
		} else {
			yt[i] = etaCol[i]
		}
		if yCol[i] > 0 {
			curDev += -2 * w[i] * yCol[i] * math.Log(p)
		}
	}
	return WorkingFit{YWorking: yt, Weights: wt, CurDev: curDev}
}

// PrepareWorking satisfies FamilyModel for callers that only need a single
// representative class (e.g. a binary-reduced smoke test); real multinomial
// fitting drives PrepareWorkingClass per class from MultinomialPathSolver.
func (f MultinomialFamily) PrepareWorking(y, eta, w []float64, params InternalParams) WorkingFit {
	prob := make([]float64, len(eta))
	for i := range eta {
		prob[i] = sigmoid(eta[i])
	}
	return f.PrepareWorkingClass(y, eta, prob, w, params)
}

// Softmax computes row-wise softmax probabilities for an n x K linear
// predictor stored column-major as etaCols[k][i].
func Softmax(etaCols [][]float64) [][]float64 {
	k := len(etaCols)
	n := len(etaCols[0])
	prob := make([][]float64, k)
	for c := range prob {
		prob[c] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		max := etaCols[0][i]
		for c := 1; c < k; c++ {
			if etaCols[c][i] > max {
				max = etaCols[c][i]
			}
		}
		var sum float64
		exps := make([]float64, k)
		for c := 0; c < k; c++ {
			exps[c] = math.Exp(etaCols[c][i] - max)
			sum += exps[c]
		}
		for c := 0; c < k; c++ {
			prob[c][i] = exps[c] / sum
		}
	}
	return prob
}

func weightedMean(y, w []float64) float64 {
	var sw, swy float64
	for i := range y {
		sw += w[i]
		swy += w[i] * y[i]
	}
	if sw == 0 {
		return 0
	}
	return swy / sw
}
