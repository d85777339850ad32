package glmpath

import "math"

// Box is a per-coordinate constraint cl[j] = (lo, hi) with lo <= 0 <= hi
// (spec §3).
type Box struct {
	Lo, Hi float64
}

// Clip restricts x to [Lo, Hi].
func (b Box) Clip(x float64) float64 {
	if x < b.Lo {
		return b.Lo
	}
	if x > b.Hi {
		return b.Hi
	}
	return x
}

// SoftThreshold is S(u,t) = sign(u) * max(|u|-t, 0), the operator named in
// the GLOSSARY, grounded on the teacher's softThreshold helper.
func SoftThreshold(u, t float64) float64 {
	if u > t {
		return u - t
	}
	if u < -t {
		return u + t
	}
	return 0
}

// CoordinateUpdate is the single-coordinate proposal primitive of spec
// §4.2: given the current coefficient, its partial gradient g_j, its
// denominator d_j, the elastic-net penalty parameters, and the box, it
// returns the new coefficient and the resulting delta. A zero-variance
// denominator under alpha=1 is reported via zeroVariance; PointSolver then
// aborts the fit with ZeroVarianceError for that column.
func CoordinateUpdate(betaOld, gj, dj, lambda, alpha, vpj float64, box Box) (betaNew, delta float64, zeroVariance bool) {
	l1 := lambda * alpha * vpj
	l2 := lambda * (1 - alpha) * vpj
	denom := dj + l2
	if denom <= 0 {
		if alpha >= 1 {
			return 0, 0, true
		}
		denom = 1e-12
	}
	u := dj*betaOld + gj
	raw := SoftThreshold(u, l1) / denom
	betaNew = box.Clip(raw)
	delta = betaNew - betaOld
	return betaNew, delta, false
}

// GroupSoftThreshold applies the block soft-threshold used by the
// multinomial-grouped family (spec §4.4, SPEC_FULL §3): the K-length
// coefficient vector for one variable is shrunk as a whole, penalized by
// its L2 norm rather than coordinatewise.
//
//	u = d*beta_old + g   (elementwise, d constant across the group here)
//	beta_new = max(1 - l1/||u||_2, 0) / (d+l2) * u
func GroupSoftThreshold(betaOld, g []float64, d, lambda, alpha, vpj float64) (betaNew []float64, maxDelta float64) {
	k := len(betaOld)
	u := make([]float64, k)
	var norm float64
	for i := range u {
		u[i] = d*betaOld[i] + g[i]
		norm += u[i] * u[i]
	}
	norm = math.Sqrt(norm)
	l1 := lambda * alpha * vpj
	l2 := lambda * (1 - alpha) * vpj
	denom := d + l2
	if denom <= 0 {
		denom = 1e-12
	}
	shrink := 0.0
	if norm > l1 {
		shrink = (1 - l1/norm) / denom
	}
	betaNew = make([]float64, k)
	for i := range u {
		betaNew[i] = shrink * u[i]
		if d := math.Abs(betaNew[i] - betaOld[i]); d > maxDelta {
			maxDelta = d
		}
	}
	return betaNew, maxDelta
}
