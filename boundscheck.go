package glmpath

import "math"

// FitInputs bundles everything an entry point in spec §6 accepts, aside
// from the DataView itself (built separately for dense vs. sparse X).
type FitInputs struct {
	Y        []float64 // response, length n
	W        []float64 // observation weights, length n (nil means uniform)
	Offset   []float64 // optional, length n
	Alpha    float64
	VP       []float64 // per-coordinate penalty factor, length p (nil means all 1)
	Box      []Box     // length p (nil means unconstrained (-Inf, +Inf))
	Excluded []int     // exclusion list (spec's jd, 0-based indices here)
}

// ValidateAndNormalize performs the input-shape checks of spec §7 (fail
// fast, panic — matching the teacher's panic("X and y have different
// number of samples") idiom for programmer-error argument mismatches) and
// returns normalized weights (non-negative, summing to 1 per spec §3),
// a fully-populated VP (rescaled so sum(vp)==p per spec §3), a fully
// populated Box slice, and an excluded-bool mask.
func ValidateAndNormalize(n, p int, in FitInputs) (w []float64, vp []float64, box []Box, excluded []bool) {
	if len(in.Y) != n {
		panic("glmpath: y length does not match X row count")
	}
	if in.Alpha < 0 || in.Alpha > 1 {
		panic("glmpath: alpha must be in [0,1]")
	}
	for _, v := range in.Y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			panic("glmpath: y contains a non-finite value")
		}
	}

	w = make([]float64, n)
	if in.W == nil {
		for i := range w {
			w[i] = 1.0 / float64(n)
		}
	} else {
		if len(in.W) != n {
			panic("glmpath: w length does not match X row count")
		}
		var sum float64
		for _, wi := range in.W {
			if wi < 0 {
				panic("glmpath: observation weights must be non-negative")
			}
			sum += wi
		}
		if sum <= 0 {
			panic("glmpath: observation weights sum to zero")
		}
		for i, wi := range in.W {
			w[i] = wi / sum
		}
	}

	if in.Offset != nil && len(in.Offset) != n {
		panic("glmpath: offset length does not match X row count")
	}

	excluded = make([]bool, p)
	for _, j := range in.Excluded {
		if j < 0 || j >= p {
			panic("glmpath: exclusion index out of range")
		}
		excluded[j] = true
	}

	vp = make([]float64, p)
	if in.VP == nil {
		for j := range vp {
			vp[j] = 1
		}
	} else {
		if len(in.VP) != p {
			panic("glmpath: vp length does not match X column count")
		}
		copy(vp, in.VP)
	}
	for j := range vp {
		if vp[j] < 0 {
			panic("glmpath: penalty factors must be non-negative")
		}
		if excluded[j] {
			vp[j] = 0
		}
	}
	// spec §3: rescale so the sum over all p columns (not just the active
	// ones) equals p — an excluded column contributes 0, so a non-uniform
	// vp with exclusions present must still be scaled against the full
	// column count, not the active subset, or the sum falls short of p.
	var vpSum float64
	for j, v := range vp {
		if !excluded[j] {
			vpSum += v
		}
	}
	if vpSum > 0 {
		scale := float64(p) / vpSum
		for j := range vp {
			if !excluded[j] {
				vp[j] *= scale
			}
		}
	}

	box = make([]Box, p)
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

	return w, vp, box, excluded
}

// DetectZeroVariance implements spec §4.5's fatal edge case: a coordinate
// whose denominator d_j (weighted sum-of-squares of the standardized
// column) is (numerically) zero can only be fit when the ridge component
// rescues it (alpha < 1); under alpha == 1 it is a fatal error (spec §7:
// "Zero-variance predictor with alpha=1 unpenalized: fatal; abort fit"),
// mirrored by scenario S3.
func DetectZeroVariance(dv DataView, w []float64, excluded []bool, alpha float64, eps float64) (ErrorCode, bool) {
	if alpha < 1 {
		return ErrNone, false
	}
	for j := 0; j < dv.P(); j++ {
		if excluded[j] {
			continue
		}
		if dv.WeightedSumSq(j, w) < eps {
			return ZeroVarianceError(j), true
		}
	}
	return ErrNone, false
}
