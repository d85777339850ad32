package glmpath

import "testing"

func TestSoftThreshold(t *testing.T) {
	cases := []struct {
		u, t, want float64
	}{
		{5, 2, 3},
		{-5, 2, -3},
		{1, 2, 0},
		{-1, 2, 0},
		{2, 2, 0},
	}
	for _, c := range cases {
		got := SoftThreshold(c.u, c.t)
		if got != c.want {
			t.Errorf("SoftThreshold(%v,%v) = %v, want %v", c.u, c.t, got, c.want)
		}
	}
}

func TestBoxClip(t *testing.T) {
	b := Box{Lo: -1, Hi: 1}
	if got := b.Clip(5); got != 1 {
		t.Errorf("Clip(5) = %v, want 1", got)
	}
	if got := b.Clip(-5); got != -1 {
		t.Errorf("Clip(-5) = %v, want -1", got)
	}
	if got := b.Clip(0.3); got != 0.3 {
		t.Errorf("Clip(0.3) = %v, want 0.3", got)
	}
}

func TestCoordinateUpdateLasso(t *testing.T) {
	box := Box{Lo: -1e10, Hi: 1e10}
	// alpha=1 (pure lasso): denom = dj, l1 = lambda.
	betaNew, delta, zv := CoordinateUpdate(0, 10, 4, 1.0, 1.0, 1.0, box)
	if zv {
		t.Fatal("unexpected zero-variance flag")
	}
	want := SoftThreshold(10, 1.0) / 4
	if betaNew != want {
		t.Errorf("betaNew = %v, want %v", betaNew, want)
	}
	if delta != want {
		t.Errorf("delta = %v, want %v", delta, want)
	}
}

func TestCoordinateUpdateRidgeRescuesZeroVariance(t *testing.T) {
	box := Box{Lo: -1e10, Hi: 1e10}
	// dj = 0, alpha < 1: ridge term keeps the denominator positive.
	_, _, zv := CoordinateUpdate(0, 10, 0, 1.0, 0.5, 1.0, box)
	if zv {
		t.Fatal("ridge component should rescue a zero-variance column")
	}
}

func TestCoordinateUpdateZeroVarianceLasso(t *testing.T) {
	box := Box{Lo: -1e10, Hi: 1e10}
	_, _, zv := CoordinateUpdate(0, 10, 0, 1.0, 1.0, 1.0, box)
	if !zv {
		t.Fatal("pure-lasso zero-variance column should be flagged fatal")
	}
}

func TestCoordinateUpdateBoxClips(t *testing.T) {
	box := Box{Lo: -0.5, Hi: 0.5}
	betaNew, _, _ := CoordinateUpdate(0, 100, 1, 0.0, 0.0, 1.0, box)
	if betaNew != 0.5 {
		t.Errorf("betaNew = %v, want clipped to 0.5", betaNew)
	}
}

func TestGroupSoftThresholdZeroAtOrigin(t *testing.T) {
	betaOld := []float64{0, 0, 0}
	g := []float64{0.1, 0.1, 0.1}
	betaNew, maxDelta := GroupSoftThreshold(betaOld, g, 1.0, 10.0, 1.0, 1.0)
	for i, v := range betaNew {
		if v != 0 {
			t.Errorf("betaNew[%d] = %v, want 0 under heavy penalty", i, v)
		}
	}
	if maxDelta != 0 {
		t.Errorf("maxDelta = %v, want 0", maxDelta)
	}
}

func TestGroupSoftThresholdShrinksTowardZero(t *testing.T) {
	betaOld := []float64{1, 1}
	g := []float64{0, 0}
	betaNew, _ := GroupSoftThreshold(betaOld, g, 1.0, 0.1, 1.0, 1.0)
	for i := range betaNew {
		if betaNew[i] <= 0 || betaNew[i] >= betaOld[i] {
			t.Errorf("betaNew[%d] = %v, want strictly between 0 and %v", i, betaNew[i], betaOld[i])
		}
	}
}
