package glmpath

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestFitGaussianDenseEndToEnd(t *testing.T) {
	x := mat.NewDense(8, 2, []float64{
		1, 5, 2, 4, 3, 3, 4, 2, 5, 1, 6, 0, 7, -1, 8, -2,
	})
	y := []float64{2, 4, 6, 8, 10, 12, 14, 16}
	cfg := NewDefaultPathConfig()
	cfg.NLambda = 10

	result, err := FitGaussianDense(x, FitInputs{Y: y, Alpha: 1}, cfg, DefaultInternalParams())
	if err != nil {
		t.Fatalf("FitGaussianDense error: %v", err)
	}
	if result.Lmu == 0 {
		t.Fatal("expected at least one path column")
	}
	if result.Rsq[result.Lmu-1] < 0.9 {
		t.Errorf("final rsq = %v, want a strong fit on a near-linear relationship", result.Rsq[result.Lmu-1])
	}
}

// S5 (binomial): deviance should move monotonically toward a better fit and
// working probabilities must stay within the configured [pmin, 1-pmin] band.
func TestScenarioS5BinomialDevianceAndProbabilityBounds(t *testing.T) {
	n := 40
	x := mat.NewDense(n, 2, nil)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		a := float64(i%5) - 2
		b := float64((i*3)%7) - 3
		x.Set(i, 0, a)
		x.Set(i, 1, b)
		if a+0.5*b > 0 {
			y[i] = 1
		} else {
			y[i] = 0
		}
	}
	cfg := NewDefaultPathConfig()
	cfg.NLambda = 12
	params := DefaultInternalParams()

	result, err := FitBinomialDense(x, FitInputs{Y: y, Alpha: 1}, cfg, params)
	if err != nil {
		t.Fatalf("FitBinomialDense error: %v", err)
	}
	for m := 1; m < result.Lmu; m++ {
		if result.Rsq[m] < result.Rsq[m-1]-1e-6 {
			t.Errorf("deviance fraction decreased at step %d", m)
		}
	}

	dv := NewDenseDataView(x, cfg.Standardize)
	for m := 0; m < result.Lmu; m++ {
		beta := result.Beta[m]
		eta := make([]float64, n)
		for i := range eta {
			eta[i] = result.Intercept[m]
		}
		for j, bj := range beta {
			if bj != 0 {
				dv.AddScaled(eta, j, bj)
			}
		}
		for i := range eta {
			p := 1 / (1 + math.Exp(-eta[i]))
			if p < params.PMin-1e-9 || p > 1-params.PMin+1e-9 {
				t.Errorf("step %d obs %d: probability %v outside [pmin,1-pmin]", m, i, p)
			}
		}
	}
}

// S6 (sparse vs dense): a 90%-sparse design fit both ways should agree on
// lmu, the lambda grid, and coefficients.
func TestScenarioS6SparseVsDenseEquivalence(t *testing.T) {
	n, p := 30, 4
	dense := mat.NewDense(n, p, nil)
	cols := make([]SparseColumn, p)
	seed := 1
	for j := 0; j < p; j++ {
		var col SparseColumn
		for i := 0; i < n; i++ {
			seed = (seed*1103515245 + 12345) & 0x7fffffff
			if seed%10 == 0 { // ~10% nonzero
				v := float64(seed%7) + 1
				dense.Set(i, j, v)
				col.Indices = append(col.Indices, i)
				col.Values = append(col.Values, v)
			}
		}
		cols[j] = col
	}
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		y[i] = dense.At(i, 0)*2 - dense.At(i, 1) + 1
	}

	cfg := NewDefaultPathConfig()
	cfg.NLambda = 8
	params := DefaultInternalParams()

	rDense, err := FitGaussianDense(dense, FitInputs{Y: y, Alpha: 1}, cfg, params)
	if err != nil {
		t.Fatalf("dense Fit error: %v", err)
	}
	rSparse, err := FitGaussianSparse(cols, n, nil, nil, FitInputs{Y: y, Alpha: 1}, cfg, params)
	if err != nil {
		t.Fatalf("sparse Fit error: %v", err)
	}

	if rDense.Lmu != rSparse.Lmu {
		t.Fatalf("Lmu mismatch: dense=%d sparse=%d", rDense.Lmu, rSparse.Lmu)
	}
	for m := 0; m < rDense.Lmu; m++ {
		if math.Abs(rDense.Lambda[m]-rSparse.Lambda[m]) > 1e-6 {
			t.Errorf("step %d: lambda dense=%v sparse=%v", m, rDense.Lambda[m], rSparse.Lambda[m])
		}
		for j := 0; j < p; j++ {
			if math.Abs(rDense.Beta[m][j]-rSparse.Beta[m][j]) > 1e-6 {
				t.Errorf("step %d var %d: beta dense=%v sparse=%v", m, j, rDense.Beta[m][j], rSparse.Beta[m][j])
			}
		}
	}
}

func TestFitPoissonDenseRunsToCompletion(t *testing.T) {
	n := 20
	x := mat.NewDense(n, 2, nil)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		a := float64(i % 4)
		x.Set(i, 0, a)
		x.Set(i, 1, float64(i%3))
		y[i] = math.Floor(math.Exp(0.3 * a))
	}
	cfg := NewDefaultPathConfig()
	cfg.NLambda = 6
	result, err := FitPoissonDense(x, FitInputs{Y: y, Alpha: 1}, cfg, DefaultInternalParams())
	if err != nil {
		t.Fatalf("FitPoissonDense error: %v", err)
	}
	if result.Lmu == 0 {
		t.Fatal("expected at least one path column")
	}
}
