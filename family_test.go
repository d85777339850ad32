package glmpath

import (
	"math"
	"testing"
)

func TestGaussianFamilyIsIdentity(t *testing.T) {
	y := []float64{1, 2, 3}
	eta := []float64{0.5, 1.5, 2.5}
	w := []float64{1, 1, 1}
	fit := GaussianFamily{}.PrepareWorking(y, eta, w, DefaultInternalParams())
	for i := range y {
		if fit.YWorking[i] != y[i] {
			t.Errorf("YWorking[%d] = %v, want %v", i, fit.YWorking[i], y[i])
		}
		if fit.Weights[i] != w[i] {
			t.Errorf("Weights[%d] = %v, want %v", i, fit.Weights[i], w[i])
		}
	}
	if fit.CurDev <= 0 {
		t.Error("CurDev should be positive when eta != y")
	}
}

func TestBinomialFamilyProbabilitiesStayInBounds(t *testing.T) {
	params := DefaultInternalParams()
	y := []float64{1, 0, 1, 0}
	eta := []float64{20, -20, 20, -20}
	w := []float64{1, 1, 1, 1}
	fit := BinomialFamily{}.PrepareWorking(y, eta, w, params)
	for i, p := range fit.Weights {
		if p < 0 {
			t.Errorf("Weights[%d] = %v, should never be negative", i, p)
		}
	}
	if !fit.Saturated {
		t.Error("expected Saturated when every observation sits at an extreme eta")
	}
}

func TestBinomialModifiedNewtonUsesQuarterWeight(t *testing.T) {
	params := DefaultInternalParams()
	y := []float64{1}
	eta := []float64{0}
	w := []float64{1}
	fit := BinomialFamily{ModifiedNewton: true}.PrepareWorking(y, eta, w, params)
	if math.Abs(fit.Weights[0]-0.25) > 1e-9 {
		t.Errorf("ModifiedNewton weight = %v, want 0.25", fit.Weights[0])
	}
}

func TestPoissonFamilyOverflowFlag(t *testing.T) {
	params := DefaultInternalParams()
	y := []float64{1}
	eta := []float64{1000}
	w := []float64{1}
	fit := PoissonFamily{}.PrepareWorking(y, eta, w, params)
	if !fit.Overflow {
		t.Error("expected Overflow for a wildly large linear predictor")
	}
}

func TestSoftmaxRowsSumToOne(t *testing.T) {
	etaCols := [][]float64{
		{1, 2, 0},
		{0, 1, 1},
		{-1, 0, 2},
	}
	prob := Softmax(etaCols)
	n := len(etaCols[0])
	for i := 0; i < n; i++ {
		var sum float64
		for c := range prob {
			sum += prob[c][i]
			if prob[c][i] < 0 || prob[c][i] > 1 {
				t.Errorf("prob[%d][%d] = %v out of [0,1]", c, i, prob[c][i])
			}
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("row %d sums to %v, want 1", i, sum)
		}
	}
}

func TestWeightedMean(t *testing.T) {
	y := []float64{1, 2, 3, 4}
	w := []float64{1, 1, 1, 1}
	if got := weightedMean(y, w); math.Abs(got-2.5) > 1e-9 {
		t.Errorf("weightedMean = %v, want 2.5", got)
	}
}
