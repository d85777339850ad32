package glmpath

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func newTestPointSolver(x *mat.Dense, standardize bool, intercept bool) (*PointSolver, DataView) {
	dv := NewDenseDataView(x, standardize)
	p := dv.P()
	vp := make([]float64, p)
	box := make([]Box, p)
	excluded := make([]bool, p)
	for j := range vp {
		vp[j] = 1
		box[j] = Box{Lo: math.Inf(-1), Hi: math.Inf(1)}
	}
	ps := NewPointSolver(PointSolverSpec{
		DV:        dv,
		Family:    GaussianFamily{},
		Alpha:     1.0,
		VP:        vp,
		Box:       box,
		Excluded:  excluded,
		Params:    DefaultInternalParams(),
		MaxIt:     10000,
		GradMode:  GradientAuto,
		Intercept: intercept,
	})
	return ps, dv
}

func TestPointSolverZeroLambdaRecoversOLSDirection(t *testing.T) {
	x := mat.NewDense(5, 1, []float64{1, 2, 3, 4, 5})
	y := []float64{2, 4, 6, 8, 10}
	w := []float64{0.2, 0.2, 0.2, 0.2, 0.2}

	ps, _ := newTestPointSolver(x, false, false)
	beta := []float64{0}
	var activeOrd []int
	res := ps.Solve(y, w, beta, 0, 0, 0, &activeOrd)

	if res.Code.Fatal() {
		t.Fatalf("unexpected fatal code: %v", res.Code)
	}
	// y = 2x exactly, lambda=0 should recover beta ~= 2.
	if math.Abs(res.Beta[0]-2) > 1e-3 {
		t.Errorf("Beta[0] = %v, want ~2", res.Beta[0])
	}
}

func TestPointSolverHighLambdaShrinksToZero(t *testing.T) {
	x := mat.NewDense(5, 1, []float64{1, 2, 3, 4, 5})
	y := []float64{2, 4, 6, 8, 10}
	w := []float64{0.2, 0.2, 0.2, 0.2, 0.2}

	ps, _ := newTestPointSolver(x, false, false)
	beta := []float64{0}
	var activeOrd []int
	res := ps.Solve(y, w, beta, 0, 1e6, 1e6, &activeOrd)

	if res.Beta[0] != 0 {
		t.Errorf("Beta[0] = %v, want 0 under extreme lambda", res.Beta[0])
	}
}

func TestPointSolverExcludedColumnStaysZero(t *testing.T) {
	x := mat.NewDense(5, 2, []float64{1, 1, 2, 1, 3, 1, 4, 1, 5, 1})
	dv := NewDenseDataView(x, false)
	vp := []float64{1, 0}
	box := []Box{{Lo: math.Inf(-1), Hi: math.Inf(1)}, {Lo: math.Inf(-1), Hi: math.Inf(1)}}
	excluded := []bool{false, true}
	ps := NewPointSolver(PointSolverSpec{
		DV: dv, Family: GaussianFamily{}, Alpha: 1.0, VP: vp, Box: box,
		Excluded: excluded, Params: DefaultInternalParams(), MaxIt: 10000, GradMode: GradientAuto,
	})
	y := []float64{2, 4, 6, 8, 10}
	w := []float64{0.2, 0.2, 0.2, 0.2, 0.2}
	beta := []float64{0, 0}
	var activeOrd []int
	res := ps.Solve(y, w, beta, 0, 0, 0, &activeOrd)

	if res.Beta[1] != 0 {
		t.Errorf("excluded coordinate Beta[1] = %v, want 0", res.Beta[1])
	}
}
