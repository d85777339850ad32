package glmpath

import "testing"

func TestPathResultAppendColumnAccumulates(t *testing.T) {
	r := NewPathResult(3)
	r.appendColumn(0.5, 0.1, []float64{1, 0, 2}, 0.8, 2, 10)
	r.appendColumn(0.3, 0.2, []float64{1, 1, 2}, 0.9, 3, 8)

	if r.Lmu != 2 {
		t.Errorf("Lmu = %d, want 2", r.Lmu)
	}
	if r.NLP != 18 {
		t.Errorf("NLP = %d, want 18", r.NLP)
	}
	if len(r.Lambda) != 2 || r.Lambda[0] != 0.5 || r.Lambda[1] != 0.3 {
		t.Errorf("Lambda = %v", r.Lambda)
	}
}

func TestPathResultAppendColumnCopiesBeta(t *testing.T) {
	r := NewPathResult(2)
	beta := []float64{1, 2}
	r.appendColumn(1.0, 0, beta, 0, 2, 1)
	beta[0] = 999 // mutating the caller's slice must not affect the stored copy
	if r.Beta[0][0] == 999 {
		t.Error("appendColumn should copy beta, not alias it")
	}
}

func TestPathResultPack(t *testing.T) {
	r := NewPathResult(4)
	r.ActiveOrder = []int{2, 0}
	r.appendColumn(1.0, 0, []float64{0, 0, 5, 0}, 0.5, 1, 1)
	r.appendColumn(0.5, 0, []float64{3, 0, 5, 0}, 0.7, 2, 2)
	r.ActiveOrder = []int{2, 0}

	ca, ia, nin := r.Pack()
	if len(ia) != 2 || ia[0] != 2 || ia[1] != 0 {
		t.Fatalf("ia = %v, want [2 0]", ia)
	}
	if nin[0] != 1 || nin[1] != 2 {
		t.Errorf("nin = %v, want [1 2]", nin)
	}
	// Column 0: only variable 2 (position 0) is nonzero.
	if ca[0][0] != 5 || ca[0][1] != 0 {
		t.Errorf("ca[0] = %v, want [5 0]", ca[0])
	}
	// Column 1: variable 2 (position 0) = 5, variable 0 (position 1) = 3.
	if ca[1][0] != 5 || ca[1][1] != 3 {
		t.Errorf("ca[1] = %v, want [5 3]", ca[1])
	}
}

func TestPathResultCoefficientsReturnsCopy(t *testing.T) {
	r := NewPathResult(2)
	r.appendColumn(1.0, 0, []float64{1, 2}, 0, 2, 1)
	beta := r.Coefficients(0)
	beta[0] = 999
	if r.Beta[0][0] == 999 {
		t.Error("Coefficients should return a copy, not the internal slice")
	}
}
