package glmpath

// GradientState is the capability spec §9 names: apply_delta, refresh
// column, dot. It has two concrete shapes (spec §4.3): naive residual and
// covariance Gram-cache. PointSolver is written once against this
// interface; the concrete shape is chosen at fit time.
type GradientState interface {
	// Gradient returns the current partial gradient g_j for coordinate j.
	Gradient(j int) float64

	// ApplyDelta updates internal bookkeeping after beta_j changed by delta.
	ApplyDelta(j int, delta float64)

	// RefreshAll recomputes every gradient exactly against the current
	// beta. PointSolver does not call it: its KKT sweep reads Gradient(j),
	// which is exact for every coordinate in both shapes.
	RefreshAll(beta []float64)
}

// NaiveGradientState is the residual-based shape of spec §4.3(a): stores
// r = y_working - X*beta, recomputing g_j = <X[:,j], r> weighted by w on
// demand. Cost per update is O(n) dense / O(nnz_j) sparse, matching the
// teacher's updateResiduals.
type NaiveGradientState struct {
	dv       DataView
	r        []float64 // y_working - X*beta
	w        []float64 // working weights
}

// NewNaiveGradientState builds residual state at the given beta (usually
// all zero at a fresh point, or the warm-started value from the prior
// lambda).
func NewNaiveGradientState(dv DataView, yWorking, w, beta []float64) *NaiveGradientState {
	n := dv.N()
	r := make([]float64, n)
	copy(r, yWorking)
	for j, bj := range beta {
		if bj != 0 {
			dv.AddScaled(r, j, -bj)
		}
	}
	return &NaiveGradientState{dv: dv, r: r, w: w}
}

func (s *NaiveGradientState) Gradient(j int) float64 {
	return s.dv.WxDot(j, s.r, s.w)
}

func (s *NaiveGradientState) ApplyDelta(j int, delta float64) {
	if delta == 0 {
		return
	}
	s.dv.AddScaled(s.r, j, -delta)
}

func (s *NaiveGradientState) RefreshAll(beta []float64) {
	// r is already exact after every ApplyDelta call; nothing to redo.
}

// CovarianceGradientState is the Gaussian-only shape of spec §4.3(b):
// g = X^T w (y - X*beta), with Gram columns C[:,j] = X^T w X[:,j]
// materialized lazily and cached. g itself is kept current only for
// coordinates that have entered the active set (an O(|active|) update per
// ApplyDelta, restricted to that set, exactly as spec §4.3(b) describes);
// any other coordinate is recomputed from scratch on demand, which is the
// "refreshed only at KKT sweep" path and costs O(np) the first time a new
// variable's Gram column must be materialized.
type CovarianceGradientState struct {
	dv     DataView
	w      []float64
	gY     []float64          // X^T w y, fixed for the life of the state
	beta   []float64          // current beta, kept in sync by ApplyDelta
	gram   map[int][]float64  // k -> C[:,k], i.e. gram[k][j] = <X_j, w*X_k>
	g      []float64          // current gradient, valid only where active[.] is true
	active map[int]bool
}

// NewCovarianceGradientState builds the Gram-cache state. beta is the
// warm-started coefficient vector; gY is computed once from yWorking.
func NewCovarianceGradientState(dv DataView, yWorking, w, beta []float64) *CovarianceGradientState {
	p := dv.P()
	gY := make([]float64, p)
	for j := 0; j < p; j++ {
		gY[j] = dv.WxDot(j, yWorking, w)
	}
	s := &CovarianceGradientState{
		dv:     dv,
		w:      w,
		gY:     gY,
		beta:   append([]float64(nil), beta...),
		gram:   make(map[int][]float64),
		g:      append([]float64(nil), gY...),
		active: make(map[int]bool),
	}
	for k, bk := range beta {
		if bk != 0 {
			s.MarkActive(k)
		}
	}
	return s
}

// gramColumn returns (materializing if needed) C[:,k], an O(np) operation
// the first time k is requested.
func (s *CovarianceGradientState) gramColumn(k int) []float64 {
	if c, ok := s.gram[k]; ok {
		return c
	}
	p := s.dv.P()
	xk := s.dv.ColumnDense(k)
	c := make([]float64, p)
	for j := 0; j < p; j++ {
		c[j] = s.dv.WxDot(j, xk, s.w)
	}
	s.gram[k] = c
	return c
}

// MarkActive admits k into the active set, materializing its Gram column
// and syncing g[k] against the current beta (spec §4.3(b): "materializes
// ... the first time coordinate j enters the active set").
func (s *CovarianceGradientState) MarkActive(k int) {
	if s.active[k] {
		return
	}
	s.gramColumn(k)
	s.active[k] = true
	s.g[k] = s.refreshOne(k)
}

// Gradient returns g_j: an O(1) cache read if j is active, else a full
// O(|active|) recompute against gY and the live beta (the KKT-sweep path).
func (s *CovarianceGradientState) Gradient(j int) float64 {
	if s.active[j] {
		return s.g[j]
	}
	return s.refreshOne(j)
}

func (s *CovarianceGradientState) refreshOne(j int) float64 {
	g := s.gY[j]
	for k, bk := range s.beta {
		if bk == 0 {
			continue
		}
		c := s.gramColumn(k)
		g -= bk * c[j]
	}
	return g
}

// ApplyDelta performs the length-p conceptual update g -= delta*C[:,j],
// restricted in practice to the active set (spec §4.3(b)).
func (s *CovarianceGradientState) ApplyDelta(j int, delta float64) {
	if delta == 0 {
		return
	}
	s.MarkActive(j)
	s.beta[j] += delta
	c := s.gram[j]
	for k := range s.active {
		s.g[k] -= delta * c[k]
	}
}

func (s *CovarianceGradientState) RefreshAll(beta []float64) {
	copy(s.beta, beta)
	for k := range s.active {
		s.g[k] = s.refreshOne(k)
	}
}
