package glmpath

// PathResult accumulates the coefficient columns, intercepts, lambda
// values, deviance fractions, and counters the path driver produces (spec
// §3, §6). It grows column-by-column; on early termination spec requires
// it be effectively truncated to Lmu columns, which appendColumn already
// guarantees by simply not being called for the discarded column.
type PathResult struct {
	Lambda     []float64   // alm: the actual lambda used at each step
	Intercept  []float64   // a0
	Beta       [][]float64 // dense p-length coefficient vector per step
	Rsq        []float64   // fractional deviance explained per step
	NActive    []int       // nin: nonzero count per step
	NLPPerStep []int       // inner passes spent on that step
	ActiveOrder []int      // ia: first-entry order across the whole path
	NLP        int         // cumulative inner passes (nlp)
	Code       ErrorCode   // jerr
	Lmu        int         // columns actually filled

	p int
}

// NewPathResult allocates an empty result for a p-column design matrix.
func NewPathResult(p int) *PathResult {
	return &PathResult{p: p}
}

func (r *PathResult) appendColumn(lambda, intercept float64, beta []float64, rsq float64, nActive, nlp int) {
	r.Lambda = append(r.Lambda, lambda)
	r.Intercept = append(r.Intercept, intercept)
	r.Beta = append(r.Beta, append([]float64(nil), beta...))
	r.Rsq = append(r.Rsq, rsq)
	r.NActive = append(r.NActive, nActive)
	r.NLPPerStep = append(r.NLPPerStep, nlp)
	r.NLP += nlp
	r.Lmu = len(r.Lambda)
}

// Pack produces the compressed ca/ia/nin representation of spec §6:
// ca[m][k] is the coefficient at column m of variable ia[k] (0 where that
// variable is zero at column m), and nin[m] counts column m's nonzeros.
func (r *PathResult) Pack() (ca [][]float64, ia []int, nin []int) {
	ia = append([]int(nil), r.ActiveOrder...)
	position := make(map[int]int, len(ia))
	for k, j := range ia {
		position[j] = k
	}
	ca = make([][]float64, r.Lmu)
	nin = make([]int, r.Lmu)
	for m := 0; m < r.Lmu; m++ {
		row := make([]float64, len(ia))
		count := 0
		for j, bj := range r.Beta[m] {
			if bj == 0 {
				continue
			}
			row[position[j]] = bj
			count++
		}
		ca[m] = row
		nin[m] = count
	}
	return ca, ia, nin
}

// Coefficients unpacks column m back to a dense length-p vector (the
// caller-side step spec §6 describes: beta[ia[k]] = ca[k,m] for k<=nin[m],
// others zero — trivial here since Beta is already stored dense).
func (r *PathResult) Coefficients(m int) []float64 {
	return append([]float64(nil), r.Beta[m]...)
}
