package glmpath

import "log"

// InternalParams is the explicit stand-in for the source's process-wide
// "internal.parms" singleton (spec §6, §9): thresholds and caps that are
// logically global defaults but are passed as an argument into every fit
// instead of being mutated around a scoped call.
type InternalParams struct {
	Thresh float64 // convergence threshold multiplier (of null deviance)
	FDev   float64 // minimum fractional deviance gain to continue the path
	DevMax float64 // the path stops once rsq exceeds 1-DevMax (near-saturated fit)
	Big    float64 // overflow guard for Poisson exp(eta) and similar
	PMin   float64 // probability floor/ceiling distance for binomial family
	Exmx   float64 // max |eta| before clipping in exponential links
	Eps    float64 // generic numerical floor (zero-variance detection, etc.)
	MxIt   int     // IRLS outer-loop iteration cap
	EpsNR  float64 // Newton-Raphson step tolerance inside IRLS
	MnLam  int     // minimum number of lambda values before fdev stop applies
	ITrace int     // 0 = silent, >0 forces the per-lambda progress line on regardless of PathConfig.Verbose
}

// DefaultInternalParams mirrors the source's compiled-in defaults.
func DefaultInternalParams() InternalParams {
	return InternalParams{
		Thresh: 1e-7,
		FDev:   1e-5,
		DevMax: 1e-3,
		Big:    9.9e35,
		PMin:   1e-9,
		Exmx:   250.0,
		Eps:    1e-6,
		MxIt:   25,
		EpsNR:  1e-6,
		MnLam:  5,
		ITrace: 0,
	}
}

// GradientMode selects the GradientState bookkeeping scheme (spec §4.3).
type GradientMode int

const (
	// GradientAuto picks covariance mode for dense X with p < CovThreshold,
	// naive otherwise — the source's default heuristic (spec §4.3).
	GradientAuto GradientMode = iota
	GradientNaive
	GradientCovariance
)

// CovThreshold is the default dense-and-narrow cutoff for GradientAuto.
const CovThreshold = 500

// PathConfig holds the per-fit caller-facing options, generalizing the
// teacher's Config (Lambda/MaxIter/Tol/NJobs/Standardize/Verbose/...) to the
// full elastic-net path contract of spec §3/§6.
type PathConfig struct {
	Alpha          float64   // elastic-net mix in [0,1]; 1 = lasso, 0 = ridge. The Fit entry points read the mix from FitInputs.Alpha / MultinomialFitInputs.Alpha, not from this field
	NLambda        int       // number of lambda values to generate when Lambda is nil
	LambdaMinRatio float64   // lambda_min / lambda_max; 0 means use the family default
	Lambda         []float64 // caller-supplied lambda grid; overrides NLambda/LambdaMinRatio

	Standardize bool // standardize columns to unit variance before fitting
	Intercept   bool // fit an intercept term

	DFMax int // stop once the active set exceeds this size
	PMax  int // stop once the ever-nonzero count exceeds this size
	MaxIt int // coordinate-descent inner-loop pass cap per lambda

	Thresh float64 // convergence threshold multiplier; 0 means use InternalParams.Thresh

	Gradient GradientMode

	NJobs int // worker count for the dense entry points' vector-level parallel dot products; 0 = GOMAXPROCS

	Verbose bool
	LogStep int // log every LogStep-th lambda when Verbose (or InternalParams.ITrace > 0)

	// Logger, when non-nil, receives the once-per-fit structural messages
	// (start/stop of a path) via log.Printf — mirrors kshedden-statmodel's
	// glm.log-gated log.Print convention. Verbose/LogStep's per-lambda
	// progress line is unaffected by this and always goes to fmt.Printf.
	Logger *log.Logger

	// OnProgress is invoked between lambda steps (spec §5); it must not
	// re-enter the core. It runs after step's point solve but before that
	// column is recorded, so result holds the columns before step.
	// Returning false stops the path driver there (ErrUserAborted) and the
	// column for step is not recorded, a convenience that does not
	// constitute true mid-fit cancellation.
	OnProgress func(step int, result *PathResult) bool
}

// NewDefaultPathConfig mirrors the teacher's NewDefaultConfig.
func NewDefaultPathConfig() *PathConfig {
	return &PathConfig{
		Alpha:          1.0,
		NLambda:        100,
		LambdaMinRatio: 0,
		Standardize:    true,
		Intercept:      true,
		DFMax:          0, // 0 means "no limit" (resolved against p at fit time)
		PMax:           0,
		MaxIt:          100000,
		Thresh:         0,
		Gradient:       GradientAuto,
		NJobs:          0,
		Verbose:        false,
		LogStep:        1,
	}
}
