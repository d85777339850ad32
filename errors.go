package glmpath

import "fmt"

// ErrorCode is the jerr taxonomy shared across every component (spec §7).
//
// The numeric ranges mirror the glmnet convention referenced by
// original_source/glmnetpp: 0 is success, small positive codes are
// allocation/shape failures, 10000+j flags a zero-variance predictor at
// column j, and negative codes signal a non-fatal truncation. Each negative
// code names the cause of the truncation; it does not encode the step.
type ErrorCode int

const (
	// ErrNone is the success code.
	ErrNone ErrorCode = 0

	// ErrBadDimensions means X, y, w, or offset have inconsistent shapes.
	ErrBadDimensions ErrorCode = 1
	// ErrBadWeights means a weight was negative or all weights were zero.
	ErrBadWeights ErrorCode = 2
	// ErrNonFiniteInput means X, y, w, or offset contained NaN or Inf.
	ErrNonFiniteInput ErrorCode = 3
	// ErrBadAlpha means alpha was outside [0,1].
	ErrBadAlpha ErrorCode = 4
	// ErrBadBounds means a box constraint had lo > 0 or hi < 0.
	ErrBadBounds ErrorCode = 5

	// errZeroVarianceBase + j is a fatal zero-variance predictor at column j,
	// only possible when alpha == 1 (unpenalized ridge floor).
	errZeroVarianceBase ErrorCode = 10000

	// ErrMaxIterExceeded is a non-fatal algorithmic non-convergence code
	// (maxit reached at some lambda); the path is truncated there.
	ErrMaxIterExceeded ErrorCode = -1
	// ErrSaturation is a non-fatal code for pinned probabilities or deviance
	// blowing up (binomial/multinomial/Poisson); the path is truncated.
	ErrSaturation ErrorCode = -2
	// ErrDFMaxReached is a non-fatal structural limit: active set > dfmax.
	ErrDFMaxReached ErrorCode = -3
	// ErrPMaxReached is a non-fatal structural limit: ever-nonzero > pmax.
	ErrPMaxReached ErrorCode = -4
	// ErrNumericalOverflow is a non-fatal code for Poisson mu exceeding Big.
	ErrNumericalOverflow ErrorCode = -5
	// ErrUserAborted is a non-fatal code set when OnProgress returns false.
	ErrUserAborted ErrorCode = -6
)

// ZeroVarianceError returns the fatal error code for a zero-variance
// predictor discovered at column j (0-based).
func ZeroVarianceError(j int) ErrorCode {
	return errZeroVarianceBase + ErrorCode(j)
}

// ZeroVarianceColumn reports whether code encodes a zero-variance failure
// and, if so, which column triggered it.
func (c ErrorCode) ZeroVarianceColumn() (j int, ok bool) {
	if c >= errZeroVarianceBase {
		return int(c - errZeroVarianceBase), true
	}
	return 0, false
}

// Fatal reports whether the error code requires aborting the fit with no
// partial result, per spec §7's propagation rule.
func (c ErrorCode) Fatal() bool {
	if c == ErrNone {
		return false
	}
	if c >= errZeroVarianceBase {
		return true
	}
	return c > 0
}

// NonFatal reports whether the code truncates the path but still returns
// whatever converged.
func (c ErrorCode) NonFatal() bool {
	return c < 0
}

func (c ErrorCode) String() string {
	switch {
	case c == ErrNone:
		return "ok"
	case c == ErrBadDimensions:
		return "inconsistent input dimensions"
	case c == ErrBadWeights:
		return "invalid observation weights"
	case c == ErrNonFiniteInput:
		return "non-finite value in input"
	case c == ErrBadAlpha:
		return "alpha outside [0,1]"
	case c == ErrBadBounds:
		return "box constraint excludes zero"
	case c >= errZeroVarianceBase:
		j, _ := c.ZeroVarianceColumn()
		return fmt.Sprintf("zero-variance predictor at column %d", j)
	case c == ErrMaxIterExceeded:
		return "maximum iterations exceeded before convergence"
	case c == ErrSaturation:
		return "family deviance saturated or probabilities pinned"
	case c == ErrDFMaxReached:
		return "active set size exceeded dfmax"
	case c == ErrPMaxReached:
		return "ever-nonzero count exceeded pmax"
	case c == ErrNumericalOverflow:
		return "numerical overflow in family link"
	case c == ErrUserAborted:
		return "progress callback requested stop"
	default:
		return fmt.Sprintf("unknown error code %d", int(c))
	}
}

// FitError wraps an ErrorCode with the path step it occurred at, so
// callers can build a human-readable message from a family-specific
// lookup without losing the numeric jerr.
type FitError struct {
	Code ErrorCode
	Step int // 1-based lambda index, 0 if not step-specific
}

func (e *FitError) Error() string {
	if e.Step > 0 {
		return fmt.Sprintf("glmpath: step %d: %s", e.Step, e.Code)
	}
	return fmt.Sprintf("glmpath: %s", e.Code)
}

// Unwrap returns nil: FitError wraps no other error, and callers inspect
// Code directly.
func (e *FitError) Unwrap() error { return nil }
