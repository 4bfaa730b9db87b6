package scoring

import (
	"errors"
	"fmt"

	errbuilder "github.com/ZanzyTHEbar/errbuilder-go"
)

// ErrKind discriminates the validation failures the scoring functions can
// produce. All are raised fail-fast at the offending call; none are
// retryable since the functions are deterministic.
type ErrKind string

const (
	KindInvalidIndicator ErrKind = "invalid_indicator"
	KindInvalidWeight    ErrKind = "invalid_weight"
	KindEmptyCategory    ErrKind = "empty_category"
	KindMissingCategory  ErrKind = "missing_category"
)

// Error is the scoring error type. EmptyCategory is recoverable and the
// caller decides how to proceed; MissingCategory is a configuration error
// because a silently skipped category skews the weighted sum.
type Error struct {
	Kind ErrKind
	err  *errbuilder.ErrBuilder
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Kind, e.err.Msg)
}

func (e *Error) Unwrap() error {
	return e.err
}

// Recoverable reports whether the caller may continue after this error.
func (e *Error) Recoverable() bool {
	return e.Kind == KindEmptyCategory
}

// NewInvalidIndicatorError reports an indicator value outside [0,1].
func NewInvalidIndicatorError(dimension string, value float64) *Error {
	return &Error{
		Kind: KindInvalidIndicator,
		err: errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("indicator %q must be in [0,1], got %g", dimension, value)),
	}
}

// NewInvalidWeightError reports a weight set that does not sum to 1.0.
func NewInvalidWeightError(kind string, sum float64) *Error {
	return &Error{
		Kind: KindInvalidWeight,
		err: errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("%s weights must sum to 1.0, got %g", kind, sum)),
	}
}

// NewEmptyCategoryError reports aggregation over zero items or a zero
// total point value.
func NewEmptyCategoryError(category string) *Error {
	return &Error{
		Kind: KindEmptyCategory,
		err: errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("category %q has no scorable items", category)),
	}
}

// NewMissingCategoryError reports an organizational score requested
// without all seven categories present.
func NewMissingCategoryError(category string) *Error {
	return &Error{
		Kind: KindMissingCategory,
		err: errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("missing score for category %q", category)),
	}
}

// IsKind reports whether err is a scoring error of the given kind.
func IsKind(err error, kind ErrKind) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind == kind
	}
	return false
}
