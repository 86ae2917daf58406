package mcts

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// ErrorKind classifies an engine failure, matching the four kinds spec'd
// for the search core: a caller violating a precondition, a rollout that
// deadlocked, malformed input, or a broken internal invariant.
type ErrorKind uint8

const (
	// IllegalOperation is a caller precondition violation: simulate on a
	// terminal root, evaluate an already-evaluated node, an unknown move
	// text, priors of the wrong arity. Not retried.
	IllegalOperation ErrorKind = iota
	// SearchStalled is a rollout that hit MaxRolloutIters without reaching
	// a terminal or heuristically-decided state.
	SearchStalled
	// InvalidInput is bad configuration or a board-state wire record that
	// does not reconstruct into a legal position.
	InvalidInput
	// InternalInvariantViolation is an assertion failure: equity outside
	// [-1, 1], a nil child during selection, no best action found after a
	// full scan. Fatal - the caller should treat the engine as unusable.
	InternalInvariantViolation
)

func (k ErrorKind) String() string {
	switch k {
	case IllegalOperation:
		return "IllegalOperation"
	case SearchStalled:
		return "SearchStalled"
	case InvalidInput:
		return "InvalidInput"
	case InternalInvariantViolation:
		return "InternalInvariantViolation"
	default:
		return "UnknownErrorKind"
	}
}

// Error is the error value every public mcts/engine operation returns on
// failure. Fields is free-form debugging context (action index, children
// count, iteration number) attached per §7's requirement that
// InternalInvariantViolation errors carry enough context to debug.
type Error struct {
	Kind    ErrorKind
	Message string
	Fields  map[string]interface{}
	cause   error
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s %v", e.Kind, e.Message, e.Fields)
}

// Unwrap lets callers use errors.Is/errors.As against the wrapped cause.
func (e *Error) Unwrap() error { return e.cause }

// newError builds an *Error whose cause is a pkg/errors error recording
// the stack where it originated. Error() prints only the kind, message and
// fields; the stack shows when Unwrap's result is formatted with %+v.
func newError(kind ErrorKind, message string, fields map[string]interface{}) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Fields:  fields,
		cause:   errors.New(message),
	}
}

// NewError is newError exported for package engine, so the threaded
// wrapper raises the same *Error kind its underlying Tree would.
func NewError(kind ErrorKind, message string, fields map[string]interface{}) *Error {
	return newError(kind, message, fields)
}

// wrapError annotates an existing error with a kind and message while
// keeping it inspectable via Unwrap.
func wrapError(kind ErrorKind, message string, cause error, fields map[string]interface{}) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Fields:  fields,
		cause:   errors.WithMessage(cause, message),
	}
}

// WrapError is wrapError exported for package engine, so it can attach
// engine-level context to an error returned from the Tree it wraps
// without losing the underlying cause.
func WrapError(kind ErrorKind, message string, cause error, fields map[string]interface{}) *Error {
	return wrapError(kind, message, cause, fields)
}

// aggregate combines multiple failures (e.g. a worker panic recovered
// alongside a pending shutdown error) the way Agent.Close did in the
// teacher, via hashicorp/go-multierror.
func aggregate(errs ...error) error {
	var merr *multierror.Error
	for _, err := range errs {
		if err != nil {
			merr = multierror.Append(merr, err)
		}
	}
	if merr == nil {
		return nil
	}
	return merr
}

// Aggregate is aggregate exported for package engine, so recoverPanic
// combines a recovered worker panic with any already-pending shutdown
// error the same way this package would internally.
func Aggregate(errs ...error) error {
	return aggregate(errs...)
}
