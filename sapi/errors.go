package sapi

import "errors"

// Common errors for the hosting shell.
var (
	// ErrUnexpected is the generic fatal signal produced by the
	// unwind-isolation boundary. It carries no detail on purpose.
	ErrUnexpected = errors.New("unexpected engine failure")

	// Contract violations. These are safe to retry with different input.
	ErrPointer        = errors.New("nil out-pointer")
	ErrInvalidArg     = errors.New("invalid argument")
	ErrNoAggregation  = errors.New("aggregation is not supported")
	ErrNoInterface    = errors.New("interface not available")
	ErrClassNotFound  = errors.New("class not available")
	ErrNotImplemented = errors.New("not implemented")

	// Token latch errors. Contract violations as well: the object is
	// intact, the caller just drove the bind protocol out of order.
	ErrTokenBound   = errors.New("object token already bound")
	ErrTokenUnbound = errors.New("object token used before bound")

	ErrInstanceClosed = errors.New("engine instance is closed")
)

// Status is the result code an entry point reports across the hosting
// boundary. StatusOK and StatusFalse are success values; everything else is
// a failure.
type Status int32

const (
	StatusOK Status = iota
	StatusFalse
	StatusFail
	StatusUnexpected
	StatusPointer
	StatusInvalidArg
	StatusNoAggregation
	StatusNoInterface
	StatusClassNotFound
	StatusNotImplemented
	StatusTokenBound
	StatusTokenUnbound
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusFalse:
		return "false"
	case StatusFail:
		return "fail"
	case StatusUnexpected:
		return "unexpected"
	case StatusPointer:
		return "pointer"
	case StatusInvalidArg:
		return "invalid-arg"
	case StatusNoAggregation:
		return "no-aggregation"
	case StatusNoInterface:
		return "no-interface"
	case StatusClassNotFound:
		return "class-not-found"
	case StatusNotImplemented:
		return "not-implemented"
	case StatusTokenBound:
		return "token-bound"
	case StatusTokenUnbound:
		return "token-unbound"
	default:
		return "unknown"
	}
}

// Failed reports whether the status is a failure value.
func (s Status) Failed() bool {
	return s != StatusOK && s != StatusFalse
}

// Retryable reports whether the failure was a contract violation, meaning
// the caller may retry with different input. StatusUnexpected and StatusFail
// indicate an engine malfunction and are not retryable.
func (s Status) Retryable() bool {
	switch s {
	case StatusPointer, StatusInvalidArg, StatusNoAggregation,
		StatusNoInterface, StatusClassNotFound, StatusNotImplemented,
		StatusTokenBound, StatusTokenUnbound:
		return true
	default:
		return false
	}
}

// StatusOf maps an error bubbled out of the hosting shell to the status
// reported across the boundary. Intermediate layers do not catch errors, so
// the sentinel is still identifiable here.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrUnexpected):
		return StatusUnexpected
	case errors.Is(err, ErrPointer):
		return StatusPointer
	case errors.Is(err, ErrInvalidArg):
		return StatusInvalidArg
	case errors.Is(err, ErrNoAggregation):
		return StatusNoAggregation
	case errors.Is(err, ErrNoInterface):
		return StatusNoInterface
	case errors.Is(err, ErrClassNotFound):
		return StatusClassNotFound
	case errors.Is(err, ErrNotImplemented):
		return StatusNotImplemented
	case errors.Is(err, ErrTokenBound):
		return StatusTokenBound
	case errors.Is(err, ErrTokenUnbound):
		return StatusTokenUnbound
	default:
		return StatusFail
	}
}
