package types

import (
	"github.com/juju/errors"
)

var (
	_ error = &FatalError{}
	_ error = &InvocationError{}
)

/**
 * FatalError is reserved for run-level defects: an unsatisfiable
 * dependency set (cycle, or an edge to a task_id the plan never
 * produced). It is the only error Execute returns; every per-task or
 * per-field failure is absorbed into the results table instead.
 */
type FatalError struct {
	*baseError
}

func NewFatalError(otherErr error) error {
	return &FatalError{newBaseErr(otherErr)}
}

func NewFatalErrorf(format string, args ...interface{}) error {
	return NewFatalError(errors.Errorf(format, args...))
}

// IsFatal reports whether err (possibly wrapped by errors.Trace)
// carries a run-level FatalError.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if _, ok := err.(*FatalError); ok {
		return true
	}
	_, ok := errors.Cause(err).(*FatalError)
	return ok
}

// InvocationError describes a failed downstream agent call. It never
// escapes the executor; FailedResult turns it into the normalized
// {status: "error", agent, endpoint, error} record.
type InvocationError struct {
	*baseError

	Agent    string
	Endpoint string
}

func NewInvocationError(agent, endpoint string, otherErr error) error {
	return &InvocationError{newBaseErr(otherErr), agent, endpoint}
}

func NewInvocationErrorf(agent, endpoint, format string, args ...interface{}) error {
	return NewInvocationError(agent, endpoint, errors.Errorf(format, args...))
}

// AsInvocation unwraps err (possibly wrapped by errors.Trace) into the
// agent-call failure it carries, if any.
func AsInvocation(err error) (*InvocationError, bool) {
	if err == nil {
		return nil, false
	}
	if inv, ok := err.(*InvocationError); ok {
		return inv, true
	}
	inv, ok := errors.Cause(err).(*InvocationError)
	return inv, ok
}

func newBaseErr(otherErr error) *baseError {
	return &baseError{unwrapErr(otherErr)}
}

func unwrapErr(err error) error {
	if err == nil {
		return nil
	}
	if ue, ok := err.(wrappedErr); ok {
		return unwrapErr(ue.UnwrapLocal())
	}
	return err
}

type wrappedErr interface {
	UnwrapLocal() error
}

type baseError struct {
	BaseErr error
}

func (e *baseError) Error() string {
	return e.BaseErr.Error()
}

func (e *baseError) UnwrapLocal() error {
	return e.BaseErr
}
