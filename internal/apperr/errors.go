package apperr

import "errors"

// ErrNotReady is returned by every encode path while no model handle is loaded.
var ErrNotReady = &NotReadyError{Message: "model not loaded"}

type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func NewValidationWrap(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}

// NotReadyError reports a request that arrived before the model finished loading.
type NotReadyError struct {
	Message string
}

func (e *NotReadyError) Error() string {
	return e.Message
}

// InternalError wraps a failure raised by the model runtime. Its message is
// surfaced to the caller verbatim.
type InternalError struct {
	Err error
}

func (e *InternalError) Error() string {
	return e.Err.Error()
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

func NewInternal(err error) *InternalError {
	return &InternalError{Err: err}
}

func IsNotReady(err error) bool {
	var nre *NotReadyError
	return errors.As(err, &nre)
}
