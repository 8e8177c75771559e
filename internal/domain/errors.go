package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Callers classify failures with errors.Is; the HTTP layer maps
// each kind to a status code.
var (
	ErrMissingParameter = errors.New("missing parameter")
	ErrInvalidType      = errors.New("invalid type")
	ErrInvalidUnit      = errors.New("invalid unit")
	ErrUnknownMaterial  = errors.New("unknown material")
	ErrNotFound         = errors.New("not found")
	ErrSchema           = errors.New("schema error")
	ErrSimulation       = errors.New("simulation failure")
	ErrSimulatorBusy    = errors.New("simulator busy")
)

// kindError carries a user-facing message while still matching its kind (and
// optional cause) under errors.Is.
type kindError struct {
	kind  error
	msg   string
	cause error
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() []error {
	if e.cause != nil {
		return []error{e.kind, e.cause}
	}
	return []error{e.kind}
}

// Errorf returns an error of the given kind whose message is the formatted
// text, without the kind prefix.
func Errorf(kind error, format string, args ...any) error {
	return &kindError{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// WrapError tags cause with kind. The message is the cause's message verbatim.
func WrapError(kind, cause error) error {
	if cause == nil {
		return nil
	}
	return &kindError{kind: kind, msg: cause.Error(), cause: cause}
}
