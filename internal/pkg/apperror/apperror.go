// Package apperror classifies pipeline failures so the HTTP layer can pick a
// status code and a client-safe message without inspecting provider errors.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindCredential
	KindStorage
	KindUpstreamModel
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindCredential:
		return "credential"
	case KindStorage:
		return "storage"
	case KindUpstreamModel:
		return "upstream_model"
	default:
		return "unknown"
	}
}

// Error carries a client-safe Message next to the wrapped cause. Only Message
// is ever written to a response body.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status maps the error kind to an HTTP status code.
func (e *Error) Status() int {
	if e.Kind == KindValidation {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func Validation(op, message string, err error) *Error {
	return &Error{Kind: KindValidation, Op: op, Message: message, Err: err}
}

func Credential(op, message string, err error) *Error {
	return &Error{Kind: KindCredential, Op: op, Message: message, Err: err}
}

func Storage(op, message string, err error) *Error {
	return &Error{Kind: KindStorage, Op: op, Message: message, Err: err}
}

func UpstreamModel(op, message string, err error) *Error {
	return &Error{Kind: KindUpstreamModel, Op: op, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}
