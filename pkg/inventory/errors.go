package inventory

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an inventory failure. Every kind is terminal for the run.
type ErrorKind string

const (
	// ErrorKindInputMissing indicates the document or an import_vars file could not be read.
	ErrorKindInputMissing ErrorKind = "input_missing"

	// ErrorKindMalformed indicates a structurally invalid document.
	ErrorKindMalformed ErrorKind = "malformed"

	// ErrorKindNotFound indicates a query for an entity that was never declared.
	ErrorKindNotFound ErrorKind = "not_found"

	// ErrorKindInvalidArgument indicates a bad caller-supplied value, such as an
	// extra variable without a '='.
	ErrorKindInvalidArgument ErrorKind = "invalid_argument"
)

// Error is a classified inventory error.
type Error struct {
	// Kind is the error classification.
	Kind ErrorKind `json:"kind"`

	// Message is the human-readable error message.
	Message string `json:"message"`

	// Subject names the file, host or group the error is about, if any.
	Subject string `json:"subject,omitempty"`

	// Err is the underlying error that caused this error.
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Subject != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Subject)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", msg, e.Err.Error())
	}
	return msg
}

// Unwrap returns the underlying error for error chain inspection.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels usable with errors.Is.
var (
	ErrInputMissing    = &Error{Kind: ErrorKindInputMissing, Message: "input missing"}
	ErrMalformed       = &Error{Kind: ErrorKindMalformed, Message: "malformed document"}
	ErrNotFound        = &Error{Kind: ErrorKindNotFound, Message: "not found"}
	ErrInvalidArgument = &Error{Kind: ErrorKindInvalidArgument, Message: "invalid argument"}
)

// NewInputMissingError creates an error for an unreadable input file.
func NewInputMissingError(path string, err error) *Error {
	return &Error{Kind: ErrorKindInputMissing, Message: "can't open file", Subject: path, Err: err}
}

// NewMalformedError creates an error for a structurally invalid document.
func NewMalformedError(message string, err error) *Error {
	return &Error{Kind: ErrorKindMalformed, Message: message, Err: err}
}

// NewHostNotFoundError creates an error for a host that is not in the inventory.
func NewHostNotFoundError(name string) *Error {
	return &Error{Kind: ErrorKindNotFound, Message: "host not found", Subject: name}
}

// NewInvalidArgumentError creates an error for a bad caller-supplied value.
func NewInvalidArgumentError(message, value string) *Error {
	return &Error{Kind: ErrorKindInvalidArgument, Message: message, Subject: value}
}

// IsInputMissing returns true if the error is classified as input_missing.
func IsInputMissing(err error) bool {
	return errors.Is(err, ErrInputMissing)
}

// IsMalformed returns true if the error is classified as malformed.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformed)
}

// IsNotFound returns true if the error is classified as not_found.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidArgument returns true if the error is classified as invalid_argument.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}
