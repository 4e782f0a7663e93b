package export

import (
	"errors"
	"fmt"

	errorslib "github.com/goliatone/go-errors"
)

// ErrorKind defines export error kinds.
type ErrorKind string

const (
	KindValidation       ErrorKind = "validation"
	KindUnsupportedInput ErrorKind = "unsupported_input"
	KindNotFound         ErrorKind = "not_found"
	KindInternal         ErrorKind = "internal"
	KindNotImpl          ErrorKind = "not_implemented"
)

// acceptedShapes is reported when input cannot be resolved.
const acceptedShapes = "row list, record list, map of sheet name to rows, Sheets, or RecordSource"

// ExportError wraps errors with a kind.
type ExportError struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *ExportError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// NewError creates a new export error.
func NewError(kind ErrorKind, msg string, err error) *ExportError {
	return &ExportError{Kind: kind, Msg: msg, Err: err}
}

// NewUnsupportedInputError reports a value whose shape cannot be serialized.
func NewUnsupportedInputError(what string, value any) *ExportError {
	return NewError(KindUnsupportedInput, fmt.Sprintf("unsupported %s type %T; accepted: %s", what, value, acceptedShapes), nil)
}

// IsUnsupportedInput reports whether err was caused by an unrecognized input shape.
func IsUnsupportedInput(err error) bool {
	return KindFromError(err) == KindUnsupportedInput
}

// AsGoError maps an error into a go-errors error.
func AsGoError(err error) *errorslib.Error {
	if err == nil {
		return nil
	}

	var ge *errorslib.Error
	if errors.As(err, &ge) {
		return ge
	}

	kind := KindInternal
	msg := err.Error()

	var exportErr *ExportError
	if errors.As(err, &exportErr) {
		kind = exportErr.Kind
		if exportErr.Msg != "" {
			msg = exportErr.Msg
		}
	}

	switch kind {
	case KindValidation:
		return errorslib.New(msg, errorslib.CategoryValidation).WithTextCode("validation")
	case KindUnsupportedInput:
		return errorslib.New(msg, errorslib.CategoryInternal).WithTextCode("unsupported_input")
	case KindNotFound:
		return errorslib.New(msg, errorslib.CategoryNotFound).WithTextCode("not_found")
	case KindNotImpl:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("not_implemented")
	default:
		return errorslib.New(msg, errorslib.CategoryInternal).WithTextCode("internal")
	}
}

// KindFromError maps an error to its export error kind.
func KindFromError(err error) ErrorKind {
	if err == nil {
		return ""
	}

	var exportErr *ExportError
	if errors.As(err, &exportErr) {
		return exportErr.Kind
	}

	var ge *errorslib.Error
	if errors.As(err, &ge) {
		switch {
		case ge.TextCode == string(KindUnsupportedInput):
			return KindUnsupportedInput
		case ge.Category == errorslib.CategoryValidation:
			return KindValidation
		case ge.Category == errorslib.CategoryNotFound:
			return KindNotFound
		}
	}

	return KindInternal
}
