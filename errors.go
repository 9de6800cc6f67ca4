package rle3

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// TransformError is the error type returned by every package in this module.
// Use [errors.Is] against one of the exported sentinels to find out what kind
// of failure occurred.
type TransformError interface {
	error
	WithMessage(message string) TransformError
	Wrap(err error) TransformError
}

type baseTransformError string

const rootError = baseTransformError("")

// Sentinel errors. Functions in this module return one of these, usually with
// extra context from WithMessage or a cause attached with Wrap, so compare
// against them with [errors.Is] rather than ==.
var ErrCorruptHeader = rootError.WithMessage("Container header is invalid")
var ErrCorruptStream = rootError.WithMessage("Encoded stream is inconsistent")
var ErrInvalidArgument = rootError.WithMessage("Invalid argument")
var ErrIOFailed = rootError.WithMessage("Input/output error")
var ErrTruncatedStream = rootError.WithMessage("Encoded stream is truncated")
var ErrValueOutOfRange = rootError.WithMessage("Encoded value out of range")

func (e baseTransformError) Error() string {
	return string(e)
}

func (e baseTransformError) WithMessage(message string) TransformError {
	return customTransformError{
		message:       message,
		originalError: e,
	}
}

func (e baseTransformError) Wrap(err error) TransformError {
	return customTransformError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

// -----------------------------------------------------------------------------

type customTransformError struct {
	message       string
	originalError error
}

// Error implements the `error` object interface. When called, it returns a string
// describing the error.
func (e customTransformError) Error() string {
	return e.message
}

func (e customTransformError) WithMessage(message string) TransformError {
	return customTransformError{
		message:       fmt.Sprintf("%s: %s", e.message, message),
		originalError: e,
	}
}

func (e customTransformError) Wrap(err error) TransformError {
	return customTransformError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

func (e customTransformError) Unwrap() error {
	return e.originalError
}
