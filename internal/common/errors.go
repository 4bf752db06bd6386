package common

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Error codes carried by AppError.
const (
	CodeFormat             = "FORMAT_ERROR"
	CodeService            = "SERVICE_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeConfig             = "CONFIG_ERROR"
	CodeSource             = "SOURCE_ERROR"
	CodeDatabase           = "DATABASE_ERROR"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInternal           = errors.New("internal error")
	ErrDatabase           = errors.New("database error")
	ErrValidation         = errors.New("validation failed")
	ErrFormat             = errors.New("malformed tagger response")
	ErrService            = errors.New("external service failed")
	ErrServiceUnavailable = errors.New("external service unavailable")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// FormatError reports a tagger body that does not have the expected shape.
func FormatError(format string, args ...any) error {
	return NewAppError(CodeFormat, fmt.Sprintf(format, args...), ErrFormat)
}

// ServiceError classifies a failed call to an external service. Deadline
// expiry becomes SERVICE_UNAVAILABLE, everything else SERVICE_ERROR.
func ServiceError(service string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrServiceUnavailable) {
		return NewAppError(CodeServiceUnavailable, service, errors.Join(ErrServiceUnavailable, err))
	}
	return NewAppError(CodeService, service, errors.Join(ErrService, err))
}

// IsFatal reports whether err aborts a document parse.
func IsFatal(err error) bool {
	return errors.Is(err, ErrFormat) || errors.Is(err, ErrService) || errors.Is(err, ErrServiceUnavailable)
}

// gRPC error helpers
func InvalidArgumentError(message string) error {
	return status.Error(codes.InvalidArgument, message)
}

func NotFoundError(message string) error {
	return status.Error(codes.NotFound, message)
}

func InternalError(message string) error {
	return status.Error(codes.Internal, message)
}

func InvalidArgumentErrorf(format string, args ...interface{}) error {
	return InvalidArgumentError(fmt.Sprintf(format, args...))
}

func InternalErrorf(format string, args ...interface{}) error {
	return InternalError(fmt.Sprintf(format, args...))
}

// ToStatus maps a parse failure onto a gRPC status.
func ToStatus(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound):
		return NotFoundError(err.Error())
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrValidation):
		return InvalidArgumentError(err.Error())
	case errors.Is(err, ErrServiceUnavailable):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, ErrFormat), errors.Is(err, ErrService):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		return InternalError(err.Error())
	}
}
