package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain errors
var (
	ErrNotFound             = errors.New("resource not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrValidation           = errors.New("validation failed")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrGateway              = errors.New("gateway request failed")
	ErrFieldLocked          = errors.New("field is locked")
	ErrInvalidTransition    = errors.New("invalid step transition")
	ErrStepNotSkippable     = errors.New("step cannot be skipped")
	ErrSubmissionInProgress = errors.New("submission already in progress")
	ErrDraftConflict        = errors.New("draft was modified concurrently")
)

// AppError represents application error with HTTP status
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, ErrInvalidInput)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, message, ErrUnauthorized)
}

func Conflict(message string, err error) *AppError {
	return NewAppError(http.StatusConflict, message, err)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, "internal server error", err)
}

// Validation is a local, pre-network validation failure
func Validation(message string) *AppError {
	return NewAppError(http.StatusUnprocessableEntity, message, ErrValidation)
}

// StepFailed wraps a gateway failure with the message shown to the seller.
// Rejections answered by the marketplace map to 400, transport failures to 502.
func StepFailed(message string, err error) *AppError {
	code := http.StatusBadGateway
	var gwErr *GatewayError
	if errors.As(err, &gwErr) && gwErr.Rejected() {
		code = http.StatusBadRequest
	}
	if errors.Is(err, ErrUnauthorized) {
		code = http.StatusUnauthorized
	}
	return NewAppError(code, message, err)
}

// GatewayError is a failed marketplace API call
type GatewayError struct {
	Operation  string
	StatusCode int
	Message    string
	Err        error
}

func (e *GatewayError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Operation, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Operation, e.Err)
	default:
		return fmt.Sprintf("%s: status %d", e.Operation, e.StatusCode)
	}
}

func (e *GatewayError) Unwrap() []error {
	errs := []error{ErrGateway}
	if e.StatusCode == http.StatusUnauthorized {
		errs = append(errs, ErrUnauthorized)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Rejected reports whether the marketplace answered the call (as opposed to a transport failure)
func (e *GatewayError) Rejected() bool {
	return e.Err == nil && e.StatusCode > 0 && e.StatusCode < http.StatusInternalServerError
}

// UserMessage returns the server-provided message of a gateway failure, or fallback
func UserMessage(err error, fallback string) string {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) && gwErr.Message != "" {
		return gwErr.Message
	}
	return fallback
}
