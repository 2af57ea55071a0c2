package errors

import (
	"fmt"
	"time"
)

// ErrorCode identifies a class of failure returned to API callers.
type ErrorCode string

const (
	// Generic
	ErrCodeInternal   ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	ErrCodeNotFound   ErrorCode = "NOT_FOUND"
	ErrCodeBadRequest ErrorCode = "BAD_REQUEST"

	// Giveaways
	ErrCodeInvalidDuration     ErrorCode = "INVALID_DURATION"
	ErrCodeInvalidWinners      ErrorCode = "INVALID_WINNERS_COUNT"
	ErrCodeGiveawayNotFound    ErrorCode = "GIVEAWAY_NOT_FOUND"
	ErrCodeAlreadyClosed       ErrorCode = "GIVEAWAY_CLOSED"
	ErrCodeAlreadyJoined       ErrorCode = "ALREADY_JOINED"
	ErrCodeNotJoined           ErrorCode = "NOT_JOINED"
	ErrCodeNotEnded            ErrorCode = "GIVEAWAY_NOT_ENDED"
	ErrCodeInsufficientEntries ErrorCode = "INSUFFICIENT_ENTRIES"

	// Infrastructure
	ErrCodeStoreUnavailable ErrorCode = "STORE_UNAVAILABLE"
	ErrCodeGatewayError     ErrorCode = "GATEWAY_ERROR"
)

// AppError is a typed application error rendered to API callers.
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	RequestID string                 `json:"request_id,omitempty"`
	Cause     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// IsNotFound reports whether the error is a "not found" error.
func (e *AppError) IsNotFound() bool {
	return e.Code == ErrCodeNotFound || e.Code == ErrCodeGiveawayNotFound
}

// IsInternal reports whether the error is caused by infrastructure rather than the caller.
func (e *AppError) IsInternal() bool {
	return e.Code == ErrCodeInternal ||
		e.Code == ErrCodeStoreUnavailable ||
		e.Code == ErrCodeGatewayError
}

// WithDetail attaches a detail field to the error.
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

func (e *AppError) WithRequestID(requestID string) *AppError {
	e.RequestID = requestID
	return e
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.Cause = err
	return appErr
}

func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// NewValidationError creates a validation error for a single field.
func NewValidationError(field, reason string) *AppError {
	return New(ErrCodeValidation, fmt.Sprintf("Validation failed for field '%s': %s", field, reason)).
		WithDetail("field", field).
		WithDetail("reason", reason)
}

func NewGiveawayNotFoundError(giveawayID string) *AppError {
	return New(ErrCodeGiveawayNotFound, fmt.Sprintf("Giveaway not found: %s", giveawayID)).
		WithDetail("giveaway_id", giveawayID)
}

// AsAppError unwraps err to an *AppError if it is one.
func AsAppError(err error) (*AppError, bool) {
	appErr, ok := err.(*AppError)
	return appErr, ok
}
