package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"giveaway-bot/internal/common/errors"
)

const requestIDKey = "request_id"

// ErrorHandler recovers panics and answers with an internal AppError.
func ErrorHandler(logger zerolog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error().
			Str("request_id", GetRequestID(c)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Interface("panic", recovered).
			Str("stack", string(debug.Stack())).
			Msg("Panic recovered")

		appErr := errors.New(errors.ErrCodeInternal, "Internal server error").
			WithDetail("panic", fmt.Sprintf("%v", recovered))
		AbortWithError(c, appErr)
	})
}

// RequestID propagates X-Request-ID or assigns a fresh one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(requestIDKey, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success   bool             `json:"success"`
	Error     *errors.AppError `json:"error"`
	Timestamp time.Time        `json:"timestamp"`
	RequestID string           `json:"request_id"`
	Path      string           `json:"path,omitempty"`
	Method    string           `json:"method,omitempty"`
}

// AbortWithError writes appErr as JSON and stops the handler chain.
func AbortWithError(c *gin.Context, appErr *errors.AppError) {
	requestID := GetRequestID(c)
	appErr.WithRequestID(requestID)
	if appErr.Cause != nil {
		_ = c.Error(appErr.Cause)
	}

	c.AbortWithStatusJSON(HTTPStatus(appErr), ErrorResponse{
		Success:   false,
		Error:     appErr,
		Timestamp: time.Now(),
		RequestID: requestID,
		Path:      c.Request.URL.Path,
		Method:    c.Request.Method,
	})
}

// HTTPStatus returns the status code for an error code.
func HTTPStatus(appErr *errors.AppError) int {
	switch appErr.Code {
	case errors.ErrCodeValidation, errors.ErrCodeBadRequest,
		errors.ErrCodeInvalidDuration, errors.ErrCodeInvalidWinners:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeGiveawayNotFound:
		return http.StatusNotFound
	case errors.ErrCodeAlreadyJoined, errors.ErrCodeNotJoined,
		errors.ErrCodeNotEnded, errors.ErrCodeInsufficientEntries:
		return http.StatusConflict
	case errors.ErrCodeAlreadyClosed:
		return http.StatusGone
	case errors.ErrCodeStoreUnavailable:
		return http.StatusServiceUnavailable
	case errors.ErrCodeGatewayError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
