package response

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	domainerrors "seller-onboarding.backend/internal/domain/errors"
	"seller-onboarding.backend/pkg/logger"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error sends an error response
func Error(c *gin.Context, err error) {
	var appErr *domainerrors.AppError
	if !errors.As(err, &appErr) {
		logger.Error(c.Request.Context(), "Unhandled error", zap.Error(err))
		appErr = domainerrors.InternalError(err)
	}

	c.JSON(appErr.Code, gin.H{
		"code":    ErrorCode(appErr),
		"message": appErr.Message,
		"error":   appErr.Message, // Backward compatibility
	})
}

// ErrorWithRedirect sends an error response telling the client where to go next
func ErrorWithRedirect(c *gin.Context, status int, code, message, redirect string) {
	c.JSON(status, gin.H{
		"code":     code,
		"message":  message,
		"redirect": redirect,
	})
}

// ErrorWithError sends an error response with a specific status and message
func ErrorWithError(c *gin.Context, status int, code string, message string) {
	c.JSON(status, gin.H{
		"code":    code,
		"message": message,
	})
}

// ErrorCode maps an error to its stable machine-readable code
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, domainerrors.ErrUnauthorized):
		return "ERR_UNAUTHORIZED"
	case errors.Is(err, domainerrors.ErrValidation):
		return "ERR_VALIDATION"
	case errors.Is(err, domainerrors.ErrFieldLocked):
		return "ERR_FIELD_LOCKED"
	case errors.Is(err, domainerrors.ErrStepNotSkippable):
		return "ERR_STEP_NOT_SKIPPABLE"
	case errors.Is(err, domainerrors.ErrInvalidTransition):
		return "ERR_INVALID_TRANSITION"
	case errors.Is(err, domainerrors.ErrSubmissionInProgress):
		return "ERR_SUBMISSION_IN_PROGRESS"
	case errors.Is(err, domainerrors.ErrDraftConflict):
		return "ERR_DRAFT_CONFLICT"
	case errors.Is(err, domainerrors.ErrGateway):
		return "ERR_GATEWAY"
	case errors.Is(err, domainerrors.ErrNotFound):
		return "ERR_NOT_FOUND"
	case errors.Is(err, domainerrors.ErrInvalidInput):
		return "ERR_BAD_REQUEST"
	default:
		return "ERR_INTERNAL"
	}
}
