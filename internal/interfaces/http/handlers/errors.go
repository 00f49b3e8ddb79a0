package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	domainerrors "seller-onboarding.backend/internal/domain/errors"
	"seller-onboarding.backend/internal/interfaces/http/middleware"
	"seller-onboarding.backend/internal/interfaces/http/response"
	"seller-onboarding.backend/internal/usecases"
	"seller-onboarding.backend/pkg/logger"
)

// SessionEvictor discards the local state of a seller whose marketplace session ended
type SessionEvictor interface {
	Evict(ctx context.Context, userID uuid.UUID) error
}

// requireUser reads the authenticated seller or aborts with 401
func requireUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.ErrorWithError(c, http.StatusUnauthorized, "ERR_UNAUTHORIZED", "User not authenticated")
		return uuid.Nil, false
	}
	return userID, true
}

// writeError answers err. A marketplace 401 evicts the seller's session and points the client to sign-in.
func writeError(c *gin.Context, sessions SessionEvictor, userID uuid.UUID, err error) {
	if !errors.Is(err, domainerrors.ErrUnauthorized) || sessions == nil {
		response.Error(c, err)
		return
	}

	ctx := c.Request.Context()
	if evictErr := sessions.Evict(ctx, userID); evictErr != nil {
		logger.Error(ctx, "Failed to evict session", zap.Error(evictErr))
	}

	message := "Your session has expired. Please sign in again."
	var appErr *domainerrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		message = appErr.Message
	}
	response.ErrorWithRedirect(c, http.StatusUnauthorized, "ERR_UNAUTHORIZED", message, usecases.SignInRedirect)
}

func bindError(c *gin.Context, err error) {
	response.ErrorWithError(c, http.StatusBadRequest, "ERR_BAD_REQUEST", err.Error())
}
