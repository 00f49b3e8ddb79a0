package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"seller-onboarding.backend/pkg/logger"
	"seller-onboarding.backend/pkg/redis"
)

var (
	redisSetNX       = redis.SetNX
	redisReleaseLock = redis.ReleaseLock
)

// SubmissionLockKey is the redis key guarding the wizard transitions of one seller
func SubmissionLockKey(userID uuid.UUID) string {
	return fmt.Sprintf("onboarding:lock:%s", userID)
}

// SubmissionGuard allows one wizard transition per seller at a time, across all replicas.
// The lock expires after ttl so a crashed request cannot block the seller.
func SubmissionGuard(ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			abortUnauthorized(c, "User not authenticated")
			return
		}

		ctx := c.Request.Context()
		key := SubmissionLockKey(userID)
		token := uuid.NewString()

		acquired, err := redisSetNX(ctx, key, token, ttl)
		if err != nil {
			logger.Error(ctx, "Submission lock unavailable", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"code":    "ERR_LOCK_UNAVAILABLE",
				"message": "Please try again in a moment",
			})
			return
		}
		if !acquired {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"code":    "ERR_SUBMISSION_IN_PROGRESS",
				"message": "Another step is still being submitted",
			})
			return
		}

		defer func() {
			// the request context may already be cancelled
			releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
			defer cancel()
			if _, err := redisReleaseLock(releaseCtx, key, token); err != nil {
				logger.Warn(ctx, "Failed to release submission lock", zap.Error(err))
			}
		}()

		c.Next()
	}
}
