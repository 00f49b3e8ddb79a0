package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"seller-onboarding.backend/pkg/logger"
)

// rateLimiterStore holds one limiter per seller
type rateLimiterStore struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func (s *rateLimiterStore) getLimiter(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, exists := s.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(s.limit, s.burst)
		s.limiters[key] = limiter
	}
	return limiter
}

// RateLimitMiddleware limits requests per authenticated seller, falling back to the client IP
func RateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	store := &rateLimiterStore{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(rps),
		burst:    burst,
	}
	return func(c *gin.Context) {
		key := c.ClientIP()
		if userID, ok := GetUserID(c); ok {
			key = userID.String()
		}

		limiter := store.getLimiter(key)
		if !limiter.Allow() {
			logger.Warn(c.Request.Context(), "Rate limit exceeded", zap.String("key", key))
			if rps > 0 {
				wait := time.Duration(float64(time.Second) / rps)
				c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    "ERR_RATE_LIMITED",
				"message": "Too many requests. Try again later.",
			})
			return
		}
		c.Next()
	}
}
