package http

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	authDomain "github.com/nailbliss/stampcard/internal/auth/domain"
	"github.com/nailbliss/stampcard/internal/httputil"
)

const (
	limiterCleanupInterval = 5 * time.Minute
	limiterIdleThreshold   = time.Hour
)

type rateLimiterStore struct {
	limiters sync.Map // map[uuid.UUID]*rateLimiterEntry
	rps      float64
	burst    int
	now      func() time.Time
}

type rateLimiterEntry struct {
	limiter    *rate.Limiter
	mu         sync.Mutex
	lastAccess time.Time
}

// RateLimitMiddleware enforces a token bucket per identity. It must run after
// AuthenticationMiddleware. The limiter cleanup goroutine lives as long as ctx.
func RateLimitMiddleware(ctx context.Context, rps float64, burst int, logger *slog.Logger) gin.HandlerFunc {
	store := &rateLimiterStore{rps: rps, burst: burst, now: time.Now}
	go store.cleanupStale(ctx, limiterCleanupInterval)

	return func(c *gin.Context) {
		identity, ok := GetIdentity(c.Request.Context())
		if !ok {
			logger.Error("rate limit middleware: no identity in context")
			httputil.HandleErrorGin(c, authDomain.ErrNotSignedIn, logger)
			c.Abort()
			return
		}

		limiter := store.getLimiter(identity.ID)
		if !limiter.Allow() {
			reservation := limiter.Reserve()
			retryAfter := int(math.Ceil(reservation.Delay().Seconds()))
			reservation.Cancel()

			logger.Debug("rate limit exceeded",
				slog.String("user_id", identity.ID.String()),
				slog.Int("retry_after", retryAfter))

			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, httputil.ErrorResponse{
				Error:   "rate_limit_exceeded",
				Message: "Too many requests. Please retry after the specified delay.",
			})
			return
		}

		c.Next()
	}
}

func (s *rateLimiterStore) getLimiter(id uuid.UUID) *rate.Limiter {
	now := s.now()
	if val, ok := s.limiters.Load(id); ok {
		entry := val.(*rateLimiterEntry)
		entry.mu.Lock()
		entry.lastAccess = now
		entry.mu.Unlock()
		return entry.limiter
	}

	entry := &rateLimiterEntry{
		limiter:    rate.NewLimiter(rate.Limit(s.rps), s.burst),
		lastAccess: now,
	}
	actual, _ := s.limiters.LoadOrStore(id, entry)
	return actual.(*rateLimiterEntry).limiter
}

func (s *rateLimiterStore) cleanupStale(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.evictIdle(s.now().Add(-limiterIdleThreshold))
		}
	}
}

func (s *rateLimiterStore) evictIdle(threshold time.Time) {
	s.limiters.Range(func(key, value any) bool {
		entry := value.(*rateLimiterEntry)
		entry.mu.Lock()
		stale := entry.lastAccess.Before(threshold)
		entry.mu.Unlock()

		if stale {
			s.limiters.Delete(key)
		}
		return true
	})
}
