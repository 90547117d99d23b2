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
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiterStore holds a map of client IPs to their rate limiters.
type rateLimiterStore struct {
	limiters  map[string]*limiterEntry
	mu        sync.Mutex
	max       int
	window    time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func newRateLimiterStore(max int, window time.Duration) *rateLimiterStore {
	return &rateLimiterStore{
		limiters: make(map[string]*limiterEntry),
		max:      max,
		window:   window,
		now:      time.Now,
	}
}

// getLimiter returns the rate limiter for a given IP, creating one if it doesn't exist.
// Limiters idle for a whole window are dropped since they would be full again anyway.
func (s *rateLimiterStore) getLimiter(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) > s.window {
		for key, e := range s.limiters {
			if now.Sub(e.lastSeen) > s.window {
				delete(s.limiters, key)
			}
		}
		s.lastSweep = now
	}

	e, exists := s.limiters[ip]
	if !exists {
		// max requests per window, refilled continuously, with the whole window as burst.
		e = &limiterEntry{limiter: rate.NewLimiter(rate.Every(s.window/time.Duration(s.max)), s.max)}
		s.limiters[ip] = e
	}
	e.lastSeen = now
	return e.limiter
}

// RateLimitMiddleware limits requests per client IP to max per window and
// reports the budget in the standard RateLimit-* headers.
func RateLimitMiddleware(max int, window time.Duration) gin.HandlerFunc {
	if max <= 0 {
		max = 1
	}
	store := newRateLimiterStore(max, window)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		limiter := store.getLimiter(ip)
		now := store.now()
		allowed := limiter.AllowN(now, 1)

		tokens := limiter.TokensAt(now)
		remaining := int(math.Max(0, math.Floor(tokens)))
		reset := time.Duration((float64(max) - tokens) / float64(limiter.Limit()) * float64(time.Second))

		c.Header("RateLimit-Limit", strconv.Itoa(max))
		c.Header("RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("RateLimit-Reset", strconv.Itoa(int(math.Ceil(reset.Seconds()))))

		if !allowed {
			zap.L().Warn("Rate limit exceeded", zap.String("ip", ip), zap.String("path", c.FullPath()))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, please try again later."})
			return
		}
		c.Next()
	}
}
