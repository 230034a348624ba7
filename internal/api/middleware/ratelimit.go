package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	apierrors "github.com/soapbox/bible-verses/internal/errors"
)

const (
	// maxTrackedClients bounds the number of per-client limiters kept in memory.
	maxTrackedClients = 10000
	// limiterIdleTTL drops limiters for clients that have gone quiet.
	limiterIdleTTL = 10 * time.Minute
)

// RateLimiter holds rate limiting configuration
type RateLimiter struct {
	limiters *expirable.LRU[string, *rate.Limiter]
	rps      rate.Limit
	burst    int
}

// NewRateLimiter creates a per-client token bucket limiter.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		limiters: expirable.NewLRU[string, *rate.Limiter](maxTrackedClients, nil, limiterIdleTTL),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}

// getLimiter returns a rate limiter for the given key (IP address)
func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	if limiter, ok := rl.limiters.Get(key); ok {
		return limiter
	}

	// Two concurrent first requests may each create a limiter; the later Add
	// wins and the other bucket is discarded after one request.
	limiter := rate.NewLimiter(rl.rps, rl.burst)
	rl.limiters.Add(key, limiter)
	return limiter
}

// Clients returns the number of clients currently tracked.
func (rl *RateLimiter) Clients() int {
	return rl.limiters.Len()
}

// Middleware returns a Gin middleware function for rate limiting
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter := rl.getLimiter(c.ClientIP())

		if !limiter.Allow() {
			c.AbortWithStatusJSON(apierrors.ErrRateLimited.HTTPStatus, gin.H{
				"error": apierrors.ErrRateLimited,
			})
			return
		}

		c.Next()
	}
}
