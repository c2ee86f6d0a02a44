package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/fleveque/logo-generator/internal/model"
)

const (
	limiterIdleTTL    = 3 * time.Minute
	limiterSweepEvery = time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit returns per-client-IP rate limiting middleware using token buckets.
//
// Each client gets a bucket that fills at `rps` tokens/sec up to `burst`
// tokens; each request takes one. An empty bucket means 429. A non-positive
// rps disables limiting entirely.
//
// sync.Mutex protects the limiter map. Buckets idle for a few minutes are
// dropped so the map doesn't grow with every address ever seen.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst < 1 {
		burst = 1
	}

	var mu sync.Mutex
	limiters := make(map[string]*clientLimiter)
	lastSweep := time.Now()

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		mu.Lock()
		if now.Sub(lastSweep) > limiterSweepEvery {
			for key, cl := range limiters {
				if now.Sub(cl.lastSeen) > limiterIdleTTL {
					delete(limiters, key)
				}
			}
			lastSweep = now
		}
		cl, exists := limiters[ip]
		if !exists {
			cl = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
			limiters[ip] = cl
		}
		cl.lastSeen = now
		mu.Unlock()

		if !cl.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, model.ErrorResponse{
				Detail: "rate limit exceeded",
			})
			return
		}

		c.Next()
	}
}
