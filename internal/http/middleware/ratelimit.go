package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// clientLimiterIdle is how long an idle client's limiter is kept.
const clientLimiterIdle = 10 * time.Minute

type clientLimiter struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// RateLimitByClientIP throttles requests per client IP with a token bucket
// of `perSec` tokens per second and the given burst. Used on /api/login.
func RateLimitByClientIP(perSec float64, burst int) gin.HandlerFunc {
	var (
		mu      sync.Mutex
		clients = make(map[string]*clientLimiter)
		swept   = time.Now()
	)

	get := func(ip string, now time.Time) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()

		if now.Sub(swept) > clientLimiterIdle {
			for k, cl := range clients {
				if now.Sub(cl.lastSeen) > clientLimiterIdle {
					delete(clients, k)
				}
			}
			swept = now
		}

		cl, ok := clients[ip]
		if !ok {
			cl = &clientLimiter{lim: rate.NewLimiter(rate.Limit(perSec), burst)}
			clients[ip] = cl
		}
		cl.lastSeen = now
		return cl.lim
	}

	return func(c *gin.Context) {
		if !get(c.ClientIP(), time.Now()).Allow() {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "too many requests"})
			return
		}
		c.Next()
	}
}
