package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const rateLimitMessage = "Too many requests from this IP, please try again later."

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter allows max requests per window for each client IP, refilling
// continuously over the window.
type IPRateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	lastSweep time.Time
	limit     rate.Limit
	burst     int
	window    time.Duration
	now       func() time.Time
}

func NewIPRateLimiter(window time.Duration, max int) *IPRateLimiter {
	return &IPRateLimiter{
		clients: make(map[string]*clientLimiter),
		limit:   rate.Limit(float64(max) / window.Seconds()),
		burst:   max,
		window:  window,
		now:     time.Now,
	}
}

func (l *IPRateLimiter) get(ip string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Idle clients have a full bucket again, so dropping them is lossless
	if now.Sub(l.lastSweep) > l.window {
		for key, cl := range l.clients {
			if now.Sub(cl.lastSeen) > l.window {
				delete(l.clients, key)
			}
		}
		l.lastSweep = now
	}

	cl, ok := l.clients[ip]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[ip] = cl
	}
	cl.lastSeen = now
	return cl.limiter
}

// Middleware answers 429 once a client exhausts its allowance and sets the
// standard RateLimit headers on every response.
func (l *IPRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		now := l.now()
		limiter := l.get(c.ClientIP(), now)
		allowed := limiter.AllowN(now, 1)

		remaining := int(math.Max(0, math.Floor(limiter.TokensAt(now))))
		c.Header("RateLimit-Limit", strconv.Itoa(l.burst))
		c.Header("RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			reset := int(math.Ceil(l.window.Seconds() / float64(l.burst)))
			c.Header("RateLimit-Reset", strconv.Itoa(reset))
			c.Header("Retry-After", strconv.Itoa(reset))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": rateLimitMessage,
			})
			return
		}
		c.Next()
	}
}
