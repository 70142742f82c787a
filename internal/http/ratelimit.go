package http

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// DefaultLimiterIdle is how long a client's bucket is kept after its last
// request.
const DefaultLimiterIdle = 10 * time.Minute

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter hands out one token bucket per client IP. Buckets idle for
// longer than Idle are dropped the next time a new client arrives.
type IPRateLimiter struct {
	ips map[string]*ipLimiter
	mu  *sync.RWMutex
	r   rate.Limit
	b   int

	Idle      time.Duration
	now       func() time.Time
	lastSweep time.Time
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		ips:  make(map[string]*ipLimiter),
		mu:   &sync.RWMutex{},
		r:    r,
		b:    b,
		Idle: DefaultLimiterIdle,
		now:  time.Now,
	}
}

func (l *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	now := l.now()

	l.mu.RLock()
	entry, exists := l.ips[ip]
	l.mu.RUnlock()
	if exists {
		l.mu.Lock()
		entry.lastSeen = now
		l.mu.Unlock()
		return entry.limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if entry, exists = l.ips[ip]; exists {
		entry.lastSeen = now
		return entry.limiter
	}

	if now.Sub(l.lastSweep) >= l.Idle {
		l.sweep(now)
	}
	entry = &ipLimiter{limiter: rate.NewLimiter(l.r, l.b), lastSeen: now}
	l.ips[ip] = entry
	return entry.limiter
}

// sweep drops idle buckets. Callers hold mu.
func (l *IPRateLimiter) sweep(now time.Time) {
	for ip, entry := range l.ips {
		if now.Sub(entry.lastSeen) > l.Idle {
			delete(l.ips, ip)
		}
	}
	l.lastSweep = now
}

// Len returns the number of clients currently tracked.
func (l *IPRateLimiter) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.ips)
}

// Middleware rejects requests over the client's budget with 429.
func (l *IPRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.GetLimiter(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
