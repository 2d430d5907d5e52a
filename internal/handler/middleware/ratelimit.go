package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/careledger/careledger/internal/config"
)

// ipLimiter hands out one token bucket per client IP and forgets buckets
// that have been idle for a while.
type ipLimiter struct {
	mu       sync.Mutex
	limiters map[string]*ipEntry
	limit    rate.Limit
	burst    int
	stop     chan struct{}
	stopOnce sync.Once
}

type ipEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const (
	cleanupInterval = 3 * time.Minute
	idleCutoff      = 10 * time.Minute
)

func newIPLimiter(limit rate.Limit, burst int) *ipLimiter {
	l := &ipLimiter{
		limiters: make(map[string]*ipEntry),
		limit:    limit,
		burst:    burst,
		stop:     make(chan struct{}),
	}
	go l.cleanup()
	return l
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	entry, ok := l.limiters[ip]
	if !ok {
		entry = &ipEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[ip] = entry
	}
	entry.lastSeen = time.Now()
	l.mu.Unlock()

	return entry.limiter.Allow()
}

func (l *ipLimiter) close() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func (l *ipLimiter) evictIdle(cutoff time.Time) {
	l.mu.Lock()
	for ip, entry := range l.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(l.limiters, ip)
		}
	}
	l.mu.Unlock()
}

func (l *ipLimiter) cleanup() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case now := <-ticker.C:
			l.evictIdle(now.Add(-idleCutoff))
		}
	}
}

// RateLimit applies the global per-IP limit to every request.
func RateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	limiter := newIPLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize)
	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

// AuthRateLimit applies the stricter per-IP limit reserved for credential
// endpoints, where a burst of traffic usually means a guessing attempt.
func AuthRateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	perSecond := rate.Limit(float64(cfg.AuthRequestsPerMinute) / 60.0)
	limiter := newIPLimiter(perSecond, cfg.AuthRequestsPerMinute)
	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many attempts, slow down"})
			return
		}
		c.Next()
	}
}
