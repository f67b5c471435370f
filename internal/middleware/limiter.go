package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"shopcart-be/internal/response"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type Tier string

const (
	TierStrict   Tier = "strict"
	TierGeneral  Tier = "general"
	TierFrontend Tier = "frontend"
)

// Rate Limit Tiers
const (
	// Auth / login (Strict)
	limitStrict = rate.Limit(2)
	burstStrict = 5

	// General (Default)
	limitGeneral = rate.Limit(10)
	burstGeneral = 20

	// Frontend-heavy apps
	limitFrontend = rate.Limit(20)
	burstFrontend = 40
)

const (
	visitorIdle     = 3 * time.Minute
	cleanupInterval = time.Minute
)

// visitor holds the rate limiter and the last time it was seen.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter keeps one token bucket per client identity and tier.
type Limiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	now      func() time.Time
}

func NewLimiter() *Limiter {
	return &Limiter{
		visitors: make(map[string]*visitor),
		now:      time.Now,
	}
}

// getVisitor retrieves or creates a rate limiter for the given key.
func (l *Limiter) getVisitor(key string, r rate.Limit, b int) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, exists := l.visitors[key]
	if !exists {
		limiter := rate.NewLimiter(r, b)
		l.visitors[key] = &visitor{limiter, l.now()}
		return limiter
	}

	v.lastSeen = l.now()
	return v.limiter
}

// Cleanup removes visitors idle for longer than visitorIdle.
func (l *Limiter) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, v := range l.visitors {
		if l.now().Sub(v.lastSeen) > visitorIdle {
			delete(l.visitors, key)
		}
	}
}

// Run calls Cleanup every minute until ctx is done.
func (l *Limiter) Run(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Cleanup()
		}
	}
}

func (l *Limiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

// RateLimit enforces the given tier. Authenticated callers on TierGeneral
// that announce themselves as frontend-heavy get TierFrontend. TierStrict
// never reads client-supplied headers.
func (l *Limiter) RateLimit(tier Tier) gin.HandlerFunc {
	return func(c *gin.Context) {
		t := tier
		if t == TierGeneral && c.GetHeader("X-Client-Type") == "frontend-heavy" {
			if _, ok := IdentityFrom(c); ok {
				t = TierFrontend
			}
		}
		limit, burst := tierLimits(t)

		// Same identity gets separate quotas per tier, e.g. "ip:1.2.3.4:strict".
		key := fmt.Sprintf("%s:%s", clientIdentity(c), t)

		if !l.getVisitor(key, limit, burst).Allow() {
			response.Abort(c, http.StatusTooManyRequests,
				response.Fail(response.StatusError, http.StatusText(http.StatusTooManyRequests), "rate_limited", ""))
			return
		}

		c.Next()
	}
}

func tierLimits(t Tier) (rate.Limit, int) {
	switch t {
	case TierStrict:
		return limitStrict, burstStrict
	case TierFrontend:
		return limitFrontend, burstFrontend
	default:
		return limitGeneral, burstGeneral
	}
}

// clientIdentity keys authenticated callers on their user id and everyone
// else on the client address. ClientIP only honors forwarding headers from
// the engine's trusted proxies.
func clientIdentity(c *gin.Context) string {
	if id, ok := IdentityFrom(c); ok {
		return "user:" + id.UserID.String()
	}
	return "ip:" + c.ClientIP()
}
