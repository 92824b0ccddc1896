package middleware

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/ecoquest/community/internal/config"
)

// RateLimiter controls how frequently a caller may perform a write.
type RateLimiter interface {
	Allow(key string) bool
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps one token bucket per client key and forgets idle clients.
type IPRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	ttl      time.Duration
	now      func() time.Time
}

// NewIPRateLimiter allows cfg.Burst writes per cfg.Window for each key, refilled
// evenly across the window. It returns nil when rate limiting is disabled.
func NewIPRateLimiter(cfg config.RateLimitConfig) *IPRateLimiter {
	if !cfg.Enabled {
		return nil
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	window := cfg.Window
	if window <= 0 {
		window = time.Minute
	}

	return &IPRateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(window / time.Duration(burst)),
		burst:    burst,
		ttl:      5 * window,
		now:      time.Now,
	}
}

// Allow reports whether key may act now and consumes a token if so.
func (l *IPRateLimiter) Allow(key string) bool {
	if l == nil {
		return true
	}
	if key == "" {
		key = "unknown"
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now

	for k, other := range l.visitors {
		if now.Sub(other.lastSeen) > l.ttl {
			delete(l.visitors, k)
		}
	}

	return v.limiter.AllowN(now, 1)
}

// Tracked returns the number of clients currently holding a bucket.
func (l *IPRateLimiter) Tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

// WithNowFunc allows tests to override the time source.
func (l *IPRateLimiter) WithNowFunc(now func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
}
