// internal/middleware/ratelimit.go
//
// Per-IP token bucket for public write routes.

package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/rokibulislampro/mnly-server/internal/metrics"
	"github.com/rokibulislampro/mnly-server/internal/requestinfo"
	"github.com/rokibulislampro/mnly-server/internal/respond"
)

// visitorTTL is how long an idle client's bucket is kept.
const visitorTTL = 10 * time.Minute

// MaxVisitors bounds the bucket map.  New clients are refused while it is
// full of live buckets.
const MaxVisitors = 10000

type visitor struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// RateLimiter hands every client IP its own bucket.  Safe for concurrent use.
type RateLimiter struct {
	limit   rate.Limit
	burst   int
	max     int
	trusted []*net.IPNet
	now     func() time.Time

	mu        sync.Mutex
	visitors  map[string]*visitor
	lastSweep time.Time
}

// RateOption configures a RateLimiter.
type RateOption func(*RateLimiter)

// WithTrustedProxies lets forwarded-for headers name the client when the
// peer is one of nets.  Without it the key is always the TCP peer.
func WithTrustedProxies(nets []*net.IPNet) RateOption {
	return func(rl *RateLimiter) { rl.trusted = nets }
}

// WithMaxVisitors overrides MaxVisitors.
func WithMaxVisitors(n int) RateOption {
	return func(rl *RateLimiter) {
		if n > 0 {
			rl.max = n
		}
	}
}

// NewRateLimiter allows perMinute requests per IP with the given burst.
// perMinute <= 0 disables limiting.
func NewRateLimiter(perMinute, burst int, opts ...RateOption) *RateLimiter {
	lim := rate.Inf
	if perMinute > 0 {
		lim = rate.Limit(float64(perMinute) / 60)
	}
	if burst < 1 {
		burst = 1
	}
	rl := &RateLimiter{
		limit:    lim,
		burst:    burst,
		max:      MaxVisitors,
		now:      time.Now,
		visitors: make(map[string]*visitor),
	}
	for _, o := range opts {
		o(rl)
	}
	return rl
}

// Allow reports whether key may proceed now.
func (rl *RateLimiter) Allow(key string) bool {
	if rl.limit == rate.Inf {
		return true
	}
	now := rl.now()

	rl.mu.Lock()
	if now.Sub(rl.lastSweep) > visitorTTL {
		rl.sweep(now)
	}
	v, ok := rl.visitors[key]
	if !ok {
		if len(rl.visitors) >= rl.max {
			rl.sweep(now)
		}
		if len(rl.visitors) >= rl.max {
			rl.mu.Unlock()
			return false
		}
		v = &visitor{lim: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = now
	rl.mu.Unlock()

	return v.lim.AllowN(now, 1)
}

// sweep drops idle buckets.  Caller holds mu.
func (rl *RateLimiter) sweep(now time.Time) {
	for k, v := range rl.visitors {
		if now.Sub(v.lastSeen) > visitorTTL {
			delete(rl.visitors, k)
		}
	}
	rl.lastSweep = now
}

// Handler wraps next, answering 429 once the caller's bucket is empty.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := "unknown"
		if ip := requestinfo.TrustedClientIP(r, rl.trusted); ip != nil {
			key = ip.String()
		}
		if !rl.Allow(key) {
			route := routePattern(r)
			metrics.RateLimitedTotal.WithLabelValues(route).Inc()
			zap.L().Warn("rate limit exceeded", zap.String("ip", key), zap.String("route", route))
			w.Header().Set("Retry-After", "60")
			respond.Message(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
			return
		}
		next.ServeHTTP(w, r)
	})
}
