package httpserver

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/avtoken/avtoken-go/internal/core/domain"
	"github.com/avtoken/avtoken-go/internal/server/httpserver/handler"
)

// LimiterRegistry keeps one token bucket per client. A bucket holds limit
// tokens and refills at limit per window, so a client gets limit requests
// in a burst and then limit per window on average.
type LimiterRegistry struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu        sync.Mutex
	limiters  map[string]*clientLimiter
	lastSweep time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLimiterRegistry creates a registry allowing limit requests per window.
func NewLimiterRegistry(limit int, window time.Duration) *LimiterRegistry {
	if limit < 1 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &LimiterRegistry{
		limit:    limit,
		window:   window,
		now:      time.Now,
		limiters: make(map[string]*clientLimiter),
	}
}

// Limit returns the per-window budget.
func (r *LimiterRegistry) Limit() int {
	return r.limit
}

// Allow consumes one token for key. When the bucket is empty it returns
// false and how long until the next token.
func (r *LimiterRegistry) Allow(key string) (bool, time.Duration) {
	now := r.now()
	l := r.get(key, now)

	res := l.ReserveN(now, 1)
	if !res.OK() {
		return false, r.window
	}
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// Remaining reports the whole tokens left for key without consuming any.
func (r *LimiterRegistry) Remaining(key string) int {
	now := r.now()
	tokens := r.get(key, now).TokensAt(now)
	if tokens < 0 {
		return 0
	}
	return int(math.Floor(tokens))
}

// Len returns the number of tracked clients.
func (r *LimiterRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.limiters)
}

func (r *LimiterRegistry) get(key string, now time.Time) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	if now.Sub(r.lastSweep) > r.window {
		r.sweepLocked(now)
	}

	cl, ok := r.limiters[key]
	if !ok {
		every := r.window / time.Duration(r.limit)
		cl = &clientLimiter{limiter: rate.NewLimiter(rate.Every(every), r.limit)}
		r.limiters[key] = cl
	}
	cl.lastSeen = now
	return cl.limiter
}

// sweepLocked drops clients idle for two windows; their buckets are full
// again by then.
func (r *LimiterRegistry) sweepLocked(now time.Time) {
	cutoff := now.Add(-2 * r.window)
	for key, cl := range r.limiters {
		if cl.lastSeen.Before(cutoff) {
			delete(r.limiters, key)
		}
	}
	r.lastSweep = now
}

// RateLimit rejects clients that exhausted their budget with 429.
func RateLimit(reg *LimiterRegistry, clientIP func(*http.Request) string) Middleware {
	limit := strconv.Itoa(reg.Limit())
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r)
			ok, retry := reg.Allow(key)
			w.Header().Set("X-RateLimit-Limit", limit)
			if !ok {
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retry.Seconds()))))
				handler.WriteError(w, r, http.StatusTooManyRequests,
					domain.ErrRateLimited.Code, domain.ErrRateLimited.Message, "")
				return
			}
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(reg.Remaining(key)))
			next.ServeHTTP(w, r)
		})
	}
}
