package api

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/nerrad567/todo-api/internal/infrastructure/config"
)

// Route names used as rate-limit keys.
const (
	routeList   = "list"
	routeCreate = "create"
	routeRead   = "read"
	routeUpdate = "update"
	routeDelete = "delete"

	// routeDefault covers routes without a ceiling of their own.
	routeDefault = "default"
)

// defaultIdleEviction applies when the config leaves eviction unset.
const defaultIdleEviction = 10 * time.Minute

// rateLimiter holds one token bucket per client for a single route.
// A ceiling of n per window refills evenly over the window and holds at
// most n tokens.
type rateLimiter struct {
	limit   rate.Limit
	burst   int
	idleTTL time.Duration

	mu      sync.Mutex
	clients map[string]*clientLimiter
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newRateLimiter(n int, window, idleTTL time.Duration) *rateLimiter {
	return &rateLimiter{
		limit:   rate.Limit(float64(n) / window.Seconds()),
		burst:   n,
		idleTTL: idleTTL,
		clients: make(map[string]*clientLimiter),
	}
}

// newRouteLimiters builds limiters for every route with a positive ceiling.
// Todo routes without one are unlimited; the default ceiling guards the
// root greeting.
func newRouteLimiters(cfg config.RateLimitConfig) map[string]*rateLimiter {
	limiters := make(map[string]*rateLimiter)
	if !cfg.Enabled {
		return limiters
	}

	idle := idleEviction(cfg)
	for route, perMinute := range map[string]int{
		routeList:   cfg.Routes.List,
		routeCreate: cfg.Routes.Create,
		routeRead:   cfg.Routes.Read,
		routeUpdate: cfg.Routes.Update,
		routeDelete: cfg.Routes.Delete,
	} {
		if perMinute > 0 {
			limiters[route] = newRateLimiter(perMinute, time.Minute, idle)
		}
	}
	if cfg.DefaultPerHour > 0 {
		limiters[routeDefault] = newRateLimiter(cfg.DefaultPerHour, time.Hour, idle)
	}
	return limiters
}

func idleEviction(cfg config.RateLimitConfig) time.Duration {
	if cfg.IdleEvictionMinutes <= 0 {
		return defaultIdleEviction
	}
	return time.Duration(cfg.IdleEvictionMinutes) * time.Minute
}

// allow consumes one token for client. When the bucket is empty it
// returns false and how long until a token is available.
func (l *rateLimiter) allow(client string, now time.Time) (bool, time.Duration) {
	l.mu.Lock()
	c, ok := l.clients[client]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[client] = c
	}
	c.lastSeen = now
	l.mu.Unlock()

	res := c.limiter.ReserveN(now, 1)
	if !res.OK() {
		return false, time.Minute
	}
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// evict drops clients idle for longer than idleTTL and returns how many
// were removed.
func (l *rateLimiter) evict(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, c := range l.clients {
		if now.Sub(c.lastSeen) > l.idleTTL {
			delete(l.clients, key)
			removed++
		}
	}
	return removed
}

func (l *rateLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// rateLimit returns middleware enforcing the named route's ceiling.
// Exceeding it yields 429 with a Retry-After header in whole seconds.
func (s *Server) rateLimit(route string) func(http.Handler) http.Handler {
	limiter, ok := s.limiters[route]
	if !ok {
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, wait := limiter.allow(clientKey(r), time.Now())
			if !allowed {
				w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(wait)))
				writeError(w, http.StatusTooManyRequests, msgRateLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientKey identifies the caller by remote IP.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func retryAfterSeconds(d time.Duration) int {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}

// evictLimitersLoop periodically removes idle per-client limiters until
// ctx is cancelled.
func (s *Server) evictLimitersLoop(ctx context.Context) {
	if len(s.limiters) == 0 {
		return
	}

	ticker := time.NewTicker(idleEviction(s.cfg.RateLimit) / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			total := 0
			for _, l := range s.limiters {
				total += l.evict(now)
			}
			if total > 0 {
				s.logger.Debug("evicted idle rate limiters", "count", total)
			}
		}
	}
}
