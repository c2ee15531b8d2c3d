package httpapi

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ipLimiter rate limits the public intake endpoints per client IP. Entries
// idle for an hour are dropped on the next sweep.
type ipLimiter struct {
	mu     sync.Mutex
	perMin float64
	burst  int
	seen   map[string]*ipEntry
	swept  time.Time
}

type ipEntry struct {
	lim  *rate.Limiter
	last time.Time
}

func newIPLimiter(perMin float64, burst int) *ipLimiter {
	return &ipLimiter{
		perMin: perMin,
		burst:  burst,
		seen:   make(map[string]*ipEntry),
		swept:  time.Now(),
	}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.swept) > time.Hour {
		for k, e := range l.seen {
			if now.Sub(e.last) > time.Hour {
				delete(l.seen, k)
			}
		}
		l.swept = now
	}

	e, ok := l.seen[ip]
	if !ok {
		e = &ipEntry{lim: rate.NewLimiter(rate.Limit(l.perMin/60.0), l.burst)}
		l.seen[ip] = e
	}
	e.last = now
	return e.lim.Allow()
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// PublicRateLimit guards the unauthenticated intake surface.
func PublicRateLimit(perMin float64, burst int) Middleware {
	l := newIPLimiter(perMin, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.allow(clientIP(r)) {
				WriteError(w, r, http.StatusTooManyRequests, "rate_limited", "too many requests, slow down")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
