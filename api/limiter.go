package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// addressLimiter keeps one token bucket per requester address. A bucket holds max tokens and
// refills at max per window.
type addressLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	max       int
	window    time.Duration
	message   string
	lastSweep time.Time
	now       func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newAddressLimiter(max int, window time.Duration, message string) *addressLimiter {
	if max < 1 {
		max = 1
	}
	return &addressLimiter{
		visitors:  make(map[string]*visitor),
		max:       max,
		window:    window,
		message:   message,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (l *addressLimiter) get(key string) (*rate.Limiter, time.Time) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > l.window {
		for k, v := range l.visitors {
			if now.Sub(v.lastSeen) > l.window {
				delete(l.visitors, k)
			}
		}
		l.lastSweep = now
	}

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Every(l.window/time.Duration(l.max)), l.max)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter, now
}

// Allow consumes one token for key.
func (l *addressLimiter) Allow(key string) bool {
	lim, now := l.get(key)
	return lim.AllowN(now, 1)
}

// Check reports whether key has a token left without consuming it.
func (l *addressLimiter) Check(key string) bool {
	lim, now := l.get(key)
	return lim.TokensAt(now) >= 1
}

// Record consumes one token for key whether or not one is available.
func (l *addressLimiter) Record(key string) {
	lim, now := l.get(key)
	lim.ReserveN(now, 1)
}

func (l *addressLimiter) retryAfter() time.Duration {
	return l.window / time.Duration(l.max)
}

func (l *addressLimiter) reject(w http.ResponseWriter, r *http.Request, key string) {
	log.Warn().Str("address", key).Str("path", r.URL.Path).Msg("Rate limit exceeded")
	NewResponder(log.Logger).WriteError(w, errs.NewRateLimitError(l.message, l.retryAfter()))
}

// limitRequests counts every request.
func (l *addressLimiter) limitRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientAddress(r)
		if !l.Allow(key) {
			l.reject(w, r, key)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// limitFailures counts only requests answered with 401, so successful logins are free.
func (l *addressLimiter) limitFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientAddress(r)
		if !l.Check(key) {
			l.reject(w, r, key)
			return
		}
		srw := &statusResponseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(srw, r)
		if srw.status == http.StatusUnauthorized {
			l.Record(key)
		}
	})
}
