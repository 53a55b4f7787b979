package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/nutriva/brand-site-server/internal/audit"
	apperrors "github.com/nutriva/brand-site-server/internal/errors"
	"github.com/nutriva/brand-site-server/internal/httputil"
)

const loginCleanupPeriod = 5 * time.Minute

// LoginThrottle decides whether another login attempt is allowed for key.
// When it is not, retryAfter says how long the caller should wait.
type LoginThrottle interface {
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration)
}

type loginAttempt struct {
	count       int
	windowStart time.Time
}

// MemoryLoginThrottle is a fixed-window throttle local to this process.
type MemoryLoginThrottle struct {
	mu          sync.Mutex
	attempts    map[string]*loginAttempt
	limit       int
	window      time.Duration
	lastCleanup time.Time
	now         func() time.Time
}

func NewMemoryLoginThrottle(limit int, window time.Duration) *MemoryLoginThrottle {
	return &MemoryLoginThrottle{
		attempts:    make(map[string]*loginAttempt),
		limit:       limit,
		window:      window,
		lastCleanup: time.Now(),
		now:         time.Now,
	}
}

func (l *MemoryLoginThrottle) cleanup(now time.Time) {
	if now.Sub(l.lastCleanup) < loginCleanupPeriod {
		return
	}
	l.lastCleanup = now

	for key, attempt := range l.attempts {
		if now.Sub(attempt.windowStart) > l.window {
			delete(l.attempts, key)
		}
	}
}

func (l *MemoryLoginThrottle) Allow(_ context.Context, key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.cleanup(now)

	attempt, exists := l.attempts[key]
	if !exists || now.Sub(attempt.windowStart) > l.window {
		l.attempts[key] = &loginAttempt{count: 1, windowStart: now}
		return true, 0
	}

	if attempt.count >= l.limit {
		return false, attempt.windowStart.Add(l.window).Sub(now)
	}

	attempt.count++
	return true, 0
}

// LoginRateLimiter rejects login requests from clients that exceeded their
// attempt budget.
type LoginRateLimiter struct {
	throttle LoginThrottle
}

func NewLoginRateLimiter(throttle LoginThrottle) *LoginRateLimiter {
	return &LoginRateLimiter{throttle: throttle}
}

func (l *LoginRateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := audit.ClientIP(r)

		allowed, retryAfter := l.throttle.Allow(r.Context(), ip)
		if !allowed {
			seconds := int(retryAfter.Round(time.Second).Seconds())
			if seconds < 1 {
				seconds = 1
			}
			audit.LogFromRequest(r, audit.Event{Type: audit.EventRateLimitExceed})
			w.Header().Set("Retry-After", strconv.Itoa(seconds))
			httputil.WriteError(w, apperrors.RateLimitExceeded().
				WithDetails(map[string]int{"retryAfter": seconds}))
			return
		}

		next.ServeHTTP(w, r)
	})
}
