package middleware

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/studiostorm/server/internal/models"
	"github.com/studiostorm/server/internal/observability"
)

// Decision is the outcome of a rate limit check. RetryAfter is the moment
// the window resets; it is only meaningful when Allowed is false.
type Decision struct {
	Allowed    bool
	RetryAfter time.Time
}

// RateLimiter is a fixed-window per-key counter. It protects the like
// toggles from scripted abuse: each key gets maxPerWindow mutations per
// window, and a blocked caller is told exactly when the window resets.
//
// State is in-memory and per-process. Windows are short, so losing state on
// restart only resets counters early.
type RateLimiter struct {
	window       time.Duration
	maxPerWindow int
	metrics      *observability.LikeMetrics

	mu      sync.Mutex
	entries map[string]*windowEntry
	now     func() time.Time
}

type windowEntry struct {
	windowStart time.Time
	count       int
}

// NewRateLimiter creates a limiter allowing maxPerWindow hits per window.
// metrics may be nil.
func NewRateLimiter(window time.Duration, maxPerWindow int, metrics *observability.LikeMetrics) *RateLimiter {
	if window <= 0 {
		window = time.Hour
	}
	if maxPerWindow <= 0 {
		maxPerWindow = 50
	}
	return &RateLimiter{
		window:       window,
		maxPerWindow: maxPerWindow,
		metrics:      metrics,
		entries:      make(map[string]*windowEntry),
		now:          time.Now,
	}
}

// Check counts a hit for key and decides whether it is allowed
func (l *RateLimiter) Check(key string) Decision {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[key]
	if !ok || now.Sub(entry.windowStart) >= l.window {
		l.entries[key] = &windowEntry{windowStart: now, count: 1}
		l.sweep(now)
		return Decision{Allowed: true}
	}

	entry.count++
	if entry.count > l.maxPerWindow {
		return Decision{
			Allowed:    false,
			RetryAfter: entry.windowStart.Add(l.window),
		}
	}
	return Decision{Allowed: true}
}

// sweep drops expired windows. Called under the lock while already paying
// for a map write, so steady traffic keeps the map bounded.
func (l *RateLimiter) sweep(now time.Time) {
	if len(l.entries) < 1024 {
		return
	}
	for key, entry := range l.entries {
		if now.Sub(entry.windowStart) >= l.window {
			delete(l.entries, key)
		}
	}
}

// Middleware applies the limiter keyed by client IP. Mounted only on the
// like toggle routes; reads are never limited. scope labels the rejection
// metric ("catalog" or "gallery").
func (l *RateLimiter) Middleware(scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := string(models.VisitorFromAddr(r.RemoteAddr))

			decision := l.Check(key)
			if !decision.Allowed {
				if l.metrics != nil {
					l.metrics.RecordLimited(r.Context(), scope)
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(models.RateLimitedResponse{
					Error:      "Too many like requests. Please try again later.",
					RetryAfter: decision.RetryAfter.UTC().Format(time.RFC3339),
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
