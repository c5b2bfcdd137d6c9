package httpapi

import (
	"net/http"

	"golang.org/x/time/rate"

	sharederrors "github.com/imaginify/webhook-service/internal/shared/errors"
)

// NewLimiter builds a token bucket for perSecond requests; it returns nil
// (no limiting) when perSecond is not positive.
func NewLimiter(perSecond, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = perSecond
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

// RateLimit rejects requests with 429 once limiter is exhausted. A nil limiter disables it.
func RateLimit(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Retry-After", "1")
				writeError(w, r, sharederrors.CodeTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
