package middleware

import (
	"net/http"

	"golang.org/x/time/rate"
)

type rateLimitMiddleware struct {
	limiter *rate.Limiter
}

// NewRateLimitMiddleware builds a per-instance limiter, used to keep the
// extraction route from hammering the model API.
func NewRateLimitMiddleware(rps float64, burst int) *rateLimitMiddleware {
	if rps <= 0 {
		rps = 1
	}
	if burst < 1 {
		burst = 1
	}
	return &rateLimitMiddleware{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

func (m *rateLimitMiddleware) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.limiter.Allow() {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
