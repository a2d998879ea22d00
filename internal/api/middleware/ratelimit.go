package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/phrazzld/task-api/internal/api/shared"
	"golang.org/x/time/rate"
)

// NewRateLimiter returns middleware enforcing a single token bucket shared by
// all clients. Requests over the limit get 429 with a Retry-After header.
func NewRateLimiter(requestsPerSecond float64, burst int) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(requestsPerSecond), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				retryAfter := int(math.Ceil(1 / requestsPerSecond))
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				shared.RespondWithError(w, r, http.StatusTooManyRequests, "Too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
