package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/riya23dhim/task-management-ai/internal/api/shared"
)

// Rate limit tiers. Authentication endpoints get the tightest budget since
// they are the brute-force target; summarization is limited separately
// because each request costs an upstream model call.
const (
	APIRequestLimit  = 100
	APIRequestWindow = 15 * time.Minute

	AuthRequestLimit  = 10
	AuthRequestWindow = time.Hour

	SummarizeRequestLimit  = 20
	SummarizeRequestWindow = time.Hour
)

// RateLimitByIP returns a middleware limiting each client IP to limit
// requests per window, answering excess requests with a JSON 429.
func RateLimitByIP(limit int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(
		limit,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			shared.RespondWithError(w, r, http.StatusTooManyRequests,
				"Too many requests, please try again later")
		}),
	)
}

// APIRateLimit is the general per-IP limit applied to the whole API surface.
func APIRateLimit() func(http.Handler) http.Handler {
	return RateLimitByIP(APIRequestLimit, APIRequestWindow)
}

// AuthRateLimit is the stricter per-IP limit for register/login/refresh.
func AuthRateLimit() func(http.Handler) http.Handler {
	return RateLimitByIP(AuthRequestLimit, AuthRequestWindow)
}

// SummarizeRateLimit bounds how often a single IP can trigger upstream
// summarization calls.
func SummarizeRateLimit() func(http.Handler) http.Handler {
	return RateLimitByIP(SummarizeRequestLimit, SummarizeRequestWindow)
}
