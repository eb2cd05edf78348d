package ratelimit

import (
	"net/http"
	"strconv"

	apierrors "github.com/maruel/actionmap/internal/errors"
	"github.com/maruel/actionmap/internal/utils"
)

// WriteHeaders writes rate limit headers to the response.
//
// Retry-After is only set when the request was refused.
func WriteHeaders(w http.ResponseWriter, result Result) {
	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
	if !result.Allowed {
		h.Set("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())))
	}
}

// Middleware rate limits requests by the key returned by keyFor.
//
// Refused requests get a 429 with the standard error body. A nil limiter
// disables rate limiting.
func Middleware(l *Limiter, keyFor func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if l == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			result := l.Allow(keyFor(r))
			WriteHeaders(w, result)
			if !result.Allowed {
				e := apierrors.RateLimited(int(result.RetryAfter.Seconds()))
				utils.RespondError(w, e.StatusCode(), e.Code(), e.Message(), e.Details())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
