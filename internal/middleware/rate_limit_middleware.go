package middleware

import (
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	"CasaLinkAPI/internal/helper"
	"CasaLinkAPI/internal/model"
	"CasaLinkAPI/internal/repository"
)

type RateLimitMiddleware struct {
	repo *repository.RateLimitRepository
}

func NewRateLimitMiddleware(repo *repository.RateLimitRepository) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		repo: repo,
	}
}

// Limit enforces a per-viewer fixed window on the wrapped routes. Mounted
// behind auth, so the identifier is always the viewer; a nil repository
// (no redis) turns the middleware into a pass-through.
func (m *RateLimitMiddleware) Limit(keyName string, limit int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m.repo == nil {
				next.ServeHTTP(w, r)
				return
			}

			userContext, ok := r.Context().Value(UserContextKey).(*model.UserDTO)
			if !ok || userContext == nil {
				helper.WriteError(w, helper.NewUnauthorizedError(""))
				return
			}

			key := fmt.Sprintf("ratelimit:user:%s:%s", keyName, userContext.ID)

			allowed, ttl, err := m.repo.Allow(r.Context(), key, limit, window)
			if err != nil {
				slog.Error("Rate limit check failed", "error", err)
				helper.WriteError(w, helper.NewServiceUnavailableError("Rate limiting service unavailable"))
				return
			}

			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
			w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", int(ttl.Seconds())))

			if !allowed {
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(math.Ceil(ttl.Seconds()))))

				helper.WriteError(w, helper.NewTooManyRequestsError("Rate limit exceeded. Please try again later."))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
