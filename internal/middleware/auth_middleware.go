package middleware

import (
	"context"
	"net/http"
	"strings"

	"CasaLinkAPI/internal/config"
	"CasaLinkAPI/internal/helper"
	"CasaLinkAPI/internal/model"

	"github.com/google/uuid"
)

type contextKey string

const UserContextKey contextKey = "userContext"

// AuthMiddleware verifies bearer tokens issued by the platform's auth
// service. Session issuance lives elsewhere; this only resolves the viewer.
type AuthMiddleware struct {
	cfg *config.AppConfig
}

func NewAuthMiddleware(cfg *config.AppConfig) *AuthMiddleware {
	return &AuthMiddleware{
		cfg: cfg,
	}
}

func (m *AuthMiddleware) VerifyToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			helper.WriteError(w, helper.NewUnauthorizedError(""))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			helper.WriteError(w, helper.NewUnauthorizedError(""))
			return
		}

		claims, err := helper.ParseJWT(m.cfg.JWTSecret, parts[1])
		if err != nil || claims.UserID == uuid.Nil {
			helper.WriteError(w, helper.NewUnauthorizedError(""))
			return
		}

		userContext := &model.UserDTO{ID: claims.UserID}
		ctx := context.WithValue(r.Context(), UserContextKey, userContext)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
