package middleware

import (
	"context"
	"net/http"
	"strings"

	apiContext "scouthub/internal/api/context"
	"scouthub/internal/pkg/respond"
	"scouthub/internal/platform/auth"
)

type AuthMiddleware struct {
	tokenSvc *auth.TokenService
}

func NewAuthMiddleware(tokenSvc *auth.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

func (m *AuthMiddleware) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respond.Error(w, http.StatusUnauthorized, "Missing authorization header")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			respond.Error(w, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		claims, err := m.tokenSvc.ValidateToken(parts[1])
		if err != nil {
			respond.Error(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), apiContext.Claims, claims)
		next(w, r.WithContext(ctx))
	}
}
