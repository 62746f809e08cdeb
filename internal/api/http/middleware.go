package http

import (
	"context"
	"net/http"
	"strings"

	"carpso-backend/internal/logger"
	"carpso-backend/internal/security"
)

type contextKey string

const claimsKey contextKey = "claims"

// authMiddleware requires a valid bearer token on every request and makes
// its claims available to handlers.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			return
		}

		claims, err := s.tokens.ValidateToken(token)
		if err != nil {
			logger.Debug("token rejected", "path", r.URL.Path, "error", err)
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// claimsFrom returns the authenticated claims, if any.
func claimsFrom(ctx context.Context) (*security.UserClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(*security.UserClaims)
	return claims, ok
}

// callerID resolves the acting user: the authenticated subject unless the
// request names another user explicitly (admin tooling does).
func callerID(r *http.Request, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if claims, ok := claimsFrom(r.Context()); ok {
		return claims.UserID
	}
	return ""
}
