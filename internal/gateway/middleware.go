package gateway

// This file contains the middleware for handling bearer-token authentication.

import (
	"context"
	"net/http"
	"strings"
)

// contextKey is a private type to prevent collisions with other context keys.
type contextKey string

const userContextKey = contextKey("user")

// AuthMiddleware verifies the Authorization bearer token and injects the
// user ID into the request context for downstream handlers.
func (s *Server) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			RespondWithDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		userID, err := s.tokens.Verify(token, "access")
		if err != nil {
			RespondWithDetail(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userFromContext returns the authenticated user ID, or "" when absent.
func userFromContext(r *http.Request) string {
	userID, _ := r.Context().Value(userContextKey).(string)
	return userID
}
