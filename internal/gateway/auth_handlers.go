package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/docgate/docgate-go/internal/auth"
	"github.com/docgate/docgate-go/internal/models"
)

const refreshCookieName = "refresh_token"

// The refresh cookie is scoped to the auth endpoints so it never rides on
// ordinary API calls.
const refreshCookiePath = "/api/auth"

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithDetail(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if payload.Email != s.adminEmail || !auth.CheckPasswordHash(payload.Password, s.adminHash) {
		RespondWithDetail(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	accessToken, err := s.tokens.AccessToken(s.adminEmail, "admin")
	if err != nil {
		RespondWithDetail(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}
	s.setRefreshCookie(w, r)

	RespondWithJSON(w, http.StatusOK, map[string]any{
		"access_token": accessToken,
		"user": models.User{
			ID:    s.adminEmail,
			Email: s.adminEmail,
			Role:  "admin",
		},
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil {
		RespondWithDetail(w, http.StatusUnauthorized, "Missing refresh token")
		return
	}
	userID, err := s.tokens.Verify(cookie.Value, "refresh")
	if err != nil {
		RespondWithDetail(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	accessToken, err := s.tokens.AccessToken(userID, "admin")
	if err != nil {
		RespondWithDetail(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}
	// Rotate the cookie on every refresh, as the real gateway does.
	s.setRefreshCookie(w, r)

	RespondWithJSON(w, http.StatusOK, map[string]string{
		"access_token": accessToken,
		"token_type":   "bearer",
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	// Expire the cookie on the client side
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		MaxAge:   -1,
		Path:     refreshCookiePath,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})
	RespondWithJSON(w, http.StatusOK, map[string]string{"detail": "Logged out"})
}

func (s *Server) setRefreshCookie(w http.ResponseWriter, r *http.Request) {
	refreshToken, err := s.tokens.RefreshToken(s.adminEmail)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    refreshToken,
		MaxAge:   s.tokens.RefreshCookieMaxAge(),
		Path:     refreshCookiePath,
		HttpOnly: true,
		Secure:   r.TLS != nil, // Set secure flag if using HTTPS
		SameSite: http.SameSiteStrictMode,
	})
}
