package handlers

import (
	"net/http"
	"strings"

	"github.com/Crayxus/crayxus-game/internal/auth"
	"github.com/google/uuid"
)

const authCookieName = "auth_token"

// extractCookieToken extracts a named cookie value from "Cookie" header, or returns empty if not found.
func extractCookieToken(cookieHeader, cookieName string) string {
	for _, part := range strings.Split(cookieHeader, ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if ok && name == cookieName {
			return value
		}
	}
	return ""
}

// resolvePlayer identifies the caller from ?token= or the auth cookie. A missing or
// invalid token mints a new player id; the returned token is always valid.
func resolvePlayer(w http.ResponseWriter, r *http.Request) (uuid.UUID, string, error) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = extractCookieToken(r.Header.Get("Cookie"), authCookieName)
	}
	if token != "" {
		if id, err := auth.AuthenticateJWT(token); err == nil {
			return id, token, nil
		}
	}

	id := uuid.New()
	token, err := auth.CreateJWT(id)
	if err != nil {
		return uuid.Nil, "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    token,
		HttpOnly: true,
		Path:     "/",
	})
	return id, token, nil
}
