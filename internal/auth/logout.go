package auth

import (
	"net/http"
	"time"

	"github.com/opol-agri/rsbsa-lambda/internal/config"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// SetTokenCookie stores the session token; maxAge <= 0 clears it.
func SetTokenCookie(w http.ResponseWriter, token string, maxAge time.Duration) {
	age := int(maxAge.Seconds())
	if maxAge <= 0 {
		age = -1
	}
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    token,
		Path:     "/",
		Domain:   config.GetEnv("COOKIE_DOMAIN"),
		MaxAge:   age,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	SetTokenCookie(w, "", 0)
	config.Success(w, http.StatusOK, "logout successful", nil)
}
