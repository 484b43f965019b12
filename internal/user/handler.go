package user

import (
	"encoding/json"
	"net/http"

	"github.com/opol-agri/rsbsa-lambda/internal/apperror"
	"github.com/opol-agri/rsbsa-lambda/internal/auth"
	"github.com/opol-agri/rsbsa-lambda/internal/config"
)

type Handler struct {
	service UserService
}

func NewHandler(service UserService) *Handler {
	return &Handler{service: service}
}

type loginRequest struct {
	Code string `json:"code"`
}

func (h *Handler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.BadRequest(w, "invalid request body")
		return
	}

	session, err := h.service.GoogleLogin(r.Context(), req.Code)
	if err != nil {
		config.Fail(w, r, err)
		return
	}

	auth.SetTokenCookie(w, session.Token, SessionDuration)
	config.Success(w, http.StatusOK, "login successful", session)
}

// RefreshToken reissues a session from a still valid token. The role is reloaded from the database.
func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	tokenStr := auth.TokenFromRequest(r)
	if tokenStr == "" {
		config.Fail(w, r, apperror.New(apperror.CodeUnauthorized, "missing token"))
		return
	}
	claims, err := auth.ValidateJWT(tokenStr)
	if err != nil {
		config.WithContext(r.Context()).WithError(err).Warn("Refresh with invalid token")
		config.Fail(w, r, apperror.New(apperror.CodeUnauthorized, "invalid token"))
		return
	}

	session, err := h.service.Refresh(r.Context(), claims.UserID)
	if err != nil {
		config.Fail(w, r, err)
		return
	}

	auth.SetTokenCookie(w, session.Token, SessionDuration)
	config.Success(w, http.StatusOK, "token refreshed", session)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		config.Fail(w, r, apperror.New(apperror.CodeUnauthorized, "unauthorized"))
		return
	}

	u, err := h.service.GetByID(r.Context(), claims.UserID)
	if err != nil {
		config.Fail(w, r, err)
		return
	}
	config.Success(w, http.StatusOK, "user retrieved", u)
}
