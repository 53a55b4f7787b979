package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nutriva/brand-site-server/internal/audit"
	apperrors "github.com/nutriva/brand-site-server/internal/errors"
	"github.com/nutriva/brand-site-server/internal/middleware"
	"github.com/nutriva/brand-site-server/internal/service"
)

type AuthHandler struct {
	authService      *service.AuthService
	authorizer       *middleware.Authorizer
	loginRateLimiter *middleware.LoginRateLimiter
}

func NewAuthHandler(
	authService *service.AuthService,
	authorizer *middleware.Authorizer,
	loginRateLimiter *middleware.LoginRateLimiter,
) *AuthHandler {
	return &AuthHandler{
		authService:      authService,
		authorizer:       authorizer,
		loginRateLimiter: loginRateLimiter,
	}
}

func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(h.loginRateLimiter.Handler).Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.Get("/me", h.Me)

	return r
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if apperrors.HasCode(err, apperrors.ErrCodeUnauthorized) {
			audit.LogFromRequest(r, audit.Event{
				Type:    audit.EventLoginFailure,
				Details: map[string]interface{}{"email": req.Email},
			})
		}
		writeError(w, err)
		return
	}

	h.authorizer.SetSessionCookie(w, result.Token)
	audit.LogFromRequest(r, audit.Event{
		Type:      audit.EventLoginSuccess,
		AccountID: result.Account.ID,
	})

	writeJSON(w, http.StatusOK, map[string]any{"user": result.Account})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := h.authorizer.Token(r); token != "" {
		h.authService.Logout(r.Context(), token)
	}

	h.authorizer.ClearSessionCookie(w)
	audit.LogFromRequest(r, audit.Event{Type: audit.EventLogout})
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Me reports the current account, or a null user when the request is not
// authenticated.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	account, err := h.authorizer.RequireAuthenticated(r)
	if err != nil {
		if apperrors.HasCode(err, apperrors.ErrCodeUnauthorized) {
			writeJSON(w, http.StatusOK, map[string]any{"user": nil})
			return
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": account})
}
