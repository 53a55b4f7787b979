package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nutriva/brand-site-server/internal/audit"
	"github.com/nutriva/brand-site-server/internal/middleware"
	"github.com/nutriva/brand-site-server/internal/model"
	"github.com/nutriva/brand-site-server/internal/service"
)

// AdminHandler serves the protected administrative API.
type AdminHandler struct {
	accountService *service.AccountService
	authorizer     *middleware.Authorizer
}

func NewAdminHandler(accountService *service.AccountService, authorizer *middleware.Authorizer) *AdminHandler {
	return &AdminHandler{
		accountService: accountService,
		authorizer:     authorizer,
	}
}

func (h *AdminHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(h.authorizer.RequireRole(model.RoleEditor)).Get("/ping", h.Ping)

	r.Route("/accounts", func(r chi.Router) {
		r.Use(h.authorizer.RequireRole(model.RoleAdmin))
		r.Get("/", h.ListAccounts)
		r.Post("/", h.CreateAccount)
		r.Get("/{id}", h.GetAccount)
		r.Patch("/{id}", h.UpdateAccount)
		r.Put("/{id}/password", h.ResetPassword)
	})

	return r
}

func (h *AdminHandler) Ping(w http.ResponseWriter, r *http.Request) {
	account := middleware.GetAccount(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":   true,
		"id":   account.ID,
		"role": account.Role,
	})
}

func (h *AdminHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	p := ParsePagination(r)

	accounts, total, err := h.accountService.List(r.Context(), p.Limit, p.Offset)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items":  accounts,
		"total":  total,
		"limit":  p.Limit,
		"offset": p.Offset,
	})
}

func (h *AdminHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string  `json:"email"`
		Name     *string `json:"name"`
		Password string  `json:"password"`
		Role     string  `json:"role"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	account, err := h.accountService.Create(r.Context(), service.CreateAccountInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		Role:     model.Role(req.Role),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:      audit.EventAccountCreate,
		AccountID: account.ID,
		ActorID:   middleware.GetAccount(r.Context()).ID,
		Details:   map[string]interface{}{"role": string(account.Role)},
	})

	writeJSON(w, http.StatusCreated, account)
}

func (h *AdminHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.accountService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, account)
}

func (h *AdminHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     *string     `json:"name"`
		Role     *model.Role `json:"role"`
		IsActive *bool       `json:"isActive"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	actor := middleware.GetAccount(r.Context())
	account, err := h.accountService.Update(r.Context(), actor.ID, chi.URLParam(r, "id"), service.UpdateAccountInput{
		Name:     req.Name,
		Role:     req.Role,
		IsActive: req.IsActive,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	details := map[string]interface{}{}
	if req.Role != nil {
		details["role"] = string(*req.Role)
	}
	if req.IsActive != nil {
		details["is_active"] = *req.IsActive
	}
	audit.LogFromRequest(r, audit.Event{
		Type:      audit.EventAccountUpdate,
		AccountID: account.ID,
		ActorID:   actor.ID,
		Details:   details,
	})

	writeJSON(w, http.StatusOK, account)
}

func (h *AdminHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.accountService.ResetPassword(r.Context(), id, req.Password); err != nil {
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:      audit.EventPasswordReset,
		AccountID: id,
		ActorID:   middleware.GetAccount(r.Context()).ID,
	})

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
