package middleware

import (
	"context"
	"net/http"

	"github.com/nutriva/brand-site-server/internal/audit"
	"github.com/nutriva/brand-site-server/internal/config"
	apperrors "github.com/nutriva/brand-site-server/internal/errors"
	"github.com/nutriva/brand-site-server/internal/httputil"
	"github.com/nutriva/brand-site-server/internal/model"
)

type contextKey string

const AccountContextKey contextKey = "account"

func GetAccount(ctx context.Context) *model.Account {
	if account, ok := ctx.Value(AccountContextKey).(*model.Account); ok {
		return account
	}
	return nil
}

func WithAccount(ctx context.Context, account *model.Account) context.Context {
	if h, ok := ctx.Value(accountHolderKey).(*accountHolder); ok && account != nil {
		h.accountID = account.ID
	}
	return context.WithValue(ctx, AccountContextKey, account)
}

// SessionValidator resolves a raw session token to its account. A nil
// account with a nil error means the token does not authenticate anyone.
type SessionValidator interface {
	Validate(ctx context.Context, token string) (*model.Account, error)
}

// Authorizer guards protected requests using the session cookie.
type Authorizer struct {
	validator  SessionValidator
	cookieName string
	secure     bool
}

func NewAuthorizer(validator SessionValidator, cookieName string, secure bool) *Authorizer {
	return &Authorizer{
		validator:  validator,
		cookieName: cookieName,
		secure:     secure,
	}
}

// Token returns the session token carried by r, or "".
func (a *Authorizer) Token(r *http.Request) string {
	cookie, err := r.Cookie(a.cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// RequireAuthenticated returns the account behind the request's session
// cookie. Requests without a cookie are rejected before the store is
// consulted.
func (a *Authorizer) RequireAuthenticated(r *http.Request) (*model.Account, error) {
	token := a.Token(r)
	if token == "" {
		return nil, apperrors.Unauthorized("Authentication required")
	}

	account, err := a.validator.Validate(r.Context(), token)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apperrors.Unauthorized("Session is invalid or expired")
	}
	return account, nil
}

// RequireRole checks that account holds at least the required role.
func RequireRole(account *model.Account, required model.Role) error {
	if account == nil {
		return apperrors.Unauthorized("Authentication required")
	}
	if !account.Role.Satisfies(required) {
		return apperrors.Forbidden("Insufficient role")
	}
	return nil
}

// Authenticated rejects requests without a valid session and stores the
// account on the request context.
func (a *Authorizer) Authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account, err := a.RequireAuthenticated(r)
		if err != nil {
			if apperrors.HasCode(err, apperrors.ErrCodeUnauthorized) {
				audit.LogFromRequest(r, audit.Event{
					Type:    audit.EventAuthFailure,
					Details: map[string]interface{}{"path": r.URL.Path},
				})
			}
			httputil.WriteError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithAccount(r.Context(), account)))
	})
}

// RequireRole returns middleware that authenticates the request and then
// enforces the role.
func (a *Authorizer) RequireRole(role model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return a.Authenticated(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			account := GetAccount(r.Context())
			if err := RequireRole(account, role); err != nil {
				audit.LogFromRequest(r, audit.Event{
					Type:      audit.EventForbidden,
					AccountID: account.ID,
					Details: map[string]interface{}{
						"path":     r.URL.Path,
						"role":     string(account.Role),
						"required": string(role),
					},
				})
				httputil.WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

func (a *Authorizer) SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     a.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(config.SessionLifetime.Seconds()),
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *Authorizer) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     a.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
