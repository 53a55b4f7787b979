package middleware

import (
	"net/http"

	"github.com/nutriva/brand-site-server/internal/audit"
	"github.com/nutriva/brand-site-server/internal/config"
	apperrors "github.com/nutriva/brand-site-server/internal/errors"
	"github.com/nutriva/brand-site-server/internal/httputil"
	"github.com/nutriva/brand-site-server/internal/util"
)

const (
	CSRFCookieName = "csrf_token"
	CSRFHeaderName = "X-CSRF-Token"
)

// CSRF guards state-changing requests with a double-submit cookie. Every
// response without the cookie gets a fresh one; POST, PUT, PATCH and DELETE
// must echo its value in X-CSRF-Token.
func CSRF(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := csrfToken(w, r, secure)
			if err != nil {
				httputil.WriteError(w, apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to generate security token", err))
				return
			}

			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			sent := r.Header.Get(CSRFHeaderName)
			if sent == "" || !util.TokensEqual(token, sent) {
				audit.LogFromRequest(r, audit.Event{
					Type:    audit.EventCSRFFailure,
					Details: map[string]interface{}{"path": r.URL.Path, "missing": sent == ""},
				})
				httputil.WriteError(w, apperrors.Forbidden("Invalid CSRF token"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// csrfToken returns the request's CSRF cookie value, issuing a new cookie
// when there is none.
func csrfToken(w http.ResponseWriter, r *http.Request, secure bool) (string, error) {
	if c, err := r.Cookie(CSRFCookieName); err == nil && c.Value != "" {
		return c.Value, nil
	}

	token, err := util.NewToken()
	if err != nil {
		return "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(config.SessionLifetime.Seconds()),
		HttpOnly: false, // the admin UI reads it
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return token, nil
}
