package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/nutriva/brand-site-server/internal/config"
	"github.com/nutriva/brand-site-server/internal/middleware"
)

type RouterOptions struct {
	Auth         *AuthHandler
	Admin        *AdminHandler
	Health       *HealthHandler
	IsProduction bool

	// TrustProxyHeaders lets X-Forwarded-For and friends replace the peer
	// address. Enable only behind a proxy that overwrites them.
	TrustProxyHeaders bool
}

func NewRouter(opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	if opts.TrustProxyHeaders {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
	r.Use(middleware.LimitBody(middleware.MaxRequestBody))

	r.Get("/health", opts.Health.ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.SecureHeaders(opts.IsProduction))
		r.Use(middleware.CSRF(opts.IsProduction))
		r.Mount("/auth", opts.Auth.Routes())
		r.Mount("/admin", opts.Admin.Routes())
	})

	return r
}
