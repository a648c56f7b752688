package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/duylamasd/duylam-oauth2/internal/auth"
	"github.com/duylamasd/duylam-oauth2/pkg/health"
	"github.com/duylamasd/duylam-oauth2/pkg/middleware"
)

// RouterDeps bundles what the router needs to wire every route.
type RouterDeps struct {
	Dispatcher        *auth.Dispatcher
	AuthHandler       *AuthHandler
	UserHandler       *UserHandler
	CredentialHandler *CredentialHandler
	HealthHandler     *health.Handler
	Logger            *slog.Logger
	CORS              middleware.CORSConfig
}

// NewRouter creates a chi router with all auth service routes registered.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(deps.CORS))
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogging(deps.Logger))
	r.Use(middleware.PrometheusMetrics("auth"))

	// Health and metrics endpoints
	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "OK"})
	})
	r.Get("/health/live", deps.HealthHandler.LivenessHandler())
	r.Get("/health/ready", deps.HealthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Local login, with and without a session.
	r.Route("/login", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(deps.Dispatcher.Authenticate([]string{"local"}, auth.Options{Session: true}))

		r.Post("/", deps.AuthHandler.Login)
	})

	r.Post("/logout", deps.AuthHandler.Logout)

	// Registration and account routes.
	r.Route("/users", func(r chi.Router) {
		r.With(ContentTypeJSON).Post("/", deps.UserHandler.Register)

		r.With(
			ContentTypeJSON,
			deps.Dispatcher.Authenticate([]string{"local"}, auth.Options{}),
		).Post("/signin", deps.AuthHandler.SignIn)

		r.With(
			deps.Dispatcher.Authenticate([]string{"jwt", "headerapikey", "session"}, auth.Options{}),
			auth.RequireAuthenticated,
		).Get("/", deps.UserHandler.List)
	})

	// Federated login handoff.
	r.Get("/twitter", deps.AuthHandler.TwitterRedirect)
	r.With(
		VerifyOAuthState,
		deps.Dispatcher.Authenticate([]string{"twitter"}, auth.Options{Session: true}),
	).Get("/twitter/callback", deps.AuthHandler.TwitterCallback)

	// Credential issuance (token holders only).
	r.Route("/credentials", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(deps.Dispatcher.Authenticate([]string{"jwt"}, auth.Options{}))
		r.Use(auth.RequireAuthenticated)

		r.Post("/", deps.CredentialHandler.Issue)
	})

	return r
}
