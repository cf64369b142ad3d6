// Package httpapi exposes the CodeQuest HTTP surface on a chi router.
package httpapi

import (
	"log/slog"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/Rahi-sm99/CodeQuest/internal/assistant"
	"github.com/Rahi-sm99/CodeQuest/internal/competition"
	"github.com/Rahi-sm99/CodeQuest/internal/oauth"
	"github.com/Rahi-sm99/CodeQuest/internal/progress"
	sharedauth "github.com/Rahi-sm99/CodeQuest/shared-libs/auth"
)

// Dependencies are the collaborators RegisterRoutes wires into handlers.
type Dependencies struct {
	Progress     progress.Service
	Competitions *competition.Registry
	Executor     Executor
	Assistant    *assistant.Service
	OAuth        oauth.Settings
	GitHub       *oauth.GitHubProvider
	Auth0        *oauth.Auth0Provider
	// Verifier checks optional bearer tokens on progress routes.
	Verifier sharedauth.Verifier
	// IDTokens verifies Auth0 ID tokens when userinfo is unavailable. May be nil.
	IDTokens sharedauth.Verifier
	Sessions sessions.Store
	Logger   *slog.Logger
	Now      func() time.Time
}

// RegisterRoutes registers every CodeQuest route under /api.
func RegisterRoutes(r chi.Router, deps Dependencies) {
	logger := deps.Logger
	now := deps.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	auth := authHandlers{
		settings: deps.OAuth,
		github:   deps.GitHub,
		auth0:    deps.Auth0,
		idTokens: deps.IDTokens,
		logger:   logger,
	}
	base := strings.TrimRight(deps.OAuth.BaseURL, "/")

	r.Post("/api/execute-code", executeCode(deps.Executor, logger))
	r.Post("/api/chat", chat(deps.Assistant, logger))
	r.Post("/api/analyze-error", analyzeError(deps.Assistant, logger))

	r.Get(oauth.GitHubLoginPath, auth.githubLogin)
	r.Get(oauth.GitHubCallbackPath, auth.githubCallback)
	r.Get(oauth.GitHubForwardPath, forwardTo(oauth.GitHubCallbackPath))
	r.Get(oauth.Auth0LoginPath, auth.login)
	r.Get(oauth.Auth0CallbackPath, auth.callback)
	r.Get(oauth.Auth0ForwardPath, forwardTo(base+oauth.Auth0CallbackPath))
	r.Post("/api/github/token", auth.githubToken)

	r.Route("/api", func(r chi.Router) {
		registerCatalogRoutes(r, now)

		r.Group(func(r chi.Router) {
			r.Use(clientSession(deps.Sessions, logger))
			r.Use(sharedauth.OptionalMiddleware(deps.Verifier))

			r.Route("/progress", func(r chi.Router) {
				registerProgressRoutes(r, deps.Progress, deps.Competitions, logger, now)
			})
			r.Route("/competitions", func(r chi.Router) {
				registerCompetitionRoutes(r, deps.Competitions, deps.Progress, logger)
			})
		})
	})
}
