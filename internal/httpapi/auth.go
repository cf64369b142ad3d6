package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Rahi-sm99/CodeQuest/internal/oauth"
	sharedauth "github.com/Rahi-sm99/CodeQuest/shared-libs/auth"
)

// authHandlers serves the popup OAuth flows.
type authHandlers struct {
	settings oauth.Settings
	github   *oauth.GitHubProvider
	auth0    *oauth.Auth0Provider
	idTokens sharedauth.Verifier
	logger   *slog.Logger
}

func (h authHandlers) githubLogin(w http.ResponseWriter, r *http.Request) {
	authURL, err := h.github.AuthorizeURL()
	if errors.Is(err, oauth.ErrMissingClientID) {
		http.Error(w, "GitHub client id missing. Set NEXT_PUBLIC_GITHUB_CLIENT_ID on the server.", http.StatusInternalServerError)
		return
	}
	if err != nil {
		logRequestError(r.Context(), h.logger, "failed to build github authorize url", err, "")
		http.Error(w, "Failed to construct GitHub authorize url", http.StatusInternalServerError)
		return
	}

	if r.URL.Query().Get("debug") == "1" {
		writeJSON(w, http.StatusOK, map[string]string{"authUrl": authURL, "redirectUri": h.github.RedirectURI()})
		return
	}
	http.Redirect(w, r, authURL, http.StatusFound)
}

func (h authHandlers) githubCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if authErr := query.Get("error"); authErr != "" {
		_ = oauth.RenderError(w, http.StatusBadRequest, "Auth Error", authErr)
		return
	}
	code := query.Get("code")
	if code == "" {
		_ = oauth.RenderError(w, http.StatusBadRequest, "Missing code", "No authorization code was returned.")
		return
	}

	token, err := h.github.Exchange(r.Context(), code)
	if err != nil {
		h.renderExchangeFailure(w, r, err, "Set NEXT_PUBLIC_GITHUB_CLIENT_ID and GITHUB_CLIENT_SECRET on the server.")
		return
	}

	user, err := h.github.FetchUser(r.Context(), token)
	if errors.Is(err, oauth.ErrProfileUnavailable) {
		logRequestError(r.Context(), h.logger, "github user unavailable", err, "")
		_ = oauth.RenderError(w, http.StatusBadRequest, "Profile unavailable", "GitHub did not return a user profile.")
		return
	}
	if err != nil {
		logRequestError(r.Context(), h.logger, "github user fetch failed", err, "")
		_ = oauth.RenderError(w, http.StatusInternalServerError, "Server error", "Failed to load the GitHub profile.")
		return
	}

	_ = oauth.RenderCompletion(w, oauth.Completion{
		Type:        oauth.TypeGitHubSuccess,
		AccessToken: token,
		User:        user.Raw,
	})
}

func (h authHandlers) login(w http.ResponseWriter, r *http.Request) {
	if !h.auth0.Configured() {
		http.Error(w, "Auth0 not configured on the server. Set AUTH0_DOMAIN and AUTH0_CLIENT_ID.", http.StatusBadRequest)
		return
	}

	provider := r.URL.Query().Get("provider")
	if provider == "github" {
		http.Redirect(w, r, strings.TrimRight(h.settings.BaseURL, "/")+oauth.GitHubLoginPath, http.StatusFound)
		return
	}

	authURL, err := h.auth0.AuthorizeURL(provider)
	if err != nil {
		logRequestError(r.Context(), h.logger, "failed to build auth0 authorize url", err, "")
		http.Error(w, "Server error constructing Auth0 url", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, authURL, http.StatusFound)
}

func (h authHandlers) callback(w http.ResponseWriter, r *http.Request) {
	if h.settings.GitHubCallback() == oauth.Auth0CallbackPath {
		forward(w, r, oauth.GitHubForwardPath)
		return
	}

	query := r.URL.Query()
	if authErr := query.Get("error"); authErr != "" {
		_ = oauth.RenderError(w, http.StatusBadRequest, "Auth Error", authErr+" "+query.Get("error_description"))
		return
	}
	code := query.Get("code")
	if code == "" {
		_ = oauth.RenderError(w, http.StatusBadRequest, "Missing code", "No authorization code was returned.")
		return
	}

	tokens, err := h.auth0.Exchange(r.Context(), code)
	if err != nil {
		h.renderExchangeFailure(w, r, err, "Set AUTH0_DOMAIN, AUTH0_CLIENT_ID and AUTH0_CLIENT_SECRET on the server.")
		return
	}

	user, err := h.auth0.FetchUser(r.Context(), tokens.AccessToken)
	if err != nil {
		logRequestError(r.Context(), h.logger, "auth0 userinfo failed, trying id token", err, "")
		user = h.userFromIDToken(r, tokens.IDToken)
	}
	if user == nil {
		_ = oauth.RenderError(w, http.StatusBadRequest, "Profile unavailable", "Auth0 returned neither a user profile nor a valid ID token.")
		return
	}

	_ = oauth.RenderCompletion(w, oauth.Completion{
		Type:        oauth.TypeAuth0Callback,
		AccessToken: tokens.AccessToken,
		IDToken:     tokens.IDToken,
		User:        user,
	})
}

func (h authHandlers) userFromIDToken(r *http.Request, idToken string) map[string]any {
	if h.idTokens == nil || idToken == "" {
		return nil
	}
	claims, err := h.idTokens.Verify(r.Context(), idToken)
	if err != nil {
		logRequestError(r.Context(), h.logger, "auth0 id token rejected", err, "")
		return nil
	}
	return map[string]any{
		"sub":     claims.UserID,
		"email":   claims.Email,
		"name":    claims.Name,
		"picture": claims.Picture,
	}
}

// githubToken is the JSON variant of the GitHub code exchange.
func (h authHandlers) githubToken(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Code string `json:"code"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(body.Code) == "" {
		writeError(w, r, http.StatusBadRequest, "code is required")
		return
	}

	token, err := h.github.Exchange(r.Context(), body.Code)
	var exchangeErr *oauth.ExchangeError
	switch {
	case err == nil:
	case errors.Is(err, oauth.ErrMissingClientID), errors.Is(err, oauth.ErrMissingSecret):
		writeError(w, r, http.StatusInternalServerError, "GitHub OAuth is not configured on the server")
		return
	case errors.As(err, &exchangeErr):
		logRequestError(r.Context(), h.logger, "github token exchange rejected", err, "")
		writeError(w, r, http.StatusBadGateway, "Failed to get access token")
		return
	default:
		logRequestError(r.Context(), h.logger, "github token exchange failed", err, "")
		writeError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	user, err := h.github.FetchUser(r.Context(), token)
	if err != nil {
		logRequestError(r.Context(), h.logger, "github user fetch failed", err, "")
		writeError(w, r, http.StatusBadRequest, "GitHub did not return a user profile")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"accessToken": token, "username": user.Login})
}

func (h authHandlers) renderExchangeFailure(w http.ResponseWriter, r *http.Request, err error, configHint string) {
	var exchangeErr *oauth.ExchangeError
	switch {
	case errors.Is(err, oauth.ErrMissingClientID), errors.Is(err, oauth.ErrMissingSecret), errors.Is(err, oauth.ErrNotConfigured):
		_ = oauth.RenderError(w, http.StatusInternalServerError, "Server not configured", configHint)
	case errors.As(err, &exchangeErr):
		logRequestError(r.Context(), h.logger, "token exchange rejected", err, "")
		_ = oauth.RenderError(w, http.StatusBadGateway, "Token exchange failed", exchangeErr.Body)
	default:
		logRequestError(r.Context(), h.logger, "token exchange failed", err, "")
		_ = oauth.RenderError(w, http.StatusInternalServerError, "Server error", err.Error())
	}
}

// forwardTo redirects to target, keeping the query string.
func forwardTo(target string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		forward(w, r, target)
	}
}

func forward(w http.ResponseWriter, r *http.Request, target string) {
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusFound)
}
