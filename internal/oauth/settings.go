// Package oauth runs the popup-based GitHub and Auth0 authorization code flows.
package oauth

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// Callback routes served by this process.
const (
	GitHubLoginPath        = "/api/auth/github/login"
	GitHubCallbackPath     = "/api/auth/github/callback"
	GitHubForwardPath      = "/api/auth/callback/github"
	Auth0LoginPath         = "/api/auth/login"
	Auth0CallbackPath      = "/api/auth/callback"
	Auth0ForwardPath       = "/api/auth/callback/auth0"
	DefaultGitHubCallback  = GitHubForwardPath
	defaultAuth0RedirectTo = Auth0ForwardPath
)

var (
	// ErrMissingClientID indicates the provider client id is unset.
	ErrMissingClientID = errors.New("client id missing")
	// ErrMissingSecret indicates the provider client secret is unset.
	ErrMissingSecret = errors.New("client secret missing")
	// ErrNotConfigured indicates the Auth0 domain or client id is unset.
	ErrNotConfigured = errors.New("auth0 not configured")
	// ErrProfileUnavailable indicates the provider returned no user profile.
	ErrProfileUnavailable = errors.New("user profile unavailable")
)

// ExchangeError is a token exchange rejected by the provider.
type ExchangeError struct {
	Status int
	Body   string
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("token exchange failed with status %d", e.Status)
}

// GitHubSettings configures the GitHub OAuth app.
type GitHubSettings struct {
	ClientID     string
	ClientSecret string
	CallbackPath string
}

// Auth0Settings configures the Auth0 application.
type Auth0Settings struct {
	Domain       string
	ClientID     string
	ClientSecret string
}

// Settings holds every provider setting. Redirect URIs are derived from BaseURL once.
type Settings struct {
	BaseURL string
	GitHub  GitHubSettings
	Auth0   Auth0Settings
}

func (s Settings) base() string {
	return strings.TrimRight(strings.TrimSpace(s.BaseURL), "/")
}

// GitHubCallback is the configured GitHub callback path.
func (s Settings) GitHubCallback() string {
	path := strings.TrimSpace(s.GitHub.CallbackPath)
	if path == "" {
		return DefaultGitHubCallback
	}
	return path
}

// GitHubRedirectURI is sent both on authorize and on token exchange.
func (s Settings) GitHubRedirectURI() string {
	return s.base() + s.GitHubCallback()
}

// Auth0RedirectURI is sent both on authorize and on token exchange.
func (s Settings) Auth0RedirectURI() string {
	return s.base() + defaultAuth0RedirectTo
}

// SelfCheck validates the derived redirect URIs against the routes this server handles.
func (s Settings) SelfCheck(routes []string) error {
	base, err := url.Parse(s.base())
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return fmt.Errorf("base url %q must be an absolute http(s) url", s.BaseURL)
	}

	callback := s.GitHubCallback()
	if !strings.HasPrefix(callback, "/") {
		return fmt.Errorf("github callback path %q must start with /", callback)
	}
	if !slices.Contains(routes, callback) {
		return fmt.Errorf("github callback path %q is not served by this process", callback)
	}
	if !slices.Contains(routes, defaultAuth0RedirectTo) {
		return fmt.Errorf("auth0 callback path %q is not served by this process", defaultAuth0RedirectTo)
	}

	github := NewGitHubProvider(s, nil)
	if err := sameRedirect(github.authorizeRedirect(), github.config.RedirectURL); err != nil {
		return fmt.Errorf("github: %w", err)
	}
	auth0 := NewAuth0Provider(s, nil)
	if err := sameRedirect(auth0.authorizeRedirect(), auth0.config.RedirectURL); err != nil {
		return fmt.Errorf("auth0: %w", err)
	}
	return nil
}

func sameRedirect(authorize, exchange string) error {
	if authorize != exchange {
		return fmt.Errorf("authorize redirect %q differs from exchange redirect %q", authorize, exchange)
	}
	return nil
}
