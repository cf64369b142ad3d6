package oauth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Rahi-sm99/CodeQuest/internal/telemetry"
	"golang.org/x/oauth2"
)

// Tokens is what Auth0 returns from a code exchange.
type Tokens struct {
	AccessToken string
	IDToken     string
}

// Auth0Provider drives the Auth0 universal login flow.
type Auth0Provider struct {
	config     *oauth2.Config
	baseURL    string
	httpClient *http.Client
}

// NewAuth0Provider builds the provider. A nil client uses a traced client with a 15s timeout.
func NewAuth0Provider(s Settings, httpClient *http.Client) *Auth0Provider {
	if httpClient == nil {
		httpClient = telemetry.HTTPClient(15 * time.Second)
	}
	domain := strings.TrimRight(strings.TrimSpace(s.Auth0.Domain), "/")
	domain = strings.TrimPrefix(strings.TrimPrefix(domain, "https://"), "http://")
	baseURL := ""
	if domain != "" {
		baseURL = "https://" + domain
	}
	return &Auth0Provider{
		config: &oauth2.Config{
			ClientID:     strings.TrimSpace(s.Auth0.ClientID),
			ClientSecret: strings.TrimSpace(s.Auth0.ClientSecret),
			Endpoint: oauth2.Endpoint{
				AuthURL:   baseURL + "/authorize",
				TokenURL:  baseURL + "/oauth/token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
			RedirectURL: s.Auth0RedirectURI(),
			Scopes:      []string{"openid", "profile", "email"},
		},
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// Configured reports whether the domain and client id are set.
func (p *Auth0Provider) Configured() bool {
	return p.baseURL != "" && p.config.ClientID != ""
}

// AuthorizeURL returns the Auth0 login URL. "google" selects the google-oauth2 connection.
func (p *Auth0Provider) AuthorizeURL(provider string) (string, error) {
	if !p.Configured() {
		return "", ErrNotConfigured
	}
	opts := []oauth2.AuthCodeOption{oauth2.SetAuthURLParam("prompt", "login")}
	if provider == "google" {
		opts = append(opts, oauth2.SetAuthURLParam("connection", "google-oauth2"))
	}
	return p.config.AuthCodeURL("", opts...), nil
}

func (p *Auth0Provider) authorizeRedirect() string {
	raw, err := p.AuthorizeURL("google")
	if err != nil {
		// Unconfigured providers still derive the same redirect.
		return p.config.RedirectURL
	}
	return queryParam(raw, "redirect_uri")
}

// Exchange trades an authorization code for access and ID tokens.
func (p *Auth0Provider) Exchange(ctx context.Context, code string) (tokens Tokens, err error) {
	if !p.Configured() {
		return Tokens{}, ErrNotConfigured
	}
	if p.config.ClientSecret == "" {
		return Tokens{}, ErrMissingSecret
	}

	ctx, span := telemetry.StartSpan(ctx, "auth0.exchange")
	defer func() { telemetry.EndSpan(span, err) }()

	tok, err := p.config.Exchange(context.WithValue(ctx, oauth2.HTTPClient, p.httpClient), code)
	if err != nil {
		return Tokens{}, exchangeError(err)
	}
	idToken, _ := tok.Extra("id_token").(string)
	return Tokens{AccessToken: tok.AccessToken, IDToken: idToken}, nil
}

// FetchUser calls /userinfo with the access token.
func (p *Auth0Provider) FetchUser(ctx context.Context, accessToken string) (user map[string]any, err error) {
	ctx, span := telemetry.StartSpan(ctx, "auth0.userinfo")
	defer func() { telemetry.EndSpan(span, err) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/userinfo", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	return fetchJSON(p.httpClient, req)
}
