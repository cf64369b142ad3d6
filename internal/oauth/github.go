package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Rahi-sm99/CodeQuest/internal/telemetry"
	"golang.org/x/oauth2"
	githubendpoint "golang.org/x/oauth2/github"
)

const githubAPIBaseURL = "https://api.github.com"

// GitHubUser is the subset of the GitHub user resource the app reads.
// Raw keeps the full document for the popup payload.
type GitHubUser struct {
	ID        int64          `json:"id"`
	Login     string         `json:"login"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	AvatarURL string         `json:"avatar_url"`
	Raw       map[string]any `json:"-"`
}

// GitHubProvider drives the GitHub code flow.
type GitHubProvider struct {
	config     *oauth2.Config
	apiBaseURL string
	httpClient *http.Client
}

// NewGitHubProvider builds the provider. A nil client uses a traced client with a 15s timeout.
func NewGitHubProvider(s Settings, httpClient *http.Client) *GitHubProvider {
	if httpClient == nil {
		httpClient = telemetry.HTTPClient(15 * time.Second)
	}
	return &GitHubProvider{
		config: &oauth2.Config{
			ClientID:     strings.TrimSpace(s.GitHub.ClientID),
			ClientSecret: strings.TrimSpace(s.GitHub.ClientSecret),
			Endpoint:     githubendpoint.Endpoint,
			RedirectURL:  s.GitHubRedirectURI(),
			Scopes:       []string{"repo", "user"},
		},
		apiBaseURL: githubAPIBaseURL,
		httpClient: httpClient,
	}
}

// RedirectURI is the derived callback URI.
func (p *GitHubProvider) RedirectURI() string {
	return p.config.RedirectURL
}

// AuthorizeURL returns the GitHub consent URL.
func (p *GitHubProvider) AuthorizeURL() (string, error) {
	if p.config.ClientID == "" {
		return "", ErrMissingClientID
	}
	return p.config.AuthCodeURL(""), nil
}

func (p *GitHubProvider) authorizeRedirect() string {
	return queryParam(p.config.AuthCodeURL(""), "redirect_uri")
}

// Exchange trades an authorization code for an access token.
func (p *GitHubProvider) Exchange(ctx context.Context, code string) (token string, err error) {
	if p.config.ClientID == "" {
		return "", ErrMissingClientID
	}
	if p.config.ClientSecret == "" {
		return "", ErrMissingSecret
	}

	ctx, span := telemetry.StartSpan(ctx, "github.exchange")
	defer func() { telemetry.EndSpan(span, err) }()

	tok, err := p.config.Exchange(context.WithValue(ctx, oauth2.HTTPClient, p.httpClient), code)
	if err != nil {
		return "", exchangeError(err)
	}
	return tok.AccessToken, nil
}

// FetchUser loads the GitHub profile for an access token.
func (p *GitHubProvider) FetchUser(ctx context.Context, accessToken string) (user *GitHubUser, err error) {
	ctx, span := telemetry.StartSpan(ctx, "github.user")
	defer func() { telemetry.EndSpan(span, err) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiBaseURL+"/user", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "token "+accessToken)
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	raw, err := fetchJSON(p.httpClient, req)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	user = &GitHubUser{Raw: raw}
	if err := json.Unmarshal(encoded, user); err != nil {
		return nil, fmt.Errorf("decode github user: %w", err)
	}
	return user, nil
}

func fetchJSON(client *http.Client, req *http.Request) (map[string]any, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrProfileUnavailable, resp.StatusCode)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileUnavailable, err)
	}
	if len(body) == 0 {
		return nil, ErrProfileUnavailable
	}
	return body, nil
}

// exchangeError keeps the provider's response for the diagnostics page.
func exchangeError(err error) error {
	var retrieve *oauth2.RetrieveError
	if errors.As(err, &retrieve) {
		status := http.StatusBadGateway
		if retrieve.Response != nil {
			status = retrieve.Response.StatusCode
		}
		return &ExchangeError{Status: status, Body: string(retrieve.Body)}
	}
	if strings.Contains(err.Error(), "missing access_token") {
		return &ExchangeError{Status: http.StatusOK, Body: err.Error()}
	}
	return fmt.Errorf("token exchange: %w", err)
}
