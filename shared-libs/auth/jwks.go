package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
)

var errMissingSubject = errors.New("token missing subject claim")

// jwksVerifier validates RS256 ID tokens using a cached JWKS.
type jwksVerifier struct {
	jwks     *keyfunc.JWKS
	audience string
	issuer   string
}

func newJWKSVerifier(cfg Config) (Verifier, error) {
	if cfg.JWKSURL == "" {
		return nil, errors.New("jwks url is required")
	}

	options := keyfunc.Options{
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			// Refresh failures surface as verification errors on the next request.
		},
	}

	jwks, err := keyfunc.Get(cfg.JWKSURL, options)
	if err != nil {
		return nil, fmt.Errorf("failed to load JWKS: %w", err)
	}

	return &jwksVerifier{jwks: jwks, audience: cfg.Audience, issuer: cfg.Issuer}, nil
}

func (v *jwksVerifier) Verify(_ context.Context, token string) (AuthenticatedUser, error) {
	options := []jwt.ParserOption{
		jwt.WithLeeway(5 * time.Second),
		jwt.WithValidMethods([]string{"RS256"}),
	}
	if v.audience != "" {
		options = append(options, jwt.WithAudience(v.audience))
	}
	if v.issuer != "" {
		options = append(options, jwt.WithIssuer(v.issuer))
	}

	t, err := jwt.Parse(token, v.jwks.Keyfunc, options...)
	if err != nil {
		return AuthenticatedUser{}, fmt.Errorf("token verification failed: %w", err)
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return AuthenticatedUser{}, errors.New("unexpected claims type")
	}

	return userFromClaims(claims, token)
}

func userFromClaims(claims jwt.MapClaims, token string) (AuthenticatedUser, error) {
	subject, _ := claims["sub"].(string)
	if subject == "" {
		return AuthenticatedUser{}, errMissingSubject
	}

	user := AuthenticatedUser{UserID: subject, Token: token}
	user.SessionID, _ = claims["sid"].(string)
	user.Email, _ = claims["email"].(string)
	user.Name, _ = claims["name"].(string)
	user.Picture, _ = claims["picture"].(string)
	if expRaw, ok := claims["exp"].(float64); ok {
		user.ExpiresAt = int64(expRaw)
	}
	return user, nil
}
