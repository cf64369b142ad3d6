package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// noopVerifier trusts the bearer token without checking a signature.
// JWT-shaped tokens contribute their claims; any other token is taken as the user id.
type noopVerifier struct {
	parser *jwt.Parser
}

func newNoopVerifier(_ Config) Verifier {
	return noopVerifier{parser: jwt.NewParser()}
}

func (v noopVerifier) Verify(_ context.Context, token string) (AuthenticatedUser, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return AuthenticatedUser{}, errors.New("token must not be empty")
	}
	if strings.Count(token, ".") != 2 {
		return AuthenticatedUser{UserID: token, Token: token}, nil
	}

	claims := jwt.MapClaims{}
	if _, _, err := v.parser.ParseUnverified(token, claims); err != nil {
		return AuthenticatedUser{}, err
	}
	return userFromClaims(claims, token)
}
