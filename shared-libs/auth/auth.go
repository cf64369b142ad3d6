package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	sharederrors "github.com/Rahi-sm99/CodeQuest/shared-libs/errors"
)

// Mode represents the authentication strategy to apply for incoming requests.
type Mode string

const (
	// ModeJWKS verifies RS256 ID tokens against a JWKS endpoint (Auth0 in production).
	ModeJWKS Mode = "jwks"
	// ModeNoop skips signature checks: JWTs are read unverified, other tokens become the user ID. Local development only.
	ModeNoop Mode = "noop"
)

// Config captures the inputs required to initialize an authenticator.
type Config struct {
	Mode     Mode
	JWKSURL  string
	Audience string
	Issuer   string
}

// AuthenticatedUser represents the currently authenticated subject extracted from the bearer token.
type AuthenticatedUser struct {
	UserID    string
	SessionID string
	Email     string
	Name      string
	Picture   string
	ExpiresAt int64
	Token     string
}

// Verifier verifies a bearer token and returns the associated user context.
type Verifier interface {
	Verify(ctx context.Context, token string) (AuthenticatedUser, error)
}

var (
	errMissingAuthHeader = errors.New("authorization header missing")
	errInvalidAuthHeader = errors.New("authorization header is malformed")
)

type ctxKey string

const userCtxKey ctxKey = "codequest:user"

// Middleware enforces authentication for the wrapped handler using the provided verifier.
func Middleware(verifier Verifier) func(http.Handler) http.Handler {
	return authenticate(verifier, true)
}

// OptionalMiddleware verifies a bearer token when one is sent and lets anonymous requests through.
// A token that is present but invalid is still rejected.
func OptionalMiddleware(verifier Verifier) func(http.Handler) http.Handler {
	return authenticate(verifier, false)
}

func authenticate(verifier Verifier, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil {
				next.ServeHTTP(w, r)
				return
			}

			token, err := TokenFromRequest(r)
			if errors.Is(err, errMissingAuthHeader) && !required {
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				writeUnauthorized(w, r, err)
				return
			}

			claims, err := verifier.Verify(r.Context(), token)
			if err != nil {
				writeUnauthorized(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), claims)))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, r *http.Request, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(sharederrors.New(sharederrors.CodeUnauthorized, err.Error(), middleware.GetReqID(r.Context())))
}

// TokenFromRequest extracts the bearer token from the Authorization header.
func TokenFromRequest(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errMissingAuthHeader
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", errInvalidAuthHeader
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errInvalidAuthHeader
	}

	return token, nil
}

// WithUser stores an authenticated user on the context.
func WithUser(ctx context.Context, user AuthenticatedUser) context.Context {
	return context.WithValue(ctx, userCtxKey, user)
}

// UserFromContext extracts the authenticated user from the request context.
func UserFromContext(ctx context.Context) (AuthenticatedUser, bool) {
	value, ok := ctx.Value(userCtxKey).(AuthenticatedUser)
	return value, ok
}

// NewVerifier constructs a Verifier matching the supplied configuration.
func NewVerifier(cfg Config) (Verifier, error) {
	switch cfg.Mode {
	case ModeJWKS:
		return newJWKSVerifier(cfg)
	case ModeNoop:
		return newNoopVerifier(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported auth mode: %s", cfg.Mode)
	}
}
