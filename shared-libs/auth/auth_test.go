package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestOptionalMiddlewareAllowsAnonymous(t *testing.T) {
	verifier, err := NewVerifier(Config{Mode: ModeNoop})
	if err != nil {
		t.Fatalf("verifier: %v", err)
	}

	var sawUser bool
	h := OptionalMiddleware(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawUser = UserFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusNoContent || sawUser {
		t.Fatalf("expected anonymous pass-through, got %d user=%v", rec.Code, sawUser)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer user-1")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if !sawUser {
		t.Fatalf("expected user on context")
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic abc")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for malformed header, got %d", rec.Code)
	}
}

func TestMiddlewareRequiresToken(t *testing.T) {
	verifier, _ := NewVerifier(Config{Mode: ModeNoop})
	h := Middleware(verifier)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestNewVerifierRejectsUnknownMode(t *testing.T) {
	if _, err := NewVerifier(Config{Mode: "magic"}); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
	if _, err := NewVerifier(Config{Mode: ModeJWKS}); err == nil {
		t.Fatalf("expected error for missing jwks url")
	}
}

func TestJWKSVerifier(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	jwksServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"keys": []map[string]string{{
				"kid": "test-key",
				"kty": "RSA",
				"alg": "RS256",
				"use": "sig",
				"n":   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
				"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
			}},
		})
	}))
	defer jwksServer.Close()

	verifier, err := NewVerifier(Config{
		Mode:     ModeJWKS,
		JWKSURL:  jwksServer.URL,
		Audience: "client-123",
		Issuer:   "https://tenant.example.com/",
	})
	if err != nil {
		t.Fatalf("verifier: %v", err)
	}

	sign := func(claims jwt.MapClaims) string {
		tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
		tok.Header["kid"] = "test-key"
		signed, err := tok.SignedString(key)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return signed
	}

	good := sign(jwt.MapClaims{
		"sub":   "google-oauth2|42",
		"aud":   "client-123",
		"iss":   "https://tenant.example.com/",
		"exp":   time.Now().Add(time.Hour).Unix(),
		"email": "ash@example.com",
		"name":  "Ash",
	})
	user, err := verifier.Verify(context.Background(), good)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if user.UserID != "google-oauth2|42" || user.Email != "ash@example.com" || user.Name != "Ash" {
		t.Fatalf("unexpected user: %+v", user)
	}

	wrongAudience := sign(jwt.MapClaims{
		"sub": "x",
		"aud": "other",
		"iss": "https://tenant.example.com/",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	if _, err := verifier.Verify(context.Background(), wrongAudience); err == nil {
		t.Fatalf("expected audience mismatch to fail")
	}
}

func TestNoopVerifierReadsUnsignedClaims(t *testing.T) {
	verifier, err := NewVerifier(Config{Mode: ModeNoop})
	if err != nil {
		t.Fatalf("verifier: %v", err)
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub":   "auth0|abc",
		"email": "dawn@twinleaf.town",
		"name":  "Dawn",
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	user, err := verifier.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if user.UserID != "auth0|abc" || user.Email != "dawn@twinleaf.town" || user.Name != "Dawn" {
		t.Fatalf("unexpected user %+v", user)
	}

	plain, err := verifier.Verify(context.Background(), "trainer-7")
	if err != nil || plain.UserID != "trainer-7" {
		t.Fatalf("expected opaque token to be the user id, got %+v (%v)", plain, err)
	}

	if _, err := verifier.Verify(context.Background(), "a.b.c"); err == nil {
		t.Fatalf("expected malformed jwt to be rejected")
	}
}

func TestMiddlewareWritesErrorEnvelope(t *testing.T) {
	verifier, _ := NewVerifier(Config{Mode: ModeNoop})
	h := Middleware(verifier)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Code != http.StatusUnauthorized || body.Code != "unauthorized" || body.Message == "" {
		t.Fatalf("unexpected response %d %+v", rec.Code, body)
	}
}
