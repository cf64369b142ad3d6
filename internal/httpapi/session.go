package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	sessionName   = "codequest_client"
	sessionKeyID  = "clientId"
	sessionMaxAge = 365 * 24 * 60 * 60
)

type clientCtxKey struct{}

// NewSessionStore returns the signed cookie store that carries the browser client id.
func NewSessionStore(secret []byte, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// clientSession resolves the browser client id, minting one on first contact.
func clientSession(store sessions.Store, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := store.Get(r, sessionName)
			if err != nil {
				// A cookie signed with an old secret yields a fresh session.
				logger.WarnContext(r.Context(), "discarding unreadable client session", slog.Any("error", err))
			}

			clientID, _ := session.Values[sessionKeyID].(string)
			if clientID == "" {
				clientID = uuid.NewString()
				session.Values[sessionKeyID] = clientID
				if err := session.Save(r, w); err != nil {
					logRequestError(r.Context(), logger, "failed to save client session", err, clientID)
					writeError(w, r, http.StatusInternalServerError, "failed to start client session")
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), clientCtxKey{}, clientID)))
		})
	}
}

func clientIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(clientCtxKey{}).(string)
	return id
}
