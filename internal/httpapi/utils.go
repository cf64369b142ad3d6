package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"
	_ "time/tzdata"

	"github.com/go-chi/chi/v5/middleware"

	sharederrors "github.com/Rahi-sm99/CodeQuest/shared-libs/errors"
	"github.com/Rahi-sm99/CodeQuest/shared-libs/logging"
)

const (
	maxBodyBytes   = 256 * 1024
	timezoneHeader = "X-Timezone"
)

var errInvalidPayload = errors.New("invalid JSON payload")

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError writes the canonical error envelope.
func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, status, sharederrors.New(errorCode(status), message, middleware.GetReqID(r.Context())))
}

func errorCode(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
		return sharederrors.CodeBadRequest
	case http.StatusUnauthorized:
		return sharederrors.CodeUnauthorized
	case http.StatusForbidden:
		return sharederrors.CodeForbidden
	case http.StatusNotFound:
		return sharederrors.CodeNotFound
	case http.StatusConflict:
		return sharederrors.CodeConflict
	case http.StatusUnprocessableEntity:
		return sharederrors.CodeUnprocessable
	case http.StatusBadGateway:
		return sharederrors.CodeBadGateway
	default:
		return sharederrors.CodeInternal
	}
}

func logRequestError(ctx context.Context, logger *slog.Logger, message string, err error, clientID string) {
	if logger == nil || err == nil {
		return
	}
	logging.WithRequestID(ctx, logger, middleware.GetReqID(ctx)).ErrorContext(ctx, message,
		slog.String("clientId", clientID),
		slog.Any("error", err),
	)
}

// decodeJSON reads a single JSON document. An empty body decodes to the zero value.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return err
		}
		return errInvalidPayload
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errInvalidPayload
	}
	return nil
}

// clientTime is now() in the caller's IANA zone, read from ?tz= or the X-Timezone header.
// Weekdays and streak dates follow the learner's calendar. Unknown zones stay UTC.
func clientTime(r *http.Request, now func() time.Time) time.Time {
	at := now()
	name := r.URL.Query().Get("tz")
	if name == "" {
		name = r.Header.Get(timezoneHeader)
	}
	if name == "" || name == "Local" {
		return at
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return at
	}
	return at.In(loc)
}
