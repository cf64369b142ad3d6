package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

func TestLogRequestErrorCarriesRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")

	logRequestError(ctx, logger, "judge failed", errors.New("boom"), "client-1")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line: %v (%q)", err, buf.String())
	}
	if line["requestId"] != "req-42" || line["clientId"] != "client-1" || line["error"] != "boom" {
		t.Fatalf("unexpected log line %v", line)
	}
}

func TestLogRequestErrorWithoutRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	logRequestError(context.Background(), logger, "judge failed", errors.New("boom"), "client-1")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if _, ok := line["requestId"]; ok {
		t.Fatalf("expected no requestId, got %v", line)
	}
}

func TestClientTime(t *testing.T) {
	// Monday 03:00 UTC is still Sunday evening on the US west coast.
	mondayUTC := time.Date(2024, time.January, 1, 3, 0, 0, 0, time.UTC)
	now := func() time.Time { return mondayUTC }

	tests := []struct {
		name        string
		target      string
		header      string
		wantWeekday time.Weekday
	}{
		{name: "no zone", target: "/", wantWeekday: time.Monday},
		{name: "query zone", target: "/?tz=America/Los_Angeles", wantWeekday: time.Sunday},
		{name: "header zone", target: "/", header: "America/Los_Angeles", wantWeekday: time.Sunday},
		{name: "query wins over header", target: "/?tz=Asia/Tokyo", header: "America/Los_Angeles", wantWeekday: time.Monday},
		{name: "unknown zone", target: "/?tz=Mars/Olympus", wantWeekday: time.Monday},
		{name: "server local refused", target: "/?tz=Local", wantWeekday: time.Monday},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tc.target, nil)
			if tc.header != "" {
				r.Header.Set(timezoneHeader, tc.header)
			}
			got := clientTime(r, now)
			if got.Weekday() != tc.wantWeekday {
				t.Fatalf("weekday = %v, want %v", got.Weekday(), tc.wantWeekday)
			}
			if !got.Equal(mondayUTC) {
				t.Fatalf("instant changed: %v", got)
			}
		})
	}
}
