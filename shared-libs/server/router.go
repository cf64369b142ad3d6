package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Rahi-sm99/CodeQuest/shared-libs/dto"
)

// Version is reported by /healthz.
const Version = "v0.1.0"

// Options tunes the default middleware stack.
type Options struct {
	// AllowedOrigins enables CORS with credentials for the listed origins.
	AllowedOrigins []string
	// Instrument wraps every request in an OpenTelemetry server span.
	Instrument bool
	// DataStore is echoed by /healthz.
	DataStore string
}

// NewRouter returns a chi router pre-configured with default middleware and a health endpoint.
func NewRouter(service string, opts Options, register func(r chi.Router)) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	if opts.Instrument {
		r.Use(otelhttp.NewMiddleware(service))
	}

	if len(opts.AllowedOrigins) > 0 {
		c := cors.New(cors.Options{
			AllowedOrigins:   opts.AllowedOrigins,
			AllowCredentials: true,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Timezone"},
		})
		r.Use(c.Handler)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, dto.HealthResponse{Status: "ok", Service: service, Version: Version, DataStore: opts.DataStore})
	})

	if register != nil {
		register(r)
	}

	return r
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
