package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Rahi-sm99/CodeQuest/internal/competition"
	"github.com/Rahi-sm99/CodeQuest/internal/progress"
)

const guestCreator = "guest"

func registerCompetitionRoutes(r chi.Router, registry *competition.Registry, service progress.Service, logger *slog.Logger) {
	r.Get("/", listCompetitions(registry))
	r.Get("/options", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, competition.AllowedOptions())
	})
	r.Get("/{id}", getCompetition(registry))
	r.Post("/", createCompetition(registry, service, logger))
	r.Post("/{id}/join", joinCompetition(registry, service, logger))
}

func listCompetitions(registry *competition.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"competitions": registry.List(clientIDFromContext(r.Context()))})
	}
}

func getCompetition(registry *competition.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		found, err := registry.Get(clientIDFromContext(r.Context()), chi.URLParam(r, "id"))
		if err != nil {
			respondCompetitionError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, found)
	}
}

func createCompetition(registry *competition.Registry, service progress.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			PlayersNeeded int `json:"playersNeeded"`
			Entry         int `json:"entry"`
		}
		if err := decodeJSON(w, r, &body); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		clientID := clientIDFromContext(r.Context())

		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		creator := guestCreator
		profile, err := service.Load(ctx, clientID)
		if err != nil {
			respondProgressError(w, r, logger, "failed to load profile", err)
			return
		}
		if profile != nil {
			creator = profile.Email
		}

		created, err := registry.Create(clientID, creator, body.PlayersNeeded, body.Entry)
		if err != nil {
			respondCompetitionError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func joinCompetition(registry *competition.Registry, service progress.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID := clientIDFromContext(r.Context())

		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		profile, err := service.Load(ctx, clientID)
		if err != nil {
			respondProgressError(w, r, logger, "failed to load profile", err)
			return
		}
		if profile == nil {
			writeError(w, r, http.StatusUnauthorized, "sign in to join a competition")
			return
		}

		joined, err := registry.Join(clientID, chi.URLParam(r, "id"), profile.Email)
		if err != nil {
			respondCompetitionError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, joined)
	}
}

func respondCompetitionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, competition.ErrNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, competition.ErrResolved):
		writeError(w, r, http.StatusConflict, err.Error())
	default:
		writeError(w, r, http.StatusBadRequest, err.Error())
	}
}
