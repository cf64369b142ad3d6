package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Rahi-sm99/CodeQuest/internal/catalog"
	"github.com/Rahi-sm99/CodeQuest/internal/progression"
)

func registerCatalogRoutes(r chi.Router, now func() time.Time) {
	r.Get("/levels", listLevels)
	r.Get("/levels/{id}", getLevel)
	r.Get("/regions", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"regions": catalog.Regions()})
	})
	r.Get("/badges", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"badges": catalog.Badges()})
	})
	r.Get("/challenges/daily", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"challenges": catalog.DailyChallenges()})
	})
	r.Get("/challenges/daily/today", todaysChallenge(now))
	r.Get("/challenges/weekly", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"tasks": catalog.WeeklyTasks()})
	})
	r.Get("/certifications", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"certifications": catalog.Certifications()})
	})
	r.Get("/rewards", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"rewards": catalog.Rewards()})
	})
	r.Get("/ranks", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ranks": catalog.Ranks()})
	})
}

func listLevels(w http.ResponseWriter, r *http.Request) {
	if concept := r.URL.Query().Get("concept"); concept != "" {
		writeJSON(w, http.StatusOK, map[string]any{"levels": catalog.LevelsByConcept(concept)})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"levels": catalog.Levels(), "concepts": catalog.Concepts()})
}

func getLevel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "level id must be a number")
		return
	}
	level, ok := catalog.LevelByID(id)
	if !ok {
		writeError(w, r, http.StatusNotFound, "level not found")
		return
	}
	writeJSON(w, http.StatusOK, level)
}

func todaysChallenge(now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		challenge := progression.TodaysChallenge(clientTime(r, now))
		writeJSON(w, http.StatusOK, map[string]any{
			"challenge": challenge,
			"problems":  progression.ChallengeProblems(challenge),
		})
	}
}
