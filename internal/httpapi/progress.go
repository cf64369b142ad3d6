package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Rahi-sm99/CodeQuest/internal/catalog"
	"github.com/Rahi-sm99/CodeQuest/internal/competition"
	"github.com/Rahi-sm99/CodeQuest/internal/progress"
	"github.com/Rahi-sm99/CodeQuest/internal/progression"
	sharedauth "github.com/Rahi-sm99/CodeQuest/shared-libs/auth"
)

const serviceTimeout = 8 * time.Second

type progressResponse struct {
	Profile *progress.Profile      `json:"profile"`
	Tasks   *progress.TaskProgress `json:"tasks,omitempty"`
	Summary progression.Summary    `json:"summary"`
}

type tasksResponse struct {
	Tasks  *progress.TaskProgress     `json:"tasks"`
	Today  progression.DailyStatus    `json:"today"`
	Weekly []progression.WeeklyStatus `json:"weekly"`
}

func registerProgressRoutes(r chi.Router, service progress.Service, competitions *competition.Registry, logger *slog.Logger, now func() time.Time) {
	r.Get("/", getProgress(service, logger, now))
	r.Put("/", awardProgress(service, logger, now))

	r.Post("/session/password", passwordLogin(service, logger, now))
	r.Post("/session/social", socialLogin(service, logger, now))
	r.Delete("/session", logout(service, competitions, logger))

	r.Post("/levels/{id}/complete", completeLevel(service, logger))
	r.Put("/language", setLanguage(service, logger))
	r.Put("/profile", updateProfile(service, logger))
	r.Post("/badges/{id}", awardBadge(service, logger))
	r.Post("/certificates/{id}", awardCertificate(service, logger))
	r.Post("/rewards/{id}/redeem", redeemReward(service, logger))
	r.Post("/onboarding/complete", completeOnboarding(service, logger))
	r.Get("/achievements", getAchievements(service, logger))

	r.Get("/tasks", getTasks(service, logger, now))
	r.Post("/tasks/daily/{id}/complete", completeDaily(service, logger, now))
	r.Put("/tasks/weekly/{id}", updateWeekly(service, logger))
}

func getProgress(service progress.Service, logger *slog.Logger, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID := clientIDFromContext(r.Context())
		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		snapshot, err := service.Snapshot(ctx, clientID)
		if err != nil {
			respondProgressError(w, r, logger, "failed to load progress", err)
			return
		}
		if snapshot.Profile == nil {
			writeError(w, r, http.StatusNotFound, "no active profile")
			return
		}
		writeJSON(w, http.StatusOK, progressResponse{
			Profile: snapshot.Profile,
			Tasks:   snapshot.Tasks,
			Summary: summarize(snapshot.Profile, snapshot.Tasks, clientTime(r, now)),
		})
	}
}

func awardProgress(service progress.Service, logger *slog.Logger, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			XP              *int  `json:"xp"`
			CompletedLevels []int `json:"completedLevels"`
		}
		if err := decodeJSON(w, r, &body); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if body.XP == nil {
			writeError(w, r, http.StatusBadRequest, "xp is required")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		profile, err := service.AwardProgress(ctx, clientIDFromContext(r.Context()), *body.XP, body.CompletedLevels)
		if err != nil {
			respondProgressError(w, r, logger, "failed to award progress", err)
			return
		}
		respondProfile(ctx, w, r, service, logger, profile, now)
	}
}

func passwordLogin(service progress.Service, logger *slog.Logger, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := decodeJSON(w, r, &body); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		profile, err := service.LoginWithPassword(ctx, clientIDFromContext(r.Context()), body.Email, body.Password)
		if err != nil {
			respondProgressError(w, r, logger, "password login failed", err)
			return
		}
		respondProfile(ctx, w, r, service, logger, profile, now)
	}
}

type socialLoginRequest struct {
	Provider string         `json:"provider"`
	User     map[string]any `json:"user"`
}

func socialLogin(service progress.Service, logger *slog.Logger, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body socialLoginRequest
		if err := decodeJSON(w, r, &body); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}

		identity := identityFromPayload(body.Provider, body.User)
		if claims, ok := sharedauth.UserFromContext(r.Context()); ok {
			identity = identityFromClaims(identity, claims)
		}

		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		profile, err := service.LoginWithIdentity(ctx, clientIDFromContext(r.Context()), identity)
		if err != nil {
			respondProgressError(w, r, logger, "social login failed", err)
			return
		}
		respondProfile(ctx, w, r, service, logger, profile, now)
	}
}

// logout clears the current profile and the client's session-only competitions.
func logout(service progress.Service, competitions *competition.Registry, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID := clientIDFromContext(r.Context())
		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		if err := service.Clear(ctx, clientID); err != nil {
			respondProgressError(w, r, logger, "failed to clear session", err)
			return
		}
		competitions.Forget(clientID)
		w.WriteHeader(http.StatusNoContent)
	}
}

func completeLevel(service progress.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		levelID, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil || !catalog.ValidLevelID(levelID) {
			writeError(w, r, http.StatusNotFound, "level not found")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		profile, awarded, err := service.CompleteLevel(ctx, clientIDFromContext(r.Context()), levelID)
		if err != nil {
			respondProgressError(w, r, logger, "failed to complete level", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"profile": profile, "awarded": awarded})
	}
}

func setLanguage(service progress.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Language string `json:"language"`
		}
		if err := decodeJSON(w, r, &body); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		profile, err := service.SetLanguage(ctx, clientIDFromContext(r.Context()), body.Language)
		if err != nil {
			respondProgressError(w, r, logger, "failed to set language", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"profile": profile})
	}
}

func updateProfile(service progress.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name     string `json:"name"`
			Language string `json:"language"`
		}
		if err := decodeJSON(w, r, &body); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		profile, err := service.SetProfile(ctx, clientIDFromContext(r.Context()), body.Name, body.Language)
		if err != nil {
			respondProgressError(w, r, logger, "failed to update profile", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"profile": profile})
	}
}

func awardBadge(service progress.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		badge, ok := catalog.BadgeByID(chi.URLParam(r, "id"))
		if !ok {
			writeError(w, r, http.StatusNotFound, "badge not found")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		profile, err := service.AwardEarnedBadge(ctx, clientIDFromContext(r.Context()), badge)
		if errors.Is(err, progress.ErrRequirementNotMet) {
			writeError(w, r, http.StatusConflict, "badge requirement not met")
			return
		}
		if err != nil {
			respondProgressError(w, r, logger, "failed to award badge", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"profile": profile})
	}
}

func awardCertificate(service progress.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cert, ok := catalog.CertificationByID(chi.URLParam(r, "id"))
		if !ok {
			writeError(w, r, http.StatusNotFound, "certification not found")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		profile, err := service.AwardEarnedCertificate(ctx, clientIDFromContext(r.Context()), cert)
		if errors.Is(err, progress.ErrRequirementNotMet) {
			writeError(w, r, http.StatusConflict, "certification levels not completed")
			return
		}
		if err != nil {
			respondProgressError(w, r, logger, "failed to award certificate", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"profile": profile})
	}
}

func redeemReward(service progress.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reward, ok := catalog.RewardByID(chi.URLParam(r, "id"))
		if !ok {
			writeError(w, r, http.StatusNotFound, "reward not found")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		profile, err := service.Redeem(ctx, clientIDFromContext(r.Context()), reward.ID, reward.XPCost)
		if err != nil {
			respondProgressError(w, r, logger, "failed to redeem reward", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"profile": profile, "reward": reward})
	}
}

func completeOnboarding(service progress.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		profile, err := service.CompleteOnboarding(ctx, clientIDFromContext(r.Context()))
		if err != nil {
			respondProgressError(w, r, logger, "failed to complete onboarding", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"profile": profile})
	}
}

func getAchievements(service progress.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		profile, err := service.Load(ctx, clientIDFromContext(r.Context()))
		if err != nil {
			respondProgressError(w, r, logger, "failed to load profile", err)
			return
		}
		if profile == nil {
			writeError(w, r, http.StatusNotFound, "no active profile")
			return
		}
		stats := progression.NewStats(profile.XP, profile.CompletedLevels, 0)
		writeJSON(w, http.StatusOK, map[string]any{
			"achievements": progression.Achievements(len(stats.CompletedLevels), profile.XP),
		})
	}
}

func getTasks(service progress.Service, logger *slog.Logger, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID := clientIDFromContext(r.Context())
		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		at := clientTime(r, now)
		tasks, err := service.Evaluate(ctx, clientID, at)
		if err != nil {
			respondProgressError(w, r, logger, "failed to evaluate tasks", err)
			return
		}
		profile, err := service.Load(ctx, clientID)
		if err != nil {
			respondProgressError(w, r, logger, "failed to load profile", err)
			return
		}
		if profile == nil {
			writeError(w, r, http.StatusNotFound, "no active profile")
			return
		}
		writeJSON(w, http.StatusOK, tasksResponse{
			Tasks:  tasks,
			Today:  progression.TodayStatus(at, profile.CompletedLevels),
			Weekly: progression.WeeklyStatuses(profile.CompletedLevels, profile.XP, tasks.CurrentStreak),
		})
	}
}

func completeDaily(service progress.Service, logger *slog.Logger, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		challenge, ok := catalog.DailyChallengeByID(chi.URLParam(r, "id"))
		if !ok {
			writeError(w, r, http.StatusNotFound, "daily challenge not found")
			return
		}
		clientID := clientIDFromContext(r.Context())

		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		profile, err := service.Load(ctx, clientID)
		if err != nil {
			respondProgressError(w, r, logger, "failed to load profile", err)
			return
		}
		if profile == nil {
			writeError(w, r, http.StatusNotFound, "no active profile")
			return
		}
		if !progression.ChallengeCompleted(challenge, profile.CompletedLevels) {
			writeError(w, r, http.StatusConflict, "challenge problems not completed")
			return
		}

		tasks, err := service.RecordDailyCompletion(ctx, clientID, challenge.ID, clientTime(r, now))
		if err != nil {
			respondProgressError(w, r, logger, "failed to record daily completion", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
	}
}

func updateWeekly(service progress.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Progress  int  `json:"progress"`
			Completed bool `json:"completed"`
		}
		if err := decodeJSON(w, r, &body); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		tasks, err := service.UpdateWeeklyTask(ctx, clientIDFromContext(r.Context()), chi.URLParam(r, "id"), body.Progress, body.Completed)
		if err != nil {
			respondProgressError(w, r, logger, "failed to update weekly task", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
	}
}

// respondProfile answers a login or progress write with the full derived view.
func respondProfile(ctx context.Context, w http.ResponseWriter, r *http.Request, service progress.Service, logger *slog.Logger, profile *progress.Profile, now func() time.Time) {
	tasks, err := service.Tasks(ctx, clientIDFromContext(r.Context()))
	if err != nil {
		respondProgressError(w, r, logger, "failed to load tasks", err)
		return
	}
	writeJSON(w, http.StatusOK, progressResponse{
		Profile: profile,
		Tasks:   tasks,
		Summary: summarize(profile, tasks, clientTime(r, now)),
	})
}

func summarize(profile *progress.Profile, tasks *progress.TaskProgress, now time.Time) progression.Summary {
	streak := 0
	if tasks != nil {
		streak = tasks.CurrentStreak
	}
	return progression.Summarize(progression.Input{
		XP:                 profile.XP,
		CompletedLevels:    profile.CompletedLevels,
		Streak:             streak,
		AwardedBadges:      profile.Badges,
		EarnedCertificates: profile.Certificates,
		Now:                now,
	})
}

func respondProgressError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, message string, err error) {
	switch {
	case errors.Is(err, progress.ErrNoSession):
		writeError(w, r, http.StatusNotFound, "no active profile")
	case errors.Is(err, progress.ErrInvalidPassword):
		writeError(w, r, http.StatusUnauthorized, err.Error())
	case errors.Is(err, progress.ErrInsufficientXP), errors.Is(err, progress.ErrProfileExists):
		writeError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, progress.ErrUnknownTask), errors.Is(err, progress.ErrUnknownChallenge):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, progress.ErrMissingClientID),
		errors.Is(err, progress.ErrInvalidCredentials),
		errors.Is(err, progress.ErrInvalidIdentity),
		errors.Is(err, progress.ErrInvalidXP),
		errors.Is(err, progress.ErrUnknownLevel),
		errors.Is(err, progress.ErrInvalidLanguage),
		errors.Is(err, progress.ErrInvalidCost):
		writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		logRequestError(r.Context(), logger, message, err, clientIDFromContext(r.Context()))
		writeError(w, r, http.StatusInternalServerError, message)
	}
}

// identityFromPayload reads the user document relayed from a login popup.
func identityFromPayload(provider string, user map[string]any) progress.Identity {
	identity := progress.Identity{
		ID:       firstString(user, "id", "sub"),
		Email:    firstString(user, "email"),
		Name:     firstString(user, "name", "login", "nickname"),
		Avatar:   firstString(user, "avatar_url", "picture", "avatar"),
		Provider: strings.TrimSpace(provider),
	}
	if identity.Provider == "" {
		identity.Provider = providerFromSubject(identity.ID)
	}
	return identity
}

// identityFromClaims overlays verified token claims on the relayed identity.
func identityFromClaims(identity progress.Identity, claims sharedauth.AuthenticatedUser) progress.Identity {
	if claims.UserID != "" {
		identity.ID = claims.UserID
	}
	if claims.Email != "" {
		identity.Email = claims.Email
	}
	if claims.Name != "" {
		identity.Name = claims.Name
	}
	if claims.Picture != "" {
		identity.Avatar = claims.Picture
	}
	if identity.Provider == "" {
		identity.Provider = providerFromSubject(claims.UserID)
	}
	return identity
}

// providerFromSubject maps an Auth0 subject like "google-oauth2|123" to its provider.
func providerFromSubject(subject string) string {
	connection, _, found := strings.Cut(subject, "|")
	if !found {
		return ""
	}
	switch {
	case strings.HasPrefix(connection, "google"):
		return "google"
	case strings.HasPrefix(connection, "github"):
		return "github"
	default:
		return "auth0"
	}
}

func firstString(doc map[string]any, keys ...string) string {
	for _, key := range keys {
		switch v := doc[key].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}
