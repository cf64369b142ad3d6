package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Rahi-sm99/CodeQuest/internal/assistant"
	"github.com/Rahi-sm99/CodeQuest/internal/catalog"
	"github.com/Rahi-sm99/CodeQuest/internal/competition"
	"github.com/Rahi-sm99/CodeQuest/internal/execution"
	"github.com/Rahi-sm99/CodeQuest/internal/oauth"
	"github.com/Rahi-sm99/CodeQuest/internal/progress"
	sharedauth "github.com/Rahi-sm99/CodeQuest/shared-libs/auth"
	"github.com/Rahi-sm99/CodeQuest/shared-libs/events"
	sharederrors "github.com/Rahi-sm99/CodeQuest/shared-libs/errors"
)

var fixedNow = time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)

type fakeExecutor struct {
	executeFn func(ctx context.Context, sub execution.Submission) (execution.Result, error)
}

func (f fakeExecutor) Execute(ctx context.Context, sub execution.Submission) (execution.Result, error) {
	return f.executeFn(ctx, sub)
}

type fakeGenerator struct {
	generateFn func(ctx context.Context, system, prompt string) (string, error)
}

func (f fakeGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	return f.generateFn(ctx, system, prompt)
}

type testEnv struct {
	t        *testing.T
	router   *chi.Mux
	settings oauth.Settings
	cookies  []*http.Cookie
}

type envOptions struct {
	executor  Executor
	generator assistant.Generator
	settings  *oauth.Settings
}

func newTestEnv(t *testing.T, opts envOptions) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if opts.executor == nil {
		opts.executor = fakeExecutor{executeFn: func(context.Context, execution.Submission) (execution.Result, error) {
			return execution.Result{}, execution.ErrNotConfigured
		}}
	}
	settings := oauth.Settings{
		BaseURL: "http://codequest.test",
		GitHub:  oauth.GitHubSettings{ClientID: "gh-id", ClientSecret: "gh-secret"},
	}
	if opts.settings != nil {
		settings = *opts.settings
	}
	verifier, err := sharedauth.NewVerifier(sharedauth.Config{Mode: sharedauth.ModeNoop})
	if err != nil {
		t.Fatalf("verifier: %v", err)
	}

	router := chi.NewRouter()
	RegisterRoutes(router, Dependencies{
		Progress:     progress.NewService(progress.NewMemoryStorage(), logger, events.Discard),
		Competitions: competition.NewRegistry(func(int) int { return 0 }),
		Executor:     opts.executor,
		Assistant:    assistant.NewService(opts.generator),
		OAuth:        settings,
		GitHub:       oauth.NewGitHubProvider(settings, http.DefaultClient),
		Auth0:        oauth.NewAuth0Provider(settings, http.DefaultClient),
		Verifier:     verifier,
		Sessions:     NewSessionStore([]byte("0123456789abcdef0123456789abcdef"), false),
		Logger:       logger,
		Now:          func() time.Time { return fixedNow },
	})
	return &testEnv{t: t, router: router, settings: settings}
}

func (e *testEnv) do(method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	e.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			e.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	for _, c := range e.cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	if cookies := rec.Result().Cookies(); len(cookies) > 0 {
		e.cookies = cookies
	}
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
	return out
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

// progressView is the part of progressResponse the tests read back.
type progressView struct {
	Profile progress.Profile `json:"profile"`
	Summary struct {
		Level     int `json:"level"`
		NextLevel int `json:"nextLevel"`
	} `json:"summary"`
}

func signIn(t *testing.T, env *testEnv, email string) progressView {
	t.Helper()
	rec := env.do(http.MethodPost, "/api/progress/session/password", map[string]string{"email": email, "password": "pikachu"})
	expectStatus(t, rec, http.StatusOK)
	return decodeBody[progressView](t, rec)
}

func TestExecuteCode(t *testing.T) {
	tests := []struct {
		name       string
		body       map[string]string
		executeFn  func(context.Context, execution.Submission) (execution.Result, error)
		wantStatus int
		wantError  string
	}{
		{
			name:       "missing code",
			body:       map[string]string{"language": "python"},
			wantStatus: http.StatusBadRequest,
			wantError:  "code is required",
		},
		{
			name: "not configured",
			body: map[string]string{"code": "print(1)"},
			executeFn: func(context.Context, execution.Submission) (execution.Result, error) {
				return execution.Result{}, execution.ErrNotConfigured
			},
			wantStatus: http.StatusInternalServerError,
			wantError:  "Judge0 API key not configured. Set JUDGE0_API_KEY in server env.",
		},
		{
			name: "upstream failure",
			body: map[string]string{"code": "print(1)"},
			executeFn: func(context.Context, execution.Submission) (execution.Result, error) {
				return execution.Result{}, errors.New("judge0 exploded with secret details")
			},
			wantStatus: http.StatusInternalServerError,
			wantError:  "Code execution failed. Using demo mode.",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var executor Executor
			if tc.executeFn != nil {
				executor = fakeExecutor{executeFn: tc.executeFn}
			}
			env := newTestEnv(t, envOptions{executor: executor})
			rec := env.do(http.MethodPost, "/api/execute-code", tc.body)
			expectStatus(t, rec, tc.wantStatus)

			resp := decodeBody[executeFailure](t, rec)
			if resp.Success || resp.Error != tc.wantError {
				t.Fatalf("unexpected response %+v", resp)
			}
		})
	}
}

func TestExecuteCodeSuccess(t *testing.T) {
	tests := []struct {
		name     string
		result   execution.Result
		wantKeys []string
	}{
		{
			name:     "output",
			result:   execution.Result{Output: "3", Status: 3, StatusDescription: "Accepted"},
			wantKeys: []string{`"output":"3"`, `"error":""`, `"status":3`},
		},
		{
			name:     "empty stdout",
			result:   execution.Result{Status: 3, StatusDescription: "Accepted"},
			wantKeys: []string{`"success":true`, `"output":""`, `"error":""`, `"status":3`},
		},
		{
			name:     "zero status",
			result:   execution.Result{},
			wantKeys: []string{`"output":""`, `"error":""`, `"status":0`},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got execution.Submission
			env := newTestEnv(t, envOptions{executor: fakeExecutor{executeFn: func(_ context.Context, sub execution.Submission) (execution.Result, error) {
				got = sub
				return tc.result, nil
			}}})

			rec := env.do(http.MethodPost, "/api/execute-code", map[string]string{"code": "print(1+2)", "language": "python", "stdin": ""})
			expectStatus(t, rec, http.StatusOK)

			body := rec.Body.String()
			for _, key := range tc.wantKeys {
				if !strings.Contains(body, key) {
					t.Fatalf("expected %s in body %s", key, body)
				}
			}
			if got.Code != "print(1+2)" || got.Language != "python" {
				t.Fatalf("unexpected submission %+v", got)
			}
		})
	}
}

func TestChat(t *testing.T) {
	tests := []struct {
		name        string
		body        map[string]string
		generator   assistant.Generator
		wantStatus  int
		wantSuccess bool
		wantMessage string
	}{
		{
			name:        "unconfigured",
			body:        map[string]string{"userMessage": "why does this loop forever?"},
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Generative AI API key not configured. Set GOOGLE_GENERATIVE_AI_API_KEY in server env.",
		},
		{
			name: "empty message",
			body: map[string]string{"code": "x = 1"},
			generator: fakeGenerator{generateFn: func(context.Context, string, string) (string, error) {
				t.Fatalf("generator must not be called")
				return "", nil
			}},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "userMessage is required",
		},
		{
			name: "generation failure is not leaked",
			body: map[string]string{"userMessage": "help"},
			generator: fakeGenerator{generateFn: func(context.Context, string, string) (string, error) {
				return "", errors.New("quota exceeded for project 1234")
			}},
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Chat service is temporarily unavailable. Try again!",
		},
		{
			name: "success",
			body: map[string]string{"userMessage": "help", "code": "for i in range(3): pass"},
			generator: fakeGenerator{generateFn: func(_ context.Context, _ string, prompt string) (string, error) {
				if !strings.Contains(prompt, "USER QUESTION") {
					t.Fatalf("prompt missing question section: %q", prompt)
				}
				return "  🎮 Check your loop bounds!  ", nil
			}},
			wantStatus:  http.StatusOK,
			wantSuccess: true,
			wantMessage: "🎮 Check your loop bounds!",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t, envOptions{generator: tc.generator})
			rec := env.do(http.MethodPost, "/api/chat", tc.body)
			expectStatus(t, rec, tc.wantStatus)

			resp := decodeBody[chatResponse](t, rec)
			if resp.Success != tc.wantSuccess || resp.Message != tc.wantMessage {
				t.Fatalf("unexpected response %+v", resp)
			}
		})
	}
}

func TestAnalyzeError(t *testing.T) {
	env := newTestEnv(t, envOptions{generator: fakeGenerator{generateFn: func(context.Context, string, string) (string, error) {
		return "", errors.New("model overloaded")
	}}})

	rec := env.do(http.MethodPost, "/api/analyze-error", map[string]string{"code": "x", "language": "python"})
	expectStatus(t, rec, http.StatusBadRequest)

	rec = env.do(http.MethodPost, "/api/analyze-error", map[string]string{"code": "x", "errorOutput": "NameError: y"})
	expectStatus(t, rec, http.StatusInternalServerError)
	resp := decodeBody[analyzeResponse](t, rec)
	if resp.Success || resp.Analysis != "Error analysis unavailable" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestProgressRequiresProfile(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	rec := env.do(http.MethodGet, "/api/progress", nil)
	expectStatus(t, rec, http.StatusNotFound)
	body := decodeBody[sharederrors.ErrorResponse](t, rec)
	if body.Code != sharederrors.CodeNotFound {
		t.Fatalf("unexpected error body %+v", body)
	}

	if len(env.cookies) == 0 || env.cookies[0].Name != sessionName {
		t.Fatalf("expected a client session cookie, got %+v", env.cookies)
	}

	rec = env.do(http.MethodPost, "/api/progress/levels/1/complete", nil)
	expectStatus(t, rec, http.StatusNotFound)
}

func TestProgressFlow(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	signedIn := signIn(t, env, "ash@pallet.town")
	if signedIn.Profile.Email != "ash@pallet.town" || signedIn.Summary.NextLevel != 1 {
		t.Fatalf("unexpected login response %+v", signedIn)
	}

	rec := env.do(http.MethodPost, "/api/progress/levels/1/complete", nil)
	expectStatus(t, rec, http.StatusOK)
	first := decodeBody[struct {
		Profile progress.Profile `json:"profile"`
		Awarded bool             `json:"awarded"`
	}](t, rec)
	level, _ := catalog.LevelByID(1)
	if !first.Awarded || first.Profile.XP != level.XP {
		t.Fatalf("unexpected completion %+v", first)
	}

	rec = env.do(http.MethodPost, "/api/progress/levels/1/complete", nil)
	expectStatus(t, rec, http.StatusOK)
	again := decodeBody[struct {
		Profile progress.Profile `json:"profile"`
		Awarded bool             `json:"awarded"`
	}](t, rec)
	if again.Awarded || again.Profile.XP != level.XP {
		t.Fatalf("second completion must not award xp: %+v", again)
	}

	rec = env.do(http.MethodPut, "/api/progress", map[string]any{"xp": 500, "completedLevels": []int{2}})
	expectStatus(t, rec, http.StatusOK)
	updated := decodeBody[progressView](t, rec)
	if updated.Profile.XP != 500 || len(updated.Profile.CompletedLevels) != 2 {
		t.Fatalf("completed levels must only grow: %+v", updated.Profile)
	}
	if updated.Summary.NextLevel != 3 {
		t.Fatalf("expected next level 3, got %d", updated.Summary.NextLevel)
	}

	rec = env.do(http.MethodPut, "/api/progress", map[string]any{"xp": -1})
	expectStatus(t, rec, http.StatusBadRequest)

	rec = env.do(http.MethodPost, "/api/progress/levels/999/complete", nil)
	expectStatus(t, rec, http.StatusNotFound)

	rec = env.do(http.MethodGet, "/api/progress", nil)
	expectStatus(t, rec, http.StatusOK)

	rec = env.do(http.MethodDelete, "/api/progress/session", nil)
	expectStatus(t, rec, http.StatusNoContent)
	rec = env.do(http.MethodGet, "/api/progress", nil)
	expectStatus(t, rec, http.StatusNotFound)

	restored := signIn(t, env, "ash@pallet.town")
	if restored.Profile.XP != 500 {
		t.Fatalf("known profile must be restored, got xp %d", restored.Profile.XP)
	}
}

func TestWrongPasswordIsUnauthorized(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	signIn(t, env, "misty@cerulean.city")

	rec := env.do(http.MethodPost, "/api/progress/session/password", map[string]string{"email": "misty@cerulean.city", "password": "psyduck"})
	expectStatus(t, rec, http.StatusUnauthorized)

	rec = env.do(http.MethodPost, "/api/progress/session/password", map[string]string{"email": "", "password": ""})
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestClientsAreIsolated(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	signIn(t, env, "brock@pewter.city")

	other := &testEnv{t: t, router: env.router}
	rec := other.do(http.MethodGet, "/api/progress", nil)
	expectStatus(t, rec, http.StatusNotFound)
}

func TestAwardBadgeChecksRequirement(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	signIn(t, env, "ash@pallet.town")

	rec := env.do(http.MethodPost, "/api/progress/badges/unknown-badge", nil)
	expectStatus(t, rec, http.StatusNotFound)

	rec = env.do(http.MethodPost, "/api/progress/badges/first-steps", nil)
	expectStatus(t, rec, http.StatusConflict)

	env.do(http.MethodPost, "/api/progress/levels/1/complete", nil)
	rec = env.do(http.MethodPost, "/api/progress/badges/first-steps", nil)
	expectStatus(t, rec, http.StatusOK)
	body := decodeBody[struct {
		Profile progress.Profile `json:"profile"`
	}](t, rec)
	if len(body.Profile.Badges) != 1 || body.Profile.Badges[0] != "first-steps" {
		t.Fatalf("expected badge to be awarded, got %+v", body.Profile.Badges)
	}

	rec = env.do(http.MethodPost, "/api/progress/badges/speed-demon", nil)
	expectStatus(t, rec, http.StatusConflict)
}

func TestAwardCertificateChecksEligibility(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	signIn(t, env, "ash@pallet.town")

	cert := catalog.Certifications()[0]
	rec := env.do(http.MethodPost, "/api/progress/certificates/"+cert.ID, nil)
	expectStatus(t, rec, http.StatusConflict)

	rec = env.do(http.MethodPut, "/api/progress", map[string]any{"xp": 0, "completedLevels": cert.RequiredLevelIDs()})
	expectStatus(t, rec, http.StatusOK)

	rec = env.do(http.MethodPost, "/api/progress/certificates/"+cert.ID, nil)
	expectStatus(t, rec, http.StatusOK)

	rec = env.do(http.MethodPost, "/api/progress/certificates/nope", nil)
	expectStatus(t, rec, http.StatusNotFound)
}

func TestRedeemReward(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	signIn(t, env, "ash@pallet.town")

	rec := env.do(http.MethodPost, "/api/progress/rewards/hint-pack-5/redeem", nil)
	expectStatus(t, rec, http.StatusConflict)

	env.do(http.MethodPut, "/api/progress", map[string]any{"xp": 120})
	rec = env.do(http.MethodPost, "/api/progress/rewards/hint-pack-5/redeem", nil)
	expectStatus(t, rec, http.StatusOK)
	body := decodeBody[struct {
		Profile progress.Profile `json:"profile"`
	}](t, rec)
	if body.Profile.XP != 20 {
		t.Fatalf("expected 20 xp left, got %d", body.Profile.XP)
	}

	rec = env.do(http.MethodPost, "/api/progress/rewards/not-a-reward/redeem", nil)
	expectStatus(t, rec, http.StatusNotFound)
}

func TestTasksEvaluateDailyChallenge(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	signIn(t, env, "ash@pallet.town")

	today := catalog.DailyChallenges()[0]
	if today.DayOfWeek != fixedNow.Weekday() {
		t.Fatalf("fixture expects the monday challenge first, got %s", today.ID)
	}

	rec := env.do(http.MethodPost, "/api/progress/tasks/daily/"+today.ID+"/complete", nil)
	expectStatus(t, rec, http.StatusConflict)

	env.do(http.MethodPut, "/api/progress", map[string]any{"xp": 0, "completedLevels": today.ProblemIDs})

	rec = env.do(http.MethodGet, "/api/progress/tasks", nil)
	expectStatus(t, rec, http.StatusOK)
	resp := decodeBody[tasksResponse](t, rec)
	if !resp.Tasks.Daily[today.ID].Completed || !resp.Today.Completed {
		t.Fatalf("expected today's challenge to be completed: %+v", resp)
	}
	if resp.Tasks.CurrentStreak != 1 {
		t.Fatalf("expected streak 1, got %d", resp.Tasks.CurrentStreak)
	}

	rec = env.do(http.MethodPut, "/api/progress/tasks/weekly/unknown", map[string]any{"progress": 1})
	expectStatus(t, rec, http.StatusNotFound)
}

func TestSocialLoginPrefersVerifiedClaims(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	rec := env.do(http.MethodPost, "/api/progress/session/social", map[string]any{
		"provider": "github",
		"user":     map[string]any{"id": 42, "login": "octo", "email": "octo@example.com", "avatar_url": "https://img/octo.png"},
	})
	expectStatus(t, rec, http.StatusOK)
	resp := decodeBody[progressView](t, rec)
	if resp.Profile.ID != "42" || resp.Profile.Name != "octo" || resp.Profile.Provider != "github" {
		t.Fatalf("unexpected github profile %+v", resp.Profile)
	}

	rec = env.do(http.MethodPost, "/api/progress/session/social",
		map[string]any{"user": map[string]any{"sub": "forged", "email": "forged@example.com"}},
		"Authorization", "Bearer google-oauth2|777",
	)
	expectStatus(t, rec, http.StatusOK)
	resp = decodeBody[progressView](t, rec)
	if resp.Profile.ID != "google-oauth2|777" || resp.Profile.Provider != "google" {
		t.Fatalf("verified claims must win: %+v", resp.Profile)
	}

	rec = env.do(http.MethodPost, "/api/progress/session/social", map[string]any{"user": map[string]any{}})
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestCompetitions(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	rec := env.do(http.MethodGet, "/api/competitions/options", nil)
	expectStatus(t, rec, http.StatusOK)

	rec = env.do(http.MethodPost, "/api/competitions", map[string]int{"playersNeeded": 2, "entry": 25})
	expectStatus(t, rec, http.StatusBadRequest)

	rec = env.do(http.MethodPost, "/api/competitions", map[string]int{"playersNeeded": 2, "entry": 20})
	expectStatus(t, rec, http.StatusCreated)
	created := decodeBody[competition.Competition](t, rec)
	if created.CreatedBy != guestCreator || created.Pool != 40 || created.WinnerPayout != 30 {
		t.Fatalf("unexpected competition %+v", created)
	}

	rec = env.do(http.MethodPost, "/api/competitions/"+created.ID+"/join", nil)
	expectStatus(t, rec, http.StatusUnauthorized)

	signIn(t, env, "ash@pallet.town")
	rec = env.do(http.MethodPost, "/api/competitions/"+created.ID+"/join", nil)
	expectStatus(t, rec, http.StatusOK)
	joined := decodeBody[competition.Competition](t, rec)
	if len(joined.Participants) != 1 || joined.Resolved {
		t.Fatalf("unexpected join result %+v", joined)
	}

	rec = env.do(http.MethodPost, "/api/competitions/missing/join", nil)
	expectStatus(t, rec, http.StatusNotFound)

	rec = env.do(http.MethodGet, "/api/competitions/"+created.ID, nil)
	expectStatus(t, rec, http.StatusOK)
	found := decodeBody[competition.Competition](t, rec)
	if found.ID != created.ID || len(found.Participants) != 1 {
		t.Fatalf("unexpected competition %+v", found)
	}
	rec = env.do(http.MethodGet, "/api/competitions/missing", nil)
	expectStatus(t, rec, http.StatusNotFound)

	rec = env.do(http.MethodGet, "/api/competitions", nil)
	expectStatus(t, rec, http.StatusOK)
	list := decodeBody[struct {
		Competitions []competition.Competition `json:"competitions"`
	}](t, rec)
	if len(list.Competitions) != 1 {
		t.Fatalf("expected one competition, got %d", len(list.Competitions))
	}
}

func TestLogoutForgetsCompetitions(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	signIn(t, env, "ash@pallet.town")

	rec := env.do(http.MethodPost, "/api/competitions", map[string]int{"playersNeeded": 3, "entry": 50})
	expectStatus(t, rec, http.StatusCreated)
	created := decodeBody[competition.Competition](t, rec)

	rec = env.do(http.MethodDelete, "/api/progress/session", nil)
	expectStatus(t, rec, http.StatusNoContent)

	rec = env.do(http.MethodGet, "/api/competitions", nil)
	expectStatus(t, rec, http.StatusOK)
	list := decodeBody[struct {
		Competitions []competition.Competition `json:"competitions"`
	}](t, rec)
	if len(list.Competitions) != 0 {
		t.Fatalf("expected competitions to be dropped on sign-out, got %d", len(list.Competitions))
	}
	rec = env.do(http.MethodGet, "/api/competitions/"+created.ID, nil)
	expectStatus(t, rec, http.StatusNotFound)
}

func TestTodaysChallengeFollowsClientZone(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	type todayView struct {
		Challenge struct {
			DayOfWeek time.Weekday `json:"dayOfWeek"`
		} `json:"challenge"`
	}

	// fixedNow is Monday 09:00 UTC, which is Sunday 23:00 in Honolulu.
	tests := []struct {
		name    string
		path    string
		headers []string
		want    time.Weekday
	}{
		{name: "server clock", path: "/api/challenges/daily/today", want: time.Monday},
		{name: "query zone", path: "/api/challenges/daily/today?tz=Pacific/Honolulu", want: time.Sunday},
		{name: "header zone", path: "/api/challenges/daily/today", headers: []string{timezoneHeader, "Pacific/Honolulu"}, want: time.Sunday},
		{name: "unknown zone", path: "/api/challenges/daily/today?tz=Nowhere/Special", want: time.Monday},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.do(http.MethodGet, tc.path, nil, tc.headers...)
			expectStatus(t, rec, http.StatusOK)
			if got := decodeBody[todayView](t, rec).Challenge.DayOfWeek; got != tc.want {
				t.Fatalf("dayOfWeek = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCatalogRoutes(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	for _, path := range []string{"/api/levels", "/api/levels/1", "/api/regions", "/api/badges", "/api/challenges/daily/today", "/api/challenges/weekly", "/api/certifications", "/api/rewards", "/api/ranks"} {
		rec := env.do(http.MethodGet, path, nil)
		expectStatus(t, rec, http.StatusOK)
	}

	rec := env.do(http.MethodGet, "/api/levels/abc", nil)
	expectStatus(t, rec, http.StatusBadRequest)
	rec = env.do(http.MethodGet, "/api/levels/101", nil)
	expectStatus(t, rec, http.StatusNotFound)

	rec = env.do(http.MethodGet, "/api/levels?concept=Arrays", nil)
	expectStatus(t, rec, http.StatusOK)
	body := decodeBody[struct {
		Levels []catalog.Level `json:"levels"`
	}](t, rec)
	if len(body.Levels) == 0 {
		t.Fatalf("expected array levels")
	}
	for _, l := range body.Levels {
		if l.Concept != "Arrays" {
			t.Fatalf("unexpected concept %q", l.Concept)
		}
	}
}

func TestGitHubLogin(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	rec := env.do(http.MethodGet, "/api/auth/github/login?debug=1", nil)
	expectStatus(t, rec, http.StatusOK)
	debug := decodeBody[map[string]string](t, rec)
	if debug["redirectUri"] != "http://codequest.test/api/auth/callback/github" {
		t.Fatalf("unexpected redirect uri %q", debug["redirectUri"])
	}
	authURL, err := url.Parse(debug["authUrl"])
	if err != nil {
		t.Fatalf("parse auth url: %v", err)
	}
	if authURL.Query().Get("redirect_uri") != debug["redirectUri"] {
		t.Fatalf("authorize url must carry the derived redirect uri: %s", debug["authUrl"])
	}

	rec = env.do(http.MethodGet, "/api/auth/github/login", nil)
	expectStatus(t, rec, http.StatusFound)
	if !strings.HasPrefix(rec.Header().Get("Location"), "https://github.com/login/oauth/authorize") {
		t.Fatalf("unexpected location %q", rec.Header().Get("Location"))
	}

	unconfigured := newTestEnv(t, envOptions{settings: &oauth.Settings{BaseURL: "http://codequest.test"}})
	rec = unconfigured.do(http.MethodGet, "/api/auth/github/login", nil)
	expectStatus(t, rec, http.StatusInternalServerError)
}

func TestGitHubCallbackErrors(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	rec := env.do(http.MethodGet, "/api/auth/github/callback?error=%3Cscript%3Ealert(1)%3C%2Fscript%3E", nil)
	expectStatus(t, rec, http.StatusBadRequest)
	if strings.Contains(rec.Body.String(), "<script>alert(1)") {
		t.Fatalf("error parameter must be escaped: %s", rec.Body.String())
	}

	rec = env.do(http.MethodGet, "/api/auth/github/callback", nil)
	expectStatus(t, rec, http.StatusBadRequest)

	unconfigured := newTestEnv(t, envOptions{settings: &oauth.Settings{BaseURL: "http://codequest.test", GitHub: oauth.GitHubSettings{ClientID: "gh-id"}}})
	rec = unconfigured.do(http.MethodGet, "/api/auth/github/callback?code=abc", nil)
	expectStatus(t, rec, http.StatusInternalServerError)
}

func TestCallbackForwardsKeepQuery(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	rec := env.do(http.MethodGet, "/api/auth/callback/github?code=abc&state=xyz", nil)
	expectStatus(t, rec, http.StatusFound)
	if got := rec.Header().Get("Location"); got != "/api/auth/github/callback?code=abc&state=xyz" {
		t.Fatalf("unexpected github forward %q", got)
	}

	rec = env.do(http.MethodGet, "/api/auth/callback/auth0?code=abc", nil)
	expectStatus(t, rec, http.StatusFound)
	if got := rec.Header().Get("Location"); got != "http://codequest.test/api/auth/callback?code=abc" {
		t.Fatalf("unexpected auth0 forward %q", got)
	}
}

func TestAuth0Login(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	rec := env.do(http.MethodGet, "/api/auth/login?provider=google", nil)
	expectStatus(t, rec, http.StatusBadRequest)

	settings := oauth.Settings{
		BaseURL: "http://codequest.test",
		Auth0:   oauth.Auth0Settings{Domain: "tenant.auth0.com", ClientID: "a0-id"},
	}
	configured := newTestEnv(t, envOptions{settings: &settings})

	rec = configured.do(http.MethodGet, "/api/auth/login?provider=google", nil)
	expectStatus(t, rec, http.StatusFound)
	location, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse location: %v", err)
	}
	if location.Host != "tenant.auth0.com" || location.Query().Get("connection") != "google-oauth2" {
		t.Fatalf("unexpected auth0 location %s", location)
	}

	rec = configured.do(http.MethodGet, "/api/auth/login?provider=github", nil)
	expectStatus(t, rec, http.StatusFound)
	if got := rec.Header().Get("Location"); got != "http://codequest.test/api/auth/github/login" {
		t.Fatalf("unexpected github hand-off %q", got)
	}

	rec = configured.do(http.MethodGet, "/api/auth/callback", nil)
	expectStatus(t, rec, http.StatusBadRequest)

	rec = configured.do(http.MethodGet, "/api/auth/callback?code=abc", nil)
	expectStatus(t, rec, http.StatusInternalServerError)
}

func TestRegisteredRoutesPassSelfCheck(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	var routes []string
	err := chi.Walk(env.router, func(_ string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, route)
		return nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if err := env.settings.SelfCheck(routes); err != nil {
		t.Fatalf("self check: %v", err)
	}
}
