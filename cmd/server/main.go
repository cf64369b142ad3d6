package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	"github.com/go-chi/chi/v5"
	"google.golang.org/api/option"

	"github.com/Rahi-sm99/CodeQuest/internal/assistant"
	"github.com/Rahi-sm99/CodeQuest/internal/competition"
	"github.com/Rahi-sm99/CodeQuest/internal/config"
	"github.com/Rahi-sm99/CodeQuest/internal/execution"
	"github.com/Rahi-sm99/CodeQuest/internal/httpapi"
	"github.com/Rahi-sm99/CodeQuest/internal/oauth"
	"github.com/Rahi-sm99/CodeQuest/internal/progress"
	"github.com/Rahi-sm99/CodeQuest/internal/telemetry"
	sharedauth "github.com/Rahi-sm99/CodeQuest/shared-libs/auth"
	"github.com/Rahi-sm99/CodeQuest/shared-libs/events"
	"github.com/Rahi-sm99/CodeQuest/shared-libs/logging"
	sharedserver "github.com/Rahi-sm99/CodeQuest/shared-libs/server"
)

const serviceName = "codequest"

func main() {
	ctx := context.Background()
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Errorf("config error: %w", err))
	}

	logger := logging.NewLoggerWithLevel(serviceName, logging.ParseLevel(cfg.LogLevel))

	if err := telemetry.Init(ctx, telemetry.Config{
		Enabled:     cfg.Telemetry.Enabled,
		Endpoint:    cfg.Telemetry.Endpoint,
		Insecure:    cfg.Telemetry.Insecure,
		ServiceName: serviceName,
		Version:     sharedserver.Version,
	}); err != nil {
		panic(fmt.Errorf("telemetry init: %w", err))
	}

	store, closeStore, err := openStorage(ctx, cfg)
	if err != nil {
		panic(fmt.Errorf("storage init: %w", err))
	}

	progressService := progress.NewService(store, logger, events.LogSink(logger))

	verifier, err := sharedauth.NewVerifier(sharedauth.Config{
		Mode:     sharedauth.Mode(cfg.Auth.Mode),
		JWKSURL:  cfg.Auth.JWKSURL,
		Audience: cfg.Auth.Audience,
		Issuer:   cfg.Auth.Issuer,
	})
	if err != nil {
		panic(fmt.Errorf("auth verifier error: %w", err))
	}
	// Only signature-checked tokens may stand in for an Auth0 userinfo response.
	var idTokens sharedauth.Verifier
	if sharedauth.Mode(cfg.Auth.Mode) == sharedauth.ModeJWKS {
		idTokens = verifier
	}

	var generator assistant.Generator = assistant.Unconfigured{}
	if cfg.Gemini.APIKey != "" {
		gemini, err := assistant.NewGeminiGenerator(ctx, assistant.GeminiConfig{
			APIKey:          cfg.Gemini.APIKey,
			Model:           cfg.Gemini.Model,
			MaxOutputTokens: cfg.Gemini.MaxOutputTokens,
		})
		if err != nil {
			panic(fmt.Errorf("gemini client: %w", err))
		}
		generator = gemini
	} else {
		logger.Warn("GOOGLE_GENERATIVE_AI_API_KEY not set; chat and error analysis will report it per request")
	}
	if cfg.Judge0.APIKey == "" {
		logger.Warn("JUDGE0_API_KEY not set; code execution will report it per request")
	}

	settings := oauth.Settings{
		BaseURL: cfg.BaseURL,
		GitHub: oauth.GitHubSettings{
			ClientID:     cfg.GitHub.ClientID,
			ClientSecret: cfg.GitHub.ClientSecret,
			CallbackPath: cfg.GitHub.CallbackPath,
		},
		Auth0: oauth.Auth0Settings{
			Domain:       cfg.Auth0.Domain,
			ClientID:     cfg.Auth0.ClientID,
			ClientSecret: cfg.Auth0.ClientSecret,
		},
	}

	router := sharedserver.NewRouter(serviceName, sharedserver.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		Instrument:     cfg.Telemetry.Enabled,
		DataStore:      cfg.DataStore,
	}, func(r chi.Router) {
		httpapi.RegisterRoutes(r, httpapi.Dependencies{
			Progress:     progressService,
			Competitions: competition.NewRegistry(nil),
			Executor: execution.NewClient(execution.Config{
				APIKey:  cfg.Judge0.APIKey,
				APIHost: cfg.Judge0.APIHost,
				BaseURL: cfg.Judge0.BaseURL,
				Timeout: 30 * time.Second,
			}),
			Assistant: assistant.NewService(generator),
			OAuth:     settings,
			GitHub:    oauth.NewGitHubProvider(settings, nil),
			Auth0:     oauth.NewAuth0Provider(settings, nil),
			Verifier:  verifier,
			IDTokens:  idTokens,
			Sessions:  httpapi.NewSessionStore([]byte(cfg.SessionSecret), strings.HasPrefix(cfg.BaseURL, "https://")),
			Logger:    logger,
		})
	})

	var routes []string
	if err := chi.Walk(router, func(_ string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, route)
		return nil
	}); err != nil {
		panic(fmt.Errorf("route walk: %w", err))
	}
	if err := settings.SelfCheck(routes); err != nil {
		panic(fmt.Errorf("oauth self-check: %w", err))
	}
	logger.Info("oauth redirect uris",
		slog.String("github", settings.GitHubRedirectURI()),
		slog.String("auth0", settings.Auth0RedirectURI()),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	if err := sharedserver.Run(ctx, srv, logger, telemetry.Shutdown, closeStore); err != nil && !errors.Is(err, http.ErrServerClosed) {
		panic(err)
	}
}

// openStorage builds the configured progress backend and its cleanup.
func openStorage(ctx context.Context, cfg config.Config) (progress.Storage, sharedserver.ShutdownHook, error) {
	var opts []option.ClientOption
	if cfg.Storage.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Storage.CredentialsFile))
	}

	switch cfg.DataStore {
	case config.DataStoreFirestore:
		client, err := firestore.NewClientWithDatabase(ctx, cfg.Storage.GCPProjectID, cfg.Storage.FirestoreDatabase, opts...)
		if err != nil {
			return nil, nil, fmt.Errorf("firestore client: %w", err)
		}
		return progress.NewFirestoreStorage(client), func(context.Context) error { return client.Close() }, nil

	case config.DataStoreGCS:
		client, err := storage.NewClient(ctx, opts...)
		if err != nil {
			return nil, nil, fmt.Errorf("gcs client: %w", err)
		}
		return progress.NewGCSStorage(client, cfg.Storage.Bucket), func(context.Context) error { return client.Close() }, nil

	case config.DataStoreSQLite, config.DataStorePostgres:
		dialect, dsn := progress.DialectSQLite, cfg.Storage.SQLitePath
		if cfg.DataStore == config.DataStorePostgres {
			dialect, dsn = progress.DialectPostgres, cfg.Storage.DatabaseURL
		}
		db, err := progress.OpenSQL(ctx, dialect, dsn)
		if err != nil {
			return nil, nil, err
		}
		store, err := progress.NewSQLStorage(ctx, db, dialect)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return store, func(context.Context) error { return db.Close() }, nil

	default:
		return progress.NewMemoryStorage(), func(context.Context) error { return nil }, nil
	}
}
