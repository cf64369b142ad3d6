package config

import (
	"fmt"
	"strings"

	"github.com/Rahi-sm99/CodeQuest/shared-libs/envconfig"
)

// Supported DATASTORE values.
const (
	DataStoreMemory    = "memory"
	DataStoreFirestore = "firestore"
	DataStoreGCS       = "gcs"
	DataStoreSQLite    = "sqlite"
	DataStorePostgres  = "postgres"
)

type Config struct {
	Port           string   `validate:"required,numeric"`
	LogLevel       string   `validate:"required,oneof=debug info warn error"`
	BaseURL        string   `validate:"required,url"`
	AllowedOrigins []string `validate:"dive,url"`
	SessionSecret  string   `validate:"required,min=32"`
	DataStore      string   `validate:"required,oneof=memory firestore gcs sqlite postgres"`
	Storage        StorageConfig
	Judge0         Judge0Config
	Gemini         GeminiConfig
	GitHub         GitHubConfig
	Auth0          Auth0Config
	Auth           AuthConfig
	Telemetry      TelemetryConfig
}

type StorageConfig struct {
	GCPProjectID      string
	FirestoreDatabase string
	CredentialsFile   string
	Bucket            string
	SQLitePath        string
	DatabaseURL       string
}

type Judge0Config struct {
	APIKey  string
	APIHost string `validate:"required"`
	BaseURL string `validate:"required,url"`
}

type GeminiConfig struct {
	APIKey          string
	Model           string `validate:"required"`
	MaxOutputTokens int    `validate:"gt=0"`
}

type GitHubConfig struct {
	ClientID     string
	ClientSecret string
	CallbackPath string `validate:"required,startswith=/"`
}

type Auth0Config struct {
	Domain       string
	ClientID     string
	ClientSecret string
}

type AuthConfig struct {
	Mode     string `validate:"required,oneof=noop jwks"`
	JWKSURL  string `validate:"required_if=Mode jwks,omitempty,url"`
	Audience string
	Issuer   string
}

type TelemetryConfig struct {
	Enabled  bool
	Endpoint string `validate:"required_if=Enabled true"`
	Insecure bool
}

func Load() (Config, error) {
	baseURL := strings.TrimRight(envconfig.Get("BASE_URL", "http://localhost:3000"), "/")
	auth0Domain := envconfig.Get("AUTH0_DOMAIN", "")

	cfg := Config{
		Port:           envconfig.Get("PORT", "8080"),
		LogLevel:       strings.ToLower(envconfig.Get("LOG_LEVEL", "info")),
		BaseURL:        baseURL,
		AllowedOrigins: envconfig.GetList("CORS_ALLOWED_ORIGINS", []string{baseURL}),
		SessionSecret:  envconfig.Get("SESSION_SECRET", ""),
		DataStore:      strings.ToLower(envconfig.Get("DATASTORE", DataStoreMemory)),
		Storage: StorageConfig{
			GCPProjectID:      envconfig.Get("GCP_PROJECT_ID", ""),
			FirestoreDatabase: envconfig.Get("FIRESTORE_DATABASE", "(default)"),
			CredentialsFile:   envconfig.Get("GOOGLE_CREDENTIALS_FILE", ""),
			Bucket:            envconfig.Get("PROGRESS_BUCKET", ""),
			SQLitePath:        envconfig.Get("SQLITE_PATH", "codequest.db"),
			DatabaseURL:       envconfig.Get("DATABASE_URL", ""),
		},
		Judge0: Judge0Config{
			APIKey:  envconfig.Get("JUDGE0_API_KEY", ""),
			APIHost: envconfig.Get("JUDGE0_API_HOST", "judge0-ce.p.rapidapi.com"),
			BaseURL: envconfig.Get("JUDGE0_BASE_URL", "https://judge0-ce.p.rapidapi.com"),
		},
		Gemini: GeminiConfig{
			APIKey:          envconfig.Get("GOOGLE_GENERATIVE_AI_API_KEY", ""),
			Model:           envconfig.Get("GEMINI_MODEL", "gemini-2.0-flash-exp"),
			MaxOutputTokens: envconfig.GetInt("ASSIST_MAX_OUTPUT_TOKENS", 512),
		},
		GitHub: GitHubConfig{
			ClientID:     envconfig.Get("NEXT_PUBLIC_GITHUB_CLIENT_ID", ""),
			ClientSecret: envconfig.Get("GITHUB_CLIENT_SECRET", ""),
			CallbackPath: envconfig.Get("NEXT_PUBLIC_GITHUB_CALLBACK_PATH", "/api/auth/callback/github"),
		},
		Auth0: Auth0Config{
			Domain:       auth0Domain,
			ClientID:     envconfig.Get("AUTH0_CLIENT_ID", ""),
			ClientSecret: envconfig.Get("AUTH0_CLIENT_SECRET", ""),
		},
		Auth: AuthConfig{
			Mode:     strings.ToLower(envconfig.Get("AUTH_MODE", "noop")),
			JWKSURL:  envconfig.Get("AUTH_JWKS_URL", ""),
			Audience: envconfig.Get("AUTH_AUDIENCE", ""),
			Issuer:   envconfig.Get("AUTH_ISSUER", ""),
		},
		Telemetry: TelemetryConfig{
			Enabled:  envconfig.GetBool("OTEL_ENABLED", false),
			Endpoint: envconfig.Get("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Insecure: envconfig.GetBool("OTEL_EXPORTER_OTLP_INSECURE", false),
		},
	}
	cfg.Auth = deriveAuth(cfg.Auth, cfg.Auth0)

	if err := envconfig.Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.validateStorage()
}

// deriveAuth fills JWKS settings from the Auth0 tenant when they are not set explicitly.
func deriveAuth(auth AuthConfig, auth0 Auth0Config) AuthConfig {
	if auth.Mode != "jwks" {
		return auth
	}
	domain := strings.TrimSuffix(strings.TrimPrefix(auth0.Domain, "https://"), "/")
	if domain == "" {
		return auth
	}
	if auth.JWKSURL == "" {
		auth.JWKSURL = "https://" + domain + "/.well-known/jwks.json"
	}
	if auth.Issuer == "" {
		auth.Issuer = "https://" + domain + "/"
	}
	if auth.Audience == "" {
		auth.Audience = auth0.ClientID
	}
	return auth
}

func (c Config) validateStorage() error {
	switch c.DataStore {
	case DataStoreFirestore:
		if c.Storage.GCPProjectID == "" {
			return fmt.Errorf("GCP_PROJECT_ID is required for DATASTORE=%s", c.DataStore)
		}
	case DataStoreGCS:
		if c.Storage.GCPProjectID == "" {
			return fmt.Errorf("GCP_PROJECT_ID is required for DATASTORE=%s", c.DataStore)
		}
		if c.Storage.Bucket == "" {
			return fmt.Errorf("PROGRESS_BUCKET is required for DATASTORE=%s", c.DataStore)
		}
	case DataStoreSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for DATASTORE=%s", c.DataStore)
		}
	case DataStorePostgres:
		if c.Storage.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for DATASTORE=%s", c.DataStore)
		}
	}
	return nil
}
