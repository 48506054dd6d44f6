package config

import (
	"log"
	"os"
	"strings"
)

// IdentityConfig carries the identity-provider project settings used by
// the web client and the auth flow.
type IdentityConfig struct {
	ProjectID         string
	APIKey            string
	AuthDomain        string
	StorageBucket     string
	MessagingSenderID string
	AppID             string
}

// Config holds application configuration.
type Config struct {
	Port               string
	CORSAllowOrigin    []string
	Env                string
	StoreDriver        string
	DatabaseURL        string
	MongoConfigPath    string
	GeminiAPIKey       string
	LLMModel           string
	ServiceAccountFile string
	Identity           IdentityConfig
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	UIRedirectURL      string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")
	driver := normalizeStoreDriver(getEnv("STORE_DRIVER", "memory"))

	if env == "production" && driver == "memory" {
		log.Printf("STORE_DRIVER=memory is not durable; set postgres or mongo in production")
	}

	return Config{
		Port:               getEnv("PORT", "3001"),
		CORSAllowOrigin:    splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		Env:                env,
		StoreDriver:        driver,
		DatabaseURL:        dbURL,
		MongoConfigPath:    getEnv("MONGO_CONFIG", "config.yaml"),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		LLMModel:           getEnv("LLM_MODEL", "gemini-2.0-flash-exp"),
		ServiceAccountFile: os.Getenv("SERVICE_ACCOUNT_FILE"),
		Identity: IdentityConfig{
			ProjectID:         os.Getenv("IDENTITY_PROJECT_ID"),
			APIKey:            os.Getenv("IDENTITY_API_KEY"),
			AuthDomain:        os.Getenv("IDENTITY_AUTH_DOMAIN"),
			StorageBucket:     os.Getenv("IDENTITY_STORAGE_BUCKET"),
			MessagingSenderID: os.Getenv("IDENTITY_MESSAGING_SENDER_ID"),
			AppID:             os.Getenv("IDENTITY_APP_ID"),
		},
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
		UIRedirectURL:      os.Getenv("UI_REDIRECT_URL"),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreDriver(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "postgres", "pg":
		return "postgres"
	case "mongo", "mongodb":
		return "mongo"
	default:
		return "memory"
	}
}
