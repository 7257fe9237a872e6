package config

import (
	"os"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	AuthURL     string
	JWKSURL     string // Constructed from AuthURL + /auth/v1/.well-known/jwks.json
	CORSOrigins string
	TablePrefix string

	// Change feed
	NotifyChannel string

	// Rate limiting (optional YAML file with per-family overrides)
	RateLimitConfigPath string

	// Workflow-automation pipeline (external collaborator)
	PipelineBaseURL    string
	PipelineAPIKey     string
	PipelineUserID     string
	PipelineWorkflowID string
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	tablePrefix := getTablePrefix(env)
	authURL := getEnv("AUTH_URL", "")

	// Construct JWKS URL from the identity provider URL
	jwksURL := authURL + "/auth/v1/.well-known/jwks.json"

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		DatabaseURL: getEnv("DATABASE_URL", ""),
		AuthURL:     authURL,
		JWKSURL:     jwksURL,
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix: tablePrefix,

		// Prefixed like the tables so environments sharing a database do
		// not hear each other's changes
		NotifyChannel: getEnv("NOTIFY_CHANNEL", tablePrefix+"reqwire_changes"),

		RateLimitConfigPath: getEnv("RATE_LIMIT_CONFIG", ""),

		PipelineBaseURL:    getEnv("PIPELINE_BASE_URL", ""),
		PipelineAPIKey:     getEnv("PIPELINE_API_KEY", ""),
		PipelineUserID:     getEnv("PIPELINE_USER_ID", ""),
		PipelineWorkflowID: getEnv("PIPELINE_WORKFLOW_ID", ""),
	}
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	// Auto-generate based on environment
	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
