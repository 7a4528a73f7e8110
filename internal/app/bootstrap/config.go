// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for ExamDesk.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: platform_base_url, mongo_uri, etc.
//   - Environment variables: EXAMDESK_PLATFORM_BASE_URL, EXAMDESK_MONGO_URI, etc.
//   - Command-line flags: --platform_base_url, --mongo_uri, etc.
var appConfigKeys = []config.AppKey{
	// Platform API
	{Name: "platform_base_url", Default: "http://localhost:8080/api/v1", Desc: "Base URL of the school platform API"},
	{Name: "platform_token", Default: "", Desc: "Bearer token for platform API calls"},

	// MongoDB (assignment history)
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "exam_desk", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	// Sessions
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "examdesk-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	// Wizard state
	{Name: "redis_addr", Default: "", Desc: "Redis address for wizard state (blank means in-process memory)"},
	{Name: "redis_password", Default: "", Desc: "Redis password"},
	{Name: "redis_db", Default: 0, Desc: "Redis database number"},
	{Name: "wizard_state_ttl", Default: "4h", Desc: "How long abandoned wizard runs are kept (e.g. 4h, 90m)"},

	// Question drafting
	{Name: "openai_base_url", Default: "", Desc: "OpenAI-compatible API base URL (blank means api.openai.com)"},
	{Name: "openai_api_key", Default: "", Desc: "API key for question drafting (blank disables the feature)"},
	{Name: "openai_model", Default: "gpt-4o-mini", Desc: "Model used for question drafting"},

	// Local bootstrap admin
	{Name: "admin_email", Default: "", Desc: "Email of the local fallback admin"},
	{Name: "admin_password_hash", Default: "", Desc: "Bcrypt hash of the local fallback admin password"},

	// Handler timeouts
	{Name: "timeout_ping", Default: "0s", Desc: "Health check timeout override"},
	{Name: "timeout_short", Default: "0s", Desc: "Short operation timeout override"},
	{Name: "timeout_medium", Default: "0s", Desc: "Medium operation timeout override"},
	{Name: "timeout_long", Default: "0s", Desc: "Long operation timeout override (roster fetches, drafting)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, EXAMDESK_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "EXAMDESK", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		PlatformBaseURL: appValues.String("platform_base_url"),
		PlatformToken:   appValues.String("platform_token"),

		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),

		RedisAddr:      appValues.String("redis_addr"),
		RedisPassword:  appValues.String("redis_password"),
		RedisDB:        appValues.Int("redis_db"),
		WizardStateTTL: appValues.Duration("wizard_state_ttl", 4*time.Hour),

		OpenAIBaseURL: appValues.String("openai_base_url"),
		OpenAIAPIKey:  appValues.String("openai_api_key"),
		OpenAIModel:   appValues.String("openai_model"),

		AdminEmail:        appValues.String("admin_email"),
		AdminPasswordHash: appValues.String("admin_password_hash"),

		TimeoutPing:   appValues.Duration("timeout_ping", 0),
		TimeoutShort:  appValues.Duration("timeout_short", 0),
		TimeoutMedium: appValues.Duration("timeout_medium", 0),
		TimeoutLong:   appValues.Duration("timeout_long", 0),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// Catching misconfiguration here beats failing on the first request.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if appCfg.PlatformBaseURL == "" {
		return fmt.Errorf("platform_base_url is required")
	}

	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if coreCfg.Env == "prod" {
		if appCfg.PlatformToken == "" {
			logger.Warn("platform_token is empty; platform calls will be unauthenticated")
		}
		if len(appCfg.SessionKey) < 32 {
			return fmt.Errorf("session_key must be at least 32 characters in production")
		}
	}

	return nil
}
