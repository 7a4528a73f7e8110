// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration; framework settings like
// ports, TLS, and log level live in CoreConfig.
type AppConfig struct {
	// Platform API configuration. The platform owns all domain data; the
	// dashboard talks to it with a service token.
	PlatformBaseURL string // e.g. "https://platform.example.com/api/v1"
	PlatformToken   string // bearer token for platform calls

	// MongoDB connection configuration (assignment history / audit records)
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string // secret for signing session cookies (must be strong in production)
	SessionName   string // cookie name for sessions (default: examdesk-session)
	SessionDomain string // cookie domain (blank means current host)

	// Wizard state configuration. With RedisAddr blank the wizard state is
	// held in process memory, which is fine for a single replica.
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	WizardStateTTL time.Duration // how long an abandoned wizard run survives

	// Question drafting (OpenAI-compatible endpoint). Blank API key disables
	// the feature; the wizard then only accepts hand-authored questions.
	OpenAIBaseURL string
	OpenAIAPIKey  string
	OpenAIModel   string

	// Local bootstrap admin, for installs without platform credentials yet.
	// Both must be set for the fallback sign-in to be active.
	AdminEmail        string
	AdminPasswordHash string // bcrypt hash

	// Handler timeout overrides; zero keeps the defaults.
	TimeoutPing   time.Duration
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration
}
