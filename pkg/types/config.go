package types

type Config struct {
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	ServerPort      uint   `envconfig:"SERVER_PORT" default:"8080"`
	DatabaseURL     string `envconfig:"DATABASE_URL"`
	DatabaseSchema  string `envconfig:"DATABASE_SCHEMA" default:"donorconnect"`
	ReadTimeoutSec  uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"60"`

	// Session signing secret for the JWT carried in the session cookie
	SessionSecret    string `envconfig:"SESSION_SECRET"`
	CookieName       string `envconfig:"SESSION_COOKIE_NAME" default:"donorconnect_session"`
	SessionMaxAgeSec int    `envconfig:"SESSION_MAX_AGE_SEC" default:"86400"` // 1 day
	CookieSecure     bool   `envconfig:"COOKIE_SECURE" default:"false"`

	// Cookie encryption keys (base64 encoded)
	// openssl rand -base64 32
	// to generate values
	CookieHashKey  string `envconfig:"COOKIE_HASH_KEY"`  // 32 or 64 bytes
	CookieBlockKey string `envconfig:"COOKIE_BLOCK_KEY"` // 16, 24, or 32 bytes

	// CSRF protection for form posts, 32 bytes base64 encoded. Disabled when empty.
	CSRFAuthKey string `envconfig:"CSRF_AUTH_KEY"`

	// AI insights
	AnthropicAPIKey    string `envconfig:"ANTHROPIC_API_KEY"`
	AnthropicModel     string `envconfig:"ANTHROPIC_MODEL" default:"claude-3-5-sonnet-20241022"`
	AnthropicBaseURL   string `envconfig:"ANTHROPIC_BASE_URL" default:"https://api.anthropic.com"`
	AnthropicMaxTokens int    `envconfig:"ANTHROPIC_MAX_TOKENS" default:"1024"`

	// S3 bucket receiving donor report exports. Export is disabled when empty.
	ReportBucket string `envconfig:"REPORT_BUCKET"`
	ReportPrefix string `envconfig:"REPORT_PREFIX" default:"reports"`
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
