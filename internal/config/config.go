package config

import (
	"os"
	"strings"
)

type Config struct {
	MongoURL          string
	RedisURI          string
	AccessTokenSecret string
	Port              string
	FrontendURL       string
	AllowedOrigins    []string // CORS: from ALLOWED_ORIGINS or FRONTEND_URL
	Environment       string   // ENV: production, development, etc.

	// SMTP (password reset mail)
	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string

	// IMAP mailbox the incident reports arrive in
	IMAPHost     string
	IMAPPort     string
	IMAPUser     string
	IMAPPassword string

	// Translation providers
	GoogleTranslateAPIKey string
	DeepLAPIKey           string

	// Cloudinary (task attachments)
	CloudinaryName      string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))

	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		frontend := strings.TrimSpace(getEnv("FRONTEND_URL", "http://localhost:3000"))
		if frontend != "" {
			allowedOrigins = append(allowedOrigins, frontend)
		}
	}
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	return &Config{
		MongoURL:          getEnv("MONGODB_URL", "mongodb://localhost:27017/dftasks"),
		RedisURI:          getEnv("REDIS_URI", "redis://localhost:6379/0"),
		AccessTokenSecret: getEnv("ACCESS_TOKEN_SECRET", "change-me-in-production"),
		Port:              getEnv("PORT", "5000"),
		FrontendURL:       getEnv("FRONTEND_URL", "http://localhost:3000"),
		AllowedOrigins:    allowedOrigins,
		Environment:       env,

		SMTPHost: getEnv("SMTP_HOST", ""),
		SMTPPort: getEnv("SMTP_PORT", "587"),
		SMTPUser: getEnv("SMTP_USER", ""),
		SMTPPass: getEnv("SMTP_PASS", ""),

		IMAPHost:     getEnv("EMAIL_HOST", ""),
		IMAPPort:     getEnv("EMAIL_PORT", "993"),
		IMAPUser:     getEnv("EMAIL_USER", ""),
		IMAPPassword: getEnv("EMAIL_PASSWORD", ""),

		GoogleTranslateAPIKey: getEnv("GOOGLE_TRANSLATE_API_KEY", ""),
		DeepLAPIKey:           getEnv("DEEPL_API_KEY", ""),

		CloudinaryName:      getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
	}
}

// HasIMAP reports whether the mailbox listener is configured.
func (c *Config) HasIMAP() bool {
	return c.IMAPHost != "" && c.IMAPUser != "" && c.IMAPPassword != ""
}

// HasSMTP reports whether outbound mail is configured.
func (c *Config) HasSMTP() bool {
	return c.SMTPHost != "" && c.SMTPUser != "" && c.SMTPPass != ""
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
