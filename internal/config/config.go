package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds runtime configuration loaded from environment variables.
type Config struct {
	DatabaseURL          string
	IdentityJWTSecret    string
	IdentityJWTIssuer    string
	SyncSecret           string
	AdminEmails          []string
	MediaStoragePath     string
	MetricsDiskPath      string
	MetricsSampleSeconds int
	CorsOrigins          []string
}

func Load() Config {
	return Config{
		DatabaseURL:          mustEnv("DATABASE_URL"),
		IdentityJWTSecret:    mustEnv("IDENTITY_JWT_SECRET"),
		IdentityJWTIssuer:    envOr("IDENTITY_JWT_ISSUER", "coursekit-identity"),
		SyncSecret:           mustEnv("IDENTITY_SYNC_SECRET"),
		AdminEmails:          parseCSV(envOr("ADMIN_EMAILS", "")),
		MediaStoragePath:     envOr("MEDIA_STORAGE_PATH", "storage/media"),
		MetricsDiskPath:      envOr("METRICS_DISK_PATH", "storage/media"),
		MetricsSampleSeconds: envOrInt("METRICS_SAMPLE_INTERVAL", 15),
		CorsOrigins:          parseCSV(envOr("CORS_ORIGINS", "")),
	}
}

// IsAdminEmail reports whether the email is on the configured allow-list.
// Consulted only when an account is first created during identity sync.
func (c Config) IsAdminEmail(email string) bool {
	needle := strings.ToLower(strings.TrimSpace(email))
	for _, candidate := range c.AdminEmails {
		if strings.ToLower(candidate) == needle {
			return true
		}
	}
	return false
}

func mustEnv(key string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		panic("missing env var: " + key)
	}
	return value
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		value := strings.TrimSpace(part)
		if value != "" {
			items = append(items, value)
		}
	}
	return items
}
