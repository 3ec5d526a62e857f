package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port string

	// Env is "dev" (default) or "prod". When "prod", JWT_SECRET must be set and not the default.
	Env string

	JWTSecret string
	// JWTExpireHours is the token lifetime in hours (default 24). Set via JWT_EXPIRE_HOURS.
	JWTExpireHours int

	// AdminUser/AdminPass are the single operator account. ADMIN_PASS_HASH
	// (bcrypt) takes precedence over ADMIN_PASS when set.
	AdminUser     string
	AdminPass     string
	AdminPassHash string

	// BlobBackend is "disk" (default), "postgres", or "memory".
	BlobBackend string
	// DataDir is the diskv base path (default ~/.habitguard).
	DataDir string

	DBHost string
	DBPort string
	DBName string
	DBUser string
	DBPass string

	// BlockedPackages are the foreground application identifiers that are
	// candidates for blocking. Fixed at startup, comma-separated via
	// BLOCKED_PACKAGES.
	BlockedPackages []string

	// ResetBoundary is the daily "HH:MM" boundary at which accomplished
	// flags are cleared (default 23:59).
	ResetBoundary string

	// EventQueueSize bounds the monitor's inbound event channel (default 64).
	EventQueueSize int

	// TLSCertFile and TLSKeyFile enable HTTPS when both are set.
	TLSCertFile string
	TLSKeyFile  string

	// LogFormat is "text" (default) or "json" for structured logging.
	LogFormat string

	// CORSAllowedOrigins is set via CORS_ALLOWED_ORIGINS (comma-separated).
	// When empty, no CORS headers are sent (same-origin only).
	CORSAllowedOrigins []string
}

func Load() Config {
	return Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "dev"),

		JWTSecret:      getEnv("JWT_SECRET", "supersecretkey"),
		JWTExpireHours: getEnvInt("JWT_EXPIRE_HOURS", 24),

		AdminUser:     getEnv("ADMIN_USER", "admin"),
		AdminPass:     getEnv("ADMIN_PASS", "admin"),
		AdminPassHash: getEnv("ADMIN_PASS_HASH", ""),

		BlobBackend: getEnv("BLOB_BACKEND", "disk"),
		DataDir:     getEnv("DATA_DIR", defaultDataDir()),

		DBHost: getEnv("DB_HOST", "localhost"),
		DBPort: getEnv("DB_PORT", "5432"),
		DBName: getEnv("DB_NAME", "habitguard"),
		DBUser: getEnv("DB_USER", "habitguard"),
		DBPass: getEnv("DB_PASS", "habitguard"),

		BlockedPackages: splitList(getEnv("BLOCKED_PACKAGES", "com.instagram.android")),

		ResetBoundary:  getEnv("RESET_BOUNDARY", "23:59"),
		EventQueueSize: getEnvInt("EVENT_QUEUE_SIZE", 64),

		TLSCertFile: getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:  getEnv("TLS_KEY_FILE", ""),

		LogFormat: getEnv("LOG_FORMAT", "text"),

		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "")),
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".habitguard"
	}
	return home + string(os.PathSeparator) + ".habitguard"
}

// splitList splits a comma-separated list and trims spaces. Empty strings are omitted.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
