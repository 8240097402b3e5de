package config

import (
	"os"
	"strconv"
)

// Config captures the process-level configuration. main builds it once and
// passes pieces down; nothing reads the environment after startup.
type Config struct {
	Addr     string
	LogLevel string

	// DatabaseURL selects the listing store: empty means in-memory,
	// anything else is a postgres DSN.
	DatabaseURL string

	// PhotoDir is where replacement-swapped photo files live.
	PhotoDir string
	// PhotoBaseURL is the public prefix stored in a listing's photo URL.
	PhotoBaseURL string

	// AdminToken guards the privileged maintenance endpoints.
	AdminToken string

	// MaxBodyBytes caps JSON request bodies, MaxPhotoBytes caps uploads.
	MaxBodyBytes  int64
	MaxPhotoBytes int64
}

// Defaults suitable for local development; production overrides via env.
const (
	defaultAddr          = ":8080"
	defaultLogLevel      = "info"
	defaultPhotoDir      = "./data/photos"
	defaultPhotoBaseURL  = "/photos"
	defaultMaxBodyBytes  = 100 << 10 // 100KB
	defaultMaxPhotoBytes = 20 << 20  // 20MB
)

// FromEnv builds a Config from PAWTRAIL_* environment variables so main
// stays lean.
func FromEnv() Config {
	return Config{
		Addr:          envOr("PAWTRAIL_ADDR", defaultAddr),
		LogLevel:      envOr("PAWTRAIL_LOG_LEVEL", defaultLogLevel),
		DatabaseURL:   os.Getenv("PAWTRAIL_DATABASE_URL"),
		PhotoDir:      envOr("PAWTRAIL_PHOTO_DIR", defaultPhotoDir),
		PhotoBaseURL:  envOr("PAWTRAIL_PHOTO_BASE_URL", defaultPhotoBaseURL),
		AdminToken:    os.Getenv("PAWTRAIL_ADMIN_TOKEN"),
		MaxBodyBytes:  envBytesOr("PAWTRAIL_MAX_BODY_BYTES", defaultMaxBodyBytes),
		MaxPhotoBytes: envBytesOr("PAWTRAIL_MAX_PHOTO_BYTES", defaultMaxPhotoBytes),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBytesOr(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
