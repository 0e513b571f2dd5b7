// Package config centralizes every tunable of the backend. All values come
// from environment variables with sane development defaults; cmd/api loads
// .env first so local runs need no exported shell state.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Settings holds the full application configuration for one process.
type Settings struct {
	// Database
	MongoURL     string
	DatabaseName string

	// Security
	SecretKey         string
	AccessTokenExpiry time.Duration

	// HTTP
	ListenAddr  string
	APIPrefix   string
	CORSOrigins []string

	// File uploads
	UploadDir         string
	MaxUploadSize     int64
	AllowedUploadExts []string

	// AI classification (Google Gemini via langchaingo)
	GeminiAPIKey string
	GeminiModel  string

	// Logging
	LogLevel  string
	LogFormat string

	// Bootstrap
	BootstrapTimeout time.Duration
	Environment      string
}

// defaultCORSOrigins covers the local frontend dev servers and the
// docker-compose frontend host.
var defaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://localhost:3001",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:3001",
	"http://frontend:3000",
}

// Load reads settings from the environment.
func Load() *Settings {
	return &Settings{
		MongoURL:     getenv("MONGODB_URL", "mongodb://localhost:27017"),
		DatabaseName: getenv("DATABASE_NAME", "consultant_tracker"),

		SecretKey:         getenv("SECRET_KEY", "your-secret-key-change-this-in-production"),
		AccessTokenExpiry: time.Duration(getint("ACCESS_TOKEN_EXPIRE_MINUTES", 30)) * time.Minute,

		ListenAddr:  getenv("LISTEN_ADDR", ":8080"),
		APIPrefix:   getenv("API_PREFIX", "/api"),
		CORSOrigins: corsOrigins(),

		UploadDir:         getenv("UPLOAD_DIR", "uploads"),
		MaxUploadSize:     int64(getint("MAX_UPLOAD_SIZE", 10*1024*1024)),
		AllowedUploadExts: []string{".pdf", ".doc", ".docx"},

		GeminiAPIKey: getenv("GEMINI_API_KEY", ""),
		GeminiModel:  getenv("GEMINI_MODEL", "gemini-pro"),

		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "text"),

		BootstrapTimeout: time.Duration(getint("BOOTSTRAP_TIMEOUT_SECONDS", 30)) * time.Second,
		Environment:      getenv("ENVIRONMENT", "development"),
	}
}

func (s *Settings) IsProduction() bool {
	return strings.EqualFold(s.Environment, "production")
}

// corsOrigins merges the built-in development origins with the
// comma-separated CORS_ORIGINS variable.
func corsOrigins() []string {
	origins := append([]string(nil), defaultCORSOrigins...)
	for _, o := range strings.Split(os.Getenv("CORS_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
