package config

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string
	PublicBaseURL   string
}

// Enabled reports whether enough of R2 is configured to presign uploads.
func (c R2Config) Enabled() bool {
	return c.AccountID != "" && c.AccessKeyID != "" && c.SecretAccessKey != "" && c.BucketName != ""
}

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

func (c GoogleConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

type AdminConfig struct {
	Name     string
	Email    string
	Password string
	UserID   string
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type Config struct {
	DatabaseURL string
	Port        string
	Environment string
	LogLevel    string
	JWTSecret   string
	TokenTTL    time.Duration
	FrontendURL string
	Admin       AdminConfig
	RateLimit   RateLimitConfig
	CorsConfig  cors.Options
	R2          R2Config
	Google      GoogleConfig
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load reads the optional env file and then the process environment.
// JWT_SECRET and ADMIN_PASSWORD have no fallback: a missing value is an error.
func Load() (Config, error) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		logrus.Infof("No %s file found, using process environment", envFile)
	}

	cfg := Config{
		DatabaseURL: getEnv("DATABASE_URL", getEnv("DB_URL", "")),
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		TokenTTL:    getEnvAsDuration("TOKEN_TTL", 7*24*time.Hour),
		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:5173"), "/"),
		Admin: AdminConfig{
			Name:     getEnv("ADMIN_NAME", "Admin"),
			Email:    strings.ToLower(strings.TrimSpace(getEnv("ADMIN_EMAIL", "admin@example.com"))),
			Password: getEnv("ADMIN_PASSWORD", ""),
			UserID:   strings.ToUpper(strings.TrimSpace(getEnv("ADMIN_USER_ID", ""))),
		},
		RateLimit: RateLimitConfig{
			RPS:   getEnvAsFloat("RATE_LIMIT_RPS", 1),
			Burst: getEnvAsInt("RATE_LIMIT_BURST", 10),
		},
		CorsConfig: CorsConfig(splitList(getEnv("CORS_ALLOWED_ORIGINS", "*"))),
		R2: R2Config{
			AccountID:       getEnv("R2_ACCOUNT_ID", ""),
			AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
			BucketName:      getEnv("R2_BUCKET_NAME", ""),
			Region:          getEnv("R2_REGION", "auto"),
			PublicBaseURL:   strings.TrimRight(getEnv("R2_PUBLIC_BASE_URL", ""), "/"),
		},
		Google: GoogleConfig{
			ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/api/auth/google/callback"),
		},
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET environment variable is not set")
	}
	if cfg.Admin.Password == "" {
		return Config{}, fmt.Errorf("ADMIN_PASSWORD environment variable is not set")
	}
	if cfg.TokenTTL <= 0 {
		return Config{}, fmt.Errorf("TOKEN_TTL must be positive, got %s", cfg.TokenTTL)
	}

	return cfg, nil
}

// Gets the env by key or fallbacks
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return v
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func CorsConfig(origins []string) cors.Options {
	return cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		// Tokens travel in the Authorization header, not cookies.
		AllowCredentials: false,
	}
}
