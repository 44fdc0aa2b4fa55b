package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the portal.
type Config struct {
	App        AppConfig
	Postgres   PostgresConfig
	Redis      RedisConfig
	Logger     LoggerConfig
	Auth       AuthConfig
	OAuth      OAuthConfig
	Summarizer SummarizerConfig
	Breaker    BreakerConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
	CookieSecure          bool
	// BootstrapFirstAdmin makes the first provisioned profile an admin.
	BootstrapFirstAdmin bool
}

// OAuthConfig holds the Google sign-in client. An empty ClientID disables provider sign-in.
type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

// SummarizerConfig points at an Ollama-compatible generate endpoint.
type SummarizerConfig struct {
	BaseURL        string
	Model          string
	Token          string
	TimeoutSeconds int
}

// BreakerConfig tunes the circuit breaker in front of the profile repository.
type BreakerConfig struct {
	MaxFailures int
	OpenSeconds int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "hospital-portal"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
			CookieSecure:          getEnvAsBool("AUTH_COOKIE_SECURE", false),
			BootstrapFirstAdmin:   getEnvAsBool("AUTH_BOOTSTRAP_FIRST_ADMIN", true),
		},
		OAuth: OAuthConfig{
			GoogleClientID:     os.Getenv("OAUTH_GOOGLE_CLIENT_ID"),
			GoogleClientSecret: os.Getenv("OAUTH_GOOGLE_CLIENT_SECRET"),
			GoogleRedirectURL:  getEnv("OAUTH_GOOGLE_REDIRECT_URL", "http://localhost:8080/api/auth/google/callback"),
		},
		Summarizer: SummarizerConfig{
			BaseURL:        getEnv("SUMMARIZER_BASE_URL", "http://localhost:11434"),
			Model:          getEnv("SUMMARIZER_MODEL", "llama3"),
			Token:          os.Getenv("SUMMARIZER_TOKEN"),
			TimeoutSeconds: getEnvAsInt("SUMMARIZER_TIMEOUT_SECONDS", 60),
		},
		Breaker: BreakerConfig{
			MaxFailures: getEnvAsInt("BREAKER_MAX_FAILURES", 3),
			OpenSeconds: getEnvAsInt("BREAKER_OPEN_SECONDS", 10),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// TokenTTL returns the identity token lifetime.
func (a AuthConfig) TokenTTL() time.Duration {
	if a.AccessTokenTTLMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(a.AccessTokenTTLMinutes) * time.Minute
}

// Enabled reports whether provider sign-in is configured.
func (o OAuthConfig) Enabled() bool {
	return o.GoogleClientID != "" && o.GoogleClientSecret != ""
}

// Timeout returns the summarizer request timeout.
func (s SummarizerConfig) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
