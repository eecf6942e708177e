package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the portal service.
type Config struct {
	AppName           string
	AppEnv            string
	AppPort           string
	AllowedOrigins    []string
	BackendURL        string
	BackendTimeout    time.Duration
	DatabaseURL       string
	RedisURL          string
	NATSURL           string
	EventSubject      string
	CookieDomain      string
	CookieSecure      bool
	SessionTTL        time.Duration
	DashboardCacheTTL time.Duration
	MaxUploadMB       int
	LoginRateLimit    int
	LoginRateWindow   time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// IsProduction reports whether the service runs in production.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("PORTAL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Campus Portal")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.allowed_origins", "http://localhost:3000")
	v.SetDefault("backend.timeout", "10s")
	v.SetDefault("events.subject", "portal.events")
	v.SetDefault("session.ttl", "24h")
	v.SetDefault("dashboard.cache_ttl", "2m")
	v.SetDefault("upload.max_mb", 2)
	v.SetDefault("login.rate_limit", 10)
	v.SetDefault("login.rate_window", "1m")

	backendTimeout, err := parseDuration(v, "backend.timeout", 10*time.Second)
	if err != nil {
		return Config{}, err
	}
	sessionTTL, err := parseDuration(v, "session.ttl", 24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	cacheTTL, err := parseDuration(v, "dashboard.cache_ttl", 2*time.Minute)
	if err != nil {
		return Config{}, err
	}
	loginWindow, err := parseDuration(v, "login.rate_window", time.Minute)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		AllowedOrigins:    splitList(v.GetString("app.allowed_origins")),
		BackendURL:        strings.TrimSpace(v.GetString("backend.url")),
		BackendTimeout:    backendTimeout,
		DatabaseURL:       v.GetString("database.url"),
		RedisURL:          v.GetString("redis.url"),
		NATSURL:           v.GetString("nats.url"),
		EventSubject:      v.GetString("events.subject"),
		CookieDomain:      v.GetString("cookie.domain"),
		CookieSecure:      v.GetBool("cookie.secure"),
		SessionTTL:        sessionTTL,
		DashboardCacheTTL: cacheTTL,
		MaxUploadMB:       v.GetInt("upload.max_mb"),
		LoginRateLimit:    v.GetInt("login.rate_limit"),
		LoginRateWindow:   loginWindow,
	}

	if cfg.BackendURL == "" {
		return Config{}, fmt.Errorf("backend url must be provided")
	}

	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = 2
	}

	if cfg.IsProduction() {
		cfg.CookieSecure = true
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return fallback, nil
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if parsed <= 0 {
		return fallback, nil
	}
	return parsed, nil
}

func splitList(input string) []string {
	parts := strings.Split(input, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
