package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the jury API service.
type Config struct {
	AppName          string
	AppEnv           string
	AppPort          string
	DatabaseURL      string
	RedisURL         string
	NATSURL          string
	EventSubjectBase string
	JWTSecret        string
	ScoreboardTTL    time.Duration
	SaveRateLimit    int
	SaveRateWindow   time.Duration
	SeedEnabled      bool
	SeedToken        string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("JURY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Ignite Jury API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("events.subject_base", "jury")
	v.SetDefault("scoreboard.cache_ttl", "30s")
	v.SetDefault("save.rate_limit", 20)
	v.SetDefault("save.rate_window", "10s")

	ttl, err := time.ParseDuration(v.GetString("scoreboard.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid scoreboard cache ttl: %w", err)
	}

	window, err := time.ParseDuration(v.GetString("save.rate_window"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid save rate window: %w", err)
	}

	cfg := Config{
		AppName:          v.GetString("app.name"),
		AppEnv:           v.GetString("app.env"),
		AppPort:          v.GetString("app.port"),
		DatabaseURL:      v.GetString("database.url"),
		RedisURL:         v.GetString("redis.url"),
		NATSURL:          v.GetString("nats.url"),
		EventSubjectBase: v.GetString("events.subject_base"),
		JWTSecret:        v.GetString("jwt.secret"),
		ScoreboardTTL:    ttl,
		SaveRateLimit:    v.GetInt("save.rate_limit"),
		SaveRateWindow:   window,
		SeedEnabled:      v.GetBool("seed.enabled"),
		SeedToken:        v.GetString("seed.token"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.SaveRateLimit <= 0 {
		cfg.SaveRateLimit = 20
	}

	return cfg, nil
}
