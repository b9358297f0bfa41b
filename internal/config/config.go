package config

import (
	"flag"
	"regexp"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseDSN string        `env:"DATABASE_URI"`
	BaseURL     string        `env:"BASE_URL"`
	EnableHTTPS bool          `env:"ENABLE_HTTPS"`
	SessionTTL  time.Duration `env:"SESSION_TTL"`
}

const defaultSessionTTL = 24 * time.Hour

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// flags apply only when the env vars are unset
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN (postgres URI or sqlite file path)")
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "listen address as host:port")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "mark session cookies Secure")
	flag.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "idle window after which a session expires")

	flag.Parse()

	// validate BaseURL: must be "address:port" (no scheme, no path), otherwise default
	hostPortRe := regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = "localhost:8081"
	}

	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}

	if cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = "corkboard.db"
	}

	return cfg
}
