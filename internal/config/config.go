package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIURL      = "https://9l4pjnll4k9miw-8000.proxy.runpod.net/api/v1/predict"
	DefaultFeedbackURL = "https://9l4pjnll4k9miw-8000.proxy.runpod.net/api/v1/feedback"

	BackendMemory = "memory"
	BackendRedis  = "redis"
)

type Config struct {
	Port    string        `yaml:"port"`
	API     APIConfig     `yaml:"api"`
	Session SessionConfig `yaml:"session"`
}

type APIConfig struct {
	URL             string        `yaml:"url"`
	FeedbackURL     string        `yaml:"feedback_url"`
	DetectTimeout   time.Duration `yaml:"detect_timeout"`
	FeedbackTimeout time.Duration `yaml:"feedback_timeout"`
	StatsTimeout    time.Duration `yaml:"stats_timeout"`
	FeedbackUserID  string        `yaml:"feedback_user_id"`
}

type SessionConfig struct {
	Backend  string        `yaml:"backend"` // memory | redis
	RedisURI string        `yaml:"redis_uri"`
	TTL      time.Duration `yaml:"ttl"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Port: "8080",
		API: APIConfig{
			URL:             DefaultAPIURL,
			FeedbackURL:     DefaultFeedbackURL,
			DetectTimeout:   30 * time.Second,
			FeedbackTimeout: 30 * time.Second,
			StatsTimeout:    10 * time.Second,
			FeedbackUserID:  "dashboard_user",
		},
		Session: SessionConfig{
			Backend:  BackendMemory,
			RedisURI: "localhost:6379",
			TTL:      24 * time.Hour,
		},
	}
}

// Load reads .env, then the optional YAML file at path, then environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	cfg.Port = envOr("PORT", cfg.Port)
	cfg.API.URL = envOr("API_URL", cfg.API.URL)
	cfg.API.FeedbackURL = envOr("FEEDBACK_URL", cfg.API.FeedbackURL)
	cfg.API.FeedbackUserID = envOr("FEEDBACK_USER_ID", cfg.API.FeedbackUserID)
	cfg.Session.Backend = envOr("SESSION_BACKEND", cfg.Session.Backend)
	cfg.Session.RedisURI = envOr("REDIS_URI", cfg.Session.RedisURI)

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"DETECT_TIMEOUT", &cfg.API.DetectTimeout},
		{"FEEDBACK_TIMEOUT", &cfg.API.FeedbackTimeout},
		{"STATS_TIMEOUT", &cfg.API.StatsTimeout},
		{"SESSION_TTL", &cfg.Session.TTL},
	}
	for _, d := range durations {
		v := os.Getenv(d.key)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", d.key, err)
		}
		*d.dst = parsed
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.API.URL == "" {
		errs = append(errs, errors.New("api url is required"))
	}
	if c.API.FeedbackURL == "" {
		errs = append(errs, errors.New("feedback url is required"))
	}
	if c.API.DetectTimeout <= 0 || c.API.FeedbackTimeout <= 0 || c.API.StatsTimeout <= 0 {
		errs = append(errs, errors.New("timeouts must be positive"))
	}
	switch c.Session.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Session.RedisURI == "" {
			errs = append(errs, errors.New("redis backend needs redis_uri"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown session backend %q", c.Session.Backend))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("session ttl must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
