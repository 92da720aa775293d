package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Backend   BackendConfig
	Detection DetectionConfig
	History   HistoryConfig
	Batch     BatchConfig
	Log       LogConfig
}

// BackendConfig points at the plate/violation lookup service.
type BackendConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
	DetectTimeout  time.Duration
}

// DetectionConfig points at the raw object-detection service. Defaults
// to the same host as the backend.
type DetectionConfig struct {
	BaseURL        string
	PredictTimeout time.Duration
}

type HistoryConfig struct {
	Path       string
	MaxEntries int
}

type BatchConfig struct {
	Concurrency int
}

type LogConfig struct {
	Level string
}

// Load resolves configuration at process start: defaults, an optional
// config.yaml, then PLATE_LOOKUP_* environment variables (a .env file
// is honored when present).
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("backend.base_url", "http://localhost:8000")
	v.SetDefault("backend.request_timeout", "10s")
	v.SetDefault("backend.detect_timeout", "60s")
	v.SetDefault("detection.base_url", "http://localhost:8000")
	v.SetDefault("detection.predict_timeout", "120s")
	v.SetDefault("history.path", "scan_history.db")
	v.SetDefault("history.max_entries", 200)
	v.SetDefault("batch.concurrency", 4)
	v.SetDefault("log.level", "info")

	v.SetEnvPrefix("PLATE_LOOKUP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{
		Backend: BackendConfig{
			BaseURL:        v.GetString("backend.base_url"),
			RequestTimeout: v.GetDuration("backend.request_timeout"),
			DetectTimeout:  v.GetDuration("backend.detect_timeout"),
		},
		Detection: DetectionConfig{
			BaseURL:        v.GetString("detection.base_url"),
			PredictTimeout: v.GetDuration("detection.predict_timeout"),
		},
		History: HistoryConfig{
			Path:       v.GetString("history.path"),
			MaxEntries: v.GetInt("history.max_entries"),
		},
		Batch: BatchConfig{
			Concurrency: v.GetInt("batch.concurrency"),
		},
		Log: LogConfig{
			Level: v.GetString("log.level"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend base URL must not be empty")
	}
	if c.Detection.BaseURL == "" {
		return fmt.Errorf("detection base URL must not be empty")
	}
	if c.Backend.RequestTimeout <= 0 || c.Backend.DetectTimeout <= 0 || c.Detection.PredictTimeout <= 0 {
		return fmt.Errorf("timeouts must be > 0 (got request=%s, detect=%s, predict=%s)",
			c.Backend.RequestTimeout, c.Backend.DetectTimeout, c.Detection.PredictTimeout)
	}
	if c.History.Path == "" {
		return fmt.Errorf("history path must not be empty")
	}
	if c.History.MaxEntries <= 0 {
		return fmt.Errorf("history max entries must be > 0 (got %d)", c.History.MaxEntries)
	}
	if c.Batch.Concurrency <= 0 {
		return fmt.Errorf("batch concurrency must be > 0 (got %d)", c.Batch.Concurrency)
	}
	return nil
}
