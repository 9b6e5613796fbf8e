package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Matching  MatchingConfig  `mapstructure:"matching"`
	Session   SessionConfig   `mapstructure:"session"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CatalogConfig selects where the product catalog is loaded from
type CatalogConfig struct {
	Source string `mapstructure:"source"` // "builtin", "yaml" or "sqlite"
	Path   string `mapstructure:"path"`
}

// MatchingConfig holds catalog matching configuration
type MatchingConfig struct {
	Strategy                string  `mapstructure:"strategy"` // "first" or "best"
	VoiceThreshold          float64 `mapstructure:"voice_threshold"`
	OCRThreshold            float64 `mapstructure:"ocr_threshold"`
	ManualThreshold         float64 `mapstructure:"manual_threshold"`
	DefaultSourceConfidence float64 `mapstructure:"default_source_confidence"`
	BatchConcurrency        int     `mapstructure:"batch_concurrency"`
	EnableDebugLogging      bool    `mapstructure:"debug_logging"`
}

// SessionConfig holds match session storage configuration
type SessionConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
	Burst int `mapstructure:"burst"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/earlybird/")

	// Environment variable settings: EARLYBIRD_MATCHING_VOICE_THRESHOLD etc.
	v.SetEnvPrefix("EARLYBIRD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000", "capacitor://localhost"})

	// Catalog defaults
	v.SetDefault("catalog.source", "builtin")
	v.SetDefault("catalog.path", "")

	// Matching defaults
	v.SetDefault("matching.strategy", "first")
	v.SetDefault("matching.voice_threshold", 0.80)
	v.SetDefault("matching.ocr_threshold", 0.75)
	v.SetDefault("matching.manual_threshold", 0.75)
	v.SetDefault("matching.default_source_confidence", 0.75)
	v.SetDefault("matching.batch_concurrency", 4)
	v.SetDefault("matching.debug_logging", false)

	// Session defaults
	v.SetDefault("session.ttl", "24h")
	v.SetDefault("session.cleanup_interval", "10m")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 120)
	v.SetDefault("ratelimit.burst", 20)

	// Log defaults
	v.SetDefault("log.level", "info")
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Catalog.Source {
	case "builtin":
	case "yaml", "sqlite":
		if config.Catalog.Path == "" {
			return fmt.Errorf("catalog path is required when catalog source is '%s' (set EARLYBIRD_CATALOG_PATH)", config.Catalog.Source)
		}
	default:
		return fmt.Errorf("catalog source must be 'builtin', 'yaml' or 'sqlite', got: %s", config.Catalog.Source)
	}

	if config.Matching.Strategy != "first" && config.Matching.Strategy != "best" {
		return fmt.Errorf("matching strategy must be 'first' or 'best', got: %s", config.Matching.Strategy)
	}

	thresholds := map[string]float64{
		"voice_threshold":           config.Matching.VoiceThreshold,
		"ocr_threshold":             config.Matching.OCRThreshold,
		"manual_threshold":          config.Matching.ManualThreshold,
		"default_source_confidence": config.Matching.DefaultSourceConfidence,
	}
	for name, value := range thresholds {
		if !(value > 0 && value < 1) {
			return fmt.Errorf("matching %s must be between 0 and 1 (exclusive), got: %v", name, value)
		}
	}

	if config.Matching.BatchConcurrency < 1 {
		return fmt.Errorf("matching batch_concurrency must be at least 1, got: %d", config.Matching.BatchConcurrency)
	}

	if config.Session.TTL <= 0 {
		return fmt.Errorf("session ttl must be positive, got: %s", config.Session.TTL)
	}

	if config.RateLimit.PerIP < 0 {
		return fmt.Errorf("ratelimit per_ip must not be negative, got: %d", config.RateLimit.PerIP)
	}

	return nil
}
