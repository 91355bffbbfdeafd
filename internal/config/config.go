// Package config loads service settings with env > file > default
// precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces this service's environment variables, e.g.
// RESOLVER_HTTP_ADDR overrides http_addr.
const envPrefix = "RESOLVER_"

// configFileEnv names an optional YAML config file loaded between defaults
// and environment overrides.
const configFileEnv = "RESOLVER_CONFIG"

// Config holds all service settings.
type Config struct {
	HTTPAddr        string        `koanf:"http_addr"`
	LogLevel        string        `koanf:"log_level"`
	LogFormat       string        `koanf:"log_format"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// RedisAddr selects the cache backend; empty means the in-process store.
	RedisAddr string `koanf:"redis_addr"`

	// Gemini semantic extraction configuration. Extraction is enabled iff a
	// key is present.
	GeminiAPIKey  string        `koanf:"gemini_api_key"`
	GeminiTimeout time.Duration `koanf:"gemini_timeout"`

	NominatimBaseURL string        `koanf:"nominatim_base_url"`
	NominatimTimeout time.Duration `koanf:"nominatim_timeout"`

	// Kafka event publishing configuration.
	KafkaEnabled bool     `koanf:"kafka_enabled"`
	KafkaBrokers []string `koanf:"kafka_brokers"`
	KafkaTopic   string   `koanf:"kafka_topic"`
}

// GeminiEnabled reports whether semantic extraction should run.
func (c *Config) GeminiEnabled() bool {
	return c.GeminiAPIKey != ""
}

func defaults() map[string]any {
	return map[string]any{
		"http_addr":          ":8080",
		"log_level":          "info",
		"log_format":         "json",
		"shutdown_timeout":   "10s",
		"redis_addr":         "",
		"gemini_api_key":     "",
		"gemini_timeout":     "10s",
		"nominatim_base_url": "",
		"nominatim_timeout":  "10s",
		"kafka_enabled":      false,
		"kafka_brokers":      "localhost:9092",
		"kafka_topic":        "resolved-locations",
	}
}

// Load assembles the effective configuration: defaults, then the optional
// YAML file named by RESOLVER_CONFIG, then RESOLVER_* environment variables.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	if path := os.Getenv(configFileEnv); path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config: file %s: %w", path, err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load file %s: %w", path, err)
		}
	}

	transform := func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}
	if err := k.Load(env.Provider(envPrefix, ".", transform), nil); err != nil {
		return nil, fmt.Errorf("config: load env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("config: log_format must be json or text, got %q", c.LogFormat)
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("config: shutdown_timeout must be positive")
	}
	if c.GeminiTimeout <= 0 {
		return errors.New("config: gemini_timeout must be positive")
	}
	if c.NominatimTimeout <= 0 {
		return errors.New("config: nominatim_timeout must be positive")
	}
	if c.KafkaEnabled {
		if len(c.KafkaBrokers) == 0 {
			return errors.New("config: kafka_enabled requires kafka_brokers")
		}
		if c.KafkaTopic == "" {
			return errors.New("config: kafka_enabled requires kafka_topic")
		}
	}
	return nil
}
