// Package config loads the registry configuration from a YAML file. Values
// found in the environment (optionally seeded from a .env file) take
// precedence over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is used when REGISTRY_CONFIG is not set.
const DefaultPath = "internal/registry/config/config.yaml"

// Config struct for YAML configuration
type Config struct {
	HTTPPort        int      `yaml:"HTTP_PORT"`
	DBHost          string   `yaml:"DB_HOST"`
	DBPort          int      `yaml:"DB_PORT"`
	DBUser          string   `yaml:"DB_USER"`
	DBPassword      string   `yaml:"DB_PASSWORD"`
	DBName          string   `yaml:"DB_NAME"`
	DBSSLMode       string   `yaml:"DB_SSLMODE"`
	KafkaEnabled    bool     `yaml:"KAFKA_ENABLED"`
	KafkaBrokers    []string `yaml:"KAFKA_BROKERS"`
	Topic           string   `yaml:"TOPIC"`
	AuthEnabled     bool     `yaml:"AUTH_ENABLED"`
	JWTSecret       string   `yaml:"JWT_SECRET"`
	LogLevel        string   `yaml:"LOG_LEVEL"`
	DefaultPageSize int      `yaml:"DEFAULT_PAGE_SIZE"`
}

// Load reads the YAML file at path, applies environment overrides and
// validates the result. A missing .env file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg := defaults()
	if err := yaml.Unmarshal(file, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the config file location, honouring REGISTRY_CONFIG.
func Path() string {
	if p := os.Getenv("REGISTRY_CONFIG"); p != "" {
		return p
	}
	return DefaultPath
}

func defaults() *Config {
	return &Config{
		HTTPPort:        8080,
		DBPort:          5432,
		DBSSLMode:       "disable",
		Topic:           "k9registry-events",
		LogLevel:        "info",
		DefaultPageSize: 10,
	}
}

type lookupFunc func(key string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	var errs []error
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v, ok := lookup(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("invalid %s %q: %w", key, v, err))
				return
			}
			*dst = n
		}
	}
	flag := func(key string, dst *bool) {
		if v, ok := lookup(key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("invalid %s %q: %w", key, v, err))
				return
			}
			*dst = b
		}
	}

	num("HTTP_PORT", &c.HTTPPort)
	str("DB_HOST", &c.DBHost)
	num("DB_PORT", &c.DBPort)
	str("DB_USER", &c.DBUser)
	str("DB_PASSWORD", &c.DBPassword)
	str("DB_NAME", &c.DBName)
	str("DB_SSLMODE", &c.DBSSLMode)
	flag("KAFKA_ENABLED", &c.KafkaEnabled)
	if v, ok := lookup("KAFKA_BROKERS"); ok {
		c.KafkaBrokers = splitList(v)
	}
	str("TOPIC", &c.Topic)
	flag("AUTH_ENABLED", &c.AuthEnabled)
	str("JWT_SECRET", &c.JWTSecret)
	str("LOG_LEVEL", &c.LogLevel)
	num("DEFAULT_PAGE_SIZE", &c.DefaultPageSize)

	return errors.Join(errs...)
}

// Validate reports every problem found, not just the first.
func (c *Config) Validate() error {
	var errs []error
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("HTTP_PORT out of range: %d", c.HTTPPort))
	}
	if c.DBPort <= 0 || c.DBPort > 65535 {
		errs = append(errs, fmt.Errorf("DB_PORT out of range: %d", c.DBPort))
	}
	if c.DBName == "" {
		errs = append(errs, errors.New("DB_NAME is required"))
	}
	if c.AuthEnabled && c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required when AUTH_ENABLED is set"))
	}
	if c.KafkaEnabled {
		if len(c.KafkaBrokers) == 0 {
			errs = append(errs, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is set"))
		}
		if c.Topic == "" {
			errs = append(errs, errors.New("TOPIC is required when KAFKA_ENABLED is set"))
		}
	}
	if c.DefaultPageSize <= 0 {
		errs = append(errs, fmt.Errorf("DEFAULT_PAGE_SIZE must be positive: %d", c.DefaultPageSize))
	}
	return errors.Join(errs...)
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
