package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"hublens-backend/pkg/utils"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string `yaml:"server_address"`
	Environment   string `yaml:"environment" validate:"oneof=development staging production"`

	// CORS
	EnableCORS  bool     `yaml:"enable_cors"`
	CORSOrigins []string `yaml:"cors_origins"`

	// Autodesk Platform Services application
	APSClientID     string `yaml:"aps_client_id" validate:"required"`
	APSClientSecret string `yaml:"aps_client_secret" validate:"required"`
	APSCallbackURL  string `yaml:"aps_callback_url" validate:"required,url"`
	APSRegion       string `yaml:"aps_region" validate:"oneof=US EMEA"`

	// Derivative poller
	PollInterval    time.Duration `yaml:"poll_interval" validate:"gt=0"`
	PollMaxAttempts int           `yaml:"poll_max_attempts" validate:"gt=0"`

	// Sessions
	SessionTTL  time.Duration `yaml:"session_ttl" validate:"gt=0"`
	StateSecret string        `yaml:"state_secret"`

	// Logging and features
	LogLevel      string `yaml:"log_level"`
	EnableMetrics bool   `yaml:"enable_metrics"`
}

// LoadConfig loads configuration from an optional YAML file pointed at by
// HUBLENS_CONFIG_PATH, then applies environment variable overrides. Env
// always wins.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress:   ":8080",
		Environment:     "development",
		EnableCORS:      true,
		CORSOrigins:     []string{"http://localhost:3000"},
		APSRegion:       "US",
		PollInterval:    time.Second,
		PollMaxAttempts: 150,
		SessionTTL:      time.Hour,
		LogLevel:        "info",
		EnableMetrics:   true,
	}

	if path := os.Getenv("HUBLENS_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.ServerAddress = getEnv("SERVER_ADDRESS", cfg.ServerAddress)
	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)
	cfg.EnableCORS = getEnvBool("ENABLE_CORS", cfg.EnableCORS)
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = splitAndTrim(origins)
	}

	cfg.APSClientID = getEnv("APS_CLIENT_ID", cfg.APSClientID)
	cfg.APSClientSecret = getEnv("APS_CLIENT_SECRET", cfg.APSClientSecret)
	cfg.APSCallbackURL = getEnv("APS_CALLBACK_URL", cfg.APSCallbackURL)
	cfg.APSRegion = getEnv("APS_REGION", cfg.APSRegion)

	cfg.PollInterval = getEnvDuration("POLL_INTERVAL", cfg.PollInterval)
	cfg.PollMaxAttempts = getEnvInt("POLL_MAX_ATTEMPTS", cfg.PollMaxAttempts)

	cfg.SessionTTL = getEnvDuration("SESSION_TTL", cfg.SessionTTL)
	cfg.StateSecret = getEnv("STATE_SECRET", cfg.StateSecret)

	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.EnableMetrics = getEnvBool("ENABLE_METRICS", cfg.EnableMetrics)
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Environment == "production" && c.StateSecret == "" {
		return fmt.Errorf("STATE_SECRET is required in production")
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration gets a duration environment variable with a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
