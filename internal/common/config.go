package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Worker   WorkerConfig
	LLM      LLMConfig
}

// DatabaseConfig holds database-related configuration. DSN may be a
// postgres:// URL or a SQLite file path.
type DatabaseConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	HTTPAddr string
}

// WorkerConfig holds enrichment worker configuration
type WorkerConfig struct {
	PollInterval time.Duration // sleep between claim attempts when idle
	RolePacing   time.Duration // delay between roles of one job
}

// LLMConfig holds the OpenAI adapter configuration. An empty APIKey selects
// the deterministic stub enricher instead of the live backend.
type LLMConfig struct {
	BaseURL     string
	Model       string
	APIKey      string
	Temperature float32
	Timeout     time.Duration
}

// fileConfig mirrors Config for the optional YAML config file
// (snake_case keys, durations as strings).
type fileConfig struct {
	Database struct {
		DSN      string `yaml:"dsn"`
		MaxConns int32  `yaml:"max_conns"`
		MinConns int32  `yaml:"min_conns"`
	} `yaml:"database"`
	Server struct {
		HTTPAddr string `yaml:"http_addr"`
	} `yaml:"server"`
	Worker struct {
		PollInterval string `yaml:"poll_interval"`
		RolePacing   string `yaml:"role_pacing"`
	} `yaml:"worker"`
	LLM struct {
		BaseURL string `yaml:"base_url"`
		Model   string `yaml:"model"`
		Timeout string `yaml:"timeout"`
	} `yaml:"llm"`
}

// LoadConfig builds configuration from defaults, an optional YAML file
// (path from RESUMELINE_CONFIG, empty to skip), and environment overrides,
// in that order. The API key is never read from the file.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			DSN:             "db/dev.db",
			MaxConns:        20,
			MinConns:        5,
			MaxConnLifetime: 30 * time.Minute,
			MaxConnIdleTime: 5 * time.Minute,
			DialTimeout:     3 * time.Second,
		},
		Server: ServerConfig{
			HTTPAddr: ":8080",
		},
		Worker: WorkerConfig{
			PollInterval: 2 * time.Second,
			RolePacing:   300 * time.Millisecond,
		},
		LLM: LLMConfig{
			BaseURL:     "https://api.openai.com/v1",
			Model:       "gpt-4o-mini",
			Temperature: 0.0,
			Timeout:     45 * time.Second,
		},
	}

	if path := os.Getenv("RESUMELINE_CONFIG"); path != "" {
		if err := applyFile(cfg, path); err != nil {
			return nil, WrapError(err, "loading config file")
		}
	}
	applyEnv(cfg)
	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}

	if fc.Database.DSN != "" {
		cfg.Database.DSN = fc.Database.DSN
	}
	if fc.Database.MaxConns > 0 {
		cfg.Database.MaxConns = fc.Database.MaxConns
	}
	if fc.Database.MinConns > 0 {
		cfg.Database.MinConns = fc.Database.MinConns
	}
	if fc.Server.HTTPAddr != "" {
		cfg.Server.HTTPAddr = fc.Server.HTTPAddr
	}
	if fc.LLM.BaseURL != "" {
		cfg.LLM.BaseURL = fc.LLM.BaseURL
	}
	if fc.LLM.Model != "" {
		cfg.LLM.Model = fc.LLM.Model
	}

	var derr error
	setDuration := func(dst *time.Duration, s, field string) {
		if s == "" {
			return
		}
		d, err := time.ParseDuration(s)
		if err != nil {
			derr = fmt.Errorf("field %s: %w", field, err)
			return
		}
		*dst = d
	}
	setDuration(&cfg.Worker.PollInterval, fc.Worker.PollInterval, "worker.poll_interval")
	setDuration(&cfg.Worker.RolePacing, fc.Worker.RolePacing, "worker.role_pacing")
	setDuration(&cfg.LLM.Timeout, fc.LLM.Timeout, "llm.timeout")
	return derr
}

func applyEnv(cfg *Config) {
	cfg.Database.DSN = getEnv("DB_URL", cfg.Database.DSN)
	cfg.Database.MaxConns = getEnvAsInt32("DB_MAX_CONNS", cfg.Database.MaxConns)
	cfg.Database.MinConns = getEnvAsInt32("DB_MIN_CONNS", cfg.Database.MinConns)
	cfg.Database.MaxConnLifetime = getEnvAsDuration("DB_MAX_CONN_LIFETIME", cfg.Database.MaxConnLifetime)
	cfg.Database.MaxConnIdleTime = getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", cfg.Database.MaxConnIdleTime)
	cfg.Database.DialTimeout = getEnvAsDuration("DB_DIAL_TIMEOUT", cfg.Database.DialTimeout)

	cfg.Server.HTTPAddr = getEnv("HTTP_ADDR", cfg.Server.HTTPAddr)

	cfg.Worker.PollInterval = getEnvAsDuration("WORKER_POLL_INTERVAL", cfg.Worker.PollInterval)
	cfg.Worker.RolePacing = getEnvAsDuration("WORKER_ROLE_PACING", cfg.Worker.RolePacing)

	cfg.LLM.BaseURL = getEnv("OPENAI_BASE_URL", cfg.LLM.BaseURL)
	cfg.LLM.Model = getEnv("OPENAI_MODEL", cfg.LLM.Model)
	cfg.LLM.APIKey = getEnv("OPENAI_API_KEY", cfg.LLM.APIKey)
	cfg.LLM.Temperature = getEnvAsFloat32("OPENAI_TEMPERATURE", cfg.LLM.Temperature)
	cfg.LLM.Timeout = getEnvAsDuration("OPENAI_TIMEOUT", cfg.LLM.Timeout)
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return NewAppError("CONFIG_ERROR", "DB_URL is required", ErrInvalidInput)
	}
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.Worker.PollInterval <= 0 {
		return NewAppError("CONFIG_ERROR", "WORKER_POLL_INTERVAL must be positive", ErrInvalidInput)
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
