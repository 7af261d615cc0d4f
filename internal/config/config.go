// Package config loads server and worker configuration.
//
// Values come, in increasing priority, from built-in defaults, an optional
// config file (WANDERPLAN_CONFIG, TOML or YAML), a .env file in the working
// directory and WANDERPLAN_* environment variables. Nested keys map to
// variables by replacing dots with underscores: storage.sqlite_path is
// WANDERPLAN_STORAGE_SQLITE_PATH.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Auth    AuthConfig    `mapstructure:"auth"`
	AMQP    AMQPConfig    `mapstructure:"amqp"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Log     LogConfig     `mapstructure:"log"`
	Worker  WorkerConfig  `mapstructure:"worker"`
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Port       int    `mapstructure:"port"`
	StaticPath string `mapstructure:"static_path"`
}

// StorageConfig selects and configures the relational store.
type StorageConfig struct {
	Driver      string `mapstructure:"driver"`
	SQLitePath  string `mapstructure:"sqlite_path"`
	PostgresDSN string `mapstructure:"postgres_dsn"`
}

// AuthConfig holds the hosted auth service's token settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`

	// Issuer is the expected "iss" claim. Empty accepts any issuer.
	Issuer string `mapstructure:"issuer"`
}

// AMQPConfig holds event broker settings. An empty URL disables events.
type AMQPConfig struct {
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
	Queue    string `mapstructure:"queue"`
}

// LLMConfig holds provider settings. An empty API key disables suggestions.
type LLMConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// WorkerConfig holds settlement worker settings.
type WorkerConfig struct {
	// MetricsPort serves /metrics for the worker. Zero disables it.
	MetricsPort int `mapstructure:"metrics_port"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from defaults, file, .env and env.
// Env var overrides use prefix WANDERPLAN_.
func Load() (Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()

	// default values
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.static_path", "./web/static")
	v.SetDefault("storage.driver", DriverSQLite)
	v.SetDefault("storage.sqlite_path", "./data/wanderplan.db")
	v.SetDefault("storage.postgres_dsn", "")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "")
	v.SetDefault("amqp.url", "")
	v.SetDefault("amqp.exchange", "wanderplan")
	v.SetDefault("amqp.queue", "settlement_recompute")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.timeout", 30*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("worker.metrics_port", 9091)

	if cfgPath := os.Getenv("WANDERPLAN_CONFIG"); cfgPath != "" {
		v.SetConfigFile(cfgPath)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", cfgPath, err)
		}
	}

	v.SetEnvPrefix("WANDERPLAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Validate reports every problem with the server configuration at once.
func (c *Config) Validate() error {
	problems := c.commonProblems()
	if c.Auth.JWTSecret == "" {
		problems = append(problems, "auth.jwt_secret is required")
	}
	return joinProblems(problems)
}

// ValidateWorker is Validate for the settlement worker, which needs a broker
// but no auth settings.
func (c *Config) ValidateWorker() error {
	problems := c.commonProblems()
	if c.AMQP.URL == "" {
		problems = append(problems, "amqp.url is required for the worker")
	}
	if c.Worker.MetricsPort < 0 || c.Worker.MetricsPort > 65535 {
		problems = append(problems, fmt.Sprintf("invalid worker.metrics_port %d", c.Worker.MetricsPort))
	}
	return joinProblems(problems)
}

func joinProblems(problems []string) error {
	if len(problems) > 0 {
		return errors.New("configuration validation failed:\n  - " + strings.Join(problems, "\n  - "))
	}
	return nil
}

func (c *Config) commonProblems() []string {
	var problems []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid server.port %d: must be between 1 and 65535", c.Server.Port))
	}

	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			problems = append(problems, "storage.sqlite_path is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.Storage.PostgresDSN == "" {
			problems = append(problems, "storage.postgres_dsn is required for the postgres driver")
		}
	default:
		problems = append(problems, fmt.Sprintf("invalid storage.driver %q: must be %s or %s", c.Storage.Driver, DriverSQLite, DriverPostgres))
	}

	if c.AMQP.URL != "" && (c.AMQP.Exchange == "" || c.AMQP.Queue == "") {
		problems = append(problems, "amqp.exchange and amqp.queue are required when amqp.url is set")
	}

	if c.LLM.Timeout <= 0 {
		problems = append(problems, "llm.timeout must be positive")
	}

	if !slices.Contains([]string{"debug", "info", "warn", "error"}, strings.ToLower(c.Log.Level)) {
		problems = append(problems, fmt.Sprintf("invalid log.level %q", c.Log.Level))
	}

	return problems
}

// EventsEnabled reports whether an event broker is configured.
func (c *Config) EventsEnabled() bool {
	return c.AMQP.URL != ""
}

// SuggestionsEnabled reports whether an LLM provider is configured.
func (c *Config) SuggestionsEnabled() bool {
	return c.LLM.APIKey != ""
}
