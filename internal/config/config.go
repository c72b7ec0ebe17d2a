// Package config provides application configuration with multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (MIDAS_ prefix, runtime override)
//  2. Config file (~/.midas/config.yaml)
//  3. Default values
//
// Secrets (the completion provider API key, the PostgreSQL password) are read
// from the environment only and are never written to the config file. A .env
// file in the working directory is honored for local development.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	// ErrMissingAPIKey indicates the completion provider API key is not set.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrInvalidTemperature indicates the temperature is out of range.
	ErrInvalidTemperature = errors.New("invalid temperature")

	// ErrInvalidMaxTokens indicates the max tokens value is out of range.
	ErrInvalidMaxTokens = errors.New("invalid max tokens")

	// ErrInvalidChunkSize indicates the chunk size is out of range.
	ErrInvalidChunkSize = errors.New("invalid chunk size")

	// ErrInvalidTopK indicates the retrieval top-K is out of range.
	ErrInvalidTopK = errors.New("invalid retrieval top-k")

	// ErrInvalidPostgresHost indicates the PostgreSQL host is empty.
	ErrInvalidPostgresHost = errors.New("invalid PostgreSQL host")

	// ErrInvalidPostgresPort indicates the PostgreSQL port is out of range.
	ErrInvalidPostgresPort = errors.New("invalid PostgreSQL port")

	// ErrInvalidPostgresSSLMode indicates an unsupported sslmode value.
	ErrInvalidPostgresSSLMode = errors.New("invalid PostgreSQL SSL mode")

	// ErrInvalidBaseURL indicates a malformed provider base URL.
	ErrInvalidBaseURL = errors.New("invalid base URL")

	// ErrInvalidUploadLimit indicates the upload size limit is out of range.
	ErrInvalidUploadLimit = errors.New("invalid upload size limit")
)

// Defaults for the completion provider and retrieval pipeline.
const (
	DefaultCompletionBaseURL = "https://api.groq.com/openai/v1"
	DefaultCompletionModel   = "llama-3.1-8b-instant"
	DefaultMaxTokens         = 1000
	DefaultTemperature       = 0.7
	DefaultCompletionTimeout = 60 * time.Second

	DefaultTopK         = 3
	DefaultMaxChunkSize = 1000

	DefaultMaxUploadBytes = 10 << 20 // 10 MB
)

// Config stores application configuration.
type Config struct {
	// HTTP server
	Host        string   `mapstructure:"host"`
	Port        int      `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"cors_origins"`
	TrustProxy  bool     `mapstructure:"trust_proxy"`
	RateBurst   int      `mapstructure:"rate_burst"`

	// PostgreSQL document store
	PostgresHost     string `mapstructure:"postgres_host"`
	PostgresPort     int    `mapstructure:"postgres_port"`
	PostgresUser     string `mapstructure:"postgres_user"`
	PostgresPassword string `mapstructure:"postgres_password"` // SENSITIVE: env only
	PostgresDBName   string `mapstructure:"postgres_db_name"`
	PostgresSSLMode  string `mapstructure:"postgres_ssl_mode"`

	// Completion provider (OpenAI-compatible; Groq by default)
	CompletionBaseURL string        `mapstructure:"completion_base_url"`
	CompletionModel   string        `mapstructure:"completion_model"`
	CompletionAPIKey  string        `mapstructure:"completion_api_key"` // SENSITIVE: env only
	MaxTokens         int           `mapstructure:"max_tokens"`
	Temperature       float32       `mapstructure:"temperature"`
	CompletionTimeout time.Duration `mapstructure:"completion_timeout"`

	// Retrieval and chunking
	TopK         int `mapstructure:"top_k"`
	MaxChunkSize int `mapstructure:"max_chunk_size"`

	// Document upload
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes"`

	// ML inference service (external collaborator)
	InferenceBaseURL string        `mapstructure:"inference_base_url"`
	InferenceTimeout time.Duration `mapstructure:"inference_timeout"`

	// Logging
	LogLevel string `mapstructure:"log_level"` // debug, info, warn, error
	LogJSON  bool   `mapstructure:"log_json"`
}

// Load reads configuration from defaults, the optional config file, and the
// environment. A local .env file is loaded first if present.
func Load() (*Config, error) {
	// Best effort: absence of a .env file is the normal production case.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("MIDAS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if dir, err := configDir(); err == nil {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Provider API key: prefer the conventional GROQ_API_KEY if the prefixed
	// variable is unset.
	if cfg.CompletionAPIKey == "" {
		cfg.CompletionAPIKey = os.Getenv("GROQ_API_KEY")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 8080)
	v.SetDefault("cors_origins", []string{})
	v.SetDefault("trust_proxy", false)
	v.SetDefault("rate_burst", 0)

	v.SetDefault("postgres_host", "localhost")
	v.SetDefault("postgres_port", 5432)
	v.SetDefault("postgres_user", "midas")
	v.SetDefault("postgres_db_name", "midas")
	v.SetDefault("postgres_ssl_mode", "prefer")

	v.SetDefault("completion_base_url", DefaultCompletionBaseURL)
	v.SetDefault("completion_model", DefaultCompletionModel)
	v.SetDefault("max_tokens", DefaultMaxTokens)
	v.SetDefault("temperature", DefaultTemperature)
	v.SetDefault("completion_timeout", DefaultCompletionTimeout)

	v.SetDefault("top_k", DefaultTopK)
	v.SetDefault("max_chunk_size", DefaultMaxChunkSize)
	v.SetDefault("max_upload_bytes", DefaultMaxUploadBytes)

	v.SetDefault("inference_base_url", "http://localhost:8000")
	v.SetDefault("inference_timeout", 90*time.Second)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_json", false)
}

// configDir returns the configuration directory (~/.midas), creating it with
// restrictive permissions if missing.
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	dir := filepath.Join(home, ".midas")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}
	return dir, nil
}

// PostgresURL builds a postgres:// connection URL from the individual fields.
// The password is URL-escaped; the result must never be logged.
func (c *Config) PostgresURL() string {
	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", c.PostgresHost, c.PostgresPort),
		Path:   "/" + c.PostgresDBName,
	}
	if c.PostgresPassword != "" {
		u.User = url.UserPassword(c.PostgresUser, c.PostgresPassword)
	} else {
		u.User = url.User(c.PostgresUser)
	}
	q := url.Values{}
	q.Set("sslmode", c.PostgresSSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// Addr returns the host:port the HTTP server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
