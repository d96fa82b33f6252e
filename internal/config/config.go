package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config contains all runtime configuration. Values come from environment variables,
// then from the optional YAML file named by CONFIG_FILE, then from defaults.
// Environment variables (yaml key in brackets):
// - APP_NAME [app_name]: Application name reported by the health endpoint (default: apihealth)
// - PORT [port]: HTTP server port (default: 8080)
// - READ_TIMEOUT [read_timeout]: HTTP read timeout, e.g. "15s" (default: 15s)
// - WRITE_TIMEOUT [write_timeout]: HTTP write timeout, e.g. "15s" (default: 15s)
// - IDLE_TIMEOUT [idle_timeout]: HTTP idle timeout, e.g. "60s" (default: 60s)
// - REQUEST_TIMEOUT [request_timeout]: Per-request timeout, e.g. "60s" (default: 60s)
// - SHUTDOWN_TIMEOUT [shutdown_timeout]: Graceful shutdown timeout, e.g. "30s" (default: 30s)
// - LOG_LEVEL [log_level]: Log level - debug, info, warn, error (default: info)
// - LOG_FORMAT [log_format]: Log format - json, text (default: json)
// - CORS_ALLOWED_ORIGINS [cors_allowed_origins]: Comma-separated CORS origins (default: *)
type Config struct {
	AppName            string
	Port               string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	RequestTimeout     time.Duration
	ShutdownTimeout    time.Duration
	LogLevel           string
	LogFormat          string
	CORSAllowedOrigins []string
}

// FileEnv names the environment variable holding the optional YAML config path.
const FileEnv = "CONFIG_FILE"

var (
	allowedLogLevels = map[string]struct{}{
		"debug": {},
		"info":  {},
		"warn":  {},
		"error": {},
	}
	allowedLogFormats = map[string]struct{}{
		"json": {},
		"text": {},
	}
)

// source resolves a key from the environment first and the config file second.
type source struct {
	file *koanf.Koanf
}

// Load populates the Config struct and validates the result.
func Load() (*Config, error) {
	src, err := newSource(os.Getenv(FileEnv))
	if err != nil {
		return nil, err
	}

	cfg := &Config{}

	cfg.AppName = src.get("APP_NAME", "apihealth")
	if src.isBlank("APP_NAME") {
		return nil, errors.New("app name must not be empty")
	}

	cfg.Port = src.get("PORT", "8080")
	if cfg.Port == "" {
		return nil, errors.New("port must not be empty")
	}

	if cfg.ReadTimeout, err = src.duration("READ_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.WriteTimeout, err = src.duration("WRITE_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.IdleTimeout, err = src.duration("IDLE_TIMEOUT", "60s"); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = src.duration("REQUEST_TIMEOUT", "60s"); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = src.duration("SHUTDOWN_TIMEOUT", "30s"); err != nil {
		return nil, err
	}

	if err = validatePositiveDuration("READ_TIMEOUT", cfg.ReadTimeout); err != nil {
		return nil, err
	}
	if err = validatePositiveDuration("WRITE_TIMEOUT", cfg.WriteTimeout); err != nil {
		return nil, err
	}
	if err = validatePositiveDuration("IDLE_TIMEOUT", cfg.IdleTimeout); err != nil {
		return nil, err
	}
	if err = validatePositiveDuration("REQUEST_TIMEOUT", cfg.RequestTimeout); err != nil {
		return nil, err
	}
	if err = validatePositiveDuration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout); err != nil {
		return nil, err
	}

	cfg.LogLevel = src.get("LOG_LEVEL", "info")
	if src.isBlank("LOG_LEVEL") {
		return nil, errors.New("invalid log level: value cannot be empty")
	}
	if _, ok := allowedLogLevels[cfg.LogLevel]; !ok {
		return nil, fmt.Errorf("invalid log level: %s", cfg.LogLevel)
	}

	cfg.LogFormat = src.get("LOG_FORMAT", "json")
	if src.isBlank("LOG_FORMAT") {
		return nil, errors.New("invalid log format: value cannot be empty")
	}
	if _, ok := allowedLogFormats[cfg.LogFormat]; !ok {
		return nil, fmt.Errorf("invalid log format: %s", cfg.LogFormat)
	}

	cfg.CORSAllowedOrigins = src.stringSlice("CORS_ALLOWED_ORIGINS", "*")

	return cfg, nil
}

func newSource(path string) (*source, error) {
	k := koanf.New(".")
	if path = strings.TrimSpace(path); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}
	return &source{file: k}, nil
}

func fileKey(envKey string) string {
	return strings.ToLower(envKey)
}

func (s *source) lookup(key string) (string, bool) {
	if value, ok := os.LookupEnv(key); ok {
		return value, true
	}
	if s.file.Exists(fileKey(key)) {
		return s.file.String(fileKey(key)), true
	}
	return "", false
}

func (s *source) get(key, defaultValue string) string {
	if value, ok := s.lookup(key); ok {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return defaultValue
}

// isBlank reports whether the key was set explicitly to a whitespace-only value.
func (s *source) isBlank(key string) bool {
	value, ok := s.lookup(key)
	return ok && strings.TrimSpace(value) == ""
}

func (s *source) duration(key, defaultValue string) (time.Duration, error) {
	value := s.get(key, defaultValue)
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
	}
	return d, nil
}

func (s *source) stringSlice(key, defaultValue string) []string {
	var parts []string
	if value, ok := os.LookupEnv(key); ok {
		parts = strings.Split(value, ",")
	} else if s.file.Exists(fileKey(key)) {
		parts = s.file.Strings(fileKey(key))
		if len(parts) == 0 {
			parts = strings.Split(s.file.String(fileKey(key)), ",")
		}
	}

	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return []string{defaultValue}
	}
	return result
}

func validatePositiveDuration(name string, d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("%s must be greater than zero", strings.ToLower(name))
	}
	return nil
}
