// Package config loads the YAML configuration for the duckai CLI.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level CLI configuration.
type Config struct {
	API    APIConfig    `yaml:"api"`
	Listen ListenConfig `yaml:"listen"`
	Logger LoggerConfig `yaml:"logger"`
	Tracer TracerConfig `yaml:"tracer"`
}

// APIConfig holds StartDuck API credentials and connection settings.
type APIConfig struct {
	URL         string        `yaml:"url"`
	Key         string        `yaml:"key"`
	ChatbotUUID string        `yaml:"chatbot_uuid"`
	Webhook     string        `yaml:"webhook"`
	Timeout     time.Duration `yaml:"timeout"`
}

// ListenConfig holds webhook listener settings for `duckai listen`.
type ListenConfig struct {
	Addr string `yaml:"addr"`
	Path string `yaml:"path"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
	Output string `yaml:"output"` // stdout | stderr | file path
}

// TracerConfig holds tracing settings.
type TracerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"` // stdout | noop
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		API: APIConfig{
			URL:     "https://bigduck.ai",
			Timeout: 240 * time.Second,
		},
		Listen: ListenConfig{
			Addr: ":9090",
			Path: "/webhook",
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Tracer: TracerConfig{
			Enabled:  false,
			Exporter: "noop",
		},
	}
}

// Load reads a YAML config file and applies env var overrides. A missing
// file is not an error; env vars alone can carry the credentials.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	ApplyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvOverrides applies DUCKAI_* environment variables over cfg.
func ApplyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DUCKAI_API_URL"); v != "" {
		cfg.API.URL = v
	}
	if v := os.Getenv("DUCKAI_API_KEY"); v != "" {
		cfg.API.Key = v
	}
	if v := os.Getenv("DUCKAI_CHATBOT_UUID"); v != "" {
		cfg.API.ChatbotUUID = v
	}
	if v := os.Getenv("DUCKAI_WEBHOOK"); v != "" {
		cfg.API.Webhook = v
	}
	if v := os.Getenv("DUCKAI_LOGGER_LEVEL"); v != "" {
		cfg.Logger.Level = v
	}
	if v := os.Getenv("DUCKAI_TRACER_ENABLED"); v == "true" {
		cfg.Tracer.Enabled = true
	}
	if v := os.Getenv("DUCKAI_TRACER_EXPORTER"); v != "" {
		cfg.Tracer.Exporter = v
	}
}

// ValidationError accumulates config validation errors so the caller sees
// every problem at once.
type ValidationError struct {
	Errors []string
}

func (v *ValidationError) Error() string {
	return "config validation failed:\n  - " + strings.Join(v.Errors, "\n  - ")
}

// Add records a formatted validation error.
func (v *ValidationError) Add(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

// Validate checks cfg for structural correctness.
func Validate(cfg *Config) error {
	ve := &ValidationError{}

	if cfg.API.URL == "" {
		ve.Add("api.url must not be empty")
	}
	if cfg.API.Key == "" {
		ve.Add("api.key must not be empty (set via DUCKAI_API_KEY)")
	}
	if cfg.API.ChatbotUUID == "" {
		ve.Add("api.chatbot_uuid must not be empty (set via DUCKAI_CHATBOT_UUID)")
	}
	if cfg.API.Timeout <= 0 {
		ve.Add("api.timeout must be > 0")
	}
	if cfg.Listen.Addr == "" {
		ve.Add("listen.addr must not be empty")
	}
	if !strings.HasPrefix(cfg.Listen.Path, "/") {
		ve.Add("listen.path must start with /")
	}
	switch cfg.Logger.Format {
	case "", "text", "json":
	default:
		ve.Add("logger.format %q is invalid (want: text, json)", cfg.Logger.Format)
	}
	switch cfg.Tracer.Exporter {
	case "", "noop", "stdout":
	default:
		ve.Add("tracer.exporter %q is invalid (want: noop, stdout)", cfg.Tracer.Exporter)
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}
