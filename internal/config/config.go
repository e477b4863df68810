package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Shell   ShellConfig
	Agent   AgentConfig
	History HistoryConfig
	Logging LogConfig
}

// ShellConfig holds wrapped-shell configuration.
type ShellConfig struct {
	Command string `envconfig:"NACRE_SHELL" default:""`
	Trigger string `envconfig:"NACRE_TRIGGER_KEY" default:"!"`
}

// AgentConfig holds agent service connection configuration.
type AgentConfig struct {
	Address        string        `envconfig:"NACRE_AGENT_ADDR" default:"127.0.0.1:50051"`
	MaxRetries     int           `envconfig:"NACRE_AGENT_RETRIES" default:"3"`
	ConnectTimeout time.Duration `envconfig:"NACRE_AGENT_CONNECT_TIMEOUT" default:"5s"`
	RequestTimeout time.Duration `envconfig:"NACRE_AGENT_REQUEST_TIMEOUT" default:"60s"`
}

// HistoryConfig holds command history persistence configuration.
type HistoryConfig struct {
	Enabled bool   `envconfig:"NACRE_HISTORY_ENABLED" default:"true"`
	Path    string `envconfig:"NACRE_HISTORY_PATH" default:""`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"NACRE_LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"NACRE_LOG_DEV" default:"false"`
	File        string `envconfig:"NACRE_LOG_FILE" default:""`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Shell: ShellConfig{
			Trigger: "!",
		},
		Agent: AgentConfig{
			Address:        "127.0.0.1:50051",
			MaxRetries:     3,
			ConnectTimeout: 5 * time.Second,
			RequestTimeout: 60 * time.Second,
		},
		History: HistoryConfig{
			Enabled: true,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}

// TriggerRune returns the configured trigger as a rune, defaulting to '!'
// when unset or multi-character.
func (c ShellConfig) TriggerRune() rune {
	runes := []rune(c.Trigger)
	if len(runes) != 1 {
		return '!'
	}
	return runes[0]
}
