package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"jiramcp/pkg/logging"
)

const (
	userConfigDir  = ".config/jira-mcp"
	configFileName = "config.yaml"
)

// Config holds the server-level settings. Credentials never live here;
// they come from the session manager's own sources.
type Config struct {
	Server ServerConfig `yaml:"server"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"logLevel,omitempty"`
}

// ServerConfig selects the MCP transport and, for the network
// transports, the listen address.
type ServerConfig struct {
	Transport string `yaml:"transport,omitempty"` // stdio, sse, or streamable-http
	Host      string `yaml:"host,omitempty"`
	Port      int    `yaml:"port,omitempty"`
}

// Transport names accepted by ServerConfig.Transport.
const (
	TransportStdio          = "stdio"
	TransportSSE            = "sse"
	TransportStreamableHTTP = "streamable-http"
)

// Environment overrides. Set variables always win over the config file.
const (
	EnvTransport = "JIRA_MCP_TRANSPORT"
	EnvHost      = "JIRA_MCP_HOST"
	EnvPort      = "JIRA_MCP_PORT"
	EnvLogLevel  = "JIRA_MCP_LOG_LEVEL"
)

// Default returns the built-in configuration: stdio transport,
// localhost:8585 when a network transport is selected, info logging.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Transport: TransportStdio,
			Host:      "localhost",
			Port:      8585,
		},
		LogLevel: "info",
	}
}

// DefaultConfigPath returns ~/.config/jira-mcp, or an error when the
// home directory cannot be determined.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir), nil
}

// Load reads config.yaml from configPath, layers it over the defaults,
// and applies environment overrides last. A missing file is not an
// error; a malformed one is.
func Load(configPath string) (Config, error) {
	cfg := Default()

	configFilePath := filepath.Join(configPath, configFileName)
	data, err := os.ReadFile(configFilePath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logging.Debug("Config", "no config.yaml at %s, using defaults", configFilePath)
	case err != nil:
		return Config{}, fmt.Errorf("error reading %s: %w", configFilePath, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("error loading config from %s: %w", configFilePath, err)
		}
		logging.Info("Config", "loaded configuration from %s", configFilePath)
	}

	applyEnvOverrides(&cfg, os.Getenv)
	return cfg, cfg.validate()
}

func applyEnvOverrides(cfg *Config, getenv func(string) string) {
	if v := getenv(EnvTransport); v != "" {
		cfg.Server.Transport = v
	}
	if v := getenv(EnvHost); v != "" {
		cfg.Server.Host = v
	}
	if v := getenv(EnvPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		} else {
			logging.Warn("Config", "ignoring non-numeric %s=%q", EnvPort, v)
		}
	}
	if v := getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
}

func (c Config) validate() error {
	switch c.Server.Transport {
	case TransportStdio, TransportSSE, TransportStreamableHTTP:
	default:
		return fmt.Errorf("unknown transport %q (want %s, %s, or %s)",
			c.Server.Transport, TransportStdio, TransportSSE, TransportStreamableHTTP)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Server.Port)
	}
	return nil
}

// ListenAddress joins host and port for the network transports.
func (c ServerConfig) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
