// Package config provides Viper-based configuration loading for the world server.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable override, e.g. WORLDBIBLE_GRPC_PORT.
const EnvPrefix = "WORLDBIBLE"

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// MCPConfig holds settings for the MCP tool server.
type MCPConfig struct {
	// Transport is "stdio" or "http".
	Transport string `mapstructure:"transport"`
	// Host is the bind address when Transport is "http".
	Host string `mapstructure:"host"`
	// Port is the TCP port when Transport is "http".
	Port int `mapstructure:"port"`
}

// Addr returns the "host:port" HTTP listen address.
func (m MCPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", m.Host, m.Port)
}

// GRPCConfig holds gRPC listener settings.
type GRPCConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
}

// Addr returns the "host:port" gRPC listen address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (g GRPCConfig) Addr() string {
	return fmt.Sprintf("%s:%d", g.Host, g.Port)
}

// MetricsConfig holds the Prometheus scrape endpoint settings.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
}

// Addr returns the "host:port" metrics listen address.
func (m MetricsConfig) Addr() string {
	return fmt.Sprintf("%s:%d", m.Host, m.Port)
}

// ContentConfig locates optional on-disk content.
type ContentConfig struct {
	// StylesDir overrides the embedded style templates when non-empty.
	StylesDir string `mapstructure:"styles_dir"`
}

// ValidationConfig tunes world validation.
type ValidationConfig struct {
	// StrictConsistency enables the tech/magic and tech/race rules in addition to the defaults.
	StrictConsistency bool `mapstructure:"strict_consistency"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	MCP        MCPConfig        `mapstructure:"mcp"`
	GRPC       GRPCConfig       `mapstructure:"grpc"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Content    ContentConfig    `mapstructure:"content"`
	Validation ValidationConfig `mapstructure:"validation"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateMCP(c.MCP); err != nil {
		errs = append(errs, err.Error())
	}
	if c.GRPC.Enabled {
		if err := validateListener("grpc", c.GRPC.Host, c.GRPC.Port); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if c.Metrics.Enabled {
		if err := validateListener("metrics", c.Metrics.Host, c.Metrics.Port); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if c.GRPC.Enabled && c.Metrics.Enabled && c.GRPC.Addr() == c.Metrics.Addr() {
		errs = append(errs, fmt.Sprintf("grpc and metrics must not share address %s", c.GRPC.Addr()))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateMCP(m MCPConfig) error {
	switch m.Transport {
	case "stdio":
		return nil
	case "http":
		return validateListener("mcp", m.Host, m.Port)
	default:
		return fmt.Errorf("mcp.transport must be one of [stdio, http], got %q", m.Transport)
	}
}

func validateListener(section, host string, port int) error {
	var errs []string
	if host == "" {
		errs = append(errs, section+".host must not be empty")
	}
	if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("%s.port must be 1-65535, got %d", section, port))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path loads defaults and
// environment overrides only.
//
// Precondition: path is empty or names a readable YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("mcp.transport", "stdio")
	v.SetDefault("mcp.host", "127.0.0.1")
	v.SetDefault("mcp.port", 8080)

	v.SetDefault("grpc.enabled", false)
	v.SetDefault("grpc.host", "127.0.0.1")
	v.SetDefault("grpc.port", 50051)

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.host", "127.0.0.1")
	v.SetDefault("metrics.port", 9090)

	v.SetDefault("content.styles_dir", "")

	v.SetDefault("validation.strict_consistency", false)
}
