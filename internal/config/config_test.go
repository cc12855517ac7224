package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func validConfig() Config {
	return Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		MCP: MCPConfig{
			Transport: "stdio",
			Host:      "127.0.0.1",
			Port:      8080,
		},
		GRPC: GRPCConfig{
			Enabled: true,
			Host:    "127.0.0.1",
			Port:    50051,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Host:    "127.0.0.1",
			Port:    9090,
		},
	}
}

func TestValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestAddrs(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "127.0.0.1:50051", cfg.GRPC.Addr())
	assert.Equal(t, "127.0.0.1:9090", cfg.Metrics.Addr())
	assert.Equal(t, "127.0.0.1:8080", cfg.MCP.Addr())
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "stdio", cfg.MCP.Transport)
	assert.False(t, cfg.GRPC.Enabled)
	assert.Equal(t, 50051, cfg.GRPC.Port)
	assert.False(t, cfg.Validation.StrictConsistency)
	assert.Empty(t, cfg.Content.StylesDir)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	err := os.WriteFile(path, []byte(`
logging:
  level: debug
  format: console
mcp:
  transport: http
  port: 8181
grpc:
  enabled: true
  port: 50052
content:
  styles_dir: /srv/styles
validation:
  strict_consistency: true
`), 0644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "http", cfg.MCP.Transport)
	assert.Equal(t, 8181, cfg.MCP.Port)
	assert.Equal(t, "127.0.0.1", cfg.MCP.Host)
	assert.True(t, cfg.GRPC.Enabled)
	assert.Equal(t, 50052, cfg.GRPC.Port)
	assert.Equal(t, "/srv/styles", cfg.Content.StylesDir)
	assert.True(t, cfg.Validation.StrictConsistency)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("WORLDBIBLE_GRPC_PORT", "6000")
	t.Setenv("WORLDBIBLE_LOGGING_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 6000, cfg.GRPC.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadInvalidPath(t *testing.T) {
	_, err := Load("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestValidateLoggingLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := validConfig()
		cfg.Logging.Level = level
		assert.NoError(t, cfg.Validate(), "level %q should be valid", level)
	}
	cfg := validConfig()
	cfg.Logging.Level = "trace"
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingFormat(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())
}

func TestValidateMCPTransport(t *testing.T) {
	cfg := validConfig()
	cfg.MCP.Transport = "websocket"
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.MCP.Transport = "http"
	cfg.MCP.Port = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.MCP.Port = 0
	assert.NoError(t, cfg.Validate(), "stdio ignores the port")
}

func TestValidateDisabledListenersAreIgnored(t *testing.T) {
	cfg := validConfig()
	cfg.GRPC.Enabled = false
	cfg.GRPC.Port = 0
	cfg.Metrics.Enabled = false
	cfg.Metrics.Host = ""
	assert.NoError(t, cfg.Validate())
}

func TestValidateGRPCHostEmpty(t *testing.T) {
	cfg := validConfig()
	cfg.GRPC.Host = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateSharedAddress(t *testing.T) {
	cfg := validConfig()
	cfg.Metrics.Port = cfg.GRPC.Port
	assert.ErrorContains(t, cfg.Validate(), "must not share")
}

func TestValidateAggregatesErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "trace"
	cfg.GRPC.Port = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.level")
	assert.Contains(t, err.Error(), "grpc.port")
}

func TestPropertyValidPortRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		port := rapid.IntRange(1, 65535).Filter(func(p int) bool { return p != 9090 }).Draw(t, "port")
		cfg := validConfig()
		cfg.GRPC.Port = port
		if err := cfg.Validate(); err != nil {
			t.Fatalf("valid port %d rejected: %v", port, err)
		}
	})
}

func TestPropertyInvalidPortRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		port := rapid.OneOf(
			rapid.IntRange(-1000, 0),
			rapid.IntRange(65536, 100000),
		).Draw(t, "port")
		cfg := validConfig()
		cfg.Metrics.Port = port
		if err := cfg.Validate(); err == nil {
			t.Fatalf("invalid port %d accepted", port)
		}
	})
}
