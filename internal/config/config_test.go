package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte(content), 0o600))
	return dir
}

func clearOverrideEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvTransport, EnvHost, EnvPort, EnvLogLevel} {
		t.Setenv(key, "")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearOverrideEnv(t)
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	clearOverrideEnv(t)
	dir := writeConfig(t, "server:\n  transport: sse\n  port: 9999\nlogLevel: debug\n")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, TransportSSE, cfg.Server.Transport)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestEnvWinsOverFile(t *testing.T) {
	clearOverrideEnv(t)
	dir := writeConfig(t, "server:\n  transport: sse\n  port: 9999\n")
	t.Setenv(EnvTransport, TransportStreamableHTTP)
	t.Setenv(EnvPort, "7070")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, TransportStreamableHTTP, cfg.Server.Transport)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoadMalformedFile(t *testing.T) {
	clearOverrideEnv(t)
	dir := writeConfig(t, "server: [not a map\n")

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLoadRejectsUnknownTransport(t *testing.T) {
	clearOverrideEnv(t)
	dir := writeConfig(t, "server:\n  transport: carrier-pigeon\n")

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "carrier-pigeon")
}

func TestNonNumericPortIgnored(t *testing.T) {
	clearOverrideEnv(t)
	t.Setenv(EnvPort, "eighty")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default().Server.Port, cfg.Server.Port)
}

func TestListenAddress(t *testing.T) {
	assert.Equal(t, "localhost:8585", Default().Server.ListenAddress())
}
