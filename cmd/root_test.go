package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jiramcp/internal/apierr"
	"jiramcp/internal/config"
)

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "missing auth maps to auth-required",
			err:  apierr.New(apierr.KindMissingAuth, "no credential"),
			want: ExitCodeAuthRequired,
		},
		{
			name: "unauthorized maps to auth-required",
			err:  apierr.New(apierr.KindUnauthorized, "rejected"),
			want: ExitCodeAuthRequired,
		},
		{
			name: "wrapped auth error still maps",
			err:  fmt.Errorf("serve: %w", apierr.New(apierr.KindMissingAuth, "no credential")),
			want: ExitCodeAuthRequired,
		},
		{
			name: "other kinds map to generic error",
			err:  apierr.New(apierr.KindServerError, "boom"),
			want: ExitCodeError,
		},
		{
			name: "plain errors map to generic error",
			err:  errors.New("boom"),
			want: ExitCodeError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, getExitCode(tt.err))
		})
	}
}

func TestLoadServeConfigListenFlag(t *testing.T) {
	t.Setenv(config.EnvTransport, "")
	t.Setenv(config.EnvHost, "")
	t.Setenv(config.EnvPort, "")
	t.Setenv(config.EnvLogLevel, "")

	serveConfigPath = t.TempDir()
	serveTransport = "sse"
	serveListen = "0.0.0.0:9000"
	t.Cleanup(func() {
		serveConfigPath, serveTransport, serveListen = "", "", ""
	})

	cfg, err := loadServeConfig()
	require.NoError(t, err)
	assert.Equal(t, config.TransportSSE, cfg.Server.Transport)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 9000, cfg.Server.Port)
}

func TestLoadServeConfigBadListen(t *testing.T) {
	serveConfigPath = t.TempDir()
	serveListen = "no-port"
	t.Cleanup(func() {
		serveConfigPath, serveListen = "", ""
	})

	_, err := loadServeConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--listen")
}
