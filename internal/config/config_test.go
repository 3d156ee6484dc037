package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAgentConfig_Defaults(t *testing.T) {
	cfg, err := NewAgentConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultFIFOPath, cfg.FIFOPath)
	assert.Equal(t, DefaultStatusPath, cfg.StatusPath)
	assert.Equal(t, DefaultMaxMetrics, cfg.MaxMetrics)
	assert.Equal(t, DefaultBufferSize, cfg.BufferSize)
	assert.Equal(t, DefaultAddress, cfg.Address)
	assert.Equal(t, time.Second, cfg.Interval())
	assert.True(t, cfg.LaunchServers)
}

func TestNewAgentConfig_Flags(t *testing.T) {
	cfg, err := NewAgentConfig([]string{"-f", "/run/fifo", "-s", "/run/status", "-i", "3", "-l=false"})
	require.NoError(t, err)

	assert.Equal(t, "/run/fifo", cfg.FIFOPath)
	assert.Equal(t, "/run/status", cfg.StatusPath)
	assert.Equal(t, 3*time.Second, cfg.Interval())
	assert.False(t, cfg.LaunchServers)
}

func TestNewAgentConfig_EnvOverridesFlags(t *testing.T) {
	t.Setenv("FIFO_PATH", "/env/fifo")
	t.Setenv("MAX_METRICS", "4")
	t.Setenv("LAUNCH_SERVERS", "false")

	cfg, err := NewAgentConfig([]string{"-f", "/flag/fifo", "-m", "7"})
	require.NoError(t, err)

	assert.Equal(t, "/env/fifo", cfg.FIFOPath)
	assert.Equal(t, 4, cfg.MaxMetrics)
	assert.False(t, cfg.LaunchServers)
}

func TestNewAgentConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{name: "bad int env", env: map[string]string{"UPDATE_INTERVAL": "soon"}},
		{name: "bad bool env", env: map[string]string{"LAUNCH_SERVERS": "maybe"}},
		{name: "zero max metrics", args: []string{"-m", "0"}},
		{name: "tiny buffer", args: []string{"-b", "1"}},
		{name: "zero interval", args: []string{"-i", "0"}},
		{name: "unknown flag", args: []string{"-x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := NewAgentConfig(tt.args)
			assert.Error(t, err)
		})
	}
}
