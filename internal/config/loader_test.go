package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlContent := `log:
  level: debug
  pretty: false
process:
  pause_on_handled_exception: true
  wait_guard: 20ms
`
	require.NoError(t, os.WriteFile(path, []byte(yamlContent), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.False(t, cfg.Log.Pretty)
	assert.True(t, cfg.Process.PauseOnHandledException)
	assert.Equal(t, 20*time.Millisecond, cfg.Process.WaitGuard)
	// Keys absent from the file keep their defaults.
	assert.Equal(t, time.Second, cfg.Process.BreakTimeout)
	assert.Equal(t, "127.0.0.1:9464", cfg.Metrics.Addr)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0600))

	t.Setenv("DBGCORE_LOG_LEVEL", "warn")
	t.Setenv("DBGCORE_PROCESS_BREAK_TIMEOUT", "250ms")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 250*time.Millisecond, cfg.Process.BreakTimeout)
}

func TestLoad_InvalidLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: loud\n"), 0600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
}

func TestLoad_Directory(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Log.Level = "error"
	cfg.Process.WaitTimeout = 3 * time.Second
	cfg.Metrics.Enabled = true

	require.NoError(t, Save(path, cfg))
	assert.FileExists(t, path)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{name: "defaults", modify: func(*Config) {}},
		{name: "negative guard", modify: func(c *Config) { c.Process.WaitGuard = -time.Millisecond }, wantErr: true},
		{name: "negative wait", modify: func(c *Config) { c.Process.WaitTimeout = -time.Second }, wantErr: true},
		{name: "metrics without addr", modify: func(c *Config) {
			c.Metrics.Enabled = true
			c.Metrics.Addr = ""
		}, wantErr: true},
		{name: "disabled logging", modify: func(c *Config) { c.Log.Level = "disabled" }},
		{name: "sample rate above one", modify: func(c *Config) { c.Tracing.SampleRate = 1.5 }, wantErr: true},
		{name: "tracing without endpoint", modify: func(c *Config) {
			c.Tracing.Enabled = true
			c.Tracing.Endpoint = ""
		}, wantErr: true},
		{name: "tracing enabled", modify: func(c *Config) { c.Tracing.Enabled = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "log.level", envKey("DBGCORE_LOG_LEVEL"))
	assert.Equal(t, "process.pause_on_handled_exception", envKey("DBGCORE_PROCESS_PAUSE_ON_HANDLED_EXCEPTION"))
	assert.Equal(t, "metrics", envKey("DBGCORE_METRICS"))
}
