package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewConfigurationWithDefaults(t *testing.T) {
	cfg, err := NewConfigurationWithDefaults()
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.Workers)
	assert.Equal(t, float64(0), cfg.RateLimit)
	assert.Equal(t, 1, cfg.Burst)
	assert.False(t, cfg.CPUAffinity)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, LogFormatConsole, cfg.LogFormat)
	assert.False(t, cfg.Metrics)
	assert.Equal(t, 100*time.Millisecond, cfg.ProcessingTime)
	assert.Equal(t, 100, cfg.Load.Requests)
	assert.Equal(t, "http://example.com/ok", cfg.Load.Target)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_NilViper(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Load.Requests)
}

func TestLoad_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("workers", 4)
	v.Set("rate", 25.5)
	v.Set("burst", 3)
	v.Set("log-level", "debug")
	v.Set("log-format", "json")
	v.Set("processing-time", "250ms")
	v.Set("load.requests", 10)

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 25.5, cfg.RateLimit)
	assert.Equal(t, 3, cfg.Burst)
	assert.Equal(t, zapcore.DebugLevel, cfg.Level())
	assert.Equal(t, LogFormatJSON, cfg.LogFormat)
	assert.Equal(t, 250*time.Millisecond, cfg.ProcessingTime)
	assert.Equal(t, 10, cfg.Load.Requests)
	assert.Equal(t, "http://example.com/ok", cfg.Load.Target, "unset keys keep their defaults")
}

func TestLoad_ConfigFile(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
workers: 2
cpu-affinity: true
metrics: true
load:
  requests: 5
  target: https://example.com/created
`)))

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Workers)
	assert.True(t, cfg.CPUAffinity)
	assert.True(t, cfg.Metrics)
	assert.Equal(t, 5, cfg.Load.Requests)
	assert.Equal(t, "https://example.com/created", cfg.Load.Target)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("ASYNCHTTP_WORKERS", "7")
	t.Setenv("ASYNCHTTP_LOAD_REQUESTS", "12")

	v := viper.New()
	v.SetEnvPrefix("ASYNCHTTP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only covers keys viper already knows about.
	require.NoError(t, v.BindEnv("workers"))
	require.NoError(t, v.BindEnv("load.requests"))

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Workers)
	assert.Equal(t, 12, cfg.Load.Requests)
}

func TestConfiguration_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Configuration)
		wantErr string
	}{
		{"negative workers", func(c *Configuration) { c.Workers = -1 }, "workers"},
		{"negative rate", func(c *Configuration) { c.RateLimit = -2 }, "rate"},
		{"rate without burst", func(c *Configuration) { c.RateLimit = 5; c.Burst = 0 }, "burst"},
		{"bad level", func(c *Configuration) { c.LogLevel = "loud" }, "log-level"},
		{"bad format", func(c *Configuration) { c.LogFormat = "xml" }, "log-format"},
		{"negative processing time", func(c *Configuration) { c.ProcessingTime = -time.Second }, "processing-time"},
		{"no requests", func(c *Configuration) { c.Load.Requests = 0 }, "load.requests"},
		{"no target", func(c *Configuration) { c.Load.Target = "" }, "load.target"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewConfigurationWithDefaults()
			require.NoError(t, err)

			tt.mutate(cfg)
			err = cfg.Validate()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("reports all problems", func(t *testing.T) {
		cfg, err := NewConfigurationWithDefaults()
		require.NoError(t, err)
		cfg.Workers = -1
		cfg.LogFormat = "xml"

		err = cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "workers")
		assert.Contains(t, err.Error(), "log-format")
	})
}

func TestLoad_InvalidValues(t *testing.T) {
	v := viper.New()
	v.Set("log-format", "xml")

	_, err := Load(v)
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	want, err := NewConfigurationWithDefaults()
	require.NoError(t, err)

	assert.Equal(t, want, Default())
}

func TestLoad_LoadTestSection(t *testing.T) {
	v := viper.New()
	v.Set("load.requests", 7)
	v.Set("load.target", "https://example.com/created")

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, LoadTest{Requests: 7, Target: "https://example.com/created"}, cfg.Load)
}
