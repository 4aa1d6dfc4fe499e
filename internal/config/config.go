package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/creasty/defaults"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

type Configuration struct {
	Workers        int           `mapstructure:"workers" default:"0"`
	RateLimit      float64       `mapstructure:"rate" default:"0"`
	Burst          int           `mapstructure:"burst" default:"1"`
	CPUAffinity    bool          `mapstructure:"cpu-affinity" default:"false"`
	LogLevel       string        `mapstructure:"log-level" default:"info"`
	LogFormat      string        `mapstructure:"log-format" default:"console"`
	Metrics        bool          `mapstructure:"metrics" default:"false"`
	ProcessingTime time.Duration `mapstructure:"processing-time" default:"100ms"`
	Load           LoadTest      `mapstructure:"load"`
}

// LoadTest holds the settings of the load command.
type LoadTest struct {
	Requests int    `mapstructure:"requests" default:"100"`
	Target   string `mapstructure:"target" default:"http://example.com/ok"`
}

// NewConfigurationWithDefaults returns a Configuration with every default
// tag applied.
func NewConfigurationWithDefaults() (*Configuration, error) {
	cfg := &Configuration{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	return cfg, nil
}

// Default returns the defaults, panicking only if a default tag is malformed.
func Default() *Configuration {
	cfg := &Configuration{}
	defaults.MustSet(cfg)
	return cfg
}

// Load builds a Configuration from defaults overlaid with whatever v holds,
// then validates it.
func Load(v *viper.Viper) (*Configuration, error) {
	cfg, err := NewConfigurationWithDefaults()
	if err != nil {
		return nil, err
	}

	if v != nil {
		if err := v.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("decode configuration: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid field at once.
func (c *Configuration) Validate() error {
	var errs []error

	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must be >= 0, got %d", c.Workers))
	}
	if c.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("rate must be >= 0, got %v", c.RateLimit))
	}
	if c.RateLimit > 0 && c.Burst < 1 {
		errs = append(errs, fmt.Errorf("burst must be >= 1 when rate is set, got %d", c.Burst))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log-level: %w", err))
	}
	if c.LogFormat != LogFormatConsole && c.LogFormat != LogFormatJSON {
		errs = append(errs, fmt.Errorf("log-format must be %q or %q, got %q", LogFormatConsole, LogFormatJSON, c.LogFormat))
	}
	if c.ProcessingTime < 0 {
		errs = append(errs, fmt.Errorf("processing-time must be >= 0, got %v", c.ProcessingTime))
	}
	if c.Load.Requests < 1 {
		errs = append(errs, fmt.Errorf("load.requests must be >= 1, got %d", c.Load.Requests))
	}
	if c.Load.Target == "" {
		errs = append(errs, errors.New("load.target must not be empty"))
	}

	return errors.Join(errs...)
}

// Level returns the parsed log level. Call Validate first.
func (c *Configuration) Level() zapcore.Level {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}
