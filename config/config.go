// Package config loads touchctl settings from defaults, an optional
// file and TOUCHCTL_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	OSC      OSCConfig     `mapstructure:"osc"`
	MIDI     MIDIConfig    `mapstructure:"midi"`
	Layout   string        `mapstructure:"layout"`
	LogLevel string        `mapstructure:"log_level"`
	Verbose  bool          `mapstructure:"verbose"`
	Metrics  MetricsConfig `mapstructure:"metrics"`
	Update   UpdateConfig  `mapstructure:"update"`
	Capture  CaptureConfig `mapstructure:"capture"`
}

// OSCConfig holds the UDP receiver settings.
type OSCConfig struct {
	Port      int    `mapstructure:"port"`
	Advertise bool   `mapstructure:"advertise"`
	Instance  string `mapstructure:"instance"`
	Interface string `mapstructure:"interface"`
}

// MIDIConfig selects an optional MIDI input port.
type MIDIConfig struct {
	Port   string `mapstructure:"port"`
	Prefix string `mapstructure:"prefix"`
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// UpdateConfig sets how often the registry is updated, in Hz.
type UpdateConfig struct {
	Rate float64 `mapstructure:"rate"`
}

// CaptureConfig names a file to record inbound messages to, or to
// replay them from instead of listening.
type CaptureConfig struct {
	Record string `mapstructure:"record"`
	Replay string `mapstructure:"replay"`
}

// Load reads configuration from path (if not empty) and the
// environment. Env var overrides use prefix TOUCHCTL_, with "." in
// keys replaced by "_".
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("osc.port", 6555)
	v.SetDefault("osc.advertise", true)
	v.SetDefault("osc.instance", "touchctl")
	v.SetDefault("osc.interface", "")
	v.SetDefault("midi.port", "")
	v.SetDefault("midi.prefix", "/midi")
	v.SetDefault("layout", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("verbose", false)
	v.SetDefault("metrics.addr", "")
	v.SetDefault("update.rate", 60.0)
	v.SetDefault("capture.record", "")
	v.SetDefault("capture.replay", "")

	v.SetEnvPrefix("TOUCHCTL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, c.Validate()
}

// Validate checks value ranges.
func (c Config) Validate() error {
	var errs []error
	if c.OSC.Port < 0 || c.OSC.Port > 65535 {
		errs = append(errs, fmt.Errorf("osc.port %d out of range", c.OSC.Port))
	}
	if c.Update.Rate <= 0 {
		errs = append(errs, fmt.Errorf("update.rate must be positive, got %v", c.Update.Rate))
	}
	if c.Capture.Record != "" && c.Capture.Replay != "" {
		errs = append(errs, errors.New("capture.record and capture.replay are exclusive"))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level %q is not one of debug, info, warn, error", c.LogLevel))
	}
	return errors.Join(errs...)
}

// Period returns the time between updates.
func (c Config) Period() time.Duration {
	return time.Duration(float64(time.Second) / c.Update.Rate)
}
