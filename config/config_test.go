package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 6555, c.OSC.Port)
	assert.True(t, c.OSC.Advertise)
	assert.Equal(t, "touchctl", c.OSC.Instance)
	assert.Equal(t, "/midi", c.MIDI.Prefix)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, 60.0, c.Update.Rate)
	assert.Equal(t, time.Second/60, c.Period())
}

func TestFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "touchctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
osc:
  port: 9000
  advertise: false
layout: /etc/touchctl/layout.yaml
update:
  rate: 30
`), 0o644))
	t.Setenv("TOUCHCTL_LOG_LEVEL", "debug")
	t.Setenv("TOUCHCTL_METRICS_ADDR", ":9100")

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, c.OSC.Port)
	assert.False(t, c.OSC.Advertise)
	assert.Equal(t, "/etc/touchctl/layout.yaml", c.Layout)
	assert.Equal(t, 30.0, c.Update.Rate)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, ":9100", c.Metrics.Addr)
}

func TestValidate(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	bad := c
	bad.OSC.Port = 70000
	bad.Update.Rate = 0
	bad.LogLevel = "loud"
	bad.Capture = CaptureConfig{Record: "a.cbor", Replay: "b.cbor"}
	err = bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "osc.port")
	assert.Contains(t, err.Error(), "update.rate")
	assert.Contains(t, err.Error(), "log_level")
	assert.Contains(t, err.Error(), "exclusive")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
