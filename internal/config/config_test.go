package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults_MatchSpecDefaults(t *testing.T) {
	c := Defaults()
	assert.Equal(t, 60, c.BufferSize)
	assert.Equal(t, 1.0, c.FlushIntervalSec)
	assert.Equal(t, 10000, c.QueueCapacity)
	assert.Equal(t, 5.0, c.DrainTimeoutSec)
}

func TestLoad_OverridesDefaultsFromYAML(t *testing.T) {
	data := []byte(`
buffer_size: 120
db:
  dsn: "postgres://localhost/telemetry"
network:
  udp_listen_addr: "0.0.0.0:9999"
`)
	c, err := Load(data)
	require.NoError(t, err)
	assert.Equal(t, 120, c.BufferSize)
	assert.Equal(t, 1.0, c.FlushIntervalSec) // untouched default
	assert.Equal(t, "postgres://localhost/telemetry", c.DB.DSN)
}

func TestLoad_RejectsInvalidBufferSize(t *testing.T) {
	data := []byte(`
buffer_size: 0
db:
  dsn: "postgres://localhost/telemetry"
`)
	_, err := Load(data)
	require.Error(t, err)
}

func TestLoad_RequiresDSN(t *testing.T) {
	_, err := Load([]byte(`buffer_size: 10`))
	require.Error(t, err)
}

func TestFlushInterval_ConvertsSecondsToDuration(t *testing.T) {
	c := Defaults()
	c.FlushIntervalSec = 1.5
	assert.Equal(t, 1500*time.Millisecond, c.FlushInterval())
}
