// Package config loads and validates the ingestion pipeline's
// configuration, adapted from the engine's Config/Defaults pattern.
// Config-file parsing itself sits outside the ingestion core's scope; this
// package is the ambient loader every deployment still needs.
package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the ingestion pipeline. Only the fields
// copied into Reloadable may be hot-reloaded (see Watcher); every other
// setting takes effect at startup only.
type Config struct {
	Network struct {
		UDPListenAddr     string `yaml:"udp_listen_addr"`
		ControlListenAddr string `yaml:"control_listen_addr"`
	} `yaml:"network"`

	DB struct {
		DSN       string `yaml:"dsn"`
		TableName string `yaml:"table_name"`
	} `yaml:"db"`

	BufferSize           int     `yaml:"buffer_size"`
	FlushIntervalSec     float64 `yaml:"flush_interval_sec"`
	QueueCapacity        int     `yaml:"queue_capacity"`
	DrainTimeoutSec      float64 `yaml:"drain_timeout_sec"`
	WarnRateLimitPerSec  float64 `yaml:"warn_rate_limit_per_sec"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`

	Metrics struct {
		Backend     string `yaml:"backend"`
		ListenAddr  string `yaml:"listen_addr"`
	} `yaml:"metrics"`
}

// Defaults returns a Config populated with the spec's documented defaults.
func Defaults() *Config {
	c := &Config{}
	c.Network.UDPListenAddr = "0.0.0.0:5300"
	c.Network.ControlListenAddr = ":8000"
	c.DB.TableName = "telemetry_packets"
	c.BufferSize = 60
	c.FlushIntervalSec = 1.0
	c.QueueCapacity = 10000
	c.DrainTimeoutSec = 5.0
	c.WarnRateLimitPerSec = 1
	c.Log.Level = "info"
	c.Log.Format = "json"
	c.Metrics.Backend = "prom"
	c.Metrics.ListenAddr = ":9090"
	return c
}

// Load reads YAML configuration from data onto a Defaults() base, then
// validates the result.
func Load(data []byte) (*Config, error) {
	c := Defaults()
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("config: parse failed: %w", err)
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks invariants that must hold for the service to start.
func (c *Config) Validate() error {
	if c.BufferSize <= 0 {
		return fmt.Errorf("config: buffer_size must be positive, got %d", c.BufferSize)
	}
	if c.FlushIntervalSec <= 0 {
		return fmt.Errorf("config: flush_interval_sec must be positive, got %f", c.FlushIntervalSec)
	}
	if c.QueueCapacity <= 0 {
		return fmt.Errorf("config: queue_capacity must be positive, got %d", c.QueueCapacity)
	}
	if c.DrainTimeoutSec <= 0 {
		return fmt.Errorf("config: drain_timeout_sec must be positive, got %f", c.DrainTimeoutSec)
	}
	if c.Network.UDPListenAddr == "" {
		return fmt.Errorf("config: network.udp_listen_addr is required")
	}
	if c.DB.DSN == "" {
		return fmt.Errorf("config: db.dsn is required")
	}
	return nil
}

// FlushInterval returns FlushIntervalSec as a time.Duration.
func (c *Config) FlushInterval() time.Duration {
	return time.Duration(c.FlushIntervalSec * float64(time.Second))
}

// DrainTimeout returns DrainTimeoutSec as a time.Duration.
func (c *Config) DrainTimeout() time.Duration {
	return time.Duration(c.DrainTimeoutSec * float64(time.Second))
}

// Reloadable is the subset of Config that may change at runtime without a
// restart, copied out so hot-reload can apply just these fields.
type Reloadable struct {
	BufferSize          int
	FlushIntervalSec    float64
	DrainTimeoutSec     float64
	WarnRateLimitPerSec float64
}

// ExtractReloadable returns the hot-reloadable subset of c.
func (c *Config) ExtractReloadable() Reloadable {
	return Reloadable{
		BufferSize:          c.BufferSize,
		FlushIntervalSec:    c.FlushIntervalSec,
		DrainTimeoutSec:     c.DrainTimeoutSec,
		WarnRateLimitPerSec: c.WarnRateLimitPerSec,
	}
}
