// control/config.go
// Author: momentics <momentics@gmail.com>
//
// File and environment configuration for streams.

package control

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/momentics/hioload-stream/client"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "HIOLOAD_STREAM_"

// FileConfig is the on-disk form of client.Config plus CLI settings.
type FileConfig struct {
	URI              string        `yaml:"uri"`
	QueueCapacity    int           `yaml:"queue_capacity"`
	EvictQuantum     int           `yaml:"evict_quantum"`
	ReadChunk        int           `yaml:"read_chunk"`
	PollInterval     time.Duration `yaml:"poll_interval"`
	DialTimeout      time.Duration `yaml:"dial_timeout"`
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	UserAgent        string        `yaml:"user_agent"`
	VerifyAccept     bool          `yaml:"verify_accept"`
	MetricsAddr      string        `yaml:"metrics_addr"`
	LogLevel         string        `yaml:"log_level"`
}

// DefaultFileConfig mirrors client.DefaultConfig.
func DefaultFileConfig() *FileConfig {
	d := client.DefaultConfig()
	return &FileConfig{
		QueueCapacity:    d.QueueCapacity,
		EvictQuantum:     d.EvictQuantum,
		ReadChunk:        d.ReadChunk,
		PollInterval:     d.PollInterval,
		DialTimeout:      d.DialTimeout,
		HandshakeTimeout: d.HandshakeTimeout,
		WriteTimeout:     d.WriteTimeout,
		UserAgent:        d.UserAgent,
		VerifyAccept:     d.VerifyAccept,
		LogLevel:         "info",
	}
}

// LoadFileConfig reads YAML from path over the defaults.
// A missing file yields the defaults and no error.
func LoadFileConfig(path string) (*FileConfig, error) {
	cfg := DefaultFileConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overlays HIOLOAD_STREAM_* variables. Malformed values are ignored.
func (c *FileConfig) ApplyEnv() {
	c.URI = getEnv("URI", c.URI)
	c.QueueCapacity = getInt("QUEUE_CAPACITY", c.QueueCapacity)
	c.EvictQuantum = getInt("EVICT_QUANTUM", c.EvictQuantum)
	c.ReadChunk = getInt("READ_CHUNK", c.ReadChunk)
	c.PollInterval = getDuration("POLL_INTERVAL", c.PollInterval)
	c.DialTimeout = getDuration("DIAL_TIMEOUT", c.DialTimeout)
	c.HandshakeTimeout = getDuration("HANDSHAKE_TIMEOUT", c.HandshakeTimeout)
	c.WriteTimeout = getDuration("WRITE_TIMEOUT", c.WriteTimeout)
	c.UserAgent = getEnv("USER_AGENT", c.UserAgent)
	c.VerifyAccept = getBool("VERIFY_ACCEPT", c.VerifyAccept)
	c.MetricsAddr = getEnv("METRICS_ADDR", c.MetricsAddr)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
}

// ClientConfig converts to client.Config. obs may be nil.
func (c *FileConfig) ClientConfig(log zerolog.Logger, obs client.Observer) client.Config {
	return client.Config{
		QueueCapacity:    c.QueueCapacity,
		EvictQuantum:     c.EvictQuantum,
		ReadChunk:        c.ReadChunk,
		PollInterval:     c.PollInterval,
		DialTimeout:      c.DialTimeout,
		HandshakeTimeout: c.HandshakeTimeout,
		WriteTimeout:     c.WriteTimeout,
		UserAgent:        c.UserAgent,
		VerifyAccept:     c.VerifyAccept,
		Logger:           log,
		Observer:         obs,
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	raw := os.Getenv(EnvPrefix + key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	raw := os.Getenv(EnvPrefix + key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(EnvPrefix + key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}
