// File: facade/config.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Monitor configuration: defaults, YAML file and CONNMON_* environment.

package facade

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/momentics/hioload-collator/channel"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CONNMON"

// Config holds parameters immutable per run.
type Config struct {
	ListenAddr    string        `split_words:"true" yaml:"listen_addr"`    // TCP address of the websocket listener
	Path          string        `split_words:"true" yaml:"path"`           // HTTP path upgraded to websocket
	OutboundQueue int           `split_words:"true" yaml:"outbound_queue"` // Per-connection outbound messages
	WriteTimeout  time.Duration `split_words:"true" yaml:"write_timeout"`  // Deadline per outbound write, 0 disables
	Echo          bool          `split_words:"true" yaml:"echo"`           // Echo inbound messages to the sender

	EventCapacity int `split_words:"true" yaml:"event_capacity"` // Lifecycle events buffered per subscriber
	MaxBatch      int `split_words:"true" yaml:"max_batch"`      // Events applied per drain, 0 is unbounded

	MinBackoff      time.Duration `split_words:"true" yaml:"min_backoff"`       // First idle wait
	MaxBackoff      time.Duration `split_words:"true" yaml:"max_backoff"`       // Idle wait ceiling
	SnapshotSize    int           `split_words:"true" yaml:"snapshot_size"`     // Records copied per snapshot
	SnapshotLogRate float64       `split_words:"true" yaml:"snapshot_log_rate"` // Snapshot log lines per second, 0 disables

	LogLevel      string `split_words:"true" yaml:"log_level"`
	LogFormat     string `split_words:"true" yaml:"log_format"`
	EnableMetrics bool   `split_words:"true" yaml:"enable_metrics"`
	EnableDebug   bool   `split_words:"true" yaml:"enable_debug"`

	DemoClients  int `split_words:"true" yaml:"demo_clients"`
	DemoMessages int `split_words:"true" yaml:"demo_messages"`
}

// DefaultConfig returns default configuration values.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:      ":8080",
		Path:            "/ws",
		OutboundQueue:   256,
		WriteTimeout:    10 * time.Second,
		EventCapacity:   channel.DefaultCapacity,
		MaxBatch:        0,
		MinBackoff:      time.Millisecond,
		MaxBackoff:      50 * time.Millisecond,
		SnapshotSize:    1024,
		SnapshotLogRate: 1,
		LogLevel:        "info",
		LogFormat:       "text",
		EnableMetrics:   true,
		EnableDebug:     true,
		DemoClients:     4,
		DemoMessages:    16,
	}
}

// LoadConfig builds a configuration from defaults, the YAML file at path
// (skipped when empty) and CONNMON_* environment variables, in that order.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from CONNMON_* environment variables. Keys are
// derived from field names (MaxBatch reads CONNMON_MAX_BATCH); unprefixed
// variables such as PATH are never consulted.
func (c *Config) ApplyEnv() error {
	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return fmt.Errorf("processing env config: %w", err)
	}
	return nil
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []string
	if c.ListenAddr == "" {
		errs = append(errs, "listen_addr is required")
	}
	if !strings.HasPrefix(c.Path, "/") {
		errs = append(errs, fmt.Sprintf("path %q must start with /", c.Path))
	}
	if c.OutboundQueue < 1 {
		errs = append(errs, "outbound_queue must be positive")
	}
	if c.WriteTimeout < 0 {
		errs = append(errs, "write_timeout must not be negative")
	}
	if c.EventCapacity < 0 {
		errs = append(errs, "event_capacity must not be negative")
	}
	if c.MaxBatch < 0 {
		errs = append(errs, "max_batch must not be negative")
	}
	if c.MinBackoff <= 0 || c.MaxBackoff < c.MinBackoff {
		errs = append(errs, "backoff requires 0 < min_backoff <= max_backoff")
	}
	if c.SnapshotSize < 1 {
		errs = append(errs, "snapshot_size must be positive")
	}
	if c.SnapshotLogRate < 0 {
		errs = append(errs, "snapshot_log_rate must not be negative")
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("invalid log_format: %s (must be text or json)", c.LogFormat))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Sprintf("invalid log_level: %s", c.LogLevel))
	}
	if c.DemoClients < 0 || c.DemoMessages < 0 {
		errs = append(errs, "demo_clients and demo_messages must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}
	return nil
}
