// Package config provides the configuration system for dataprof profiling
// sessions: dataset identity, tags, output store settings, and logging.
//
// Example usage:
//
//	cfg := config.NewSessionConfig("orders")
//	cfg.Tags["env"] = "prod"
//	cfg.Store.Compression = "zstd"
//
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"fmt"
	"time"
)

// SessionConfig describes one profiling session.
type SessionConfig struct {
	// Dataset is the human-readable profile name.
	Dataset string `yaml:"dataset" json:"dataset"`

	// SessionID pins the session identity. Generated when empty.
	SessionID string `yaml:"session_id,omitempty" json:"session_id,omitempty"`

	// DataTimestamp is the batch/business date of the data in RFC 3339
	// form. Empty means absent.
	DataTimestamp string `yaml:"data_timestamp,omitempty" json:"data_timestamp,omitempty"`

	// Tags are identity-bearing labels; profiles with differing tags never
	// merge.
	Tags map[string]string `yaml:"tags,omitempty" json:"tags,omitempty"`

	// Metadata is free-form descriptive annotation.
	Metadata map[string]string `yaml:"metadata,omitempty" json:"metadata,omitempty"`

	// Store configures where serialized profiles go.
	Store StoreConfig `yaml:"store" json:"store"`

	// Logging configures the logger.
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// StoreConfig configures the profile output store.
type StoreConfig struct {
	// Path of the delimited profile stream file.
	Path string `yaml:"path" json:"path"`

	// Compression codec: none, gzip, snappy, s2, zstd, or lz4.
	Compression string `yaml:"compression" json:"compression"`
}

// LoggingConfig configures logging output.
type LoggingConfig struct {
	Level    string `yaml:"level" json:"level"`
	Encoding string `yaml:"encoding" json:"encoding"`
}

// NewSessionConfig returns a session configuration with defaults applied.
func NewSessionConfig(dataset string) *SessionConfig {
	return &SessionConfig{
		Dataset:  dataset,
		Tags:     make(map[string]string),
		Metadata: make(map[string]string),
		Store: StoreConfig{
			Compression: "none",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Encoding: "json",
		},
	}
}

// Validate checks the configuration for consistency.
func (c *SessionConfig) Validate() error {
	if c.Dataset == "" {
		return fmt.Errorf("dataset name is required")
	}
	if c.DataTimestamp != "" {
		if _, err := time.Parse(time.RFC3339, c.DataTimestamp); err != nil {
			return fmt.Errorf("invalid data_timestamp: %w", err)
		}
	}
	switch c.Store.Compression {
	case "", "none", "gzip", "snappy", "s2", "zstd", "lz4":
	default:
		return fmt.Errorf("unknown compression codec %q", c.Store.Compression)
	}
	return nil
}

// ParsedDataTimestamp returns the data timestamp, or the zero time when
// absent. Validate must have passed.
func (c *SessionConfig) ParsedDataTimestamp() time.Time {
	if c.DataTimestamp == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, c.DataTimestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}
