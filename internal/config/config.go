// Package config loads engine configuration from YAML. Every field is
// optional; the zero value of Config selects the engine defaults, so a
// missing or empty file is valid.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/gtaf/internal/store"
)

// Config mirrors the tunables of the engine. Thresholds at zero fall back
// to the store defaults.
type Config struct {
	// ChunkSizeThreshold seals an active temporal chunk after this many
	// values.
	ChunkSizeThreshold int `yaml:"chunk_size_threshold"`

	// SnapshotDeltaThreshold emits a mutable snapshot after this many
	// deltas.
	SnapshotDeltaThreshold int `yaml:"snapshot_delta_threshold"`

	// ReaderBufferSize is the load-time read window in bytes.
	ReaderBufferSize int `yaml:"reader_buffer_size"`

	// Reserve pre-sizes the store before bulk ingestion.
	Reserve ReserveHints `yaml:"reserve"`
}

// ReserveHints pre-sizes store internals for an expected load.
type ReserveHints struct {
	Atoms    int `yaml:"atoms"`
	Entities int `yaml:"entities"`
}

// Default returns the configuration equivalent to an absent file.
func Default() Config {
	return Config{}
}

// Load reads and parses a YAML configuration file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.ChunkSizeThreshold < 0 {
		return fmt.Errorf("chunk_size_threshold must not be negative")
	}
	if c.SnapshotDeltaThreshold < 0 {
		return fmt.Errorf("snapshot_delta_threshold must not be negative")
	}
	if c.ReaderBufferSize < 0 {
		return fmt.Errorf("reader_buffer_size must not be negative")
	}
	return nil
}

// StoreOptions translates the configuration into store options.
func (c Config) StoreOptions() store.Options {
	return store.Options{
		ChunkSizeThreshold:     c.ChunkSizeThreshold,
		SnapshotDeltaThreshold: c.SnapshotDeltaThreshold,
		ReaderBufferSize:       c.ReaderBufferSize,
	}
}
