// Package config defines the YAML configuration for the conversion core
// and its loading, defaulting, validation and hot-reload machinery.
package config

import "time"

// Config is the root configuration structure. It covers the chain
// executor, result cache, metafile encoder, fallback policy and
// logging. All sections have working defaults; an empty file is a
// valid configuration.
type Config struct {
	// Chain contains filter-chain executor configuration.
	Chain ChainConfig `yaml:"chain"`

	// Cache contains result-cache configuration.
	Cache CacheConfig `yaml:"cache"`

	// EMF contains metafile encoder configuration.
	EMF EMFConfig `yaml:"emf"`

	// Policy contains fallback-policy configuration, including the
	// per-kind capability table. This section supports hot reload.
	Policy PolicyConfig `yaml:"policy"`

	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`
}

// ChainConfig contains configuration for the chain executor.
type ChainConfig struct {
	// Workers is the size of the shared execution pool.
	// 0 means one worker per CPU.
	// Default: 0
	Workers int `yaml:"workers"`

	// FailFast aborts a chain on the first node failure instead of
	// substituting the node's primary input and continuing.
	// Default: false
	FailFast bool `yaml:"fail_fast"`

	// PrimitiveTimeout is the maximum duration a single primitive may
	// run. A timed-out primitive is treated as a node failure.
	// Zero or negative disables the per-primitive timeout.
	// Default: 5s
	PrimitiveTimeout time.Duration `yaml:"primitive_timeout"`
}

// CacheConfig contains configuration for the result cache.
type CacheConfig struct {
	// Enabled controls whether chain results are cached.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Capacity is the maximum number of entries per cache shard.
	// Default: 256
	Capacity int `yaml:"capacity"`

	// TTL is how long an entry stays valid after insertion.
	// Default: 5m
	TTL time.Duration `yaml:"ttl"`

	// SweepInterval is how often expired entries are collected.
	// Default: 30s
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// EMFConfig contains configuration for the metafile encoder.
type EMFConfig struct {
	// SizeCap is the maximum encoded metafile size in bytes. Exceeding
	// the cap fails the encode and escalates the node to the raster
	// path. Negative disables the cap.
	// Default: 2097152 (2 MiB)
	SizeCap int `yaml:"size_cap"`
}

// PolicyConfig contains configuration for the fallback policy engine.
type PolicyConfig struct {
	// ComplexityThreshold is the score above which a primitive that
	// would otherwise render natively is demoted one strategy step.
	// Default: 10
	ComplexityThreshold float64 `yaml:"complexity_threshold"`

	// Support caps the strategy per primitive kind. Keys are kind
	// names, values one of "native", "vector" or "emf". Kinds absent
	// from the table fall back to the built-in capability table.
	Support map[string]string `yaml:"support"`

	// Watch enables hot reload of this section when the configuration
	// file changes on disk.
	// Default: false
	Watch bool `yaml:"watch"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`
}
