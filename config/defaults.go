package config

import "time"

// Default values for configuration fields.
const (
	// Chain defaults
	DefaultWorkers          = 0 // one per CPU
	DefaultFailFast         = false
	DefaultPrimitiveTimeout = 5 * time.Second

	// Cache defaults
	DefaultCacheEnabled  = true
	DefaultCacheCapacity = 256
	DefaultCacheTTL      = 5 * time.Minute
	DefaultSweepInterval = 30 * time.Second

	// EMF defaults
	DefaultEMFSizeCap = 2 << 20 // 2 MiB

	// Policy defaults
	DefaultComplexityThreshold = 10.0
	DefaultPolicyWatch         = false

	// Logging defaults
	DefaultLoggingLevel  = "info"
	DefaultLoggingFormat = "json"
)

// Default returns a configuration with every field at its default.
// Load unmarshals on top of this, so booleans that default to true keep
// that default unless the file sets them explicitly.
func Default() *Config {
	cfg := &Config{}
	cfg.Cache.Enabled = DefaultCacheEnabled
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields with their defaults.
// It is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	if cfg.Chain.PrimitiveTimeout == 0 {
		cfg.Chain.PrimitiveTimeout = DefaultPrimitiveTimeout
	}

	if cfg.Cache.Capacity == 0 {
		cfg.Cache.Capacity = DefaultCacheCapacity
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = DefaultCacheTTL
	}
	if cfg.Cache.SweepInterval == 0 {
		cfg.Cache.SweepInterval = DefaultSweepInterval
	}

	if cfg.EMF.SizeCap == 0 {
		cfg.EMF.SizeCap = DefaultEMFSizeCap
	}

	if cfg.Policy.ComplexityThreshold == 0 {
		cfg.Policy.ComplexityThreshold = DefaultComplexityThreshold
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLoggingFormat
	}
}
