package config

import (
	"fmt"
	"strings"
)

// supportLevels are the strategy caps accepted in the policy support
// table. "raster" is deliberately absent: the raster path is reached
// only by escalation, never chosen up front.
var supportLevels = map[string]bool{
	"native": true,
	"vector": true,
	"emf":    true,
}

// Validate checks a configuration for invalid values. It returns an
// error describing every violation found, one per line.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.Chain.Workers < 0 {
		errs = append(errs, fmt.Sprintf("chain.workers must be >= 0, got %d", cfg.Chain.Workers))
	}

	if cfg.Cache.Capacity < 1 {
		errs = append(errs, fmt.Sprintf("cache.capacity must be >= 1, got %d", cfg.Cache.Capacity))
	}
	if cfg.Cache.TTL <= 0 {
		errs = append(errs, fmt.Sprintf("cache.ttl must be positive, got %s", cfg.Cache.TTL))
	}
	if cfg.Cache.SweepInterval <= 0 {
		errs = append(errs, fmt.Sprintf("cache.sweep_interval must be positive, got %s", cfg.Cache.SweepInterval))
	}

	if cfg.Policy.ComplexityThreshold <= 0 {
		errs = append(errs, fmt.Sprintf("policy.complexity_threshold must be positive, got %g", cfg.Policy.ComplexityThreshold))
	}
	for kind, level := range cfg.Policy.Support {
		if !supportLevels[level] {
			errs = append(errs, fmt.Sprintf("policy.support[%s]: unknown strategy %q (want native, vector or emf)", kind, level))
		}
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("logging.level: unknown level %q", cfg.Logging.Level))
	}
	switch cfg.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Sprintf("logging.format: unknown format %q", cfg.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "\n"))
	}
	return nil
}
