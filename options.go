package filterfx

import (
	"log/slog"
	"time"

	"github.com/deckfx/filterfx/cache"
	"github.com/deckfx/filterfx/internal/parallel"
)

// Policy decides the rendering strategy for a primitive. Decisions must
// be pure and monotonic: for fixed kind and parameters, a higher
// complexity score never yields a more capable strategy.
type Policy interface {
	Decide(kind Kind, params Params, complexity float64) Strategy
}

// Mode selects how a chain schedules its dependency levels.
type Mode uint8

const (
	// Sequential runs nodes one at a time in topological order.
	Sequential Mode = iota
	// Parallel runs the nodes of each dependency level concurrently on
	// the chain's worker pool.
	Parallel
)

// Option configures a Chain.
type Option func(*Chain)

// WithMode sets the scheduling mode. The default is Sequential.
func WithMode(m Mode) Option {
	return func(c *Chain) { c.mode = m }
}

// WithFailFast aborts the chain on the first node failure instead of
// isolating it as an identity pass-through.
func WithFailFast(on bool) Option {
	return func(c *Chain) { c.failFast = on }
}

// WithCache attaches a result cache. Executions with a matching key are
// served from the cache without resolving the graph.
func WithCache(m *cache.Manager[*ExecutionResult]) Option {
	return func(c *Chain) { c.cache = m }
}

// WithPool attaches a shared worker pool for Parallel mode. Without one
// the chain creates a private pool per execution.
func WithPool(p *parallel.Pool) Option {
	return func(c *Chain) { c.pool = p }
}

// WithObserver attaches an execution observer.
func WithObserver(o Observer) Option {
	return func(c *Chain) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithTimeout bounds each primitive's execution. A timed-out primitive
// counts as a node failure. Zero or negative disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Chain) { c.timeout = d }
}

// WithEMFSizeCap overrides the metafile encoder's size cap in bytes for
// this chain. Negative disables the cap.
func WithEMFSizeCap(bytes int) Option {
	return func(c *Chain) { c.emfSizeCap = bytes }
}

// WithChainLogger overrides the package logger for this chain.
func WithChainLogger(l *slog.Logger) Option {
	return func(c *Chain) {
		if l != nil {
			c.logger = l
		}
	}
}
