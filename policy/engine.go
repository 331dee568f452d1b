// Package policy decides which rendering strategy each primitive gets:
// a native effect, a vector approximation, or a metafile fallback. The
// raster path is never chosen here; it is reached only when a metafile
// encode fails downstream.
package policy

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/deckfx/filterfx"
	"github.com/deckfx/filterfx/config"
	"github.com/deckfx/filterfx/internal/kernel"
)

// Engine is a fallback policy engine. Decisions are pure: the same
// kind, parameters and complexity score always produce the same
// strategy for a given table.
//
// The capability table and complexity threshold are swapped atomically,
// so Reload is safe while chains are executing.
type Engine struct {
	table     atomic.Pointer[map[filterfx.Kind]filterfx.Strategy]
	threshold atomic.Uint64 // float64 bits
}

// NewEngine builds an engine from the policy configuration section.
// Kinds absent from cfg.Support use the built-in capability table.
func NewEngine(cfg config.PolicyConfig) (*Engine, error) {
	e := &Engine{}
	if err := e.Reload(cfg); err != nil {
		return nil, err
	}
	return e, nil
}

// Reload replaces the capability table and threshold. A failed reload
// leaves the previous state in place.
func (e *Engine) Reload(cfg config.PolicyConfig) error {
	table := make(map[filterfx.Kind]filterfx.Strategy, len(builtinTable))
	for k, s := range builtinTable {
		table[k] = s
	}
	for name, level := range cfg.Support {
		k, ok := filterfx.KindFromName(name)
		if !ok {
			return fmt.Errorf("policy: unknown primitive kind %q", name)
		}
		s, ok := supportStrategy(level)
		if !ok {
			return fmt.Errorf("policy: unknown strategy %q for kind %q", level, name)
		}
		table[k] = s
	}

	threshold := cfg.ComplexityThreshold
	if threshold <= 0 {
		threshold = config.DefaultComplexityThreshold
	}

	e.table.Store(&table)
	e.threshold.Store(math.Float64bits(threshold))
	return nil
}

// Decide returns the strategy for one primitive. The result is
// monotonic in complexity: a higher score never yields a more capable
// strategy than a lower one.
func (e *Engine) Decide(kind filterfx.Kind, params filterfx.Params, complexity float64) filterfx.Strategy {
	s, ok := (*e.table.Load())[kind]
	if !ok {
		s = filterfx.EMFFallback
	}

	// Parameter shapes can rule out the capable strategies regardless
	// of the table cap.
	if req := requiredStrategy(kind, params); req > s {
		s = req
	}

	if complexity > math.Float64frombits(e.threshold.Load()) {
		s = demote(s)
	}
	return s
}

// Threshold returns the active complexity threshold.
func (e *Engine) Threshold() float64 {
	return math.Float64frombits(e.threshold.Load())
}

// demote steps a strategy one level toward the metafile fallback.
// EMF is the floor: escalation to raster happens only on encode
// failure, never as a policy decision.
func demote(s filterfx.Strategy) filterfx.Strategy {
	if s >= filterfx.EMFFallback {
		return filterfx.EMFFallback
	}
	return s + 1
}

// requiredStrategy returns the minimum strategy a primitive's
// parameters force, independent of the capability table.
func requiredStrategy(kind filterfx.Kind, params filterfx.Params) filterfx.Strategy {
	switch kind {
	case filterfx.KindConvolve:
		// Recognized kernel shapes have vector approximations; arbitrary
		// matrices must be rendered into the metafile.
		m := kernel.Matrix{Values: params.Floats("kernelMatrix")}
		m.Cols, m.Rows = orderOf(params, len(m.Values))
		if kernel.Recognize(m).VectorApproximable() {
			return filterfx.VectorApprox
		}
		return filterfx.EMFFallback

	case filterfx.KindComposite:
		// Arithmetic and other unmapped operators have no effect-list
		// equivalent.
		switch params.String("operator", "over") {
		case "over", "in", "out", "atop", "xor":
			return filterfx.NativeEffect
		default:
			return filterfx.EMFFallback
		}

	case filterfx.KindColorMatrix:
		// Saturate and luminance-to-alpha map onto color adjustments;
		// hue rotation and full matrices recolor geometry on the vector
		// path.
		switch params.String("type", "matrix") {
		case "saturate", "luminanceToAlpha":
			return filterfx.NativeEffect
		default:
			return filterfx.VectorApprox
		}
	}
	return filterfx.NativeEffect
}

// orderOf reads the kernel order parameter, falling back to a square
// shape inferred from the value count.
func orderOf(params filterfx.Params, n int) (cols, rows int) {
	if v := params.Float("order", 0); v > 0 {
		return int(v), int(v)
	}
	side := int(math.Sqrt(float64(n)))
	return side, side
}

// supportStrategy maps a configuration support level to its strategy.
func supportStrategy(level string) (filterfx.Strategy, bool) {
	switch level {
	case "native":
		return filterfx.NativeEffect, true
	case "vector":
		return filterfx.VectorApprox, true
	case "emf":
		return filterfx.EMFFallback, true
	default:
		return 0, false
	}
}
