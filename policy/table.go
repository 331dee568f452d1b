package policy

import "github.com/deckfx/filterfx"

// builtinTable caps the strategy each primitive kind can reach when the
// configuration does not override it. The cap reflects what the target
// format's effect list can express for that kind; parameter shapes can
// still push individual primitives further down (see requiredStrategy).
var builtinTable = map[filterfx.Kind]filterfx.Strategy{
	filterfx.KindBlur:              filterfx.NativeEffect,
	filterfx.KindOffset:            filterfx.NativeEffect,
	filterfx.KindDropShadow:        filterfx.NativeEffect,
	filterfx.KindFlood:             filterfx.NativeEffect,
	filterfx.KindMerge:             filterfx.NativeEffect,
	filterfx.KindComposite:         filterfx.NativeEffect,
	filterfx.KindColorMatrix:       filterfx.NativeEffect,
	filterfx.KindComponentTransfer: filterfx.VectorApprox,
	filterfx.KindConvolve:          filterfx.VectorApprox,
	filterfx.KindMorphology:        filterfx.VectorApprox,
	filterfx.KindTile:              filterfx.EMFFallback,
	filterfx.KindDisplacement:      filterfx.EMFFallback,
	filterfx.KindLighting:          filterfx.EMFFallback,
}
