package primitive

import (
	"context"

	"github.com/deckfx/filterfx"
)

// Displacement approximates a displacement map by shifting the primary
// input by half the scale, the mean displacement of a mid-gray map.
// Per-pixel displacement needs raster sampling of the map input, which
// the vector model gives up.
type Displacement struct{}

// Kind implements filterfx.Filter.
func (Displacement) Kind() filterfx.Kind { return filterfx.KindDisplacement }

// Apply implements filterfx.Filter.
func (Displacement) Apply(ctx context.Context, req *filterfx.Request) (*filterfx.Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	scale := req.Spec.Params.Float("scale", 0)
	in := inputOf(req)

	shift := scale / 2
	return &filterfx.Output{
		Commands: translate(in.Commands, shift, shift),
		Bounds:   in.Bounds.Translate(shift, shift).Union(in.Bounds),
	}, nil
}

// Complexity implements filterfx.Filter.
func (Displacement) Complexity(p filterfx.Params) float64 {
	return 4 + p.Float("scale", 0)/10
}
