package primitive

import (
	"context"
	"math"

	"github.com/deckfx/filterfx"
	"github.com/deckfx/filterfx/dml"
	"github.com/deckfx/filterfx/drawing"
)

// DropShadow renders a blurred, offset silhouette behind its input.
// Natively it becomes an outer shadow effect; on the fallback paths the
// silhouette is drawn as translated geometry in the shadow color.
type DropShadow struct{}

// Kind implements filterfx.Filter.
func (DropShadow) Kind() filterfx.Kind { return filterfx.KindDropShadow }

// Apply implements filterfx.Filter.
func (DropShadow) Apply(ctx context.Context, req *filterfx.Request) (*filterfx.Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p := req.Spec.Params
	dx := p.Float("dx", 2)
	dy := p.Float("dy", 2)
	sigma := p.Float("stdDeviation", 2)
	color, err := colorParam(p, "shadowColor", "shadowOpacity",
		drawing.RGBA{A: 128})
	if err != nil {
		return nil, err
	}

	in := inputOf(req)
	shadowBounds := in.Bounds.Translate(dx, dy).Expand(2*sigma, 2*sigma)
	bounds := in.Bounds.Union(shadowBounds)

	if req.Strategy == filterfx.NativeEffect {
		dist := math.Hypot(dx, dy)
		dir := math.Atan2(dy, dx) * 180 / math.Pi
		return &filterfx.Output{
			Fragment: dml.EffectList(dml.OuterShadow(2*sigma, dist, dir, color)),
			Commands: in.Commands,
			Bounds:   bounds,
		}, nil
	}

	// Fallback: the silhouette is the geometry translated and recolored
	// to the shadow color, painted below the original.
	silhouette := recolor(translate(in.Commands, dx, dy), func(c drawing.RGBA) drawing.RGBA {
		out := color
		out.A = uint8(uint16(out.A) * uint16(c.A) / 255)
		return out
	})
	cmds := make([]drawing.Command, 0, 2*len(in.Commands))
	cmds = append(cmds, silhouette...)
	cmds = append(cmds, in.Commands...)
	return &filterfx.Output{Commands: cmds, Bounds: bounds}, nil
}

// Complexity implements filterfx.Filter.
func (DropShadow) Complexity(p filterfx.Params) float64 {
	return 2 + p.Float("stdDeviation", 2)
}
