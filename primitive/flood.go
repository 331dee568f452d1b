package primitive

import (
	"context"

	"github.com/deckfx/filterfx"
	"github.com/deckfx/filterfx/dml"
	"github.com/deckfx/filterfx/drawing"
)

// Flood fills the primitive's effect region with a solid color. The
// input is ignored, matching the source semantics.
type Flood struct{}

// Kind implements filterfx.Filter.
func (Flood) Kind() filterfx.Kind { return filterfx.KindFlood }

// Apply implements filterfx.Filter.
func (Flood) Apply(ctx context.Context, req *filterfx.Request) (*filterfx.Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	color, err := colorParam(req.Spec.Params, "floodColor", "floodOpacity",
		drawing.RGBA{A: 255})
	if err != nil {
		return nil, err
	}

	region := req.Spec.Region
	if region.Empty() {
		region = inputOf(req).Bounds
	}

	out := &filterfx.Output{
		Commands: []drawing.Command{
			drawing.FillRectCommand{Rect: region, Fill: drawing.SolidFill{Color: color}},
		},
		Bounds: region,
	}
	if req.Strategy == filterfx.NativeEffect {
		out.Fragment = dml.SolidFill(color)
	}
	return out, nil
}

// Complexity implements filterfx.Filter.
func (Flood) Complexity(filterfx.Params) float64 { return 1 }
