package primitive

import (
	"context"
	"fmt"
	"math"

	"github.com/deckfx/filterfx"
	"github.com/deckfx/filterfx/drawing"
)

// Lighting approximates a diffuse distant-light pass by overlaying the
// lit region with the light color, weighted by the light's elevation.
// The true per-pixel surface normal computation has no vector form,
// which is why the policy routes this kind to the metafile path.
type Lighting struct{}

// Kind implements filterfx.Filter.
func (Lighting) Kind() filterfx.Kind { return filterfx.KindLighting }

// Apply implements filterfx.Filter.
func (Lighting) Apply(ctx context.Context, req *filterfx.Request) (*filterfx.Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p := req.Spec.Params
	elevation := p.Float("elevation", 45)
	if elevation < 0 || elevation > 90 {
		return nil, fmt.Errorf("primitive: lighting elevation must be in [0, 90], got %g", elevation)
	}
	color, err := colorParam(p, "lightingColor", "", drawing.RGBA{R: 255, G: 255, B: 255, A: 255})
	if err != nil {
		return nil, err
	}

	in := inputOf(req)

	// The overlay strength follows the diffuse term for a flat surface:
	// full elevation lights fully, grazing light barely.
	weight := math.Sin(elevation * math.Pi / 180)
	color.A = clampByte(float64(color.A) * weight * 0.5)

	cmds := make([]drawing.Command, 0, len(in.Commands)+1)
	cmds = append(cmds, in.Commands...)
	cmds = append(cmds, drawing.FillRectCommand{
		Rect: in.Bounds,
		Fill: drawing.SolidFill{Color: color},
	})
	return &filterfx.Output{Commands: cmds, Bounds: in.Bounds}, nil
}

// Complexity implements filterfx.Filter.
func (Lighting) Complexity(p filterfx.Params) float64 {
	return 4 + p.Float("surfaceScale", 1)
}
