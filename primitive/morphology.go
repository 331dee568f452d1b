package primitive

import (
	"context"
	"fmt"

	"github.com/deckfx/filterfx"
	"github.com/deckfx/filterfx/drawing"
)

// Morphology dilates or erodes its input by a radius.
//
// The vector approximation is structural: dilation adds a stroked
// outline of twice the radius around filled geometry, erosion shrinks
// rectangles inward and drops commands the radius consumes entirely.
type Morphology struct{}

// Kind implements filterfx.Filter.
func (Morphology) Kind() filterfx.Kind { return filterfx.KindMorphology }

// Apply implements filterfx.Filter.
func (Morphology) Apply(ctx context.Context, req *filterfx.Request) (*filterfx.Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p := req.Spec.Params
	radius := p.Float("radius", 0)
	if radius < 0 {
		return nil, fmt.Errorf("primitive: morphology radius must be >= 0, got %g", radius)
	}
	op := p.String("operator", "erode")

	in := inputOf(req)
	if radius == 0 {
		return &filterfx.Output{Commands: in.Commands, Bounds: in.Bounds}, nil
	}

	switch op {
	case "dilate":
		return &filterfx.Output{
			Commands: dilate(in.Commands, radius),
			Bounds:   in.Bounds.Expand(radius, radius),
		}, nil
	case "erode":
		return &filterfx.Output{
			Commands: erode(in.Commands, radius),
			Bounds:   in.Bounds.Expand(-radius, -radius),
		}, nil
	default:
		return nil, fmt.Errorf("primitive: unknown morphology operator %q", op)
	}
}

// Complexity implements filterfx.Filter.
func (Morphology) Complexity(p filterfx.Params) float64 {
	return 1 + p.Float("radius", 0)
}

// dilate grows filled geometry by stroking its outline at twice the
// radius in the fill color.
func dilate(cmds []drawing.Command, radius float64) []drawing.Command {
	out := make([]drawing.Command, 0, 2*len(cmds))
	for _, cmd := range cmds {
		switch cmd := cmd.(type) {
		case drawing.PolygonCommand:
			out = append(out, drawing.PolylineCommand{
				Points: closeRing(cmd.Points),
				Color:  fillColor(cmd.Fill),
				Width:  2 * radius,
			})
			out = append(out, cmd)
		case drawing.FillRectCommand:
			out = append(out, drawing.FillRectCommand{
				Rect: cmd.Rect.Expand(radius, radius),
				Fill: cmd.Fill,
			})
		case drawing.PolylineCommand:
			cmd.Width += 2 * radius
			out = append(out, cmd)
		default:
			out = append(out, cmd)
		}
	}
	return out
}

// erode shrinks geometry inward, dropping commands smaller than the
// structuring element.
func erode(cmds []drawing.Command, radius float64) []drawing.Command {
	out := make([]drawing.Command, 0, len(cmds))
	for _, cmd := range cmds {
		switch cmd := cmd.(type) {
		case drawing.FillRectCommand:
			r := cmd.Rect.Expand(-radius, -radius)
			if r.Empty() {
				continue
			}
			out = append(out, drawing.FillRectCommand{Rect: r, Fill: cmd.Fill})
		case drawing.PolylineCommand:
			if cmd.Width <= 2*radius {
				continue
			}
			cmd.Width -= 2 * radius
			out = append(out, cmd)
		case drawing.PolygonCommand:
			b := cmd.Bounds()
			if b.Width() <= 2*radius || b.Height() <= 2*radius {
				continue
			}
			out = append(out, cmd)
		default:
			out = append(out, cmd)
		}
	}
	return out
}
