package primitive

import (
	"context"
	"fmt"
	"image"

	"github.com/deckfx/filterfx"
	"github.com/deckfx/filterfx/drawing"
	"github.com/deckfx/filterfx/internal/blend"
	"github.com/deckfx/filterfx/internal/raster"
)

// Composite combines its two inputs with a Porter-Duff operator, a
// separable blend mode or the arithmetic operator.
//
// The geometric operators keep vector form: the output is a stacking of
// the two command sequences with operator-dependent bounds. Blend modes
// and arithmetic have no vector equivalent, so both inputs are
// rasterized and composed per pixel; the chain reports the resulting
// raster payload as an escalation.
type Composite struct{}

// Kind implements filterfx.Filter.
func (Composite) Kind() filterfx.Kind { return filterfx.KindComposite }

// Apply implements filterfx.Filter.
func (Composite) Apply(ctx context.Context, req *filterfx.Request) (*filterfx.Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := req.Spec.Params.String("operator", "over")
	op, ok := blend.OpFromName(name)
	if !ok {
		return nil, fmt.Errorf("primitive: unknown composite operator %q", name)
	}

	in := inputOf(req)
	in2 := req.In2
	if in2 == nil {
		in2 = &filterfx.Output{Bounds: in.Bounds}
	}

	switch op {
	case blend.OpOver, blend.OpIn, blend.OpOut, blend.OpAtop, blend.OpXor:
		return geometricComposite(op, in, in2), nil
	default:
		return pixelComposite(op, req.Spec.Params, in, in2)
	}
}

// Complexity implements filterfx.Filter. Pixel operators carry the cost
// of two rasterizations.
func (Composite) Complexity(p filterfx.Params) float64 {
	switch p.String("operator", "over") {
	case "over", "in", "out", "atop", "xor":
		return 2
	default:
		return 8
	}
}

// geometricComposite stacks the vector inputs. The operator shapes the
// bounds; full coverage-correct clipping is left to the consumer.
func geometricComposite(op blend.Op, in, in2 *filterfx.Output) *filterfx.Output {
	var cmds []drawing.Command
	var bounds drawing.Rect

	switch op {
	case blend.OpIn:
		cmds = in.Commands
		bounds = in.Bounds.Intersect(in2.Bounds)
	case blend.OpOut:
		cmds = in.Commands
		bounds = in.Bounds
	case blend.OpAtop:
		cmds = stack(in2.Commands, in.Commands)
		bounds = in2.Bounds
	case blend.OpXor:
		cmds = stack(in.Commands, in2.Commands)
		bounds = in.Bounds.Union(in2.Bounds)
	default: // over
		cmds = stack(in2.Commands, in.Commands)
		bounds = in.Bounds.Union(in2.Bounds)
	}
	return &filterfx.Output{Commands: cmds, Bounds: bounds}
}

func stack(below, above []drawing.Command) []drawing.Command {
	out := make([]drawing.Command, 0, len(below)+len(above))
	out = append(out, below...)
	return append(out, above...)
}

// pixelComposite rasterizes both inputs over the union bounds and
// composes them per pixel.
func pixelComposite(op blend.Op, params filterfx.Params, in, in2 *filterfx.Output) (*filterfx.Output, error) {
	bounds := in.Bounds.Union(in2.Bounds)
	if bounds.Empty() {
		return nil, fmt.Errorf("primitive: composite inputs have empty bounds")
	}

	src, err := raster.Rasterize(in.Commands, bounds)
	if err != nil {
		return nil, err
	}
	dst, err := raster.Rasterize(in2.Commands, bounds)
	if err != nil {
		return nil, err
	}

	var fn blend.Func
	if op == blend.OpArithmetic {
		fn = blend.ArithmeticFunc(
			params.Float("k1", 0),
			params.Float("k2", 0),
			params.Float("k3", 0),
			params.Float("k4", 0),
		)
	} else {
		fn = blend.FuncFor(op)
	}
	composePixels(src, dst, fn)

	png, err := raster.EncodePNG(dst)
	if err != nil {
		return nil, err
	}
	return &filterfx.Output{Raster: png, Bounds: bounds}, nil
}

// composePixels applies fn to every pixel pair, writing results into dst.
// Both images share the same dimensions by construction.
func composePixels(src, dst *image.RGBA, fn blend.Func) {
	for i := 0; i < len(dst.Pix); i += 4 {
		r, g, b, a := fn(
			src.Pix[i], src.Pix[i+1], src.Pix[i+2], src.Pix[i+3],
			dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2], dst.Pix[i+3],
		)
		dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2], dst.Pix[i+3] = r, g, b, a
	}
}
