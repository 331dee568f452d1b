package primitive

import (
	"context"
	"fmt"
	"math"

	"github.com/deckfx/filterfx"
	"github.com/deckfx/filterfx/drawing"
)

// ComponentTransfer remaps each color channel through a transfer
// function: identity, linear, gamma, table or discrete. Like the color
// matrix, the vector approximation applies the functions to command
// colors directly.
//
// Per-channel parameters are flattened with the channel letter prefix:
// rType, rSlope, rIntercept, rAmplitude, rExponent, rOffset, rValues,
// and likewise for g, b and a.
type ComponentTransfer struct{}

// Kind implements filterfx.Filter.
func (ComponentTransfer) Kind() filterfx.Kind { return filterfx.KindComponentTransfer }

// Apply implements filterfx.Filter.
func (ComponentTransfer) Apply(ctx context.Context, req *filterfx.Request) (*filterfx.Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p := req.Spec.Params

	var fns [4]transferFunc
	for i, ch := range []string{"r", "g", "b", "a"} {
		fn, err := transferOf(p, ch)
		if err != nil {
			return nil, err
		}
		fns[i] = fn
	}

	in := inputOf(req)
	return &filterfx.Output{
		Commands: recolor(in.Commands, func(c drawing.RGBA) drawing.RGBA {
			return drawing.RGBA{
				R: clampByte(fns[0](float64(c.R)/255) * 255),
				G: clampByte(fns[1](float64(c.G)/255) * 255),
				B: clampByte(fns[2](float64(c.B)/255) * 255),
				A: clampByte(fns[3](float64(c.A)/255) * 255),
			}
		}),
		Bounds: in.Bounds,
	}, nil
}

// Complexity implements filterfx.Filter.
func (ComponentTransfer) Complexity(filterfx.Params) float64 { return 3 }

// transferFunc maps one channel value, both sides unit fractions.
type transferFunc func(float64) float64

func identityTransfer(v float64) float64 { return v }

// transferOf builds the transfer function for one channel prefix.
func transferOf(p filterfx.Params, ch string) (transferFunc, error) {
	switch typ := p.String(ch+"Type", "identity"); typ {
	case "identity":
		return identityTransfer, nil
	case "linear":
		slope := p.Float(ch+"Slope", 1)
		intercept := p.Float(ch+"Intercept", 0)
		return func(v float64) float64 { return slope*v + intercept }, nil
	case "gamma":
		amplitude := p.Float(ch+"Amplitude", 1)
		exponent := p.Float(ch+"Exponent", 1)
		offset := p.Float(ch+"Offset", 0)
		return func(v float64) float64 {
			return amplitude*math.Pow(v, exponent) + offset
		}, nil
	case "table":
		values := p.Floats(ch + "Values")
		if len(values) == 0 {
			return identityTransfer, nil
		}
		if len(values) == 1 {
			v := values[0]
			return func(float64) float64 { return v }, nil
		}
		return func(v float64) float64 {
			n := len(values) - 1
			pos := v * float64(n)
			k := int(pos)
			if k >= n {
				return values[n]
			}
			frac := pos - float64(k)
			return values[k] + frac*(values[k+1]-values[k])
		}, nil
	case "discrete":
		values := p.Floats(ch + "Values")
		if len(values) == 0 {
			return identityTransfer, nil
		}
		return func(v float64) float64 {
			n := len(values)
			k := int(v * float64(n))
			if k >= n {
				k = n - 1
			}
			return values[k]
		}, nil
	default:
		return nil, fmt.Errorf("primitive: unknown transfer type %q for channel %s", typ, ch)
	}
}
