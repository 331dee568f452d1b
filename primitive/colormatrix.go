package primitive

import (
	"context"
	"fmt"
	"math"

	"github.com/deckfx/filterfx"
	"github.com/deckfx/filterfx/dml"
	"github.com/deckfx/filterfx/drawing"
)

// ColorMatrix remaps colors through a 5x4 matrix. The shorthand types
// (saturate, hueRotate, luminanceToAlpha) expand to their standard
// matrices.
//
// On the native path the shorthands map onto color-change effects; on
// the vector path the matrix is applied to the command colors directly,
// which is exact for solid-colored geometry.
type ColorMatrix struct{}

// Kind implements filterfx.Filter.
func (ColorMatrix) Kind() filterfx.Kind { return filterfx.KindColorMatrix }

// Apply implements filterfx.Filter.
func (ColorMatrix) Apply(ctx context.Context, req *filterfx.Request) (*filterfx.Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p := req.Spec.Params
	typ := p.String("type", "matrix")

	m, err := matrixFor(typ, p)
	if err != nil {
		return nil, err
	}

	in := inputOf(req)
	out := &filterfx.Output{
		Commands: recolor(in.Commands, m.apply),
		Bounds:   in.Bounds,
	}

	if req.Strategy == filterfx.NativeEffect {
		switch typ {
		case "saturate":
			if p.Float("value", 1) == 0 {
				out.Fragment = dml.Grayscale()
			}
		case "luminanceToAlpha":
			out.Fragment = dml.Grayscale()
		}
	}
	return out, nil
}

// Complexity implements filterfx.Filter.
func (ColorMatrix) Complexity(p filterfx.Params) float64 {
	if p.String("type", "matrix") == "matrix" {
		return 4
	}
	return 2
}

// colorMatrix is a 5x4 matrix in row-major order: one row per output
// channel (R, G, B, A), five coefficients per row with the last being
// the constant offset. Channel values are unit fractions.
type colorMatrix [20]float64

// matrixFor expands a colormatrix type into its matrix.
func matrixFor(typ string, p filterfx.Params) (colorMatrix, error) {
	switch typ {
	case "matrix":
		values := p.Floats("values")
		if len(values) != 20 {
			return colorMatrix{}, fmt.Errorf("primitive: colormatrix needs 20 values, got %d", len(values))
		}
		var m colorMatrix
		copy(m[:], values)
		return m, nil
	case "saturate":
		return saturateMatrix(p.Float("value", 1)), nil
	case "hueRotate":
		return hueRotateMatrix(p.Float("value", 0)), nil
	case "luminanceToAlpha":
		return colorMatrix{
			0, 0, 0, 0, 0,
			0, 0, 0, 0, 0,
			0, 0, 0, 0, 0,
			0.2126, 0.7152, 0.0722, 0, 0,
		}, nil
	default:
		return colorMatrix{}, fmt.Errorf("primitive: unknown colormatrix type %q", typ)
	}
}

// saturateMatrix is the standard saturation matrix for factor s.
func saturateMatrix(s float64) colorMatrix {
	return colorMatrix{
		0.213 + 0.787*s, 0.715 - 0.715*s, 0.072 - 0.072*s, 0, 0,
		0.213 - 0.213*s, 0.715 + 0.285*s, 0.072 - 0.072*s, 0, 0,
		0.213 - 0.213*s, 0.715 - 0.715*s, 0.072 + 0.928*s, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// hueRotateMatrix is the standard hue rotation matrix for deg degrees.
func hueRotateMatrix(deg float64) colorMatrix {
	c := math.Cos(deg * math.Pi / 180)
	s := math.Sin(deg * math.Pi / 180)
	return colorMatrix{
		0.213 + c*0.787 - s*0.213, 0.715 - c*0.715 - s*0.715, 0.072 - c*0.072 + s*0.928, 0, 0,
		0.213 - c*0.213 + s*0.143, 0.715 + c*0.285 + s*0.140, 0.072 - c*0.072 - s*0.283, 0, 0,
		0.213 - c*0.213 - s*0.787, 0.715 - c*0.715 + s*0.715, 0.072 + c*0.928 + s*0.072, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// apply transforms one color through the matrix.
func (m colorMatrix) apply(c drawing.RGBA) drawing.RGBA {
	r := float64(c.R) / 255
	g := float64(c.G) / 255
	b := float64(c.B) / 255
	a := float64(c.A) / 255
	return drawing.RGBA{
		R: clampByte((m[0]*r + m[1]*g + m[2]*b + m[3]*a + m[4]) * 255),
		G: clampByte((m[5]*r + m[6]*g + m[7]*b + m[8]*a + m[9]) * 255),
		B: clampByte((m[10]*r + m[11]*g + m[12]*b + m[13]*a + m[14]) * 255),
		A: clampByte((m[15]*r + m[16]*g + m[17]*b + m[18]*a + m[19]) * 255),
	}
}
