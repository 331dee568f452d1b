package primitive

import (
	"context"
	"fmt"
	"math"

	"github.com/deckfx/filterfx"
	"github.com/deckfx/filterfx/dml"
	"github.com/deckfx/filterfx/drawing"
	"github.com/deckfx/filterfx/internal/kernel"
)

// Convolve applies a convolution kernel.
//
// Recognized kernel shapes have structural vector approximations: edge
// detectors become stroked outlines of the input geometry, box kernels
// become a small blur, identity passes through. Arbitrary kernels keep
// the geometry and rely on the metafile path.
type Convolve struct{}

// Kind implements filterfx.Filter.
func (Convolve) Kind() filterfx.Kind { return filterfx.KindConvolve }

// Apply implements filterfx.Filter.
func (Convolve) Apply(ctx context.Context, req *filterfx.Request) (*filterfx.Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, err := kernelOf(req.Spec.Params)
	if err != nil {
		return nil, err
	}

	in := inputOf(req)
	out := &filterfx.Output{Commands: in.Commands, Bounds: in.Bounds}

	if req.Strategy != filterfx.VectorApprox {
		return out, nil
	}

	switch k := kernel.Recognize(m); k {
	case kernel.KnownIdentity:
		// Exact pass-through.
	case kernel.KnownBox:
		out.Fragment = dml.EffectList(dml.Blur(float64(m.Cols) / 2))
	case kernel.KnownSharpen, kernel.KnownEmboss:
		// The contrast change has no vector form; geometry is kept.
	default:
		// Edge detectors reduce filled geometry to its outlines.
		out.Commands = outlines(in.Commands)
	}
	return out, nil
}

// Complexity implements filterfx.Filter. Cost grows with the kernel
// footprint.
func (Convolve) Complexity(p filterfx.Params) float64 {
	n := len(p.Floats("kernelMatrix"))
	if order := p.Float("order", 0); order > 0 {
		return order * order
	}
	return float64(n)
}

// kernelOf builds the kernel matrix from the parameters.
func kernelOf(p filterfx.Params) (kernel.Matrix, error) {
	values := p.Floats("kernelMatrix")
	if len(values) == 0 {
		return kernel.Matrix{}, fmt.Errorf("primitive: convolve needs a kernelMatrix")
	}
	m := kernel.Matrix{Values: values}
	if order := p.Float("order", 0); order > 0 {
		m.Cols = int(order)
		m.Rows = int(order)
	} else {
		side := int(math.Sqrt(float64(len(values))))
		m.Cols, m.Rows = side, side
	}
	if !m.Valid() {
		return kernel.Matrix{}, fmt.Errorf("primitive: kernel order %dx%d does not match %d values",
			m.Cols, m.Rows, len(values))
	}
	return m, nil
}

// outlines converts filled commands to stroked outlines in the fill
// color, approximating an edge-detection result.
func outlines(cmds []drawing.Command) []drawing.Command {
	out := make([]drawing.Command, 0, len(cmds))
	for _, cmd := range cmds {
		switch cmd := cmd.(type) {
		case drawing.PolygonCommand:
			pts := closeRing(cmd.Points)
			out = append(out, drawing.PolylineCommand{
				Points: pts, Color: fillColor(cmd.Fill), Width: 1,
			})
		case drawing.FillRectCommand:
			r := cmd.Rect
			out = append(out, drawing.PolylineCommand{
				Points: []drawing.Point{
					{X: r.MinX, Y: r.MinY},
					{X: r.MaxX, Y: r.MinY},
					{X: r.MaxX, Y: r.MaxY},
					{X: r.MinX, Y: r.MaxY},
					{X: r.MinX, Y: r.MinY},
				},
				Color: fillColor(cmd.Fill), Width: 1,
			})
		default:
			out = append(out, cmd)
		}
	}
	return out
}

// closeRing appends the first point when the ring is open.
func closeRing(pts []drawing.Point) []drawing.Point {
	if len(pts) < 2 || pts[0] == pts[len(pts)-1] {
		return pts
	}
	out := make([]drawing.Point, 0, len(pts)+1)
	out = append(out, pts...)
	return append(out, pts[0])
}
