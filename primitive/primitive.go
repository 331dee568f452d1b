// Package primitive implements the built-in filter primitive set.
//
// Each primitive shapes its output for the strategy the policy engine
// chose: a native effect fragment, a recolored or restructured vector
// command sequence, or plain commands destined for the metafile
// encoder. Primitives are pure functions of their request; the same
// request always yields the same output.
package primitive

import (
	"fmt"
	"math"

	"github.com/deckfx/filterfx"
	"github.com/deckfx/filterfx/drawing"
)

// Register installs the built-in primitive set on a registry.
// Callers wanting a different implementation for a kind register it
// afterwards; last registration wins.
func Register(r *filterfx.Registry) {
	r.Register(filterfx.KindBlur, func() filterfx.Filter { return Blur{} })
	r.Register(filterfx.KindOffset, func() filterfx.Filter { return Offset{} })
	r.Register(filterfx.KindMerge, func() filterfx.Filter { return Merge{} })
	r.Register(filterfx.KindFlood, func() filterfx.Filter { return Flood{} })
	r.Register(filterfx.KindComposite, func() filterfx.Filter { return Composite{} })
	r.Register(filterfx.KindColorMatrix, func() filterfx.Filter { return ColorMatrix{} })
	r.Register(filterfx.KindConvolve, func() filterfx.Filter { return Convolve{} })
	r.Register(filterfx.KindMorphology, func() filterfx.Filter { return Morphology{} })
	r.Register(filterfx.KindLighting, func() filterfx.Filter { return Lighting{} })
	r.Register(filterfx.KindDisplacement, func() filterfx.Filter { return Displacement{} })
	r.Register(filterfx.KindTile, func() filterfx.Filter { return Tile{} })
	r.Register(filterfx.KindComponentTransfer, func() filterfx.Filter { return ComponentTransfer{} })
	r.Register(filterfx.KindDropShadow, func() filterfx.Filter { return DropShadow{} })
}

// NewRegistry returns a registry with the built-in set installed.
func NewRegistry() *filterfx.Registry {
	r := filterfx.NewRegistry()
	Register(r)
	return r
}

// parseColor parses a #RRGGBB or #RGB color string. opacity scales the
// alpha channel as a unit fraction.
func parseColor(s string, opacity float64) (drawing.RGBA, error) {
	var r, g, b uint8
	switch len(s) {
	case 7:
		if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
			return drawing.RGBA{}, fmt.Errorf("primitive: bad color %q", s)
		}
	case 4:
		if _, err := fmt.Sscanf(s, "#%1x%1x%1x", &r, &g, &b); err != nil {
			return drawing.RGBA{}, fmt.Errorf("primitive: bad color %q", s)
		}
		r, g, b = r*17, g*17, b*17
	default:
		return drawing.RGBA{}, fmt.Errorf("primitive: bad color %q", s)
	}
	return drawing.RGBA{R: r, G: g, B: b, A: clampByte(opacity * 255)}, nil
}

// colorParam reads a color/opacity parameter pair with a default color.
func colorParam(p filterfx.Params, colorKey, opacityKey string, def drawing.RGBA) (drawing.RGBA, error) {
	opacity := p.Float(opacityKey, 1)
	s := p.String(colorKey, "")
	if s == "" {
		def.A = clampByte(opacity * float64(def.A))
		return def, nil
	}
	return parseColor(s, opacity)
}

func clampByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}

// translate shifts every command by a fixed vector.
func translate(cmds []drawing.Command, dx, dy float64) []drawing.Command {
	out := make([]drawing.Command, len(cmds))
	for i, cmd := range cmds {
		switch cmd := cmd.(type) {
		case drawing.PolygonCommand:
			cmd.Points = translatePoints(cmd.Points, dx, dy)
			out[i] = cmd
		case drawing.PolylineCommand:
			cmd.Points = translatePoints(cmd.Points, dx, dy)
			out[i] = cmd
		case drawing.FillRectCommand:
			cmd.Rect = cmd.Rect.Translate(dx, dy)
			out[i] = cmd
		case drawing.TextCommand:
			cmd.Origin = drawing.Point{X: cmd.Origin.X + dx, Y: cmd.Origin.Y + dy}
			out[i] = cmd
		default:
			out[i] = cmd
		}
	}
	return out
}

func translatePoints(pts []drawing.Point, dx, dy float64) []drawing.Point {
	out := make([]drawing.Point, len(pts))
	for i, p := range pts {
		out[i] = drawing.Point{X: p.X + dx, Y: p.Y + dy}
	}
	return out
}

// recolor maps every command color through fn, leaving geometry alone.
func recolor(cmds []drawing.Command, fn func(drawing.RGBA) drawing.RGBA) []drawing.Command {
	out := make([]drawing.Command, len(cmds))
	for i, cmd := range cmds {
		switch cmd := cmd.(type) {
		case drawing.PolygonCommand:
			cmd.Fill = recolorFill(cmd.Fill, fn)
			out[i] = cmd
		case drawing.PolylineCommand:
			cmd.Color = fn(cmd.Color)
			out[i] = cmd
		case drawing.FillRectCommand:
			cmd.Fill = recolorFill(cmd.Fill, fn)
			out[i] = cmd
		case drawing.TextCommand:
			cmd.Color = fn(cmd.Color)
			out[i] = cmd
		default:
			out[i] = cmd
		}
	}
	return out
}

func recolorFill(f drawing.Fill, fn func(drawing.RGBA) drawing.RGBA) drawing.Fill {
	switch fill := f.(type) {
	case drawing.SolidFill:
		fill.Color = fn(fill.Color)
		return fill
	case drawing.PatternFill:
		fill.Color = fn(fill.Color)
		return fill
	}
	return f
}

// fillColorOf returns a command's dominant color, used when a silhouette
// of the command is drawn (shadows, dilation outlines).
func fillColorOf(cmd drawing.Command) drawing.RGBA {
	switch cmd := cmd.(type) {
	case drawing.PolygonCommand:
		return fillColor(cmd.Fill)
	case drawing.PolylineCommand:
		return cmd.Color
	case drawing.FillRectCommand:
		return fillColor(cmd.Fill)
	case drawing.TextCommand:
		return cmd.Color
	}
	return drawing.RGBA{A: 255}
}

func fillColor(f drawing.Fill) drawing.RGBA {
	switch fill := f.(type) {
	case drawing.SolidFill:
		return fill.Color
	case drawing.PatternFill:
		return fill.Color
	}
	return drawing.RGBA{A: 255}
}

// inputOf returns the request's primary input, defaulting to an empty
// output so primitives never see nil.
func inputOf(req *filterfx.Request) *filterfx.Output {
	if req.In != nil {
		return req.In
	}
	return &filterfx.Output{Bounds: req.Spec.Region}
}
