// Package raster renders drawing commands into a PNG payload. It is the
// last-resort output path, reached when metafile encoding fails.
package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"golang.org/x/image/vector"

	"github.com/deckfx/filterfx/drawing"
)

// maxDimension caps the raster size in either axis. Bounds larger than
// the cap are scaled down uniformly.
const maxDimension = 4096

// Render rasterizes a command sequence over the given bounds and encodes
// the result as PNG. Rendering is deterministic: the same commands over
// the same bounds always produce identical bytes.
//
// Text commands are skipped: font handling lives outside the conversion
// core, and the raster path degrades text to its surrounding geometry.
func Render(cmds []drawing.Command, bounds drawing.Rect) ([]byte, error) {
	img, err := Rasterize(cmds, bounds)
	if err != nil {
		return nil, err
	}
	return EncodePNG(img)
}

// Rasterize renders commands into a pixel buffer without encoding it.
// Callers that compose pixels (arithmetic blending) work on the buffer
// and encode afterwards.
func Rasterize(cmds []drawing.Command, bounds drawing.Rect) (*image.RGBA, error) {
	if bounds.Empty() {
		return nil, fmt.Errorf("raster: empty bounds")
	}

	scale := 1.0
	w := int(math.Ceil(bounds.Width()))
	h := int(math.Ceil(bounds.Height()))
	if w > maxDimension || h > maxDimension {
		scale = math.Min(maxDimension/bounds.Width(), maxDimension/bounds.Height())
		w = int(math.Ceil(bounds.Width() * scale))
		h = int(math.Ceil(bounds.Height() * scale))
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	c := canvas{dst: dst, offX: bounds.MinX, offY: bounds.MinY, scale: scale}

	for _, cmd := range cmds {
		switch cmd := cmd.(type) {
		case drawing.PolygonCommand:
			c.fillPolygon(cmd.Points, cmd.Fill)
		case drawing.PolylineCommand:
			c.strokePolyline(cmd.Points, cmd.Color, cmd.Width)
		case drawing.FillRectCommand:
			r := cmd.Rect
			c.fillPolygon([]drawing.Point{
				{X: r.MinX, Y: r.MinY},
				{X: r.MaxX, Y: r.MinY},
				{X: r.MaxX, Y: r.MaxY},
				{X: r.MinX, Y: r.MaxY},
			}, cmd.Fill)
		case drawing.TextCommand:
			// No font machinery here; text is dropped from the raster.
		}
	}

	return dst, nil
}

// EncodePNG serializes a pixel buffer as PNG bytes.
func EncodePNG(img *image.RGBA) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("raster: png encode: %w", err)
	}
	return buf.Bytes(), nil
}

// canvas wraps the destination image with the bounds transform.
type canvas struct {
	dst  *image.RGBA
	offX float64
	offY float64
	// scale maps device units to pixels (1.0 unless bounds exceed the
	// dimension cap).
	scale float64
}

// device maps a point from device units into pixel coordinates.
func (c *canvas) device(p drawing.Point) (float32, float32) {
	return float32((p.X - c.offX) * c.scale), float32((p.Y - c.offY) * c.scale)
}

// fillPolygon rasterizes a filled polygon. Pattern fills are drawn as
// their procedural line tiling, matching what the metafile encoder emits.
func (c *canvas) fillPolygon(pts []drawing.Point, fill drawing.Fill) {
	if len(pts) < 3 {
		return
	}
	switch fill := fill.(type) {
	case drawing.SolidFill:
		c.fillPath(pts, fill.Color)
	case drawing.PatternFill:
		bounds := drawing.PolygonCommand{Points: pts}.Bounds()
		for _, line := range drawing.PatternLines(fill.Kind, bounds, fill.Spacing) {
			c.strokePolyline(line, fill.Color, 1)
		}
	}
}

// fillPath scan-converts a closed path with the vector rasterizer.
func (c *canvas) fillPath(pts []drawing.Point, col drawing.RGBA) {
	r := vector.NewRasterizer(c.dst.Rect.Dx(), c.dst.Rect.Dy())
	x0, y0 := c.device(pts[0])
	r.MoveTo(x0, y0)
	for _, p := range pts[1:] {
		x, y := c.device(p)
		r.LineTo(x, y)
	}
	r.ClosePath()

	src := image.NewUniform(color.NRGBA{R: col.R, G: col.G, B: col.B, A: col.A})
	r.Draw(c.dst, c.dst.Rect, src, image.Point{})
}

// strokePolyline draws each segment as a filled quad of the stroke width.
// Joins are butt-ended; the fallback favors determinism and simplicity
// over stroke fidelity.
func (c *canvas) strokePolyline(pts []drawing.Point, col drawing.RGBA, width float64) {
	if len(pts) < 2 {
		return
	}
	if width <= 0 {
		width = 1
	}
	half := width / 2

	for i := 0; i < len(pts)-1; i++ {
		a, b := pts[i], pts[i+1]
		dx, dy := b.X-a.X, b.Y-a.Y
		length := math.Hypot(dx, dy)
		if length == 0 {
			continue
		}
		// Unit normal scaled to half the stroke width.
		nx, ny := -dy/length*half, dx/length*half
		quad := []drawing.Point{
			{X: a.X + nx, Y: a.Y + ny},
			{X: b.X + nx, Y: b.Y + ny},
			{X: b.X - nx, Y: b.Y - ny},
			{X: a.X - nx, Y: a.Y - ny},
		}
		c.fillPath(quad, col)
	}
}
