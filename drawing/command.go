// Package drawing provides the abstract drawing-command model shared by the
// metafile encoder and the raster fallback renderer.
//
// Filter primitives that cannot be expressed as a native presentation effect
// emit their vector output as a sequence of typed command structures. The
// commands are backend-agnostic: the same sequence can be encoded into an
// EMF document or replayed through a software rasterizer.
//
// Commands are plain typed structs rather than a binary stream so they stay
// inspectable in tests and diagnostics; serialization concerns live entirely
// in the consuming backends.
package drawing

// CommandType identifies the type of a drawing command.
type CommandType uint8

const (
	// CmdPolygon fills a closed point sequence.
	CmdPolygon CommandType = iota
	// CmdPolyline strokes an open point sequence.
	CmdPolyline
	// CmdFillRect fills an axis-aligned rectangle.
	CmdFillRect
	// CmdText places a text run at a baseline position.
	CmdText
)

// commandTypeNames maps CommandType values to their string representation.
var commandTypeNames = [...]string{
	CmdPolygon:  "Polygon",
	CmdPolyline: "Polyline",
	CmdFillRect: "FillRect",
	CmdText:     "Text",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is the interface implemented by all drawing commands.
type Command interface {
	// Type returns the CommandType for this command.
	Type() CommandType
	// Bounds returns the axis-aligned bounding box of the command.
	Bounds() Rect
}

// PolygonCommand fills a closed polygon with a fill style.
// The point sequence is implicitly closed; the last point connects back to
// the first.
type PolygonCommand struct {
	// Points are the polygon vertices in drawing order.
	Points []Point
	// Fill is the fill style applied to the polygon interior.
	Fill Fill
}

// Type implements Command.
func (PolygonCommand) Type() CommandType { return CmdPolygon }

// Bounds implements Command.
func (c PolygonCommand) Bounds() Rect { return boundsOf(c.Points) }

// PolylineCommand strokes an open point sequence.
type PolylineCommand struct {
	// Points are the polyline vertices in drawing order.
	Points []Point
	// Color is the stroke color.
	Color RGBA
	// Width is the stroke width in device units.
	Width float64
}

// Type implements Command.
func (PolylineCommand) Type() CommandType { return CmdPolyline }

// Bounds implements Command.
func (c PolylineCommand) Bounds() Rect { return boundsOf(c.Points) }

// FillRectCommand fills an axis-aligned rectangle.
// This is an optimization for the common case of rectangular regions
// (flood fills, tile cells, effect backgrounds).
type FillRectCommand struct {
	// Rect is the rectangle to fill.
	Rect Rect
	// Fill is the fill style applied to the rectangle.
	Fill Fill
}

// Type implements Command.
func (FillRectCommand) Type() CommandType { return CmdFillRect }

// Bounds implements Command.
func (c FillRectCommand) Bounds() Rect { return c.Rect }

// TextCommand places a text run at a baseline position.
// Text survives into the fallback path when a filtered element carries a
// text child that the vector approximation preserves verbatim.
type TextCommand struct {
	// Text is the string to place.
	Text string
	// Origin is the baseline origin of the run.
	Origin Point
	// Color is the text color.
	Color RGBA
}

// Type implements Command.
func (TextCommand) Type() CommandType { return CmdText }

// Bounds implements Command.
func (c TextCommand) Bounds() Rect {
	return Rect{MinX: c.Origin.X, MinY: c.Origin.Y, MaxX: c.Origin.X, MaxY: c.Origin.Y}
}

// BoundsOf returns the union of the bounds of all commands.
// Returns the zero Rect for an empty sequence.
func BoundsOf(cmds []Command) Rect {
	var r Rect
	for i, c := range cmds {
		if i == 0 {
			r = c.Bounds()
			continue
		}
		r = r.Union(c.Bounds())
	}
	return r
}

// boundsOf returns the bounding box of a point sequence.
func boundsOf(pts []Point) Rect {
	var r Rect
	for i, p := range pts {
		if i == 0 {
			r = Rect{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y}
			continue
		}
		if p.X < r.MinX {
			r.MinX = p.X
		}
		if p.Y < r.MinY {
			r.MinY = p.Y
		}
		if p.X > r.MaxX {
			r.MaxX = p.X
		}
		if p.Y > r.MaxY {
			r.MaxY = p.Y
		}
	}
	return r
}
