package emf

import "github.com/deckfx/filterfx/drawing"

// The fixed pattern-fill table. Hatch and crosshatch map directly onto
// GDI hatch brushes; hexagonal, grid and brick have no GDI equivalent and
// are emitted as procedural polyline tilings over the shape's bounding
// box.

// patternBrush maps a pattern kind to its GDI hatch style.
// The second return is true for procedural patterns with no hatch
// equivalent.
func patternBrush(kind drawing.PatternKind) (hatch uint32, procedural bool) {
	switch kind {
	case drawing.PatternHatch:
		return hatchHorizontal, false
	case drawing.PatternCrosshatch:
		return hatchCross, false
	default:
		return 0, true
	}
}

// writeProceduralPattern expands a procedural pattern fill into polyline
// records tiling the polygon's bounding box.
func (e *encoder) writeProceduralPattern(cmd drawing.PolygonCommand, fill drawing.PatternFill) error {
	lines := drawing.PatternLines(fill.Kind, cmd.Bounds(), fill.Spacing)
	if lines == nil {
		return &EncodingError{Record: "pattern", Err: ErrInvalidRecord}
	}
	for _, pts := range lines {
		if err := e.writePolyline(pts, fill.Color, 1); err != nil {
			return err
		}
	}
	return nil
}
