package drawing

// RGBA is a color with 8-bit non-premultiplied channels.
type RGBA struct {
	R, G, B, A uint8
}

// Fill represents a fill style for polygon and rectangle commands.
// This is a sealed interface - only types in this package implement it.
//
// The two implementations mirror what the metafile encoder can express
// directly: a solid color, or an entry from the fixed procedural pattern
// table.
type Fill interface {
	// fillMarker is an unexported method that seals this interface.
	fillMarker()
}

// SolidFill is a solid color fill.
type SolidFill struct {
	Color RGBA
}

func (SolidFill) fillMarker() {}

// PatternKind selects a procedural pattern from the fixed fill table.
type PatternKind uint8

const (
	// PatternHatch is evenly spaced horizontal lines.
	PatternHatch PatternKind = iota
	// PatternCrosshatch is horizontal and vertical lines forming squares.
	PatternCrosshatch
	// PatternHexagonal tiles the region with hexagon outlines.
	PatternHexagonal
	// PatternGrid is a rectangular grid of cells.
	PatternGrid
	// PatternBrick is offset rectangular courses like brickwork.
	PatternBrick
)

// patternKindNames maps PatternKind values to their string representation.
var patternKindNames = [...]string{
	PatternHatch:      "Hatch",
	PatternCrosshatch: "Crosshatch",
	PatternHexagonal:  "Hexagonal",
	PatternGrid:       "Grid",
	PatternBrick:      "Brick",
}

// String returns the string representation of a PatternKind.
func (k PatternKind) String() string {
	if int(k) < len(patternKindNames) {
		return patternKindNames[k]
	}
	return "Unknown"
}

// PatternFill fills with a procedural pattern in the foreground color.
type PatternFill struct {
	// Kind selects the pattern from the fixed table.
	Kind PatternKind
	// Color is the pattern foreground color.
	Color RGBA
	// Spacing is the pattern cell size in device units.
	// Zero means the pattern's default spacing.
	Spacing float64
}

func (PatternFill) fillMarker() {}
