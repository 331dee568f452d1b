package drawing

import "math"

// DefaultPatternSpacing is the cell size used when a pattern fill does
// not specify one, in device units.
const DefaultPatternSpacing = 8.0

// PatternLines expands a procedural pattern into polylines tiling the
// given bounds. Tiling walks rows top-to-bottom and cells left-to-right,
// so the output depends only on the inputs; both the metafile encoder and
// the raster renderer draw the same lines.
//
// Hatch and crosshatch are included for backends without a native hatch
// brush; backends that have one (EMF) handle those two kinds themselves.
func PatternLines(kind PatternKind, bounds Rect, spacing float64) [][]Point {
	if spacing <= 0 {
		spacing = DefaultPatternSpacing
	}
	switch kind {
	case PatternHatch:
		return hatchLines(bounds, spacing, false)
	case PatternCrosshatch:
		return hatchLines(bounds, spacing, true)
	case PatternGrid:
		return gridLines(bounds, spacing)
	case PatternBrick:
		return brickLines(bounds, spacing)
	case PatternHexagonal:
		return hexagonLines(bounds, spacing)
	default:
		return nil
	}
}

// hatchLines produces horizontal rules, plus vertical ones for crosshatch.
func hatchLines(b Rect, spacing float64, cross bool) [][]Point {
	var lines [][]Point
	for y := b.MinY; y <= b.MaxY; y += spacing {
		lines = append(lines, []Point{{X: b.MinX, Y: y}, {X: b.MaxX, Y: y}})
	}
	if cross {
		for x := b.MinX; x <= b.MaxX; x += spacing {
			lines = append(lines, []Point{{X: x, Y: b.MinY}, {X: x, Y: b.MaxY}})
		}
	}
	return lines
}

// gridLines produces horizontal and vertical rules spaced by the cell
// size.
func gridLines(b Rect, spacing float64) [][]Point {
	lines := hatchLines(b, spacing, true)
	return lines
}

// brickLines produces courses of spacing-height rows with head joints
// offset by half a brick on alternating rows.
func brickLines(b Rect, spacing float64) [][]Point {
	brickW := spacing * 2
	var lines [][]Point

	row := 0
	for y := b.MinY; y <= b.MaxY; y += spacing {
		lines = append(lines, []Point{{X: b.MinX, Y: y}, {X: b.MaxX, Y: y}})
		offset := 0.0
		if row%2 == 1 {
			offset = brickW / 2
		}
		yEnd := math.Min(y+spacing, b.MaxY)
		for x := b.MinX + offset; x <= b.MaxX; x += brickW {
			lines = append(lines, []Point{{X: x, Y: y}, {X: x, Y: yEnd}})
		}
		row++
	}
	return lines
}

// hexagonLines tiles pointy-top hexagon outlines with the given edge
// length.
func hexagonLines(b Rect, edge float64) [][]Point {
	hexW := edge * math.Sqrt(3)
	hexH := edge * 2
	var lines [][]Point

	row := 0
	for cy := b.MinY; cy <= b.MaxY+hexH; cy += hexH * 0.75 {
		offset := 0.0
		if row%2 == 1 {
			offset = hexW / 2
		}
		for cx := b.MinX + offset; cx <= b.MaxX+hexW; cx += hexW {
			outline := make([]Point, 0, 7)
			for i := 0; i < 7; i++ {
				angle := math.Pi/6 + float64(i)*math.Pi/3
				outline = append(outline, Point{
					X: cx + edge*math.Cos(angle),
					Y: cy + edge*math.Sin(angle),
				})
			}
			lines = append(lines, outline)
		}
		row++
	}
	return lines
}
