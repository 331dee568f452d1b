package drawing

// Point is a position in device units.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle in device units.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.MaxX <= r.MinX || r.MaxY <= r.MinY }

// Union returns the smallest rectangle containing both r and other.
func (r Rect) Union(other Rect) Rect {
	if r.Empty() {
		return other
	}
	if other.Empty() {
		return r
	}
	out := r
	if other.MinX < out.MinX {
		out.MinX = other.MinX
	}
	if other.MinY < out.MinY {
		out.MinY = other.MinY
	}
	if other.MaxX > out.MaxX {
		out.MaxX = other.MaxX
	}
	if other.MaxY > out.MaxY {
		out.MaxY = other.MaxY
	}
	return out
}

// Intersect returns the overlap of r and other, or the zero Rect when
// they do not overlap.
func (r Rect) Intersect(other Rect) Rect {
	out := r
	if other.MinX > out.MinX {
		out.MinX = other.MinX
	}
	if other.MinY > out.MinY {
		out.MinY = other.MinY
	}
	if other.MaxX < out.MaxX {
		out.MaxX = other.MaxX
	}
	if other.MaxY < out.MaxY {
		out.MaxY = other.MaxY
	}
	if out.Empty() {
		return Rect{}
	}
	return out
}

// Expand returns the rectangle grown by dx and dy on every side.
// Negative values shrink the rectangle.
func (r Rect) Expand(dx, dy float64) Rect {
	return Rect{
		MinX: r.MinX - dx,
		MinY: r.MinY - dy,
		MaxX: r.MaxX + dx,
		MaxY: r.MaxY + dy,
	}
}

// Translate returns the rectangle shifted by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{
		MinX: r.MinX + dx,
		MinY: r.MinY + dy,
		MaxX: r.MaxX + dx,
		MaxY: r.MaxY + dy,
	}
}
