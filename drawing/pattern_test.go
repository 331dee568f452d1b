package drawing

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPatternLinesHatch(t *testing.T) {
	b := Rect{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}
	lines := PatternLines(PatternHatch, b, 5)

	// Horizontal rules at y = 0, 5, 10.
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	want := []Point{{X: 0, Y: 5}, {X: 10, Y: 5}}
	if diff := cmp.Diff(want, lines[1]); diff != "" {
		t.Errorf("second rule mismatch (-want +got):\n%s", diff)
	}
}

func TestPatternLinesCrosshatch(t *testing.T) {
	b := Rect{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}
	lines := PatternLines(PatternCrosshatch, b, 5)
	// 3 horizontal + 3 vertical.
	if len(lines) != 6 {
		t.Fatalf("got %d lines, want 6", len(lines))
	}
}

func TestPatternLinesDefaultSpacing(t *testing.T) {
	b := Rect{MinX: 0, MinY: 0, MaxX: 16, MaxY: 16}
	zero := PatternLines(PatternHatch, b, 0)
	def := PatternLines(PatternHatch, b, DefaultPatternSpacing)
	if diff := cmp.Diff(def, zero); diff != "" {
		t.Errorf("zero spacing should use the default (-want +got):\n%s", diff)
	}
}

func TestPatternLinesDeterministic(t *testing.T) {
	b := Rect{MinX: -3, MinY: 2, MaxX: 47, MaxY: 31}
	for _, kind := range []PatternKind{
		PatternHatch, PatternCrosshatch, PatternHexagonal, PatternGrid, PatternBrick,
	} {
		first := PatternLines(kind, b, 6)
		second := PatternLines(kind, b, 6)
		if len(first) == 0 {
			t.Errorf("%v produced no lines", kind)
		}
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("%v not deterministic (-first +second):\n%s", kind, diff)
		}
	}
}

func TestPatternLinesHexagonOutlines(t *testing.T) {
	b := Rect{MinX: 0, MinY: 0, MaxX: 20, MaxY: 20}
	lines := PatternLines(PatternHexagonal, b, 5)
	if len(lines) == 0 {
		t.Fatal("no hexagon outlines")
	}
	for _, outline := range lines {
		if len(outline) != 7 {
			t.Fatalf("hexagon outline has %d points, want 7 (closed)", len(outline))
		}
		if dx := outline[0].X - outline[6].X; dx > 1e-9 || dx < -1e-9 {
			t.Fatal("hexagon outline is not closed")
		}
		if dy := outline[0].Y - outline[6].Y; dy > 1e-9 || dy < -1e-9 {
			t.Fatal("hexagon outline is not closed")
		}
	}
}

func TestPatternLinesUnknownKind(t *testing.T) {
	if lines := PatternLines(PatternKind(99), Rect{MaxX: 10, MaxY: 10}, 5); lines != nil {
		t.Errorf("unknown kind produced %d lines, want nil", len(lines))
	}
}
