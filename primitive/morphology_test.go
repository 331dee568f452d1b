package primitive

import (
	"context"
	"testing"

	"github.com/deckfx/filterfx"
	"github.com/deckfx/filterfx/drawing"
)

func TestMorphologyValidation(t *testing.T) {
	m := Morphology{}
	if _, err := m.Apply(context.Background(),
		request(filterfx.KindMorphology, filterfx.VectorApprox,
			filterfx.Params{"radius": -1.0}, vectorInput())); err == nil {
		t.Error("negative radius accepted")
	}
	if _, err := m.Apply(context.Background(),
		request(filterfx.KindMorphology, filterfx.VectorApprox,
			filterfx.Params{"radius": 1.0, "operator": "sparkle"}, vectorInput())); err == nil {
		t.Error("unknown operator accepted")
	}
}

func TestMorphologyZeroRadiusPassesThrough(t *testing.T) {
	in := vectorInput()
	out, err := (Morphology{}).Apply(context.Background(),
		request(filterfx.KindMorphology, filterfx.VectorApprox,
			filterfx.Params{"operator": "dilate"}, in))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(out.Commands) != 1 || out.Bounds != in.Bounds {
		t.Errorf("zero radius changed the output: %d commands over %v", len(out.Commands), out.Bounds)
	}
}

func TestMorphologyDilate(t *testing.T) {
	in := vectorInput()
	out, err := (Morphology{}).Apply(context.Background(),
		request(filterfx.KindMorphology, filterfx.VectorApprox,
			filterfx.Params{"operator": "dilate", "radius": 2.0}, in))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	// A dilated polygon gains a thick outline below the original.
	if len(out.Commands) != 2 {
		t.Fatalf("commands = %d, want outline plus original", len(out.Commands))
	}
	ring := out.Commands[0].(drawing.PolylineCommand)
	if ring.Width != 4 {
		t.Errorf("outline width = %g, want twice the radius", ring.Width)
	}
	if _, ok := out.Commands[1].(drawing.PolygonCommand); !ok {
		t.Errorf("second command = %T, want the original polygon", out.Commands[1])
	}
	if out.Bounds != in.Bounds.Expand(2, 2) {
		t.Errorf("bounds = %v, want grown by the radius", out.Bounds)
	}
}

func TestMorphologyDilateRect(t *testing.T) {
	in := &filterfx.Output{
		Commands: []drawing.Command{
			drawing.FillRectCommand{Rect: drawing.Rect{MaxX: 10, MaxY: 10}},
		},
		Bounds: drawing.Rect{MaxX: 10, MaxY: 10},
	}
	out, err := (Morphology{}).Apply(context.Background(),
		request(filterfx.KindMorphology, filterfx.VectorApprox,
			filterfx.Params{"operator": "dilate", "radius": 3.0}, in))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	rect := out.Commands[0].(drawing.FillRectCommand)
	if rect.Rect != (drawing.Rect{MinX: -3, MinY: -3, MaxX: 13, MaxY: 13}) {
		t.Errorf("dilated rect = %v", rect.Rect)
	}
}

func TestMorphologyErode(t *testing.T) {
	in := &filterfx.Output{
		Commands: []drawing.Command{
			drawing.FillRectCommand{Rect: drawing.Rect{MaxX: 10, MaxY: 10}},
			drawing.FillRectCommand{Rect: drawing.Rect{MaxX: 3, MaxY: 3}},
			drawing.PolylineCommand{Points: []drawing.Point{{}, {X: 5}}, Width: 6},
			drawing.PolylineCommand{Points: []drawing.Point{{}, {X: 5}}, Width: 2},
		},
		Bounds: drawing.Rect{MaxX: 10, MaxY: 10},
	}
	out, err := (Morphology{}).Apply(context.Background(),
		request(filterfx.KindMorphology, filterfx.VectorApprox,
			filterfx.Params{"operator": "erode", "radius": 2.0}, in))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	// The small rect and the thin line are consumed entirely.
	if len(out.Commands) != 2 {
		t.Fatalf("commands = %d, want the two survivors", len(out.Commands))
	}
	rect := out.Commands[0].(drawing.FillRectCommand)
	if rect.Rect != (drawing.Rect{MinX: 2, MinY: 2, MaxX: 8, MaxY: 8}) {
		t.Errorf("eroded rect = %v", rect.Rect)
	}
	line := out.Commands[1].(drawing.PolylineCommand)
	if line.Width != 2 {
		t.Errorf("eroded line width = %g, want 2", line.Width)
	}
	if out.Bounds != in.Bounds.Expand(-2, -2) {
		t.Errorf("bounds = %v, want shrunk by the radius", out.Bounds)
	}
}

func TestMorphologyErodeDropsSmallPolygon(t *testing.T) {
	in := &filterfx.Output{
		Commands: []drawing.Command{
			drawing.PolygonCommand{
				Points: []drawing.Point{{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 1, Y: 3}},
			},
		},
		Bounds: drawing.Rect{MaxX: 3, MaxY: 3},
	}
	out, err := (Morphology{}).Apply(context.Background(),
		request(filterfx.KindMorphology, filterfx.VectorApprox,
			filterfx.Params{"operator": "erode", "radius": 2.0}, in))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(out.Commands) != 0 {
		t.Errorf("commands = %d, want the polygon consumed", len(out.Commands))
	}
}
