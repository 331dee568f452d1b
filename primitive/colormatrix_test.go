package primitive

import (
	"context"
	"testing"

	"github.com/deckfx/filterfx"
	"github.com/deckfx/filterfx/dml"
	"github.com/deckfx/filterfx/drawing"
)

func colorOf(t *testing.T, out *filterfx.Output) drawing.RGBA {
	t.Helper()
	poly, ok := out.Commands[0].(drawing.PolygonCommand)
	if !ok {
		t.Fatalf("command = %T, want a polygon", out.Commands[0])
	}
	return poly.Fill.(drawing.SolidFill).Color
}

func TestColorMatrixRequires20Values(t *testing.T) {
	_, err := (ColorMatrix{}).Apply(context.Background(),
		request(filterfx.KindColorMatrix, filterfx.VectorApprox, filterfx.Params{
			"type":   "matrix",
			"values": []float64{1, 0, 0},
		}, vectorInput()))
	if err == nil {
		t.Error("short matrix accepted")
	}
}

func TestColorMatrixUnknownType(t *testing.T) {
	_, err := (ColorMatrix{}).Apply(context.Background(),
		request(filterfx.KindColorMatrix, filterfx.VectorApprox,
			filterfx.Params{"type": "sparkle"}, vectorInput()))
	if err == nil {
		t.Error("unknown type accepted")
	}
}

func TestColorMatrixIdentity(t *testing.T) {
	out, err := (ColorMatrix{}).Apply(context.Background(),
		request(filterfx.KindColorMatrix, filterfx.VectorApprox, filterfx.Params{
			"type": "matrix",
			"values": []float64{
				1, 0, 0, 0, 0,
				0, 1, 0, 0, 0,
				0, 0, 1, 0, 0,
				0, 0, 0, 1, 0,
			},
		}, vectorInput()))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := colorOf(t, out); got != (drawing.RGBA{R: 255, A: 255}) {
		t.Errorf("identity changed the color to %+v", got)
	}
}

func TestColorMatrixDesaturate(t *testing.T) {
	out, err := (ColorMatrix{}).Apply(context.Background(),
		request(filterfx.KindColorMatrix, filterfx.VectorApprox, filterfx.Params{
			"type": "saturate", "value": 0.0,
		}, vectorInput()))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	got := colorOf(t, out)
	if got.R != got.G || got.G != got.B {
		t.Errorf("desaturated red = %+v, want equal channels", got)
	}
	if got.R != 54 {
		t.Errorf("gray level = %d, want the red luminance weight", got.R)
	}
	if got.A != 255 {
		t.Errorf("alpha = %d, want preserved", got.A)
	}
}

func TestColorMatrixLuminanceToAlpha(t *testing.T) {
	out, err := (ColorMatrix{}).Apply(context.Background(),
		request(filterfx.KindColorMatrix, filterfx.VectorApprox,
			filterfx.Params{"type": "luminanceToAlpha"}, vectorInput()))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	got := colorOf(t, out)
	if got.R != 0 || got.G != 0 || got.B != 0 {
		t.Errorf("color channels = %+v, want zeroed", got)
	}
	if got.A != 54 {
		t.Errorf("alpha = %d, want the red luminance", got.A)
	}
}

func TestColorMatrixNativeFragments(t *testing.T) {
	tests := []struct {
		name   string
		params filterfx.Params
		want   string
	}{
		{"saturate zero", filterfx.Params{"type": "saturate", "value": 0.0}, dml.Grayscale()},
		{"saturate partial", filterfx.Params{"type": "saturate", "value": 0.5}, ""},
		{"luminanceToAlpha", filterfx.Params{"type": "luminanceToAlpha"}, dml.Grayscale()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := (ColorMatrix{}).Apply(context.Background(),
				request(filterfx.KindColorMatrix, filterfx.NativeEffect, tt.params, vectorInput()))
			if err != nil {
				t.Fatalf("Apply: %v", err)
			}
			if out.Fragment != tt.want {
				t.Errorf("Fragment = %q, want %q", out.Fragment, tt.want)
			}
		})
	}
}

func TestColorMatrixHueRotatePreservesGray(t *testing.T) {
	gray := &filterfx.Output{
		Commands: []drawing.Command{
			drawing.PolygonCommand{
				Points: []drawing.Point{{}, {X: 1}, {Y: 1}},
				Fill:   drawing.SolidFill{Color: drawing.RGBA{R: 128, G: 128, B: 128, A: 255}},
			},
		},
		Bounds: drawing.Rect{MaxX: 1, MaxY: 1},
	}
	out, err := (ColorMatrix{}).Apply(context.Background(),
		request(filterfx.KindColorMatrix, filterfx.VectorApprox,
			filterfx.Params{"type": "hueRotate", "value": 90.0}, gray))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	got := colorOf(t, out)
	for _, ch := range []uint8{got.R, got.G, got.B} {
		if ch < 127 || ch > 129 {
			t.Errorf("hue-rotated gray = %+v, want still gray", got)
			break
		}
	}
}
