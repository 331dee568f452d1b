package dml

import (
	"testing"

	"github.com/deckfx/filterfx/drawing"
)

func TestEMU(t *testing.T) {
	tests := []struct {
		in   float64
		want int64
	}{
		{0, 0},
		{1, 9525},
		{96, EMUPerInch},
		{-2, -19050},
		{0.5, 4763},
	}
	for _, tt := range tests {
		if got := EMU(tt.in); got != tt.want {
			t.Errorf("EMU(%g) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestDegrees(t *testing.T) {
	tests := []struct {
		in   float64
		want int64
	}{
		{0, 0},
		{45, 2700000},
		{360, 0},
		{-90, 16200000},
		{405, 2700000},
	}
	for _, tt := range tests {
		if got := Degrees(tt.in); got != tt.want {
			t.Errorf("Degrees(%g) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		in   float64
		want int64
	}{
		{0, 0},
		{0.5, 50000},
		{1, 100000},
		{1.5, 100000},
		{-0.2, 0},
	}
	for _, tt := range tests {
		if got := Percent(tt.in); got != tt.want {
			t.Errorf("Percent(%g) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestColorHex(t *testing.T) {
	if got := ColorHex(drawing.RGBA{R: 0xAB, G: 0x0C, B: 0xD0}); got != "AB0CD0" {
		t.Errorf("ColorHex = %q, want AB0CD0", got)
	}
}

func TestBlur(t *testing.T) {
	if got := Blur(1); got != `<a:blur rad="9525"/>` {
		t.Errorf("Blur = %q", got)
	}
}

func TestSolidFillOpaque(t *testing.T) {
	got := SolidFill(drawing.RGBA{R: 255, A: 255})
	want := `<a:solidFill><a:srgbClr val="FF0000"/></a:solidFill>`
	if got != want {
		t.Errorf("SolidFill = %q, want %q", got, want)
	}
}

func TestSolidFillTranslucent(t *testing.T) {
	got := SolidFill(drawing.RGBA{B: 255, A: 51})
	want := `<a:solidFill><a:srgbClr val="0000FF"><a:alpha val="20000"/></a:srgbClr></a:solidFill>`
	if got != want {
		t.Errorf("SolidFill = %q, want %q", got, want)
	}
}

func TestOuterShadow(t *testing.T) {
	got := OuterShadow(4, 2, 45, drawing.RGBA{A: 255})
	want := `<a:outerShdw blurRad="38100" dist="19050" dir="2700000"><a:srgbClr val="000000"/></a:outerShdw>`
	if got != want {
		t.Errorf("OuterShadow = %q, want %q", got, want)
	}
}

func TestOffset(t *testing.T) {
	got := Offset(2, -3)
	want := `<a:xfrm><a:off x="19050" y="-28575"/></a:xfrm>`
	if got != want {
		t.Errorf("Offset = %q, want %q", got, want)
	}
}

func TestEffectList(t *testing.T) {
	got := EffectList(Blur(1), "", Grayscale())
	want := `<a:effectLst><a:blur rad="9525"/><a:grayscl/></a:effectLst>`
	if got != want {
		t.Errorf("EffectList = %q, want %q", got, want)
	}

	if got := EffectList(); got != `<a:effectLst></a:effectLst>` {
		t.Errorf("empty EffectList = %q", got)
	}
}

func TestLuminance(t *testing.T) {
	got := Luminance(0.25, -0.5)
	want := `<a:lum bright="25000" contrast="-50000"/>`
	if got != want {
		t.Errorf("Luminance = %q, want %q", got, want)
	}
}
