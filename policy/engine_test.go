package policy

import (
	"testing"

	"github.com/deckfx/filterfx"
	"github.com/deckfx/filterfx/config"
)

func newTestEngine(t *testing.T, cfg config.PolicyConfig) *Engine {
	t.Helper()
	e, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func TestDecideBuiltinTable(t *testing.T) {
	e := newTestEngine(t, config.PolicyConfig{})

	tests := []struct {
		kind filterfx.Kind
		want filterfx.Strategy
	}{
		{filterfx.KindBlur, filterfx.NativeEffect},
		{filterfx.KindOffset, filterfx.NativeEffect},
		{filterfx.KindDropShadow, filterfx.NativeEffect},
		{filterfx.KindMorphology, filterfx.VectorApprox},
		{filterfx.KindComponentTransfer, filterfx.VectorApprox},
		{filterfx.KindTile, filterfx.EMFFallback},
		{filterfx.KindLighting, filterfx.EMFFallback},
		{filterfx.KindDisplacement, filterfx.EMFFallback},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := e.Decide(tt.kind, filterfx.Params{}, 0); got != tt.want {
				t.Errorf("Decide = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecideNeverRaster(t *testing.T) {
	e := newTestEngine(t, config.PolicyConfig{ComplexityThreshold: 0.001})

	params := []filterfx.Params{
		{},
		{"operator": "arithmetic"},
		{"kernelMatrix": []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}},
		{"type": "hueRotate", "value": 90.0},
	}
	for _, kind := range filterfx.Kinds() {
		for _, p := range params {
			for _, complexity := range []float64{0, 1, 100, 1e9} {
				if got := e.Decide(kind, p, complexity); got == filterfx.RasterFallback {
					t.Fatalf("Decide(%v, %v, %g) chose raster", kind, p, complexity)
				}
			}
		}
	}
}

func TestDecideMonotonicInComplexity(t *testing.T) {
	e := newTestEngine(t, config.PolicyConfig{ComplexityThreshold: 5})

	for _, kind := range filterfx.Kinds() {
		prev := e.Decide(kind, filterfx.Params{}, 0)
		for _, complexity := range []float64{1, 4.9, 5.1, 50, 1e6} {
			got := e.Decide(kind, filterfx.Params{}, complexity)
			if got < prev {
				t.Fatalf("Decide(%v) got more capable as complexity rose: %v -> %v", kind, prev, got)
			}
			prev = got
		}
	}
}

func TestDecideComplexityDemotion(t *testing.T) {
	e := newTestEngine(t, config.PolicyConfig{ComplexityThreshold: 10})

	// At the threshold: no demotion.
	if got := e.Decide(filterfx.KindBlur, filterfx.Params{}, 10); got != filterfx.NativeEffect {
		t.Errorf("at threshold = %v, want native", got)
	}
	// Above: one step down.
	if got := e.Decide(filterfx.KindBlur, filterfx.Params{}, 10.1); got != filterfx.VectorApprox {
		t.Errorf("above threshold = %v, want vector", got)
	}
	// EMF is the floor even for huge scores.
	if got := e.Decide(filterfx.KindTile, filterfx.Params{}, 1e9); got != filterfx.EMFFallback {
		t.Errorf("demoted tile = %v, want emf floor", got)
	}
}

func TestDecideConvolveKernels(t *testing.T) {
	e := newTestEngine(t, config.PolicyConfig{})

	sobel := filterfx.Params{
		"kernelMatrix": []float64{-1, 0, 1, -2, 0, 2, -1, 0, 1},
	}
	if got := e.Decide(filterfx.KindConvolve, sobel, 0); got != filterfx.VectorApprox {
		t.Errorf("recognized kernel = %v, want vector", got)
	}

	arbitrary := filterfx.Params{
		"order": 5.0,
		"kernelMatrix": func() []float64 {
			v := make([]float64, 25)
			for i := range v {
				v[i] = float64(i) * 0.01
			}
			return v
		}(),
	}
	if got := e.Decide(filterfx.KindConvolve, arbitrary, 0); got != filterfx.EMFFallback {
		t.Errorf("arbitrary kernel = %v, want emf", got)
	}
}

func TestDecideCompositeOperators(t *testing.T) {
	e := newTestEngine(t, config.PolicyConfig{})

	for _, op := range []string{"over", "in", "out", "atop", "xor"} {
		p := filterfx.Params{"operator": op}
		if got := e.Decide(filterfx.KindComposite, p, 0); got != filterfx.NativeEffect {
			t.Errorf("operator %q = %v, want native", op, got)
		}
	}
	for _, op := range []string{"arithmetic", "multiply", "screen"} {
		p := filterfx.Params{"operator": op}
		if got := e.Decide(filterfx.KindComposite, p, 0); got != filterfx.EMFFallback {
			t.Errorf("operator %q = %v, want emf", op, got)
		}
	}
}

func TestDecideColorMatrixTypes(t *testing.T) {
	e := newTestEngine(t, config.PolicyConfig{})

	tests := []struct {
		typ  string
		want filterfx.Strategy
	}{
		{"saturate", filterfx.NativeEffect},
		{"luminanceToAlpha", filterfx.NativeEffect},
		{"hueRotate", filterfx.VectorApprox},
		{"matrix", filterfx.VectorApprox},
	}
	for _, tt := range tests {
		p := filterfx.Params{"type": tt.typ}
		if got := e.Decide(filterfx.KindColorMatrix, p, 0); got != tt.want {
			t.Errorf("type %q = %v, want %v", tt.typ, got, tt.want)
		}
	}
}

func TestReloadOverrides(t *testing.T) {
	e := newTestEngine(t, config.PolicyConfig{})

	if err := e.Reload(config.PolicyConfig{
		Support: map[string]string{"blur": "emf"},
	}); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if got := e.Decide(filterfx.KindBlur, filterfx.Params{}, 0); got != filterfx.EMFFallback {
		t.Errorf("overridden blur = %v, want emf", got)
	}
	// Kinds not overridden keep the built-in cap.
	if got := e.Decide(filterfx.KindOffset, filterfx.Params{}, 0); got != filterfx.NativeEffect {
		t.Errorf("offset after reload = %v, want native", got)
	}
}

func TestReloadRejectsUnknowns(t *testing.T) {
	e := newTestEngine(t, config.PolicyConfig{})

	if err := e.Reload(config.PolicyConfig{
		Support: map[string]string{"sparkle": "native"},
	}); err == nil {
		t.Error("unknown kind accepted")
	}
	if err := e.Reload(config.PolicyConfig{
		Support: map[string]string{"blur": "raster"},
	}); err == nil {
		t.Error("raster support level accepted")
	}

	// A failed reload leaves the previous table active.
	if got := e.Decide(filterfx.KindBlur, filterfx.Params{}, 0); got != filterfx.NativeEffect {
		t.Errorf("blur after failed reload = %v, want native", got)
	}
}

func TestThresholdDefault(t *testing.T) {
	e := newTestEngine(t, config.PolicyConfig{})
	if got := e.Threshold(); got != config.DefaultComplexityThreshold {
		t.Errorf("Threshold() = %g, want %g", got, config.DefaultComplexityThreshold)
	}
}
